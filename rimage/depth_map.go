package rimage

import (
	"bufio"
	"compress/gzip"
	"encoding/binary"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// DepthMap holds per-pixel depth readings in meters. A value of zero or less
// means the sensor had no reading at that pixel. Depth maps are typically a
// lower resolution than the color frame they accompany.
type DepthMap struct {
	width, height int
	data          []float32
}

// NewEmptyDepthMap returns an all-invalid (zero) depth map.
func NewEmptyDepthMap(width, height int) *DepthMap {
	return &DepthMap{
		width:  width,
		height: height,
		data:   make([]float32, width*height),
	}
}

// Width returns the depth map width in pixels.
func (dm *DepthMap) Width() int { return dm.width }

// Height returns the depth map height in pixels.
func (dm *DepthMap) Height() int { return dm.height }

// In reports whether (x, y) lies within the depth map.
func (dm *DepthMap) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < dm.width && y < dm.height
}

// GetDepth returns the reading at (x, y) in meters.
func (dm *DepthMap) GetDepth(x, y int) float32 {
	return dm.data[y*dm.width+x]
}

// Set stores a reading at (x, y) in meters.
func (dm *DepthMap) Set(x, y int, meters float32) {
	dm.data[y*dm.width+x] = meters
}

// MinMax returns the smallest and largest valid readings, ignoring invalid
// pixels. Returns (0, 0) if the map has no valid readings.
func (dm *DepthMap) MinMax() (float32, float32) {
	min := float32(math.MaxFloat32)
	max := float32(0)
	found := false
	for _, z := range dm.data {
		if z <= 0 {
			continue
		}
		found = true
		if z < min {
			min = z
		}
		if z > max {
			max = z
		}
	}
	if !found {
		return 0, 0
	}
	return min, max
}

// depthMagic marks the serialized float32 depth map format.
var depthMagic = [4]byte{'F', 'D', 'M', '1'}

// maxDepthMapDim guards against nonsense headers when reading.
const maxDepthMapDim = 100000

// ParseDepthMap reads a depth map from a file, transparently handling gzip
// for .gz paths.
func ParseDepthMap(fn string) (*DepthMap, error) {
	//nolint:gosec
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var in io.Reader = f
	if filepath.Ext(fn) == ".gz" {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		in = gz
	}
	return ReadDepthMap(bufio.NewReader(in))
}

// ReadDepthMap reads the binary depth map format: a 4 byte magic, uint32
// width and height, then width*height little-endian float32 meters row-major.
func ReadDepthMap(r io.Reader) (*DepthMap, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, errors.Wrap(err, "cannot read depth map header")
	}
	if magic != depthMagic {
		return nil, errors.Errorf("bad magic for depth map: %q", magic[:])
	}

	var dims [2]uint32
	if err := binary.Read(r, binary.LittleEndian, &dims); err != nil {
		return nil, errors.Wrap(err, "cannot read depth map dimensions")
	}
	width, height := int(dims[0]), int(dims[1])
	if width <= 0 || width >= maxDepthMapDim || height <= 0 || height >= maxDepthMapDim {
		return nil, errors.Errorf("bad width or height for depth map %d %d", width, height)
	}

	dm := NewEmptyDepthMap(width, height)
	if err := binary.Read(r, binary.LittleEndian, dm.data); err != nil {
		return nil, errors.Wrap(err, "cannot read depth map samples")
	}
	return dm, nil
}

// WriteToFile writes the depth map to a file, gzipping for .gz paths.
func (dm *DepthMap) WriteToFile(fn string) error {
	//nolint:gosec
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	defer f.Close()

	var out io.Writer = f
	var gz *gzip.Writer
	if filepath.Ext(fn) == ".gz" {
		gz = gzip.NewWriter(f)
		out = gz
	}

	if err := dm.WriteTo(out); err != nil {
		return err
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			return err
		}
	}
	return f.Sync()
}

// WriteTo writes the binary depth map format described in ReadDepthMap.
func (dm *DepthMap) WriteTo(out io.Writer) error {
	if _, err := out.Write(depthMagic[:]); err != nil {
		return err
	}
	dims := [2]uint32{uint32(dm.width), uint32(dm.height)}
	if err := binary.Write(out, binary.LittleEndian, dims); err != nil {
		return err
	}
	return binary.Write(out, binary.LittleEndian, dm.data)
}
