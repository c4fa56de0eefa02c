// Package utils contains small helpers shared across the frame pipeline.
package utils

import (
	"image"
	"math"
	"runtime"
	"sync"

	goutils "go.viam.com/utils"
)

// ParallelFactor controls the max level of parallelization. This might be useful
// to set in tests where too much parallelism actually slows tests down in
// aggregate.
var ParallelFactor = runtime.GOMAXPROCS(0)

func init() {
	if ParallelFactor <= 0 {
		ParallelFactor = 1
	}
}

// ParallelForEachPixel loops through the image and calls f for each [x, y] position.
// The image is divided into horizontal bands, one per available worker. f must not
// touch pixels outside its own (x, y).
func ParallelForEachPixel(size image.Point, f func(x, y int)) {
	procs := ParallelFactor
	if size.Y < procs {
		procs = 1
	}
	bandHeight := int(math.Ceil(float64(size.Y) / float64(procs)))
	var wait sync.WaitGroup
	for i := 0; i < procs; i++ {
		startY := i * bandHeight
		endY := startY + bandHeight
		if endY > size.Y {
			endY = size.Y
		}
		if startY >= endY {
			continue
		}
		sY, eY := startY, endY
		wait.Add(1)
		goutils.PanicCapturingGo(func() {
			defer wait.Done()
			for y := sY; y < eY; y++ {
				for x := 0; x < size.X; x++ {
					f(x, y)
				}
			}
		})
	}
	wait.Wait()
}
