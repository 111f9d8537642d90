// Package annotate draws detection results onto frames.
package annotate

import (
	"github.com/bmharper/cimg/v2"
	"github.com/buscount/buscount/server/detect"
)

const boxThickness = 2

// Red, in the RGB channel order our frames use
var boxColor = [3]byte{255, 0, 0}

// DrawBoxes draws each detection as a fixed-style rectangle directly into the
// frame's pixel buffer. The mutated frame is the one that gets encoded and
// stored, so the persisted artifact is the annotated frame, not the raw one.
func DrawBoxes(img *cimg.Image, dets []detect.Detection) {
	for _, d := range dets {
		drawRect(img, d.Box)
	}
}

func drawRect(img *cimg.Image, r detect.Rect) {
	x1, y1 := int(r.X), int(r.Y)
	x2, y2 := int(r.X2()), int(r.Y2())
	for t := 0; t < boxThickness; t++ {
		hline(img, x1, x2, y1+t)
		hline(img, x1, x2, y2-1-t)
		vline(img, x1+t, y1, y2)
		vline(img, x2-1-t, y1, y2)
	}
}

func hline(img *cimg.Image, x1, x2, y int) {
	if y < 0 || y >= img.Height {
		return
	}
	x1 = max(x1, 0)
	x2 = min(x2, img.Width)
	nchan := img.NChan()
	row := img.Pixels[y*img.Stride:]
	for x := x1; x < x2; x++ {
		copy(row[x*nchan:x*nchan+3], boxColor[:])
	}
}

func vline(img *cimg.Image, x, y1, y2 int) {
	if x < 0 || x >= img.Width {
		return
	}
	y1 = max(y1, 0)
	y2 = min(y2, img.Height)
	nchan := img.NChan()
	for y := y1; y < y2; y++ {
		p := y*img.Stride + x*nchan
		copy(img.Pixels[p:p+3], boxColor[:])
	}
}
