package detect

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/anthonynsimon/bild/transform"
)

// padGray is the letterbox padding value, the mid-gray conventional for
// YOLO-family inputs.
var padGray = color.RGBA{114, 114, 114, 255}

// PrepareInput letterboxes a frame into the detector's square input.
//
// The frame is resized preserving aspect ratio so its longer side equals
// inputSize, then centered on an inputSize×inputSize gray canvas. The
// returned Letterbox is the transform Decode needs to map raw rows back
// into original-frame pixel coordinates.
//
// This helper lives on the capture side of the external inference boundary:
// the core never runs the model, but whoever does needs the exact same
// letterbox geometry the decoder assumes.
func PrepareInput(frame image.Image, inputSize int) (*image.RGBA, Letterbox) {
	bounds := frame.Bounds()
	lb := FitLetterbox(bounds.Dx(), bounds.Dy(), inputSize)

	resized := transform.Resize(frame, int(lb.RenderWidth), int(lb.RenderHeight), transform.Linear)

	canvas := image.NewRGBA(image.Rect(0, 0, inputSize, inputSize))
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{C: padGray}, image.Point{}, draw.Src)

	target := image.Rect(
		int(lb.OffsetX), int(lb.OffsetY),
		int(lb.OffsetX)+resized.Bounds().Dx(), int(lb.OffsetY)+resized.Bounds().Dy(),
	)
	draw.Draw(canvas, target, resized, image.Point{}, draw.Src)

	return canvas, lb
}
