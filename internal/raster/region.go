package raster

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Region is an immutable rectangular pixel buffer in RGBA order.
//
// The buffer is row-major with 4 bytes per pixel, so the pixel at (x, y)
// starts at offset (y*Width + x) * 4. Regions are produced by FromImage or
// ExtractSquare and are never modified afterwards.
type Region struct {
	// Width of the region in pixels.
	Width int

	// Height of the region in pixels.
	Height int

	// Pix holds the raw RGBA samples, row-major, 4 bytes per pixel.
	Pix []uint8
}

// FromImage copies an entire image into a new Region.
//
// The source image is cloned into NRGBA form first, so YCbCr JPEG frames and
// paletted images all land in the same 4-channel layout.
func FromImage(img image.Image) *Region {
	nrgba := imaging.Clone(img)
	b := nrgba.Bounds()

	r := &Region{
		Width:  b.Dx(),
		Height: b.Dy(),
		Pix:    make([]uint8, b.Dx()*b.Dy()*4),
	}
	for y := 0; y < r.Height; y++ {
		src := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+r.Width*4]
		copy(r.Pix[y*r.Width*4:], src)
	}
	return r
}

// ExtractSquare extracts a size×size Region centered on (cx, cy), clamping
// the rectangle to the frame bounds.
//
// Points near the frame edge yield a smaller region than requested; a center
// entirely outside the frame is an error. Callers that need a minimum usable
// area (the corner extractor wants at least 7×7) must check the returned
// dimensions themselves.
func ExtractSquare(frame image.Image, cx, cy, size int) (*Region, error) {
	if size <= 0 {
		return nil, fmt.Errorf("region size must be positive, got %d", size)
	}

	bounds := frame.Bounds()
	half := size / 2
	rect := image.Rect(cx-half, cy-half, cx-half+size, cy-half+size)
	rect = rect.Intersect(bounds)
	if rect.Empty() {
		return nil, fmt.Errorf("region center (%d,%d) outside frame bounds %v", cx, cy, bounds)
	}

	return FromImage(imaging.Crop(frame, rect)), nil
}

// Luminance returns the ITU-R BT.601 luminance of the pixel at (x, y)
// in the range [0, 255]. Formula: Y = 0.299*R + 0.587*G + 0.114*B.
//
// No bounds checking is performed; callers must ensure coordinates are valid.
func (r *Region) Luminance(x, y int) float64 {
	off := (y*r.Width + x) * 4
	return 0.299*float64(r.Pix[off]) + 0.587*float64(r.Pix[off+1]) + 0.114*float64(r.Pix[off+2])
}

// RGBA returns the 8-bit color components of the pixel at (x, y).
//
// No bounds checking is performed; callers must ensure coordinates are valid.
func (r *Region) RGBA(x, y int) (red, green, blue, alpha uint8) {
	off := (y*r.Width + x) * 4
	return r.Pix[off], r.Pix[off+1], r.Pix[off+2], r.Pix[off+3]
}
