// Package overlay renders tracking and detection state onto a frame for
// visual inspection. The output is a base64-encoded PNG so it can travel
// inline in a tool response.
package overlay

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/fairwaylabs/launchmeter/internal/detect"
	"github.com/fairwaylabs/launchmeter/internal/marker"
)

const crosshairArm = 8

// Result contains the rendered overlay image.
type Result struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
	Markers     int    `json:"markers"`
	Detections  int    `json:"detections"`
}

// Render draws marker positions and detection clusters onto a copy of img.
//
// Markers are drawn as crosshairs, hue-keyed by marker index with the color
// washed out as tracking quality drops. Clusters are drawn as labeled
// bounding boxes.
func Render(img image.Image, markers []marker.TrackResult, clusters []detect.Cluster) (*Result, error) {
	if img == nil {
		return nil, fmt.Errorf("overlay: nil image")
	}

	bounds := img.Bounds()
	canvas := image.NewRGBA(bounds)
	draw.Draw(canvas, bounds, img, bounds.Min, draw.Src)

	for _, m := range markers {
		drawMarker(canvas, m)
	}
	for _, c := range clusters {
		drawCluster(canvas, c)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("failed to encode overlay: %w", err)
	}

	return &Result{
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
		Markers:     len(markers),
		Detections:  len(clusters),
	}, nil
}

// markerColor assigns each marker index a distinct hue and fades saturation
// toward gray as quality decays, so a drifting marker is visibly stale.
func markerColor(index int, quality float64) color.RGBA {
	if quality < 0 {
		quality = 0
	}
	if quality > 1 {
		quality = 1
	}
	hue := float64((index * 77) % 360)
	c := colorful.Hsv(hue, 0.3+0.7*quality, 1)
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func drawMarker(canvas *image.RGBA, m marker.TrackResult) {
	col := markerColor(m.Index, m.Quality)
	cx, cy := m.X, m.Y

	for d := -crosshairArm; d <= crosshairArm; d++ {
		setIfInside(canvas, cx+d, cy, col)
		setIfInside(canvas, cx, cy+d, col)
	}

	label := fmt.Sprintf("M%d %.0f%%", m.Index, m.Quality*100)
	if !m.Found {
		label = fmt.Sprintf("M%d lost", m.Index)
	}
	drawText(canvas, cx+crosshairArm+2, cy+4, label, col)
}

func drawCluster(canvas *image.RGBA, c detect.Cluster) {
	col := color.RGBA{R: 64, G: 255, B: 64, A: 255}
	x0 := int(c.Box.X)
	y0 := int(c.Box.Y)
	x1 := int(c.Box.X + c.Box.Width)
	y1 := int(c.Box.Y + c.Box.Height)

	drawRect(canvas, x0, y0, x1, y1, col)
	drawText(canvas, x0, y0-3, fmt.Sprintf("%s %.2f", c.Label, c.Confidence), col)
}

func drawRect(canvas *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	for x := x0; x <= x1; x++ {
		setIfInside(canvas, x, y0, col)
		setIfInside(canvas, x, y1, col)
	}
	for y := y0; y <= y1; y++ {
		setIfInside(canvas, x0, y, col)
		setIfInside(canvas, x1, y, col)
	}
}

func setIfInside(canvas *image.RGBA, x, y int, col color.RGBA) {
	if image.Pt(x, y).In(canvas.Bounds()) {
		canvas.SetRGBA(x, y, col)
	}
}

func drawText(canvas *image.RGBA, x, y int, text string, col color.RGBA) {
	d := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
