package detect

import (
	"errors"
	"fmt"
)

// ErrDecodeFormat is returned when the raw tensor does not have the expected
// per-row shape. Decoding aborts for the whole frame; a malformed tensor
// means the model output contract is broken, not that one box is bad.
var ErrDecodeFormat = errors.New("detect: unrecognized raw tensor shape")

// minRowLength is the shortest valid row: box (4) + objectness (1) + at
// least one class score.
const minRowLength = 6

// UnknownLabel is assigned to detections whose class index is outside the
// configured label list. Unknown classes are kept, not dropped, so decoded
// totals stay auditable.
const UnknownLabel = "unknown"

// Box is an axis-aligned bounding box in original-image pixel coordinates,
// anchored at its top-left corner.
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Detection is one decoded, confidence-gated bounding box.
type Detection struct {
	// Label is the class name, or "unknown" for out-of-range indices.
	Label string `json:"label"`

	// ClassIndex is the raw argmax index over the row's class scores.
	ClassIndex int `json:"class_index"`

	// Confidence is objectness * best class score, in [0,1]. Always at or
	// above the decode threshold.
	Confidence float64 `json:"confidence"`

	// Box is the bounding box in original-image pixels.
	Box Box `json:"box"`
}

// Letterbox describes how the original image was placed into the model's
// fixed square input: scaled to RenderWidth×RenderHeight preserving aspect
// ratio, then offset by (OffsetX, OffsetY) inside the InputSize×InputSize
// canvas, with padding filling the rest.
type Letterbox struct {
	// InputSize is the side length of the square model input in pixels.
	InputSize float64 `json:"input_size"`

	// OffsetX, OffsetY is the top-left corner of the rendered image inside
	// the model input.
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`

	// RenderWidth, RenderHeight is the size the original image was scaled
	// to before padding.
	RenderWidth  float64 `json:"render_width"`
	RenderHeight float64 `json:"render_height"`
}

// FitLetterbox computes the aspect-preserving placement of a width×height
// image inside a square model input of the given size.
func FitLetterbox(width, height, inputSize int) Letterbox {
	scale := float64(inputSize) / float64(width)
	if height > width {
		scale = float64(inputSize) / float64(height)
	}
	renderW := float64(width) * scale
	renderH := float64(height) * scale

	return Letterbox{
		InputSize:    float64(inputSize),
		OffsetX:      (float64(inputSize) - renderW) / 2,
		OffsetY:      (float64(inputSize) - renderH) / 2,
		RenderWidth:  renderW,
		RenderHeight: renderH,
	}
}

// Decode converts raw detector rows into confidence-gated detections in
// original-image pixel coordinates.
//
// Parameters:
//   - rows: raw per-box rows [cx, cy, w, h, objConf, classConf0, ...] with
//     coordinates normalized to [0,1] of the model input size.
//   - imageWidth, imageHeight: original image dimensions in pixels.
//   - lb: the letterbox transform used to prepare the model input.
//   - threshold: minimum objConf*classConf for a row to survive.
//   - labels: class names by index; out-of-range indices label as "unknown".
//
// Returns ErrDecodeFormat if any row is shorter than 6 values or rows have
// inconsistent lengths; the whole frame is rejected in that case.
//
// # Box Decode
//
// Normalized center/size scale up to model-input pixels, the letterbox
// offset maps them into the rendered (non-padding) rectangle, and the
// render-to-original ratio maps them to original-image pixels. Rows whose
// box lies entirely outside the rendered rectangle are padding artifacts
// and are discarded. Surviving boxes convert to top-left form with X and Y
// clamped to zero.
func Decode(rows [][]float64, imageWidth, imageHeight int, lb Letterbox, threshold float64, labels []string) ([]Detection, error) {
	detections := make([]Detection, 0, len(rows))

	rowLen := -1
	for i, row := range rows {
		if len(row) < minRowLength {
			return nil, fmt.Errorf("%w: row %d has %d values, want at least %d",
				ErrDecodeFormat, i, len(row), minRowLength)
		}
		if rowLen == -1 {
			rowLen = len(row)
		} else if len(row) != rowLen {
			return nil, fmt.Errorf("%w: row %d has %d values, previous rows had %d",
				ErrDecodeFormat, i, len(row), rowLen)
		}

		objConf := row[4]
		classIndex := 0
		classConf := row[5]
		for c, score := range row[5:] {
			if score > classConf {
				classConf, classIndex = score, c
			}
		}

		confidence := objConf * classConf
		if confidence < threshold {
			continue
		}

		// Normalized -> model-input pixels -> rendered-image pixels.
		cx := row[0]*lb.InputSize - lb.OffsetX
		cy := row[1]*lb.InputSize - lb.OffsetY
		w := row[2] * lb.InputSize
		h := row[3] * lb.InputSize

		// Entirely inside the padding: not a real detection.
		if cx+w/2 < 0 || cx-w/2 > lb.RenderWidth ||
			cy+h/2 < 0 || cy-h/2 > lb.RenderHeight {
			continue
		}

		scaleX := float64(imageWidth) / lb.RenderWidth
		scaleY := float64(imageHeight) / lb.RenderHeight

		box := Box{
			X:      (cx - w/2) * scaleX,
			Y:      (cy - h/2) * scaleY,
			Width:  w * scaleX,
			Height: h * scaleY,
		}
		if box.X < 0 {
			box.X = 0
		}
		if box.Y < 0 {
			box.Y = 0
		}

		label := UnknownLabel
		if classIndex < len(labels) {
			label = labels[classIndex]
		}

		detections = append(detections, Detection{
			Label:      label,
			ClassIndex: classIndex,
			Confidence: confidence,
			Box:        box,
		})
	}

	return detections, nil
}
