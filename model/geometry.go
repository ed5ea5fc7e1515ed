package model

import "math"

// LineBox represents the bounding box of a single recognized text line, in
// raster pixel coordinates. The origin is the top-left corner of the page
// image, so YMin is the top edge of the line and YMax the bottom edge.
type LineBox struct {
	XMin   float64
	YMin   float64
	XMax   float64
	YMax   float64
	Height float64
}

// NewLineBox creates a line box from edge coordinates. Height is derived
// from the vertical extent.
func NewLineBox(xMin, yMin, xMax, yMax float64) LineBox {
	return LineBox{
		XMin:   xMin,
		YMin:   yMin,
		XMax:   xMax,
		YMax:   yMax,
		Height: yMax - yMin,
	}
}

// Width returns the horizontal extent of the line box.
func (b LineBox) Width() float64 {
	return b.XMax - b.XMin
}

// VerticalGap returns the whitespace between this line and the line below
// it. The result is negative when the two boxes overlap vertically.
func (b LineBox) VerticalGap(below LineBox) float64 {
	return below.YMin - b.YMax
}

// IndentDiff returns the absolute difference between the left edges of the
// two lines. Lines sharing a left margin have a small indent difference.
func (b LineBox) IndentDiff(other LineBox) float64 {
	return math.Abs(other.XMin - b.XMin)
}

// HorizontalOverlap returns the ratio of shared horizontal extent to total
// horizontal extent, in [0, 1]. Two lines stacked in the same column score
// near 1; lines in disjoint columns score 0. A degenerate union is treated
// as no overlap.
func (b LineBox) HorizontalOverlap(other LineBox) float64 {
	overlap := math.Min(b.XMax, other.XMax) - math.Max(b.XMin, other.XMin)
	union := math.Max(b.XMax, other.XMax) - math.Min(b.XMin, other.XMin)

	if union <= 0 {
		return 0
	}
	if overlap < 0 {
		return 0
	}

	return overlap / union
}

// Union returns the smallest line box covering both boxes.
func (b LineBox) Union(other LineBox) LineBox {
	return NewLineBox(
		math.Min(b.XMin, other.XMin),
		math.Min(b.YMin, other.YMin),
		math.Max(b.XMax, other.XMax),
		math.Max(b.YMax, other.YMax),
	)
}

// IsValid returns true if the box has positive extent in both dimensions.
func (b LineBox) IsValid() bool {
	return b.XMax > b.XMin && b.YMax > b.YMin
}
