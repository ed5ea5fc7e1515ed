package layout

import (
	"math"
	"sort"

	"github.com/tsawler/reflow/model"
)

// Span represents a contiguous run of lines judged to belong to one
// paragraph. Start and End are inclusive indices into the detector's input
// after sorting by YMin; YStart and YEnd are the vertical pixel bounds the
// span covers.
type Span struct {
	Start  int
	End    int
	YStart float64
	YEnd   float64
}

// LineCount returns the number of lines covered by the span.
func (s Span) LineCount() int {
	return s.End - s.Start + 1
}

// ParagraphConfig holds configuration for paragraph detection
type ParagraphConfig struct {
	// GapFactor is the multiplier applied to the median inter-line gap to
	// derive the paragraph-break threshold.
	// Default: 1.5
	GapFactor float64

	// MinGapTolerance is the absolute floor for the break threshold, in
	// pixels. It prevents false splits on documents whose natural line
	// spacing is tiny.
	// Default: 8 pixels
	MinGapTolerance float64

	// IndentTolerance is the maximum left-edge difference, in pixels, for
	// two lines to remain in one paragraph. A larger shift signals a new
	// indent and therefore a new paragraph.
	// Default: 40 pixels
	IndentTolerance float64

	// MinOverlapRatio is the minimum shared fraction of horizontal extent
	// for two lines to remain in one paragraph. It rejects merging lines
	// that occupy disjoint columns.
	// Default: 0.6
	MinOverlapRatio float64
}

// DefaultParagraphConfig returns sensible default configuration
func DefaultParagraphConfig() ParagraphConfig {
	return ParagraphConfig{
		GapFactor:       1.5,
		MinGapTolerance: 8.0,
		IndentTolerance: 40.0,
		MinOverlapRatio: 0.6,
	}
}

// ParagraphDetector groups recognized lines into paragraphs
type ParagraphDetector struct {
	config ParagraphConfig
}

// NewParagraphDetector creates a new paragraph detector with default configuration
func NewParagraphDetector() *ParagraphDetector {
	return &ParagraphDetector{
		config: DefaultParagraphConfig(),
	}
}

// NewParagraphDetectorWithConfig creates a paragraph detector with custom configuration
func NewParagraphDetectorWithConfig(config ParagraphConfig) *ParagraphDetector {
	return &ParagraphDetector{
		config: config,
	}
}

// Detect groups line boxes into paragraph spans.
//
// The input is sorted by YMin internally; the returned spans index the
// sorted order, so callers that correlate spans with per-line payloads
// should sort those payloads by the same key first. The input slice itself
// is never modified.
//
// The returned spans partition the input exactly: contiguous, non-empty,
// non-overlapping, in top-to-bottom order. Detection is a single greedy
// pass; once a boundary is drawn it is never revisited.
//
// Malformed geometry (any box without positive extent) degrades to a single
// span covering the whole page rather than failing.
func (d *ParagraphDetector) Detect(lines []model.LineBox) []Span {
	if len(lines) == 0 {
		return nil
	}

	sorted := make([]model.LineBox, len(lines))
	copy(sorted, lines)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].YMin < sorted[j].YMin
	})

	if len(sorted) == 1 {
		return []Span{buildSpan(sorted, 0, 0)}
	}

	// Degraded geometry: group everything rather than split on garbage.
	for _, b := range sorted {
		if !b.IsValid() {
			return []Span{buildSpan(sorted, 0, len(sorted)-1)}
		}
	}

	// Calculate the break threshold from the document's own line rhythm.
	medianGap := medianPositiveGap(sorted)
	gapThreshold := math.Max(d.config.GapFactor*medianGap, d.config.MinGapTolerance)

	// Single greedy pass: close the current span whenever an adjacent pair
	// fails the merge rule.
	var spans []Span
	start := 0

	for i := 0; i < len(sorted)-1; i++ {
		if !d.sameParagraph(sorted[i], sorted[i+1], gapThreshold) {
			spans = append(spans, buildSpan(sorted, start, i))
			start = i + 1
		}
	}

	// The final open span is always closed.
	spans = append(spans, buildSpan(sorted, start, len(sorted)-1))

	return spans
}

// sameParagraph reports whether two vertically adjacent lines belong to the
// same paragraph. All three conditions must hold.
func (d *ParagraphDetector) sameParagraph(upper, lower model.LineBox, gapThreshold float64) bool {
	// 1. Vertical gap below the break threshold
	if upper.VerticalGap(lower) >= gapThreshold {
		return false
	}

	// 2. Shared left margin
	if upper.IndentDiff(lower) >= d.config.IndentTolerance {
		return false
	}

	// 3. Shared horizontal extent (rejects two-column neighbors)
	if upper.HorizontalOverlap(lower) <= d.config.MinOverlapRatio {
		return false
	}

	return true
}

// medianPositiveGap returns the median of the positive vertical gaps
// between adjacent lines. Gaps of zero or less come from overlapping boxes
// and are excluded rather than counted as zero. Returns 0 when no positive
// gap exists, which collapses the break threshold to MinGapTolerance.
func medianPositiveGap(lines []model.LineBox) float64 {
	gaps := make([]float64, 0, len(lines)-1)
	for i := 0; i < len(lines)-1; i++ {
		if gap := lines[i].VerticalGap(lines[i+1]); gap > 0 {
			gaps = append(gaps, gap)
		}
	}

	if len(gaps) == 0 {
		return 0
	}

	sort.Float64s(gaps)
	mid := len(gaps) / 2
	if len(gaps)%2 == 0 {
		return (gaps[mid-1] + gaps[mid]) / 2
	}
	return gaps[mid]
}

// buildSpan creates a Span over lines[start..end] inclusive.
func buildSpan(lines []model.LineBox, start, end int) Span {
	yStart := lines[start].YMin
	yEnd := lines[start].YMax

	for _, b := range lines[start+1 : end+1] {
		if b.YMin < yStart {
			yStart = b.YMin
		}
		if b.YMax > yEnd {
			yEnd = b.YMax
		}
	}

	return Span{
		Start:  start,
		End:    end,
		YStart: yStart,
		YEnd:   yEnd,
	}
}
