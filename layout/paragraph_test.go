package layout

import (
	"testing"

	"github.com/tsawler/reflow/model"
)

// makeLine creates a test line box from position and size
func makeLine(x, y, width, height float64) model.LineBox {
	return model.NewLineBox(x, y, x+width, y+height)
}

// checkPartition verifies that spans cover every input index exactly once,
// in order, with no empty span
func checkPartition(t *testing.T, spans []Span, lineCount int) {
	t.Helper()

	if lineCount == 0 {
		if len(spans) != 0 {
			t.Fatalf("expected no spans for empty input, got %d", len(spans))
		}
		return
	}

	next := 0
	for i, s := range spans {
		if s.Start != next {
			t.Errorf("span %d starts at %d, want %d", i, s.Start, next)
		}
		if s.End < s.Start {
			t.Errorf("span %d is empty: start %d end %d", i, s.Start, s.End)
		}
		next = s.End + 1
	}
	if next != lineCount {
		t.Errorf("spans cover %d lines, want %d", next, lineCount)
	}
}

func TestParagraphDetector_EmptyLines(t *testing.T) {
	detector := NewParagraphDetector()

	spans := detector.Detect(nil)
	if spans != nil {
		t.Errorf("expected nil spans for empty input, got %v", spans)
	}
}

func TestParagraphDetector_SingleLine(t *testing.T) {
	detector := NewParagraphDetector()

	spans := detector.Detect([]model.LineBox{
		makeLine(72, 100, 200, 12),
	})

	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Start != 0 || spans[0].End != 0 {
		t.Errorf("span = %+v, want (0,0)", spans[0])
	}
	if spans[0].YStart != 100 || spans[0].YEnd != 112 {
		t.Errorf("span bounds = (%v,%v), want (100,112)", spans[0].YStart, spans[0].YEnd)
	}
}

func TestParagraphDetector_GapScenario(t *testing.T) {
	// Three full-width lines: a 2px gap inside a paragraph, then a 38px
	// break before the next one.
	detector := NewParagraphDetector()

	lines := []model.LineBox{
		model.NewLineBox(0, 0, 100, 10),
		model.NewLineBox(0, 12, 100, 22),
		model.NewLineBox(0, 60, 100, 70),
	}

	spans := detector.Detect(lines)
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d: %v", len(spans), spans)
	}
	if spans[0].Start != 0 || spans[0].End != 1 {
		t.Errorf("first span = (%d,%d), want (0,1)", spans[0].Start, spans[0].End)
	}
	if spans[1].Start != 2 || spans[1].End != 2 {
		t.Errorf("second span = (%d,%d), want (2,2)", spans[1].Start, spans[1].End)
	}
	checkPartition(t, spans, len(lines))
}

func TestParagraphDetector_TouchingLinesMerge(t *testing.T) {
	// Identical horizontal extent and zero vertical gap: always one
	// paragraph.
	detector := NewParagraphDetector()

	spans := detector.Detect([]model.LineBox{
		model.NewLineBox(10, 0, 200, 10),
		model.NewLineBox(10, 10, 200, 20),
	})

	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Start != 0 || spans[0].End != 1 {
		t.Errorf("span = (%d,%d), want (0,1)", spans[0].Start, spans[0].End)
	}
}

func TestParagraphDetector_LargeGapAlwaysSplits(t *testing.T) {
	// Perfect alignment and overlap cannot save a pair whose gap reaches
	// the threshold.
	detector := NewParagraphDetector()

	lines := []model.LineBox{
		makeLine(72, 0, 200, 12),
		makeLine(72, 14, 200, 12), // gap 2
		makeLine(72, 28, 200, 12), // gap 2
		makeLine(72, 90, 200, 12), // gap 50
	}

	spans := detector.Detect(lines)
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d: %v", len(spans), spans)
	}
	if spans[0].End != 2 || spans[1].Start != 3 {
		t.Errorf("split at wrong boundary: %v", spans)
	}
	checkPartition(t, spans, len(lines))
}

func TestParagraphDetector_IndentSplits(t *testing.T) {
	detector := NewParagraphDetector()

	lines := []model.LineBox{
		makeLine(72, 0, 200, 12),
		makeLine(72, 14, 200, 12),
		makeLine(130, 28, 200, 12), // left edge shifts 58px
	}

	spans := detector.Detect(lines)
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d: %v", len(spans), spans)
	}
	if spans[0].End != 1 {
		t.Errorf("expected split after line 1, got %v", spans)
	}
}

func TestParagraphDetector_TwoColumnNoMerge(t *testing.T) {
	// Side-by-side columns interleave vertically but share no horizontal
	// extent; nothing should merge across them. The indent check fires too,
	// but the overlap check alone must reject the pair, so the tolerance is
	// widened to isolate it.
	config := DefaultParagraphConfig()
	config.IndentTolerance = 1000
	detector := NewParagraphDetectorWithConfig(config)

	lines := []model.LineBox{
		makeLine(0, 0, 100, 10),   // left column
		makeLine(120, 2, 100, 10), // right column
	}

	spans := detector.Detect(lines)
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans for disjoint columns, got %d", len(spans))
	}
}

func TestParagraphDetector_SortsByTopEdge(t *testing.T) {
	detector := NewParagraphDetector()

	// Same three lines as the gap scenario, arrival order scrambled.
	lines := []model.LineBox{
		model.NewLineBox(0, 60, 100, 70),
		model.NewLineBox(0, 0, 100, 10),
		model.NewLineBox(0, 12, 100, 22),
	}

	spans := detector.Detect(lines)
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	if spans[0].Start != 0 || spans[0].End != 1 || spans[1].Start != 2 {
		t.Errorf("spans = %v, want [(0,1),(2,2)] over sorted order", spans)
	}

	// Input order is untouched.
	if lines[0].YMin != 60 {
		t.Error("Detect modified its input slice")
	}
}

func TestParagraphDetector_OverlappingLinesUseFloorThreshold(t *testing.T) {
	// Every gap is negative, so the median is 0 and the break threshold
	// falls back to the absolute floor.
	detector := NewParagraphDetector()

	lines := []model.LineBox{
		makeLine(10, 0, 200, 12),
		makeLine(10, 10, 200, 12), // gap -2
		makeLine(10, 20, 200, 12), // gap -2
	}

	spans := detector.Detect(lines)
	if len(spans) != 1 {
		t.Fatalf("expected dense overlapping lines to form 1 span, got %d", len(spans))
	}
	checkPartition(t, spans, len(lines))
}

func TestParagraphDetector_DegradedGeometry(t *testing.T) {
	// A zero-extent box means the geometry cannot be trusted; the whole
	// page becomes one paragraph instead of an error.
	detector := NewParagraphDetector()

	lines := []model.LineBox{
		makeLine(10, 0, 200, 12),
		model.NewLineBox(50, 30, 50, 30), // no extent
		makeLine(10, 90, 200, 12),
	}

	spans := detector.Detect(lines)
	if len(spans) != 1 {
		t.Fatalf("expected 1 degraded span, got %d", len(spans))
	}
	if spans[0].Start != 0 || spans[0].End != 2 {
		t.Errorf("degraded span = %+v, want (0,2)", spans[0])
	}
}

func TestParagraphDetector_PartitionProperty(t *testing.T) {
	detector := NewParagraphDetector()

	tests := []struct {
		name  string
		lines []model.LineBox
	}{
		{
			name: "uniform page",
			lines: []model.LineBox{
				makeLine(72, 0, 300, 14),
				makeLine(72, 18, 300, 14),
				makeLine(72, 36, 300, 14),
				makeLine(72, 54, 300, 14),
			},
		},
		{
			name: "mixed breaks",
			lines: []model.LineBox{
				makeLine(72, 0, 300, 14),
				makeLine(72, 18, 300, 14),
				makeLine(72, 80, 300, 14),
				makeLine(140, 98, 300, 14),
				makeLine(72, 180, 300, 14),
			},
		},
		{
			name: "single line",
			lines: []model.LineBox{
				makeLine(72, 0, 120, 14),
			},
		},
		{
			name:  "empty",
			lines: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spans := detector.Detect(tt.lines)
			checkPartition(t, spans, len(tt.lines))
		})
	}
}

func TestMedianPositiveGap(t *testing.T) {
	tests := []struct {
		name  string
		lines []model.LineBox
		want  float64
	}{
		{
			name: "odd count",
			lines: []model.LineBox{
				makeLine(0, 0, 100, 10),
				makeLine(0, 12, 100, 10), // gap 2
				makeLine(0, 30, 100, 10), // gap 8
				makeLine(0, 80, 100, 10), // gap 40
			},
			want: 8,
		},
		{
			name: "even count averages middle pair",
			lines: []model.LineBox{
				makeLine(0, 0, 100, 10),
				makeLine(0, 12, 100, 10), // gap 2
				makeLine(0, 60, 100, 10), // gap 38
			},
			want: 20,
		},
		{
			name: "negative gaps excluded",
			lines: []model.LineBox{
				makeLine(0, 0, 100, 10),
				makeLine(0, 8, 100, 10),  // gap -2
				makeLine(0, 24, 100, 10), // gap 6
			},
			want: 6,
		},
		{
			name: "no positive gaps",
			lines: []model.LineBox{
				makeLine(0, 0, 100, 10),
				makeLine(0, 8, 100, 10),
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := medianPositiveGap(tt.lines); got != tt.want {
				t.Errorf("medianPositiveGap = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSpanLineCount(t *testing.T) {
	s := Span{Start: 2, End: 5}
	if s.LineCount() != 4 {
		t.Errorf("LineCount = %d, want 4", s.LineCount())
	}
}
