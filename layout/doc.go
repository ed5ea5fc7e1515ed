// Package layout provides layout analysis for recognized page content.
//
// This package groups line-level geometry into semantic structure. Its core
// is paragraph reconstruction: deciding, from vertical spacing and
// horizontal alignment alone, which recognized lines belong to the same
// paragraph.
//
// # Paragraph Detection
//
// The [ParagraphDetector] groups an ordered sequence of line boxes into
// paragraph spans:
//
//	detector := layout.NewParagraphDetector()
//	spans := detector.Detect(lines)
//
// Each [Span] covers a contiguous run of input lines; together the spans
// partition the input exactly, in top-to-bottom order.
//
// # Configuration
//
// Detection thresholds can be tuned for unusual scans:
//
//	config := layout.DefaultParagraphConfig()
//	config.IndentTolerance = 60
//	detector := layout.NewParagraphDetectorWithConfig(config)
//
// Detection is a single greedy top-to-bottom pass; once a boundary is
// drawn it is never revisited.
package layout
