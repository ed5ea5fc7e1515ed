package htmldoc

import (
	"bytes"
	"fmt"
	"strings"

	treeblood "github.com/wyatt915/goldmark-treeblood"
	"github.com/yuin/goldmark"
)

// md converts display math to MathML. One instance serves all renders;
// goldmark converters are stateless across Convert calls.
var md = goldmark.New(
	goldmark.WithExtensions(
		treeblood.MathML(),
	),
)

// RenderMathML converts formula source to MathML markup. The source is
// treated as display math; inline placement is the container's concern,
// not the markup's.
func RenderMathML(source string) (string, error) {
	wrapped := "$$" + source + "$$"

	var buf bytes.Buffer
	if err := md.Convert([]byte(wrapped), &buf); err != nil {
		return "", fmt.Errorf("htmldoc: render formula: %w", err)
	}

	return strings.TrimSpace(buf.String()), nil
}
