package handler

import (
	"bytes"
	"html/template"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

var (
	jsonLexer     = chroma.Coalesce(lexers.Get("json"))
	jsonStyle     = styles.Get("github")
	jsonFormatter = chromahtml.New(chromahtml.TabWidth(2))
)

// highlightJSON renders source as a syntax highlighted <pre> block. If
// highlighting fails the source is shown escaped and unstyled.
func (h *StudentHandler) highlightJSON(source string) template.HTML {
	var buf bytes.Buffer
	iterator, err := jsonLexer.Tokenise(nil, source)
	if err == nil {
		err = jsonFormatter.Format(&buf, jsonStyle, iterator)
	}
	if err != nil {
		h.logger.Warn("failed to highlight course", "error", err)
		return template.HTML("<pre>" + template.HTMLEscapeString(source) + "</pre>")
	}
	return template.HTML(buf.String())
}
