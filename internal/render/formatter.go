// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"bytes"
	"html"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
	gmutil "github.com/yuin/goldmark/util"
)

// DefaultCodeStyle is the chroma style used for highlighted code.
const DefaultCodeStyle = "github"

// Formatter converts markdown to an HTML fragment. When allowRaw is false,
// raw HTML in the input must be omitted from the output.
type Formatter interface {
	Format(markdown string, allowRaw bool) (string, error)
}

// MarkdownFormatter is the goldmark-backed Formatter.
type MarkdownFormatter struct {
	safe   goldmark.Markdown // raw HTML omitted
	unsafe goldmark.Markdown // raw HTML kept for the sanitizer
	code   *codeRenderer
}

// NewMarkdownFormatter builds a formatter with GitHub flavored markdown,
// hard line breaks and chroma highlighting using codeStyle.
func NewMarkdownFormatter(codeStyle string) *MarkdownFormatter {
	code := newCodeRenderer(codeStyle)
	build := func(rawHTML bool) goldmark.Markdown {
		opts := []renderer.Option{goldmarkhtml.WithHardWraps()}
		if rawHTML {
			opts = append(opts, goldmarkhtml.WithUnsafe())
		}
		return goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(opts...),
			goldmark.WithRendererOptions(
				renderer.WithNodeRenderers(gmutil.Prioritized(code, 200)),
			),
		)
	}
	return &MarkdownFormatter{
		safe:   build(false),
		unsafe: build(true),
		code:   code,
	}
}

// Format implements Formatter.
func (f *MarkdownFormatter) Format(markdown string, allowRaw bool) (string, error) {
	md := f.safe
	if allowRaw {
		md = f.unsafe
	}
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// CodeCSS returns the highlight stylesheet for a chroma style name.
func CodeCSS(styleName string) string {
	return newCodeRenderer(styleName).css()
}

// =============================================================================
// CODE BLOCKS
// =============================================================================

// codeRenderer renders fenced code blocks with chroma using CSS classes
// instead of inline styles, so the sanitizer only has to allow "class".
type codeRenderer struct {
	formatter *chromahtml.Formatter
	style     *chroma.Style
}

func newCodeRenderer(styleName string) *codeRenderer {
	style := chromaStyles.Get(styleName)
	if style == nil {
		style = chromaStyles.Fallback
	}
	return &codeRenderer{
		formatter: chromahtml.New(chromahtml.WithClasses(true)),
		style:     style,
	}
}

func (r *codeRenderer) css() string {
	var buf bytes.Buffer
	if err := r.formatter.WriteCSS(&buf, r.style); err != nil {
		return ""
	}
	return buf.String()
}

// RegisterFuncs implements renderer.NodeRenderer.
func (r *codeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCode)
}

func (r *codeRenderer) renderFencedCode(w gmutil.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)

	var code bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		code.Write(seg.Value(source))
	}

	var lang string
	if n.Info != nil {
		lang = string(n.Language(source))
	}
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Analyse(code.String())
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code.String())
	if err == nil {
		err = r.formatter.Format(w, r.style, iterator)
	}
	if err != nil {
		// Plain block if highlighting fails
		_, _ = w.WriteString("<pre><code>")
		_, _ = w.WriteString(html.EscapeString(code.String()))
		_, _ = w.WriteString("</code></pre>\n")
	}
	return ast.WalkSkipChildren, nil
}
