// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type errFormatter struct{}

func (errFormatter) Format(string, bool) (string, error) { return "", errors.New("broken") }

type panicFormatter struct{}

func (panicFormatter) Format(string, bool) (string, error) { panic("formatter exploded") }

type panicSanitizer struct{}

func (panicSanitizer) Sanitize(string) string { panic("sanitizer exploded") }

func loaded(t *testing.T, opts Options) *Pipeline {
	t.Helper()
	p := NewPipeline()
	select {
	case <-p.Load(context.Background(), opts):
	case <-time.After(5 * time.Second):
		t.Fatal("load did not finish")
	}
	return p
}

func TestPreformatted(t *testing.T) {
	in := `a & b <c> "d" 'e'`
	want := SafeMarkup(`<pre>a &amp; b &lt;c&gt; &#34;d&#34; &#39;e&#39;</pre>`)
	assert.Equal(t, want, Preformatted(in))
	assert.Equal(t, Preformatted(in), Preformatted(in))
}

func TestRender_NoFormatterFallsBack(t *testing.T) {
	p := NewPipeline()
	in := "# Title\n<script>alert(1)</script>"

	first := p.Render(in)
	assert.Equal(t, Preformatted(in), first)
	assert.Equal(t, first, p.Render(in))
	assert.NotContains(t, first.String(), "<script>")
}

func TestRender_FormatterErrorFallsBack(t *testing.T) {
	p := NewPipeline()
	require.True(t, p.SetFormatter(errFormatter{}))
	assert.Equal(t, Preformatted("**x**"), p.Render("**x**"))
}

func TestRender_PanicIsContained(t *testing.T) {
	p := NewPipeline()
	p.SetFormatter(panicFormatter{})
	assert.Equal(t, Preformatted("hi"), p.Render("hi"))

	p2 := loaded(t, Options{Markdown: true})
	p2.SetSanitizer(panicSanitizer{})
	assert.Equal(t, Preformatted("hi"), p2.Render("hi"))
}

func TestRender_ScriptStripped(t *testing.T) {
	p := loaded(t, DefaultOptions())
	require.True(t, p.FormatterReady())
	require.True(t, p.SanitizerReady())

	out := p.Render("hello <script>alert('x')</script> **world**").String()
	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "alert(")
	assert.Contains(t, out, "<strong>world</strong>")
}

func TestRender_DangerousAttributesStripped(t *testing.T) {
	p := loaded(t, DefaultOptions())

	out := p.Render(`<img src="x" onerror="alert(1)"> [link](javascript:alert(1))`).String()
	assert.NotContains(t, out, "onerror")
	assert.NotContains(t, out, "javascript:")
}

func TestRender_WithoutSanitizerOmitsRawHTML(t *testing.T) {
	p := loaded(t, Options{Markdown: true})
	require.False(t, p.SanitizerReady())

	out := p.Render("before <b onclick=\"x()\">bold</b> after").String()
	assert.NotContains(t, out, "onclick")
	assert.NotContains(t, out, "<b ")
	assert.Contains(t, out, "before")
}

func TestRender_Markdown(t *testing.T) {
	p := loaded(t, DefaultOptions())

	out := p.Render("# Heading\n\nline one\nline two\n\n| a | b |\n|---|---|\n| 1 | 2 |").String()
	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "<br")
	assert.Contains(t, out, "<table>")
}

func TestRender_CodeHighlightKeepsClasses(t *testing.T) {
	p := loaded(t, DefaultOptions())

	out := p.Render("```go\nfunc main() {}\n```").String()
	assert.Contains(t, out, `class="chroma"`)
	assert.Contains(t, out, "main")
	assert.NotContains(t, out, "style=")
}

func TestLoad_DisabledCapabilities(t *testing.T) {
	p := loaded(t, Options{})
	assert.False(t, p.FormatterReady())
	assert.False(t, p.SanitizerReady())
	assert.Equal(t, Preformatted("*x*"), p.Render("*x*"))
}

func TestLoad_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPipeline()
	<-p.Load(ctx, DefaultOptions())
	assert.False(t, p.FormatterReady())
}

func TestCapability_Monotonic(t *testing.T) {
	var c Capability[string]
	assert.False(t, c.Ready())
	_, ok := c.Get()
	assert.False(t, ok)

	var wg sync.WaitGroup
	wins := make(chan string, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(v string) {
			defer wg.Done()
			if c.Set(v) {
				wins <- v
			}
		}(strings.Repeat("x", i+1))
	}
	wg.Wait()
	close(wins)

	require.Len(t, wins, 1)
	winner := <-wins
	got, ok := c.Get()
	assert.True(t, ok)
	assert.Equal(t, winner, got)
	assert.False(t, c.Set("late"))
}

func TestFormatterCSS(t *testing.T) {
	assert.Contains(t, CodeCSS("no-such-style"), ".chroma")
	assert.Contains(t, CodeCSS(DefaultCodeStyle), ".chroma")
}
