// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"context"
	"fmt"
	"html"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SafeMarkup is an HTML fragment that is safe to insert into a document.
type SafeMarkup string

// String returns the markup.
func (m SafeMarkup) String() string {
	return string(m)
}

// Preformatted wraps text in <pre> with & < > " ' escaped.
// Identical input always yields identical output.
func Preformatted(text string) SafeMarkup {
	return SafeMarkup("<pre>" + html.EscapeString(text) + "</pre>")
}

// Options selects which capabilities Load installs.
type Options struct {
	Markdown  bool
	Sanitize  bool
	CodeStyle string
}

// DefaultOptions enables everything.
func DefaultOptions() Options {
	return Options{Markdown: true, Sanitize: true, CodeStyle: DefaultCodeStyle}
}

// =============================================================================
// PIPELINE
// =============================================================================

// Pipeline renders markdown into SafeMarkup. The zero value is not usable;
// call NewPipeline.
type Pipeline struct {
	formatter Capability[Formatter]
	sanitizer Capability[Sanitizer]
	logger    zerolog.Logger
}

// NewPipeline returns a pipeline with no capabilities loaded. Until Load
// (or SetFormatter) completes, Render returns preformatted text.
func NewPipeline() *Pipeline {
	return &Pipeline{
		logger: log.With().Str("component", "render").Logger(),
	}
}

// SetFormatter installs f. Returns false if a formatter was already set.
func (p *Pipeline) SetFormatter(f Formatter) bool {
	return p.formatter.Set(f)
}

// SetSanitizer installs s. Returns false if a sanitizer was already set.
func (p *Pipeline) SetSanitizer(s Sanitizer) bool {
	return p.sanitizer.Set(s)
}

// FormatterReady reports whether markdown formatting is available.
func (p *Pipeline) FormatterReady() bool {
	return p.formatter.Ready()
}

// SanitizerReady reports whether sanitization is available.
func (p *Pipeline) SanitizerReady() bool {
	return p.sanitizer.Ready()
}

// Load builds the capabilities selected by opts in the background, each on
// its own goroutine. The returned channel is closed when both have finished
// or ctx is done.
func (p *Pipeline) Load(ctx context.Context, opts Options) <-chan struct{} {
	var wg sync.WaitGroup
	load := func(name string, fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					p.logger.Error().Str("panic", fmt.Sprint(r)).Str("capability", name).Msg("loading renderer failed")
				}
			}()
			if ctx.Err() == nil {
				fn()
			}
		}()
	}

	if opts.Sanitize {
		load("sanitizer", func() {
			p.SetSanitizer(NewSanitizer())
			p.logger.Debug().Msg("sanitizer ready")
		})
	}
	if opts.Markdown {
		load("formatter", func() {
			style := opts.CodeStyle
			if style == "" {
				style = DefaultCodeStyle
			}
			p.SetFormatter(NewMarkdownFormatter(style))
			p.logger.Debug().Str("code_style", style).Msg("formatter ready")
		})
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	return done
}

// Render converts markdown to SafeMarkup. It never fails: a missing,
// erroring or panicking formatter yields Preformatted(markdown).
func (p *Pipeline) Render(markdown string) (out SafeMarkup) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Warn().Str("panic", fmt.Sprint(r)).Msg("render panicked, using plain text")
			out = Preformatted(markdown)
		}
	}()

	f, ok := p.formatter.Get()
	if !ok {
		return Preformatted(markdown)
	}
	s, sanitize := p.sanitizer.Get()

	formatted, err := f.Format(markdown, sanitize)
	if err != nil {
		p.logger.Warn().Err(err).Msg("format failed, using plain text")
		return Preformatted(markdown)
	}
	if sanitize {
		formatted = s.Sanitize(formatted)
	}
	return SafeMarkup(formatted)
}
