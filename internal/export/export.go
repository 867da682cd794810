// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/jeranaias/rigchat/internal/model"
	"github.com/jeranaias/rigchat/internal/render"
	"github.com/jeranaias/rigchat/internal/util"
)

// ErrEmptyTranscript is returned when there is nothing to export.
var ErrEmptyTranscript = errors.New("conversation has no messages")

// =============================================================================
// TRANSCRIPT
// =============================================================================

// Transcript is the exported view of one conversation.
type Transcript struct {
	Session    string
	Endpoint   string
	Messages   []model.Message
	ExportedAt time.Time
}

// NewTranscript captures msgs for export, stamped with the current time.
func NewTranscript(session, endpoint string, msgs []model.Message) *Transcript {
	return &Transcript{
		Session:    session,
		Endpoint:   endpoint,
		Messages:   append([]model.Message(nil), msgs...),
		ExportedAt: time.Now(),
	}
}

// Title is a preview of the first user message.
func (t *Transcript) Title() string {
	for _, m := range t.Messages {
		if m.Role == model.RoleUser {
			return util.FirstLine(m.Preview(60))
		}
	}
	return "Conversation"
}

func (t *Transcript) validate() error {
	if t == nil {
		return errors.New("transcript is nil")
	}
	if len(t.Messages) == 0 {
		return ErrEmptyTranscript
	}
	return nil
}

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter defines the interface for transcript exporters.
type Exporter interface {
	// Export converts a transcript to the target format.
	Export(t *Transcript) ([]byte, error)

	// FileExtension returns the file extension including the dot.
	FileExtension() string

	// MimeType returns the MIME type for the exported format.
	MimeType() string
}

// Options configures export behavior.
type Options struct {
	// OutputDir is where generated file names are placed. Default: "."
	OutputDir string

	// IncludeMetadata adds front matter / header information.
	IncludeMetadata bool

	// IncludeTimestamps adds per-message times.
	IncludeTimestamps bool

	// Theme for HTML export ("light" or "dark").
	Theme string

	// CodeStyle is the chroma style for highlighted code in HTML.
	CodeStyle string
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{
		OutputDir:         ".",
		IncludeMetadata:   true,
		IncludeTimestamps: true,
		Theme:             "dark",
		CodeStyle:         render.DefaultCodeStyle,
	}
}

// Formats lists the accepted ForFormat names.
var Formats = []string{"md", "json", "html"}

// ForFormat returns the exporter for a format name. The pipeline is only
// used by the HTML exporter and may be nil for the others.
func ForFormat(format string, opts *Options, pipeline *render.Pipeline) (Exporter, error) {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "md", "markdown":
		return NewMarkdownExporter(opts), nil
	case "json":
		return NewJSONExporter(opts), nil
	case "html", "htm":
		if pipeline == nil {
			return nil, errors.New("html export needs a render pipeline")
		}
		return NewHTMLExporter(opts, pipeline), nil
	default:
		return nil, errors.Errorf("unknown export format %q (use %s)", format, strings.Join(Formats, ", "))
	}
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// ExportToFile exports t with exporter and writes it atomically. When path
// is empty a name is generated in opts.OutputDir. Returns the written path.
func ExportToFile(t *Transcript, exporter Exporter, path string, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	content, err := exporter.Export(t)
	if err != nil {
		return "", errors.Wrap(err, "export failed")
	}

	if path == "" {
		path = filepath.Join(opts.OutputDir, DefaultFilename(t, exporter))
	}
	if err := util.AtomicWriteFile(path, content, 0644); err != nil {
		return "", errors.Wrap(err, "write file")
	}
	return path, nil
}

// DefaultFilename builds rigchat_<session>_<timestamp><ext>.
func DefaultFilename(t *Transcript, exporter Exporter) string {
	session := t.Session
	if len(session) > 8 {
		session = session[:8]
	}
	return fmt.Sprintf("rigchat_%s_%s%s",
		sanitizeFilename(session),
		t.ExportedAt.Format("20060102_150405"),
		exporter.FileExtension(),
	)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// sanitizeFilename replaces characters that are invalid in filenames.
func sanitizeFilename(s string) string {
	replacer := map[rune]rune{
		'/': '-', '\\': '-', ':': '-', '*': '-', '?': '-',
		'"': '-', '<': '-', '>': '-', '|': '-',
		' ': '_', '\t': '_', '\n': '_', '\r': '_',
	}

	var result []rune
	for _, r := range s {
		if replacement, found := replacer[r]; found {
			result = append(result, replacement)
		} else if r < 32 || r == 127 {
			result = append(result, '-')
		} else {
			result = append(result, r)
		}
	}
	if len(result) == 0 {
		return "session"
	}
	return string(result)
}

// formatTimestamp formats a timestamp for display.
func formatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}

// formatShortTimestamp formats a timestamp for inline display.
func formatShortTimestamp(t time.Time) string {
	return t.Format("15:04:05")
}
