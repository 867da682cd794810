// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/jeranaias/rigchat/internal/model"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports transcripts to Markdown.
type MarkdownExporter struct {
	options *Options
	title   cases.Caser
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{
		options: opts,
		title:   cases.Title(language.English),
	}
}

// frontMatter is marshalled with yaml.v3 so values are always quoted safely.
type frontMatter struct {
	Title     string `yaml:"title"`
	Session   string `yaml:"session"`
	Endpoint  string `yaml:"endpoint,omitempty"`
	Messages  int    `yaml:"messages"`
	Exported  string `yaml:"exported"`
	Generator string `yaml:"generator"`
}

// Export converts a transcript to Markdown.
func (e *MarkdownExporter) Export(t *Transcript) ([]byte, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}

	var sb strings.Builder

	if e.options.IncludeMetadata {
		fm, err := yaml.Marshal(frontMatter{
			Title:     t.Title(),
			Session:   t.Session,
			Endpoint:  t.Endpoint,
			Messages:  len(t.Messages),
			Exported:  t.ExportedAt.Format(time.RFC3339),
			Generator: "rigchat",
		})
		if err != nil {
			return nil, errors.Wrap(err, "front matter")
		}
		sb.WriteString("---\n")
		sb.Write(fm)
		sb.WriteString("---\n\n")
	}

	sb.WriteString(fmt.Sprintf("# %s\n\n", escapeMarkdown(t.Title())))

	for i, msg := range t.Messages {
		label := e.roleLabel(msg.Role)
		if e.options.IncludeTimestamps && !msg.Timestamp.IsZero() {
			sb.WriteString(fmt.Sprintf("### %s <sub>%s</sub>\n\n", label, formatShortTimestamp(msg.Timestamp)))
		} else {
			sb.WriteString(fmt.Sprintf("### %s\n\n", label))
		}

		sb.WriteString(strings.TrimSpace(msg.Content))
		sb.WriteString("\n\n")

		if i < len(t.Messages)-1 {
			sb.WriteString("---\n\n")
		}
	}

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

// roleLabel title-cases the role name ("user" -> "User").
func (e *MarkdownExporter) roleLabel(role model.Role) string {
	if role == "" {
		return "Unknown"
	}
	return e.title.String(role.String())
}

// escapeMarkdown escapes characters that would break formatting in headings.
func escapeMarkdown(s string) string {
	r := strings.NewReplacer("#", `\#`, "*", `\*`, "_", `\_`, "[", `\[`, "]", `\]`)
	return r.Replace(s)
}
