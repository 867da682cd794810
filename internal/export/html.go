// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/jeranaias/rigchat/internal/model"
	"github.com/jeranaias/rigchat/internal/render"
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// HTMLExporter exports transcripts to a standalone HTML page. Message
// bodies go through the render pipeline; everything else is escaped here.
type HTMLExporter struct {
	options  *Options
	pipeline *render.Pipeline
}

// NewHTMLExporter creates a new HTML exporter.
func NewHTMLExporter(opts *Options, pipeline *render.Pipeline) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &HTMLExporter{options: opts, pipeline: pipeline}
}

// Export converts a transcript to HTML.
func (e *HTMLExporter) Export(t *Transcript) ([]byte, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}

	theme := e.options.Theme
	if theme != "light" {
		theme = "dark"
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	sb.WriteString("    <meta charset=\"UTF-8\">\n")
	sb.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	sb.WriteString(fmt.Sprintf("    <title>%s</title>\n", html.EscapeString(t.Title())))
	sb.WriteString("    <meta name=\"generator\" content=\"rigchat\">\n")
	sb.WriteString(fmt.Sprintf("    <meta name=\"date\" content=\"%s\">\n", t.ExportedAt.Format(time.RFC3339)))
	sb.WriteString("    <style>\n")
	sb.WriteString(pageCSS)
	sb.WriteString(render.CodeCSS(e.options.CodeStyle))
	sb.WriteString("    </style>\n</head>\n")
	sb.WriteString(fmt.Sprintf("<body class=\"%s-theme\">\n", theme))
	sb.WriteString("    <div class=\"container\">\n")

	if e.options.IncludeMetadata {
		sb.WriteString(e.renderHeader(t))
	}

	sb.WriteString("        <main class=\"conversation\">\n")
	for _, msg := range t.Messages {
		sb.WriteString(e.renderMessage(msg))
	}
	sb.WriteString("        </main>\n")

	sb.WriteString("        <footer class=\"footer\">\n")
	sb.WriteString(fmt.Sprintf("            <p>Exported from <strong>rigchat</strong> on %s</p>\n",
		t.ExportedAt.Format("January 2, 2006 at 3:04 PM")))
	sb.WriteString("        </footer>\n")
	sb.WriteString("    </div>\n</body>\n</html>\n")

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for HTML.
func (e *HTMLExporter) FileExtension() string {
	return ".html"
}

// MimeType returns the MIME type for HTML.
func (e *HTMLExporter) MimeType() string {
	return "text/html"
}

func (e *HTMLExporter) renderHeader(t *Transcript) string {
	var sb strings.Builder
	sb.WriteString("        <header class=\"header\">\n")
	sb.WriteString(fmt.Sprintf("            <h1>%s</h1>\n", html.EscapeString(t.Title())))
	sb.WriteString("            <div class=\"metadata\">\n")
	sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>Session:</strong> %s</span>\n", html.EscapeString(t.Session)))
	if t.Endpoint != "" {
		sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>Endpoint:</strong> %s</span>\n", html.EscapeString(t.Endpoint)))
	}
	sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>Exported:</strong> %s</span>\n", formatTimestamp(t.ExportedAt)))
	sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>Messages:</strong> %d</span>\n", len(t.Messages)))
	sb.WriteString("            </div>\n")
	sb.WriteString("        </header>\n")
	return sb.String()
}

func (e *HTMLExporter) renderMessage(msg model.Message) string {
	role := string(msg.Role)
	if role != string(model.RoleUser) && role != string(model.RoleAssistant) {
		role = "unknown"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("            <div class=\"message %s-message\">\n", role))
	sb.WriteString("                <div class=\"message-header\">\n")
	sb.WriteString(fmt.Sprintf("                    <span class=\"role-label\">%s</span>\n", html.EscapeString(msg.Role.DisplayName())))
	if e.options.IncludeTimestamps && !msg.Timestamp.IsZero() {
		sb.WriteString(fmt.Sprintf("                    <span class=\"timestamp\">%s</span>\n", formatShortTimestamp(msg.Timestamp)))
	}
	sb.WriteString("                </div>\n")
	sb.WriteString("                <div class=\"message-content\">\n")
	sb.WriteString(e.pipeline.Render(msg.Content).String())
	sb.WriteString("\n                </div>\n")
	sb.WriteString("            </div>\n")
	return sb.String()
}

// pageCSS styles the page. Code highlighting CSS is appended per export.
const pageCSS = `        * { margin: 0; padding: 0; box-sizing: border-box; }

        :root {
            --font-sans: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Arial, sans-serif;
            --font-mono: "SF Mono", "Fira Code", "Source Code Pro", monospace;
        }

        .dark-theme {
            --bg-primary: #1a1b26;
            --bg-secondary: #24283b;
            --text-primary: #c0caf5;
            --text-muted: #565f89;
            --border-color: #414868;
            --accent-user: #7aa2f7;
            --accent-assistant: #9ece6a;
        }

        .light-theme {
            --bg-primary: #ffffff;
            --bg-secondary: #f7f8fa;
            --text-primary: #24292e;
            --text-muted: #6a737d;
            --border-color: #e1e4e8;
            --accent-user: #0366d6;
            --accent-assistant: #22863a;
        }

        body {
            font-family: var(--font-sans);
            line-height: 1.6;
            color: var(--text-primary);
            background: var(--bg-primary);
            padding: 20px;
        }

        .container { max-width: 900px; margin: 0 auto; background: var(--bg-secondary); border-radius: 12px; }
        .header { padding: 32px; border-bottom: 2px solid var(--border-color); }
        .header h1 { font-size: 26px; margin-bottom: 12px; }
        .metadata { display: flex; flex-wrap: wrap; gap: 16px; font-size: 14px; color: var(--text-muted); }
        .conversation { padding: 24px 32px; }
        .message { margin-bottom: 24px; padding: 20px; border-radius: 8px; border-left: 4px solid transparent; }
        .user-message { border-left-color: var(--accent-user); }
        .assistant-message { border-left-color: var(--accent-assistant); }
        .message-header { display: flex; justify-content: space-between; margin-bottom: 12px; font-size: 14px; }
        .role-label { font-weight: 600; }
        .timestamp { color: var(--text-muted); font-family: var(--font-mono); }
        .message-content p { margin-bottom: 12px; }
        .message-content pre { padding: 12px; overflow-x: auto; border-radius: 6px; font-family: var(--font-mono); }
        .footer { padding: 20px 32px; text-align: center; font-size: 14px; color: var(--text-muted); }

        @media print {
            .container { border-radius: 0; }
            .message { page-break-inside: avoid; }
        }
`
