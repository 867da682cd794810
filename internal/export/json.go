// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"time"

	"github.com/jeranaias/rigchat/internal/model"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter exports transcripts as JSON. Options do not filter the
// output; the full message list is always written.
type JSONExporter struct {
	options *Options
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(opts *Options) *JSONExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &JSONExporter{options: opts}
}

type jsonTranscript struct {
	Session    string          `json:"session"`
	Endpoint   string          `json:"endpoint,omitempty"`
	ExportedAt time.Time       `json:"exported_at"`
	Messages   []model.Message `json:"messages"`
}

// Export converts a transcript to indented JSON.
func (e *JSONExporter) Export(t *Transcript) ([]byte, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}
	return json.MarshalIndent(jsonTranscript{
		Session:    t.Session,
		Endpoint:   t.Endpoint,
		ExportedAt: t.ExportedAt,
		Messages:   t.Messages,
	}, "", "  ")
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// MimeType returns the MIME type for JSON.
func (e *JSONExporter) MimeType() string {
	return "application/json"
}
