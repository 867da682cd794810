// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jeranaias/rigchat/internal/model"
	"github.com/jeranaias/rigchat/internal/render"
)

var fixedTime = time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)

func sampleTranscript() *Transcript {
	t := NewTranscript("3f2a9c1e-7b4d-4e8a-9f10-2b3c4d5e6f70", "http://127.0.0.1:8787/", []model.Message{
		{Role: model.RoleUser, Content: "How much Go experience?", Timestamp: fixedTime},
		{Role: model.RoleAssistant, Content: "I have **5 years**.\n\n<script>alert(1)</script>", Timestamp: fixedTime.Add(time.Second)},
	})
	t.ExportedAt = fixedTime
	return t
}

func loadedPipeline(t *testing.T) *render.Pipeline {
	t.Helper()
	p := render.NewPipeline()
	<-p.Load(context.Background(), render.DefaultOptions())
	return p
}

func TestTranscript_Title(t *testing.T) {
	assert.Equal(t, "How much Go experience?", sampleTranscript().Title())

	empty := NewTranscript("s", "", []model.Message{{Role: model.RoleAssistant, Content: "hi"}})
	assert.Equal(t, "Conversation", empty.Title())
}

func TestNewTranscript_CopiesMessages(t *testing.T) {
	msgs := []model.Message{{Role: model.RoleUser, Content: "a"}}
	tr := NewTranscript("s", "", msgs)
	msgs[0].Content = "changed"
	assert.Equal(t, "a", tr.Messages[0].Content)
}

func TestEmptyTranscriptRejected(t *testing.T) {
	empty := NewTranscript("s", "", nil)
	for _, exp := range []Exporter{
		NewMarkdownExporter(nil),
		NewJSONExporter(nil),
		NewHTMLExporter(nil, render.NewPipeline()),
	} {
		_, err := exp.Export(empty)
		assert.ErrorIs(t, err, ErrEmptyTranscript)
	}
}

func TestMarkdownExport(t *testing.T) {
	out, err := NewMarkdownExporter(DefaultOptions()).Export(sampleTranscript())
	require.NoError(t, err)
	text := string(out)

	require.True(t, strings.HasPrefix(text, "---\n"))
	parts := strings.SplitN(text, "---\n", 3)
	require.Len(t, parts, 3)

	var fm frontMatter
	require.NoError(t, yaml.Unmarshal([]byte(parts[1]), &fm))
	assert.Equal(t, "How much Go experience?", fm.Title)
	assert.Equal(t, 2, fm.Messages)
	assert.Equal(t, "rigchat", fm.Generator)

	assert.Contains(t, text, "### User <sub>15:09:26</sub>")
	assert.Contains(t, text, "### Assistant <sub>15:09:27</sub>")
	assert.Contains(t, text, "I have **5 years**.")
}

func TestMarkdownExport_FrontMatterInjection(t *testing.T) {
	tr := NewTranscript("s", "", []model.Message{
		{Role: model.RoleUser, Content: "title: evil\ninjected: true"},
	})
	out, err := NewMarkdownExporter(DefaultOptions()).Export(tr)
	require.NoError(t, err)

	parts := strings.SplitN(string(out), "---\n", 3)
	var fm map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(parts[1]), &fm))
	assert.NotContains(t, fm, "injected")
	assert.Equal(t, "title: evil", fm["title"])
}

func TestMarkdownExport_NoMetadata(t *testing.T) {
	opts := DefaultOptions()
	opts.IncludeMetadata = false
	opts.IncludeTimestamps = false

	out, err := NewMarkdownExporter(opts).Export(sampleTranscript())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "# How much Go experience?"))
	assert.Contains(t, string(out), "### User\n")
}

func TestJSONExport(t *testing.T) {
	out, err := NewJSONExporter(nil).Export(sampleTranscript())
	require.NoError(t, err)

	var decoded struct {
		Session  string          `json:"session"`
		Endpoint string          `json:"endpoint"`
		Messages []model.Message `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "3f2a9c1e-7b4d-4e8a-9f10-2b3c4d5e6f70", decoded.Session)
	require.Len(t, decoded.Messages, 2)
	assert.Equal(t, model.RoleAssistant, decoded.Messages[1].Role)
}

func TestHTMLExport_SanitizesBodies(t *testing.T) {
	out, err := NewHTMLExporter(DefaultOptions(), loadedPipeline(t)).Export(sampleTranscript())
	require.NoError(t, err)
	page := string(out)

	assert.Contains(t, page, "<!DOCTYPE html>")
	assert.Contains(t, page, "<strong>5 years</strong>")
	assert.NotContains(t, page, "<script>alert")
	assert.Contains(t, page, "assistant-message")
	assert.Contains(t, page, ".chroma")
}

func TestHTMLExport_UnloadedPipelineEscapes(t *testing.T) {
	out, err := NewHTMLExporter(DefaultOptions(), render.NewPipeline()).Export(sampleTranscript())
	require.NoError(t, err)
	assert.Contains(t, string(out), "&lt;script&gt;")
	assert.NotContains(t, string(out), "<script>alert")
}

func TestForFormat(t *testing.T) {
	p := render.NewPipeline()
	for format, ext := range map[string]string{"md": ".md", "markdown": ".md", "JSON": ".json", "html": ".html"} {
		exp, err := ForFormat(format, nil, p)
		require.NoError(t, err, format)
		assert.Equal(t, ext, exp.FileExtension())
	}

	_, err := ForFormat("pdf", nil, p)
	assert.Error(t, err)
	_, err = ForFormat("html", nil, nil)
	assert.Error(t, err)
}

func TestExportToFile(t *testing.T) {
	dir := t.TempDir()
	opts := DefaultOptions()
	opts.OutputDir = dir
	tr := sampleTranscript()

	path, err := ExportToFile(tr, NewMarkdownExporter(opts), "", opts)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "rigchat_3f2a9c1e_20250314_150926.md"), path)
	assert.FileExists(t, path)

	explicit := filepath.Join(dir, "sub", "out.json")
	path, err = ExportToFile(tr, NewJSONExporter(opts), explicit, opts)
	require.NoError(t, err)
	assert.Equal(t, explicit, path)

	data, err := os.ReadFile(explicit)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "a-b_c", sanitizeFilename("a/b c"))
	assert.Equal(t, "session", sanitizeFilename(""))
	assert.Equal(t, "x-y", sanitizeFilename("x\x01y"))
}
