// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// ATOMIC WRITE
// =============================================================================

func TestAtomicWriteFile_Basic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")

	require.NoError(t, AtomicWriteFile(path, []byte("hello"), 0644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestAtomicWriteFile_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "out.txt")

	require.NoError(t, AtomicWriteFile(path, []byte("x"), 0644))
	assert.FileExists(t, path)
}

func TestAtomicWriteFile_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")

	require.NoError(t, AtomicWriteFile(path, []byte("first version, longer"), 0644))
	require.NoError(t, AtomicWriteFile(path, []byte("second"), 0644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestAtomicWriteFile_NoTempLeftBehind(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, AtomicWriteFile(filepath.Join(dir, "out.txt"), nil, 0600))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "out.txt", entries[0].Name())
}

func TestAtomicWriteFileWithDir_Permissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}
	path := filepath.Join(t.TempDir(), "private", "out.txt")

	require.NoError(t, AtomicWriteFileWithDir(path, []byte("s"), 0600, 0700))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	dirInfo, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0700), dirInfo.Mode().Perm())
}

// =============================================================================
// STRINGS
// =============================================================================

func TestTruncateWidth(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"fits", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"cut", "hello world", 8, "hello..."},
		{"tiny", "hello", 2, "he"},
		{"zero", "hello", 0, ""},
		{"wide runes", "日本語テキスト", 7, "日本..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateWidth(tt.in, tt.width)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, StringWidth(got), tt.width)
		})
	}
}

func TestStringWidth(t *testing.T) {
	assert.Equal(t, 2, StringWidth("ab"))
	assert.Equal(t, 4, StringWidth("日本"))
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "one", FirstLine("one\ntwo"))
	assert.Equal(t, "single", FirstLine("single"))
	assert.Equal(t, "", FirstLine("\nlead"))
}

func TestHostOf(t *testing.T) {
	assert.Equal(t, "example.com", HostOf("https://example.com/chat"))
	assert.Equal(t, "localhost:8080", HostOf("http://localhost:8080/"))
	assert.Equal(t, "not a url", HostOf("not a url"))
	assert.True(t, strings.HasPrefix(HostOf("::bad"), "::"))
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		in   string
		name string
		args []string
		ok   bool
	}{
		{"/copy", "copy", []string{}, true},
		{"  /Export md out.md ", "export", []string{"md", "out.md"}, true},
		{"/", "", nil, false},
		{"hello /copy", "", nil, false},
		{"", "", nil, false},
	}
	for _, tt := range tests {
		name, args, ok := ParseCommand(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.name, name, tt.in)
		if tt.ok {
			assert.Equal(t, tt.args, args, tt.in)
		}
	}
}
