package domain

import (
	"testing"
)

func TestParseSearchMode(t *testing.T) {
	tests := []struct {
		input    string
		expected SearchMode
		wantErr  bool
	}{
		{"", SearchFullText, false},
		{"fulltext", SearchFullText, false},
		{"FTS", SearchFullText, false},
		{"regex", SearchRegex, false},
		{" RegExp ", SearchRegex, false},
		{"glob", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSearchMode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSearchMode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.expected {
				t.Errorf("ParseSearchMode(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeExtension(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{".PDF", ".pdf"},
		{"Mp3", ".mp3"},
		{".tar", ".tar"},
	}

	for _, tt := range tests {
		if got := NormalizeExtension(tt.input); got != tt.expected {
			t.Errorf("NormalizeExtension(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFolder_IsRoot(t *testing.T) {
	parent := int64(1)
	root := &Folder{ID: 1}
	child := &Folder{ID: 2, ParentID: &parent}

	if !root.IsRoot() {
		t.Error("Expected folder without parent to be a root")
	}
	if child.IsRoot() {
		t.Error("Expected folder with parent not to be a root")
	}
}

func TestFileEntry_HasAudioMetadata(t *testing.T) {
	empty := ""
	title := "Song"

	tests := []struct {
		name     string
		entry    FileEntry
		expected bool
	}{
		{"no tags", FileEntry{}, false},
		{"empty title", FileEntry{Title: &empty}, false},
		{"title", FileEntry{Title: &title}, true},
		{"artist only", FileEntry{Artist: &title}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.entry.HasAudioMetadata(); got != tt.expected {
				t.Errorf("HasAudioMetadata() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestDisplayPath(t *testing.T) {
	tests := []struct {
		drive    string
		rel      string
		expected string
	}{
		{"Docs", "", "Docs"},
		{"Docs", "/Reports", "Docs/Reports"},
		{"/", "", "/"},
		{"/", "/etc", "/etc"},
		{`C:\`, "", `C:\`},
		{`C:\`, `\Windows`, `C:\Windows`},
	}

	for _, tt := range tests {
		if got := DisplayPath(tt.drive, tt.rel); got != tt.expected {
			t.Errorf("DisplayPath(%q, %q) = %q, want %q", tt.drive, tt.rel, got, tt.expected)
		}
	}
}
