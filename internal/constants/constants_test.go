package constants

import (
	"testing"
	"time"
)

func TestDefaultValues(t *testing.T) {
	if DefaultPort != "8080" {
		t.Errorf("Expected DefaultPort to be '8080', got '%s'", DefaultPort)
	}

	if DefaultWorkingDBName != "FileCatalog_temp.kat" {
		t.Errorf("Expected DefaultWorkingDBName to be 'FileCatalog_temp.kat', got '%s'", DefaultWorkingDBName)
	}

	if CatalogExtension != ".kat" {
		t.Errorf("Expected CatalogExtension to be '.kat', got '%s'", CatalogExtension)
	}

	if MaxSearchResults != 1000 {
		t.Errorf("Expected MaxSearchResults to be 1000, got %d", MaxSearchResults)
	}
}

func TestGZipMagic(t *testing.T) {
	if GZipMagic1 != 0x1f || GZipMagic2 != 0x8b {
		t.Errorf("Unexpected gzip magic %x %x", GZipMagic1, GZipMagic2)
	}
}

func TestIsAudioExtension(t *testing.T) {
	tests := []struct {
		ext      string
		expected bool
	}{
		{".mp3", true},
		{".flac", true},
		{".wav", true},
		{".m4a", true},
		{".ogg", true},
		{".wma", false},
		{".MP3", false},
		{"mp3", false},
		{".pdf", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsAudioExtension(tt.ext); got != tt.expected {
			t.Errorf("IsAudioExtension(%q) = %v, want %v", tt.ext, got, tt.expected)
		}
	}
}

func TestVirtualRoots(t *testing.T) {
	for _, root := range VirtualRoots {
		if root == "" || root[0] != '/' {
			t.Errorf("Virtual root %q must be an absolute POSIX path", root)
		}
	}
}

func TestTimeouts(t *testing.T) {
	if DefaultBusyTimeout != 30*time.Second {
		t.Errorf("Expected DefaultBusyTimeout to be 30 seconds, got %v", DefaultBusyTimeout)
	}
	if ShutdownTimeout != 5*time.Second {
		t.Errorf("Expected ShutdownTimeout to be 5 seconds, got %v", ShutdownTimeout)
	}
}
