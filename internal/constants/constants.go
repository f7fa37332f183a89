// Package constants contains application-wide constants to avoid magic numbers and strings.
package constants

import "time"

// Application defaults
const (
	DefaultPort             = "8080"
	DefaultWorkingDBName    = "FileCatalog_temp.kat"
	DefaultSettingsDir      = "FileCatalog"
	DefaultSettingsFileName = "settings.yaml"
	DefaultLanguage         = "en"
	DefaultBusyTimeout      = 30 * time.Second
	ShutdownTimeout         = 5 * time.Second
)

// Catalog files
const (
	CatalogExtension = ".kat"
	TempSuffix       = ".tmp"
	WALSuffix        = "-wal"
	SHMSuffix        = "-shm"
)

// GZip container magic bytes
const (
	GZipMagic1 byte = 0x1f
	GZipMagic2 byte = 0x8b
)

// Search
const (
	MaxSearchResults = 1000
)

// Scan
const (
	// DirReadBatch is how many directory entries are read per ReadDir call.
	DirReadBatch = 256
)

// File Extensions
const (
	ExtMP3  = ".mp3"
	ExtFLAC = ".flac"
	ExtWAV  = ".wav"
	ExtM4A  = ".m4a"
	ExtOGG  = ".ogg"
)

// AudioExtensions are the lower-cased extensions eligible for tag extraction.
var AudioExtensions = map[string]bool{
	ExtMP3:  true,
	ExtFLAC: true,
	ExtWAV:  true,
	ExtM4A:  true,
	ExtOGG:  true,
}

// VirtualRoots are POSIX pseudo filesystems that are never traversed.
var VirtualRoots = []string{
	"/proc",
	"/sys",
	"/dev",
	"/run",
	"/snap",
	"/var/run",
}

// File Permissions
const (
	DirPermissions  = 0755
	FilePermissions = 0644
)

// IsAudioExtension reports whether ext (lower-cased, with dot) is a recognized audio format.
func IsAudioExtension(ext string) bool {
	return AudioExtensions[ext]
}
