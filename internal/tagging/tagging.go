// Package tagging reads title and artist metadata from audio files.
package tagging

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/dhowden/tag"
	"github.com/go-audio/wav"
	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"

	"github.com/VR3Dcz/FileCatalog/internal/constants"
	"github.com/VR3Dcz/FileCatalog/internal/domain"
)

// ErrUnsupportedFormat is returned for audio formats without a tag reader.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Tags holds the metadata the catalog keeps per audio file. Empty means absent.
type Tags struct {
	Title  string
	Artist string
}

func (t Tags) IsEmpty() bool {
	return t.Title == "" && t.Artist == ""
}

// Apply copies non-empty values onto the entry.
func (t Tags) Apply(e *domain.FileEntry) {
	if t.Title != "" {
		title := t.Title
		e.Title = &title
	}
	if t.Artist != "" {
		artist := t.Artist
		e.Artist = &artist
	}
}

// ReadTags reads the tags of the file at filePath, dispatching on its extension.
func ReadTags(filePath string) (Tags, error) {
	ext := domain.NormalizeExtension(filepath.Ext(filePath))

	switch ext {
	case constants.ExtMP3:
		return readMP3(filePath)
	case constants.ExtFLAC:
		return readFLAC(filePath)
	case constants.ExtM4A, constants.ExtOGG:
		return readGeneric(filePath)
	case constants.ExtWAV:
		return readWAV(filePath)
	default:
		return Tags{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// readMP3 takes the lead performer and falls back to the band frame.
func readMP3(filePath string) (Tags, error) {
	id3, err := id3v2.Open(filePath, id3v2.Options{
		Parse:       true,
		ParseFrames: []string{"Title", "Artist", "Band/Orchestra/Accompaniment"},
	})
	if err != nil {
		return Tags{}, fmt.Errorf("failed to open MP3 file: %w", err)
	}
	defer id3.Close() //nolint:errcheck // read-only

	tags := Tags{
		Title:  clean(id3.Title()),
		Artist: clean(id3.Artist()),
	}
	if tags.Artist == "" {
		tags.Artist = clean(id3.GetTextFrame(id3.CommonID("Band/Orchestra/Accompaniment")).Text)
	}
	return tags, nil
}

// readFLAC reads the first Vorbis comment block; ALBUMARTIST stands in for a missing ARTIST.
func readFLAC(filePath string) (Tags, error) {
	r, err := os.Open(filePath)
	if err != nil {
		return Tags{}, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer r.Close() //nolint:errcheck // read-only

	f, err := flac.ParseMetadata(r)
	if err != nil {
		return Tags{}, fmt.Errorf("failed to parse FLAC metadata: %w", err)
	}

	for _, block := range f.Meta {
		if block.Type != flac.VorbisComment {
			continue
		}
		cmt, err := flacvorbis.ParseFromMetaDataBlock(*block)
		if err != nil {
			return Tags{}, fmt.Errorf("failed to parse vorbis comment: %w", err)
		}

		tags := Tags{
			Title:  firstValue(cmt, flacvorbis.FIELD_TITLE),
			Artist: firstValue(cmt, flacvorbis.FIELD_ARTIST),
		}
		if tags.Artist == "" {
			tags.Artist = firstValue(cmt, "ALBUMARTIST")
		}
		return tags, nil
	}
	return Tags{}, nil
}

// readGeneric covers MP4 atoms and Ogg Vorbis comments.
func readGeneric(filePath string) (Tags, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return Tags{}, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only

	m, err := tag.ReadFrom(f)
	if err != nil {
		return Tags{}, fmt.Errorf("failed to read tags: %w", err)
	}

	tags := Tags{
		Title:  clean(m.Title()),
		Artist: clean(m.Artist()),
	}
	if tags.Artist == "" {
		tags.Artist = clean(m.AlbumArtist())
	}
	return tags, nil
}

// readWAV reads INAM and IART from the RIFF INFO list.
func readWAV(filePath string) (Tags, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return Tags{}, fmt.Errorf("failed to open WAV file: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only

	d := wav.NewDecoder(f)
	d.ReadMetadata()
	if err := d.Err(); err != nil {
		return Tags{}, fmt.Errorf("failed to read WAV metadata: %w", err)
	}
	if d.SampleRate == 0 {
		return Tags{}, errors.New("failed to read WAV metadata: missing fmt chunk")
	}
	if d.Metadata == nil {
		return Tags{}, nil
	}
	return Tags{
		Title:  clean(d.Metadata.Title),
		Artist: clean(d.Metadata.Artist),
	}, nil
}

func firstValue(cmt *flacvorbis.MetaDataBlockVorbisComment, key string) string {
	values, err := cmt.Get(key)
	if err != nil {
		return ""
	}
	for _, v := range values {
		if v = clean(v); v != "" {
			return v
		}
	}
	return ""
}

// clean trims whitespace and the NUL padding some taggers leave behind.
func clean(s string) string {
	return strings.TrimSpace(strings.Trim(s, "\x00"))
}
