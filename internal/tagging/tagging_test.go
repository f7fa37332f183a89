package tagging

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2/v2"
	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"

	"github.com/VR3Dcz/FileCatalog/internal/domain"
)

func writeMP3(t *testing.T, path, title, artist, band string) {
	t.Helper()
	tag := id3v2.NewEmptyTag()
	tag.SetVersion(4)
	if title != "" {
		tag.SetTitle(title)
	}
	if artist != "" {
		tag.SetArtist(artist)
	}
	if band != "" {
		tag.AddTextFrame(tag.CommonID("Band/Orchestra/Accompaniment"), tag.DefaultEncoding(), band)
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if _, err := tag.WriteTo(f); err != nil {
		t.Fatalf("write tag: %v", err)
	}
	// a few bytes standing in for audio frames
	if _, err := f.Write([]byte{0xff, 0xfb, 0x90, 0x00}); err != nil {
		t.Fatalf("write frames: %v", err)
	}
}

func writeFLAC(t *testing.T, path string, fields map[string]string) {
	t.Helper()
	streamInfo := flac.MetaDataBlock{Type: flac.StreamInfo, Data: make([]byte, 34)}
	cmt := flacvorbis.New()
	for k, v := range fields {
		if err := cmt.Add(k, v); err != nil {
			t.Fatalf("add comment: %v", err)
		}
	}
	block := cmt.Marshal()

	f := &flac.File{Meta: []*flac.MetaDataBlock{&streamInfo, &block}}
	if err := f.Save(path); err != nil {
		t.Fatalf("save flac: %v", err)
	}
}

// riffChunk encodes one little-endian RIFF chunk, padded to an even length.
func riffChunk(id string, payload []byte) []byte {
	var b bytes.Buffer
	b.WriteString(id)
	binary.Write(&b, binary.LittleEndian, uint32(len(payload))) //nolint:errcheck // bytes.Buffer
	b.Write(payload)
	if len(payload)%2 == 1 {
		b.WriteByte(0)
	}
	return b.Bytes()
}

func writeWAV(t *testing.T, path string, info map[string]string) {
	t.Helper()

	var fmtChunk bytes.Buffer
	for _, v := range []any{uint16(1), uint16(1), uint32(8000), uint32(16000), uint16(2), uint16(16)} {
		binary.Write(&fmtChunk, binary.LittleEndian, v) //nolint:errcheck // bytes.Buffer
	}

	list := bytes.NewBufferString("INFO")
	for _, id := range []string{"INAM", "IART"} {
		if v, ok := info[id]; ok {
			list.Write(riffChunk(id, append([]byte(v), 0)))
		}
	}

	body := bytes.NewBufferString("WAVE")
	body.Write(riffChunk("fmt ", fmtChunk.Bytes()))
	body.Write(riffChunk("LIST", list.Bytes()))
	body.Write(riffChunk("data", make([]byte, 8)))

	if err := os.WriteFile(path, riffChunk("RIFF", body.Bytes()), 0644); err != nil {
		t.Fatalf("write wav: %v", err)
	}
}

// oggPage wraps a single packet shorter than 255 bytes in one Ogg page.
func oggPage(headerType byte, seq uint32, packet []byte) []byte {
	var b bytes.Buffer
	b.WriteString("OggS")
	b.WriteByte(0)
	b.WriteByte(headerType)
	b.Write(make([]byte, 8)) // granule position
	binary.Write(&b, binary.LittleEndian, uint32(1)) //nolint:errcheck // bytes.Buffer
	binary.Write(&b, binary.LittleEndian, seq)       //nolint:errcheck // bytes.Buffer
	b.Write(make([]byte, 4))                         // checksum
	b.WriteByte(1)
	b.WriteByte(byte(len(packet)))
	b.Write(packet)
	return b.Bytes()
}

func writeOGG(t *testing.T, path string, comments ...string) {
	t.Helper()

	ident := bytes.NewBufferString("\x01vorbis")
	for _, v := range []any{uint32(0), uint8(2), uint32(44100), int32(0), int32(128000), int32(0), uint8(0xb8), uint8(1)} {
		binary.Write(ident, binary.LittleEndian, v) //nolint:errcheck // bytes.Buffer
	}

	cmt := bytes.NewBufferString("\x03vorbis")
	vendor := "test"
	binary.Write(cmt, binary.LittleEndian, uint32(len(vendor))) //nolint:errcheck // bytes.Buffer
	cmt.WriteString(vendor)
	binary.Write(cmt, binary.LittleEndian, uint32(len(comments))) //nolint:errcheck // bytes.Buffer
	for _, c := range comments {
		binary.Write(cmt, binary.LittleEndian, uint32(len(c))) //nolint:errcheck // bytes.Buffer
		cmt.WriteString(c)
	}
	cmt.WriteByte(1)

	data := append(oggPage(0x02, 0, ident.Bytes()), oggPage(0x00, 1, cmt.Bytes())...)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write ogg: %v", err)
	}
}

// mp4Atom encodes a big-endian MP4 box.
func mp4Atom(name string, payload ...[]byte) []byte {
	body := bytes.Join(payload, nil)
	var b bytes.Buffer
	binary.Write(&b, binary.BigEndian, uint32(8+len(body))) //nolint:errcheck // bytes.Buffer
	b.WriteString(name)
	b.Write(body)
	return b.Bytes()
}

func writeM4A(t *testing.T, path, title, artist string) {
	t.Helper()

	text := func(s string) []byte {
		// version/flags with class 1 (UTF-8), then the locale
		return mp4Atom("data", []byte{0, 0, 0, 1, 0, 0, 0, 0}, []byte(s))
	}
	ilst := mp4Atom("ilst",
		mp4Atom("\xa9nam", text(title)),
		mp4Atom("\xa9ART", text(artist)),
	)
	data := append(
		mp4Atom("ftyp", []byte("M4A "), make([]byte, 4), []byte("M4A mp42isom")),
		mp4Atom("moov", mp4Atom("udta", mp4Atom("meta", make([]byte, 4), ilst)))...,
	)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write m4a: %v", err)
	}
}

func TestReadTags_MP3(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name   string
		title  string
		artist string
		band   string
		want   Tags
	}{
		{"title and artist", "Song", "Singer", "", Tags{Title: "Song", Artist: "Singer"}},
		{"band fallback", "Song", "", "The Band", Tags{Title: "Song", Artist: "The Band"}},
		{"no tags", "", "", "", Tags{}},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, string(rune('a'+i))+".mp3")
			writeMP3(t, path, tt.title, tt.artist, tt.band)

			got, err := ReadTags(path)
			if err != nil {
				t.Fatalf("ReadTags failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestReadTags_FLAC(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "track.FLAC")
	writeFLAC(t, path, map[string]string{"TITLE": "Intro", "ALBUMARTIST": "Various"})

	got, err := ReadTags(path)
	if err != nil {
		t.Fatalf("ReadTags failed: %v", err)
	}
	want := Tags{Title: "Intro", Artist: "Various"}
	if got != want {
		t.Errorf("Expected %+v, got %+v", want, got)
	}
}

func TestReadTags_WAV(t *testing.T) {
	dir := t.TempDir()

	tagged := filepath.Join(dir, "take.wav")
	writeWAV(t, tagged, map[string]string{"INAM": "Track", "IART": "Alice"})
	got, err := ReadTags(tagged)
	if err != nil {
		t.Fatalf("ReadTags failed: %v", err)
	}
	if want := (Tags{Title: "Track", Artist: "Alice"}); got != want {
		t.Errorf("Expected %+v, got %+v", want, got)
	}

	bare := filepath.Join(dir, "bare.WAV")
	writeWAV(t, bare, nil)
	got, err = ReadTags(bare)
	if err != nil {
		t.Fatalf("ReadTags failed: %v", err)
	}
	if !got.IsEmpty() {
		t.Errorf("Expected no tags, got %+v", got)
	}
}

func TestReadTags_OGG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.ogg")
	writeOGG(t, path, "TITLE=Morning", "ARTIST=Quartet")

	got, err := ReadTags(path)
	if err != nil {
		t.Fatalf("ReadTags failed: %v", err)
	}
	if want := (Tags{Title: "Morning", Artist: "Quartet"}); got != want {
		t.Errorf("Expected %+v, got %+v", want, got)
	}
}

func TestReadTags_M4A(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.m4a")
	writeM4A(t, path, "Evening", "Trio")

	got, err := ReadTags(path)
	if err != nil {
		t.Fatalf("ReadTags failed: %v", err)
	}
	if want := (Tags{Title: "Evening", Artist: "Trio"}); got != want {
		t.Errorf("Expected %+v, got %+v", want, got)
	}
}

func TestReadTags_Errors(t *testing.T) {
	dir := t.TempDir()

	wma := filepath.Join(dir, "a.wma")
	if err := os.WriteFile(wma, []byte("0&\xb2u"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadTags(wma); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}

	for _, name := range []string{"bogus.flac", "bogus.wav", "bogus.m4a", "bogus.ogg"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := os.WriteFile(path, []byte("RIFF"), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := ReadTags(path)
			if err == nil {
				t.Fatal("Expected error for malformed file")
			}
			if errors.Is(err, ErrUnsupportedFormat) {
				t.Errorf("Expected a read error, got %v", err)
			}
		})
	}
}

func TestTags_Apply(t *testing.T) {
	e := &domain.FileEntry{Name: "a.mp3"}
	Tags{Artist: "Someone"}.Apply(e)

	if e.Title != nil {
		t.Errorf("Expected nil title, got %q", *e.Title)
	}
	if e.Artist == nil || *e.Artist != "Someone" {
		t.Errorf("Expected artist Someone, got %v", e.Artist)
	}
	if !e.HasAudioMetadata() {
		t.Error("Expected HasAudioMetadata after apply")
	}
}
