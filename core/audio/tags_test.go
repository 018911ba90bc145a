package audio

import (
	"testing"
)

// id3v23 builds a minimal ID3v2.3 header carrying a TIT2 and TCON frame.
func id3v23(title, genre string) []byte {
	frame := func(id, value string) []byte {
		body := append([]byte{0x00}, value...) // ISO-8859-1
		size := len(body)
		f := []byte(id)
		f = append(f, byte(size>>24), byte(size>>16), byte(size>>8), byte(size))
		f = append(f, 0x00, 0x00)
		return append(f, body...)
	}

	frames := append(frame("TIT2", title), frame("TCON", genre)...)
	size := len(frames)
	header := []byte{'I', 'D', '3', 0x03, 0x00, 0x00,
		byte(size>>21) & 0x7f, byte(size>>14) & 0x7f, byte(size>>7) & 0x7f, byte(size) & 0x7f}
	data := append(header, frames...)
	// a few bytes of "audio" after the tag
	return append(data, 0xff, 0xfb, 0x90, 0x00)
}

func TestReadTags(t *testing.T) {
	tags, ok := ReadTags(id3v23("Garota de Ipanema", "Bossa Nova"))
	if !ok {
		t.Fatal("expected tags to be read")
	}
	if tags.Title != "Garota de Ipanema" {
		t.Errorf("expected title, got %q", tags.Title)
	}
	if tags.Genre != "Bossa Nova" {
		t.Errorf("expected genre, got %q", tags.Genre)
	}
}

func TestReadTagsWithoutMetadata(t *testing.T) {
	if _, ok := ReadTags([]byte("plain bytes, not an audio file")); ok {
		t.Error("expected no tags for untagged data")
	}
	if _, ok := ReadTags(nil); ok {
		t.Error("expected no tags for empty data")
	}
}
