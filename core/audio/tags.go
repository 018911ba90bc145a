package audio

import (
	"bytes"
	"strings"

	"github.com/dhowden/tag"
)

// Tags holds the embedded metadata used to fill in missing track fields.
type Tags struct {
	Title  string
	Genre  string
	Artist string
	Album  string
	Format string
}

// ReadTags parses ID3, MP4, FLAC or OGG metadata from an uploaded file. ok
// is false when the data carries no readable tags.
func ReadTags(data []byte) (Tags, bool) {
	m, err := tag.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return Tags{}, false
	}

	artist := m.Artist()
	if albumArtist := m.AlbumArtist(); albumArtist != "" {
		artist = albumArtist
	}

	return Tags{
		Title:  strings.TrimSpace(m.Title()),
		Genre:  strings.TrimSpace(m.Genre()),
		Artist: strings.TrimSpace(artist),
		Album:  strings.TrimSpace(m.Album()),
		Format: string(m.Format()),
	}, true
}
