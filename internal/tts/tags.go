package tts

import (
	"fmt"
	"strconv"
	"strings"

	id3v2 "github.com/bogem/id3v2/v2"

	"github.com/ny423/epub-to-audiobook/internal/converter"
)

// applyTags writes ID3v2 metadata onto an mp3 artifact. Other output
// formats are left untouched.
func applyTags(path string, tags converter.AudioTags) error {
	if !strings.HasSuffix(path, ".mp3") {
		return nil
	}
	mp3, err := id3v2.Open(path, id3v2.Options{Parse: false})
	if err != nil {
		return fmt.Errorf("open artifact for tagging: %w", err)
	}
	defer mp3.Close()

	mp3.SetTitle(tags.Title)
	mp3.SetArtist(tags.Author)
	mp3.SetAlbum(tags.Album)
	mp3.AddTextFrame(mp3.CommonID("Track number/Position in set"), mp3.DefaultEncoding(), strconv.Itoa(tags.Track))

	if err := mp3.Save(); err != nil {
		return fmt.Errorf("save tags: %w", err)
	}
	return nil
}
