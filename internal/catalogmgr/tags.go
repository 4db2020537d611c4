package catalogmgr

import (
	"fmt"

	"github.com/bogem/id3v2/v2"
)

// WriteMP3Tags rewrites the ID3 tags on a transcoded MP3 so the
// published file carries exactly the catalog title and artist.
func WriteMP3Tags(path, title, artist string) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("open mp3 for tagging: %w", err)
	}
	defer tag.Close()

	tag.SetVersion(4)
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	tag.DeleteAllFrames()
	tag.SetTitle(title)
	tag.SetArtist(artist)

	if err := tag.Save(); err != nil {
		return fmt.Errorf("save mp3 tags: %w", err)
	}
	return nil
}
