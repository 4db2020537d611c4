package sound

import (
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

const (
	extMP3  = ".mp3"
	extOGG  = ".ogg"
	extOGA  = ".oga"
	extWAV  = ".wav"
	extFLAC = ".flac"
)

// decode picks a decoder from the URL's file extension.
func decode(rawURL string, r io.ReadSeekCloser) (beep.StreamSeekCloser, beep.Format, error) {
	ext := strings.ToLower(path.Ext(urlPath(rawURL)))
	switch ext {
	case extMP3:
		return mp3.Decode(r)
	case extOGG, extOGA:
		return vorbis.Decode(r)
	case extWAV:
		return wav.Decode(r)
	case extFLAC:
		// Skip ID3v2 tag if present (some taggers add it to FLAC files)
		if err := skipID3v2(r); err != nil {
			return nil, beep.Format{}, err
		}
		return flac.Decode(r)
	default:
		return nil, beep.Format{}, fmt.Errorf("unsupported format: %q", ext)
	}
}

// urlPath strips query and fragment so the extension check sees the path only.
func urlPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	if u.Path != "" {
		return u.Path
	}
	return rawURL
}

// skipID3v2 skips an ID3v2 tag if present at the beginning of the stream.
// The FLAC decoder doesn't handle prepended tags.
func skipID3v2(r io.ReadSeeker) error {
	header := make([]byte, 10)
	n, err := r.Read(header)
	if err != nil {
		return err
	}
	if n < 10 {
		_, err = r.Seek(0, io.SeekStart)
		return err
	}

	if string(header[0:3]) != "ID3" {
		_, err = r.Seek(0, io.SeekStart)
		return err
	}

	// ID3v2 size is stored as a syncsafe integer in bytes 6-9
	// Each byte only uses 7 bits (bit 7 is always 0)
	size := int64(header[6])<<21 | int64(header[7])<<14 | int64(header[8])<<7 | int64(header[9])

	_, err = r.Seek(10+size, io.SeekStart)
	return err
}
