package tag

import (
	"fmt"
	"strings"

	"github.com/bogem/id3v2/v2"
	ncmdump "github.com/devgianlu/go-ncmdump"
	"github.com/devgianlu/go-ncmdump/metadata"
)

func writeMp3(path string, rec *metadata.Record, cover []byte) error {
	t, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("failed opening id3 tag: %w", err)
	}

	defer func() { _ = t.Close() }()

	t.SetDefaultEncoding(id3v2.EncodingUTF8)

	title, album, artists := fields(rec)
	if len(t.Title()) == 0 && len(title) > 0 {
		t.SetTitle(title)
	}
	if len(t.Album()) == 0 && len(album) > 0 {
		t.SetAlbum(album)
	}
	if len(t.Artist()) == 0 && len(artists) > 0 {
		t.SetArtist(strings.Join(artists, "/"))
	}

	if len(cover) > 0 && len(t.GetFrames(t.CommonID("Attached picture"))) == 0 {
		t.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    ncmdump.ImageMimeType(cover),
			PictureType: id3v2.PTFrontCover,
			Description: coverDescription,
			Picture:     cover,
		})
	}

	if err := t.Save(); err != nil {
		return fmt.Errorf("failed saving id3 tag: %w", err)
	}

	return nil
}
