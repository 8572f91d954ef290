package tag

import (
	"fmt"

	ncmdump "github.com/devgianlu/go-ncmdump"
	"github.com/devgianlu/go-ncmdump/metadata"
	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"
)

func writeFlac(log ncmdump.Logger, path string, rec *metadata.Record, cover []byte) error {
	f, err := flac.ParseFile(path)
	if err != nil {
		return fmt.Errorf("failed parsing flac: %w", err)
	}

	var cmtBlock *flac.MetaDataBlock
	hasPicture := false
	for _, m := range f.Meta {
		switch m.Type {
		case flac.VorbisComment:
			cmtBlock = m
		case flac.Picture:
			hasPicture = true
		}
	}

	var cmts *flacvorbis.MetaDataBlockVorbisComment
	if cmtBlock != nil {
		cmts, err = flacvorbis.ParseFromMetaDataBlock(*cmtBlock)
		if err != nil {
			return fmt.Errorf("failed parsing vorbis comment: %w", err)
		}
	} else {
		cmts = flacvorbis.New()
	}

	title, album, artists := fields(rec)
	if err := addComment(cmts, flacvorbis.FIELD_TITLE, title); err != nil {
		return err
	}
	if err := addComment(cmts, flacvorbis.FIELD_ALBUM, album); err != nil {
		return err
	}
	if err := addComment(cmts, flacvorbis.FIELD_ARTIST, artists...); err != nil {
		return err
	}

	res := cmts.Marshal()
	if cmtBlock != nil {
		*cmtBlock = res
	} else {
		f.Meta = append(f.Meta, &res)
	}

	if len(cover) > 0 && !hasPicture {
		pic, err := flacpicture.NewFromImageData(flacpicture.PictureTypeFrontCover, coverDescription, cover, ncmdump.ImageMimeType(cover))
		if err != nil {
			// an undecodable cover should not prevent tagging the rest
			log.WithError(err).Warnf("not embedding cover into %s", path)
		} else {
			picBlock := pic.Marshal()
			f.Meta = append(f.Meta, &picBlock)
		}
	}

	if err := f.Save(path); err != nil {
		return fmt.Errorf("failed saving flac: %w", err)
	}

	return nil
}

// addComment sets field to values unless the file already has it.
func addComment(cmts *flacvorbis.MetaDataBlockVorbisComment, field string, values ...string) error {
	existing, err := cmts.Get(field)
	if err != nil {
		return fmt.Errorf("failed reading %s comment: %w", field, err)
	} else if len(existing) > 0 {
		return nil
	}

	for _, v := range values {
		if len(v) == 0 {
			continue
		}

		if err := cmts.Add(field, v); err != nil {
			return fmt.Errorf("failed adding %s comment: %w", field, err)
		}
	}

	return nil
}
