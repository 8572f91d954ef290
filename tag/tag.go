// Package tag embeds the container metadata and cover into decoded audio files.
package tag

import (
	"strings"

	ncmdump "github.com/devgianlu/go-ncmdump"
	"github.com/devgianlu/go-ncmdump/metadata"
	"golang.org/x/exp/slices"
)

const coverDescription = "Front cover"

var supportedFormats = []string{"mp3", "flac"}

// Supported reports whether Write knows how to tag files of the given format.
func Supported(format string) bool {
	return slices.Contains(supportedFormats, strings.ToLower(format))
}

// Write tags the file at path. Values already present in the file are kept. Formats that are
// not supported are left untouched.
func Write(log ncmdump.Logger, path, format string, rec *metadata.Record, cover []byte) error {
	if rec == nil && len(cover) == 0 {
		return nil
	}

	switch strings.ToLower(format) {
	case "mp3":
		return writeMp3(path, rec, cover)
	case "flac":
		return writeFlac(log, path, rec, cover)
	default:
		log.Debugf("not tagging unsupported format %s", format)
		return nil
	}
}

func fields(rec *metadata.Record) (title, album string, artists []string) {
	if rec == nil {
		return "", "", nil
	}

	return rec.MusicName, rec.Album, rec.Artists()
}
