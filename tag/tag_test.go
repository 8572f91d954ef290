package tag_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2/v2"
	dtag "github.com/dhowden/tag"
	ncmdump "github.com/devgianlu/go-ncmdump"
	"github.com/devgianlu/go-ncmdump/metadata"
	"github.com/devgianlu/go-ncmdump/tag"
	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var logger = &ncmdump.NullLogger{}

func testRecord(t *testing.T) *metadata.Record {
	rec, err := metadata.Parse([]byte(`{"musicName":"Song","album":"Album","artist":[["A",1],["B",2]],"format":"mp3"}`))
	require.NoError(t, err)
	return rec
}

func testCover(t *testing.T) []byte {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func writeTemp(t *testing.T, name string, data []byte) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestSupported(t *testing.T) {
	assert.True(t, tag.Supported("mp3"))
	assert.True(t, tag.Supported("FLAC"))
	assert.False(t, tag.Supported("ogg"))
}

func TestWriteMp3(t *testing.T) {
	cover := testCover(t)
	path := writeTemp(t, "song.mp3", []byte{0xff, 0xfb, 0x90, 0x00, 0x00, 0x00})

	require.NoError(t, tag.Write(logger, path, "mp3", testRecord(t), cover))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	m, err := dtag.ReadFrom(f)
	require.NoError(t, err)
	assert.Equal(t, "Song", m.Title())
	assert.Equal(t, "Album", m.Album())
	assert.Equal(t, "A/B", m.Artist())
	require.NotNil(t, m.Picture())
	assert.Equal(t, "image/png", m.Picture().MIMEType)
	assert.Equal(t, cover, m.Picture().Data)
}

func TestWriteMp3KeepsExistingValues(t *testing.T) {
	path := writeTemp(t, "song.mp3", []byte{0xff, 0xfb, 0x90, 0x00})

	existing, err := id3v2.Open(path, id3v2.Options{Parse: true})
	require.NoError(t, err)
	existing.SetDefaultEncoding(id3v2.EncodingUTF8)
	existing.SetTitle("Original")
	require.NoError(t, existing.Save())
	require.NoError(t, existing.Close())

	require.NoError(t, tag.Write(logger, path, "mp3", testRecord(t), nil))

	got, err := id3v2.Open(path, id3v2.Options{Parse: true})
	require.NoError(t, err)
	defer func() { _ = got.Close() }()

	assert.Equal(t, "Original", got.Title())
	assert.Equal(t, "Album", got.Album())
}

func minimalFlac() []byte {
	var buf bytes.Buffer
	buf.WriteString("fLaC")
	// last block, STREAMINFO, 34 bytes long
	buf.Write([]byte{0x80, 0x00, 0x00, 0x22})
	buf.Write(make([]byte, 34))
	buf.Write([]byte{0xff, 0xf8, 0x00, 0x00})
	return buf.Bytes()
}

func TestWriteFlac(t *testing.T) {
	path := writeTemp(t, "song.flac", minimalFlac())

	require.NoError(t, tag.Write(logger, path, "flac", testRecord(t), testCover(t)))

	f, err := flac.ParseFile(path)
	require.NoError(t, err)

	var cmts *flacvorbis.MetaDataBlockVorbisComment
	hasPicture := false
	for _, m := range f.Meta {
		switch m.Type {
		case flac.VorbisComment:
			cmts, err = flacvorbis.ParseFromMetaDataBlock(*m)
			require.NoError(t, err)
		case flac.Picture:
			hasPicture = true
		}
	}

	require.NotNil(t, cmts)
	assert.True(t, hasPicture)

	titles, err := cmts.Get(flacvorbis.FIELD_TITLE)
	require.NoError(t, err)
	assert.Equal(t, []string{"Song"}, titles)

	artists, err := cmts.Get(flacvorbis.FIELD_ARTIST)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, artists)
}

func TestWriteFlacInvalidFile(t *testing.T) {
	path := writeTemp(t, "song.flac", []byte("definitely not flac"))
	assert.Error(t, tag.Write(logger, path, "flac", testRecord(t), nil))
}

func TestWriteUnsupportedFormat(t *testing.T) {
	data := []byte("OggS not touched")
	path := writeTemp(t, "song.ogg", data)

	require.NoError(t, tag.Write(logger, path, "ogg", testRecord(t), nil))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}
