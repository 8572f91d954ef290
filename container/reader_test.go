package container_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	ncmdump "github.com/devgianlu/go-ncmdump"
	"github.com/devgianlu/go-ncmdump/container"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func section(data []byte) []byte {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(data)))
	buf.Write(data)
	return buf.Bytes()
}

func withMagic(rest ...[]byte) []byte {
	return append([]byte("CTENFDAM"), bytes.Join(rest, nil)...)
}

func TestOpenInvalidHeader(t *testing.T) {
	t.Run("exactly eight bytes", func(t *testing.T) {
		_, err := container.Open(bytes.NewReader([]byte("NOTANNCM")))
		assert.ErrorIs(t, err, ncmdump.ErrInvalidHeader)
		assert.NotErrorIs(t, err, ncmdump.ErrUnexpectedEOF)
	})

	t.Run("no read past the header", func(t *testing.T) {
		src := bytes.NewReader(append([]byte("CTENFDAN"), make([]byte, 1024)...))
		_, err := container.Open(src)
		require.ErrorIs(t, err, ncmdump.ErrInvalidHeader)
		assert.Equal(t, 1024, src.Len())
	})

	t.Run("short header", func(t *testing.T) {
		_, err := container.Open(bytes.NewReader([]byte("CTEN")))
		assert.ErrorIs(t, err, ncmdump.ErrUnexpectedEOF)
	})
}

func TestReadSection(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		want    []byte
		wantErr error
	}{
		{
			name: "valid",
			data: withMagic(section([]byte("hello"))),
			want: []byte("hello"),
		},
		{
			name: "empty",
			data: withMagic(section(nil)),
			want: []byte{},
		},
		{
			name:    "missing length",
			data:    withMagic([]byte{0x01, 0x00}),
			wantErr: ncmdump.ErrUnexpectedEOF,
		},
		{
			name:    "truncated body",
			data:    withMagic([]byte{0x10, 0x00, 0x00, 0x00}, []byte("short")),
			wantErr: ncmdump.ErrUnexpectedEOF,
		},
		{
			name:    "huge declared length",
			data:    withMagic([]byte{0xff, 0xff, 0xff, 0x7f}, make([]byte, 200*1024)),
			wantErr: ncmdump.ErrUnexpectedEOF,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := container.Open(bytes.NewReader(tt.data))
			require.NoError(t, err)

			got, err := r.ReadSection()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, int64(len(tt.data)), r.Offset())
		})
	}
}

func TestReadBytesLarge(t *testing.T) {
	payload := bytes.Repeat([]byte{0xab}, 300*1024)
	r, err := container.Open(bytes.NewReader(withMagic(section(payload))))
	require.NoError(t, err)

	got, err := r.ReadSection()
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestSkip(t *testing.T) {
	r, err := container.Open(bytes.NewReader(withMagic([]byte{1, 2, 3})))
	require.NoError(t, err)

	require.NoError(t, r.Skip(2))
	assert.Equal(t, int64(10), r.Offset())
	assert.ErrorIs(t, r.Skip(2), ncmdump.ErrUnexpectedEOF)
}

func TestExtractImage(t *testing.T) {
	crc := []byte{0xde, 0xad, 0xbe, 0xef}
	gap := []byte{1, 2, 3, 4, 5}

	t.Run("with cover", func(t *testing.T) {
		cover := []byte("\x89PNG\r\n\x1a\nimage")
		r, err := container.Open(bytes.NewReader(withMagic(crc, gap, section(cover), []byte("audio"))))
		require.NoError(t, err)

		img, err := r.ExtractImage()
		require.NoError(t, err)
		assert.Equal(t, cover, img.Data)
		assert.Equal(t, uint32(0xefbeadde), img.CRC)

		var rest bytes.Buffer
		_, err = rest.ReadFrom(r.Remaining())
		require.NoError(t, err)
		assert.Equal(t, "audio", rest.String())
	})

	t.Run("zero length", func(t *testing.T) {
		r, err := container.Open(bytes.NewReader(withMagic(crc, gap, section(nil))))
		require.NoError(t, err)

		img, err := r.ExtractImage()
		require.NoError(t, err)
		assert.NotNil(t, img.Data)
		assert.Empty(t, img.Data)
	})

	t.Run("truncated", func(t *testing.T) {
		r, err := container.Open(bytes.NewReader(withMagic(crc, gap, []byte{0x08, 0, 0, 0}, []byte("abc"))))
		require.NoError(t, err)

		_, err = r.ExtractImage()
		assert.ErrorIs(t, err, ncmdump.ErrUnexpectedEOF)
	})

	t.Run("missing gap", func(t *testing.T) {
		r, err := container.Open(bytes.NewReader(withMagic(crc, []byte{1, 2})))
		require.NoError(t, err)

		_, err = r.ExtractImage()
		assert.ErrorIs(t, err, ncmdump.ErrUnexpectedEOF)
	})
}
