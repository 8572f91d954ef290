package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/devgianlu/go-ncmdump/keybox"
)

// ChunkSize is the read size used by DecodeAll, it has no meaning in the container format.
const ChunkSize = 0x8000

// Decryptor decodes the audio payload of a container. The key byte applied to each payload
// byte depends only on its absolute offset, so both sequential and random access work.
type Decryptor struct {
	reader io.Reader
	ks     [256]byte
	pos    int64
}

func NewDecryptor(r io.Reader, box keybox.KeyBox) *Decryptor {
	return &Decryptor{reader: r, ks: box.Keystream()}
}

// Decrypt decodes buf in place, buf[0] being at payload offset off.
func (d *Decryptor) Decrypt(buf []byte, off int64) {
	base := byte(off)
	for i := range buf {
		buf[i] ^= d.ks[base+byte(i)]
	}
}

func (d *Decryptor) Read(p []byte) (n int, err error) {
	n, err = d.reader.Read(p)
	if n > 0 {
		d.Decrypt(p[:n], d.pos)
		d.pos += int64(n)
	}
	return n, err
}

// ReadAt decodes from an io.ReaderAt positioned over the payload, pos being the payload offset.
func (d *Decryptor) ReadAt(p []byte, pos int64) (n int, err error) {
	ra, ok := d.reader.(io.ReaderAt)
	if !ok {
		return 0, errors.New("audio: underlying reader does not support ReadAt")
	}

	n, err = ra.ReadAt(p, pos)
	if n > 0 {
		d.Decrypt(p[:n], pos)
	}
	return n, err
}

// DecodeAll decodes r until its end in ChunkSize reads. The output is exactly as long as the
// input.
func DecodeAll(r io.Reader, box keybox.KeyBox) ([]byte, error) {
	d := NewDecryptor(r, box)

	var out bytes.Buffer
	chunk := make([]byte, ChunkSize)
	for {
		n, err := d.Read(chunk)
		out.Write(chunk[:n])

		// a zero length read ends the payload just like EOF does
		if errors.Is(err, io.EOF) || (n == 0 && err == nil) {
			break
		} else if err != nil {
			return nil, fmt.Errorf("failed reading audio at offset %d: %w", d.pos, err)
		}
	}

	if out.Len() == 0 {
		return []byte{}, nil
	}

	return out.Bytes(), nil
}
