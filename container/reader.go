package container

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	ncmdump "github.com/devgianlu/go-ncmdump"
)

// Magic is the fixed signature every NCM container starts with.
var Magic = [8]byte{'C', 'T', 'E', 'N', 'F', 'D', 'A', 'M'}

const readBufferSize = 64 * 1024

// Reader is a forward-only cursor over a container. All integers are little-endian.
type Reader struct {
	r   *bufio.Reader
	off int64
}

// Open validates the magic header and returns a cursor positioned right after it.
func Open(r io.Reader) (*Reader, error) {
	// the header is read unbuffered, nothing past it is consumed on mismatch
	var header [len(Magic)]byte
	n, err := io.ReadFull(r, header[:])
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("%w: header is %d bytes long", ncmdump.ErrUnexpectedEOF, n)
	} else if err != nil {
		return nil, fmt.Errorf("failed reading header: %w", err)
	}

	if header != Magic {
		return nil, fmt.Errorf("%w: got %q", ncmdump.ErrInvalidHeader, header[:])
	}

	return &Reader{r: bufio.NewReaderSize(r, readBufferSize), off: int64(len(header))}, nil
}

// Offset returns the number of bytes consumed from the source, header included.
func (r *Reader) Offset() int64 {
	return r.off
}

func (r *Reader) readFull(p []byte) error {
	n, err := io.ReadFull(r.r, p)
	r.off += int64(n)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: wanted %d bytes at offset %d, got %d", ncmdump.ErrUnexpectedEOF, len(p), r.off-int64(n), n)
	} else if err != nil {
		return err
	}

	return nil
}

// Skip discards exactly n bytes.
func (r *Reader) Skip(n int) error {
	d, err := r.r.Discard(n)
	r.off += int64(d)
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: wanted to skip %d bytes at offset %d, got %d", ncmdump.ErrUnexpectedEOF, n, r.off-int64(d), d)
	} else if err != nil {
		return err
	}

	return nil
}

func (r *Reader) ReadUint32() (uint32, error) {
	var buf [4]byte
	if err := r.readFull(buf[:]); err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(buf[:]), nil
}

// ReadBytes reads exactly n bytes. The buffer grows with the data actually read so a bogus
// length does not allocate more than the source holds.
func (r *Reader) ReadBytes(n uint32) ([]byte, error) {
	if n <= readBufferSize {
		buf := make([]byte, n)
		if err := r.readFull(buf); err != nil {
			return nil, err
		}

		return buf, nil
	}

	var buf bytes.Buffer
	read, err := buf.ReadFrom(io.LimitReader(r.r, int64(n)))
	r.off += read
	if err != nil {
		return nil, err
	} else if read != int64(n) {
		return nil, fmt.Errorf("%w: wanted %d bytes at offset %d, got %d", ncmdump.ErrUnexpectedEOF, n, r.off-read, read)
	}

	return buf.Bytes(), nil
}

// ReadSection reads a 4-byte length followed by that many bytes.
func (r *Reader) ReadSection() ([]byte, error) {
	n, err := r.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("failed reading section length: %w", err)
	}

	data, err := r.ReadBytes(n)
	if err != nil {
		return nil, fmt.Errorf("failed reading section of %d bytes: %w", n, err)
	}

	return data, nil
}

// Remaining returns a reader over everything left in the container. The cursor must not be
// used for other reads afterwards.
func (r *Reader) Remaining() io.Reader {
	return r.r
}
