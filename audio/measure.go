package audio

import (
	"errors"
	"io"
	"time"
)

// MeasuredReader counts the bytes read and reports them together with the time elapsed
// between the first read and EOF.
type MeasuredReader struct {
	io.Reader
	Callback func(n int64, elapsed time.Duration)

	start time.Time
	n     int64
	done  bool
}

func (r *MeasuredReader) Read(b []byte) (int, error) {
	if r.start.IsZero() {
		r.start = time.Now()
	}

	n, err := r.Reader.Read(b)
	r.n += int64(n)
	if errors.Is(err, io.EOF) && !r.done {
		r.done = true
		if r.Callback != nil {
			r.Callback(r.n, time.Since(r.start))
		}
	}

	return n, err
}
