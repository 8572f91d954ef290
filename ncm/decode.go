package ncm

import (
	"bytes"
	"fmt"
	"io"
	"time"

	ncmdump "github.com/devgianlu/go-ncmdump"
	"github.com/devgianlu/go-ncmdump/audio"
	"github.com/devgianlu/go-ncmdump/container"
	"github.com/devgianlu/go-ncmdump/metadata"
)

// Result holds what Decode recovered. Fields not requested through Want are left empty.
type Result struct {
	Image    []byte
	Audio    []byte
	Format   string
	Metadata *metadata.Record

	// CRC is the unverified checksum stored ahead of the image.
	CRC uint32
}

func (r *Result) HasImage() bool { return r != nil && r.Image != nil }
func (r *Result) HasAudio() bool { return r != nil && r.Audio != nil }

type Option func(*decoder)

func WithLogger(log ncmdump.Logger) Option {
	return func(d *decoder) {
		d.log = log
	}
}

type decoder struct {
	log   ncmdump.Logger
	want  Want
	stage Stage
}

func (d *decoder) advance(s Stage) {
	d.stage = s
	d.log.Tracef("reached stage %s", s)
}

func (d *decoder) fail(s Stage, err error) *DecodeError {
	d.log.WithError(err).Debugf("failed decoding %s", s)
	return &DecodeError{Stage: s, Err: err}
}

// Decode runs the whole pipeline over a single container.
//
// Header, key and container layout failures abort everything. Metadata failures only abort
// the audio branch: with WantAll the image is still returned together with the error.
func Decode(r io.Reader, want Want, opts ...Option) (*Result, error) {
	d := &decoder{log: &ncmdump.NullLogger{}, want: want, stage: StageStart}
	for _, opt := range opts {
		opt(d)
	}

	d.log = d.log.WithField("target", want.String())
	return d.run(r)
}

// DecodeBytes is Decode over an in-memory container.
func DecodeBytes(b []byte, want Want, opts ...Option) (*Result, error) {
	return Decode(bytes.NewReader(b), want, opts...)
}

func (d *decoder) run(r io.Reader) (*Result, error) {
	switch d.want {
	case WantAll, WantAudio, WantImage:
	default:
		return nil, fmt.Errorf("unknown decode target: %s", d.want)
	}

	cr, err := container.Open(r)
	if err != nil {
		return nil, d.fail(StageHeaderValidated, err)
	}

	d.advance(StageHeaderValidated)

	// two reserved bytes after the magic
	if err := cr.Skip(2); err != nil {
		return nil, d.fail(StageKeyDerived, err)
	}

	keySection, err := cr.ReadSection()
	if err != nil {
		return nil, d.fail(StageKeyDerived, fmt.Errorf("failed reading key section: %w", err))
	}

	box, err := deriveKeyBox(keySection)
	if err != nil {
		return nil, d.fail(StageKeyDerived, err)
	}

	d.advance(StageKeyDerived)

	metaSection, err := cr.ReadSection()
	if err != nil {
		return nil, d.fail(StageMetadataParsed, fmt.Errorf("failed reading metadata section: %w", err))
	}

	res := &Result{}

	// the audio branch cannot go on without knowing the output format
	var audioErr *DecodeError
	if d.want.audio() {
		res.Metadata, err = metadata.Decode(metaSection)
		if err == nil {
			res.Format, err = res.Metadata.AudioFormat()
		}

		if err != nil {
			audioErr = d.fail(StageMetadataParsed, err)
			if !d.want.image() {
				return nil, audioErr
			}
		} else {
			d.advance(StageMetadataParsed)
		}
	}

	img, err := cr.ExtractImage()
	if err != nil {
		return nil, d.fail(StageImageExtracted, err)
	}

	res.CRC = img.CRC
	if d.want.image() {
		res.Image = img.Data
	}

	d.advance(StageImageExtracted)
	d.log.Debugf("extracted cover of %d bytes", len(img.Data))

	if audioErr != nil {
		return res, audioErr
	}

	if d.want.audio() {
		payload := &audio.MeasuredReader{
			Reader: cr.Remaining(),
			Callback: func(n int64, elapsed time.Duration) {
				d.log.Debugf("read %d bytes of audio payload in %s", n, elapsed)
			},
		}

		res.Audio, err = audio.DecodeAll(payload, box)
		if err != nil {
			return nil, d.fail(StageAudioDecoded, err)
		}

		d.advance(StageAudioDecoded)
	}

	d.advance(StageDone)
	return res, nil
}
