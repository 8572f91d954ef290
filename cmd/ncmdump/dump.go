package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	ncmdump "github.com/devgianlu/go-ncmdump"
	"github.com/devgianlu/go-ncmdump/ncm"
	"github.com/devgianlu/go-ncmdump/tag"
)

const lockFileName = ".ncmdump.lock"

// Dumper decodes containers and writes the results next to each other in one directory.
type Dumper struct {
	log ncmdump.Logger

	outputDir string
	want      ncm.Want
	tag       bool
	overwrite bool
}

func NewDumper(log ncmdump.Logger, cfg *Config) (*Dumper, error) {
	want, err := ncm.ParseWant(cfg.Target)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.Output, 0o755); err != nil {
		return nil, fmt.Errorf("failed creating output directory: %w", err)
	}

	return &Dumper{
		log:       log,
		outputDir: cfg.Output,
		want:      want,
		tag:       cfg.Tag,
		overwrite: cfg.Overwrite,
	}, nil
}

func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// DumpFile decodes a single container. When the metadata is broken the cover is still
// written before the error is returned.
func (d *Dumper) DumpFile(path string) error {
	log := d.log.WithField("file", filepath.Base(path))

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed opening container: %w", err)
	}

	defer func() { _ = f.Close() }()

	res, decodeErr := ncm.Decode(f, d.want, ncm.WithLogger(log))
	if res == nil {
		return decodeErr
	}

	prefix := filepath.Join(d.outputDir, fileStem(path))

	lock := flock.New(filepath.Join(d.outputDir, lockFileName))
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed locking output directory: %w", err)
	}

	defer func() { _ = lock.Unlock() }()

	if res.HasImage() {
		if len(res.Image) == 0 {
			log.Infof("container has no cover art")
		} else if err := d.writeFile(prefix+".png", res.Image); err != nil {
			return err
		} else {
			log.Infof("wrote cover to %s.png", prefix)
		}
	}

	if decodeErr != nil {
		return decodeErr
	}

	if res.HasAudio() {
		audioPath := prefix + "." + res.Format
		if err := d.writeFile(audioPath, res.Audio); err != nil {
			return err
		}

		log.Infof("wrote %s audio to %s", res.Format, audioPath)

		if d.tag && tag.Supported(res.Format) {
			// the audio is already on disk, a tagging failure does not fail the dump
			if err := tag.Write(log, audioPath, res.Format, res.Metadata, res.Image); err != nil {
				log.WithError(err).Warnf("failed tagging %s", audioPath)
			}
		}
	}

	return nil
}

func (d *Dumper) writeFile(path string, data []byte) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !d.overwrite {
		flags |= os.O_EXCL
	}

	f, err := os.OpenFile(path, flags, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("output file %s already exists", path)
	} else if err != nil {
		return fmt.Errorf("failed creating output file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed writing output file: %w", err)
	}

	return f.Close()
}
