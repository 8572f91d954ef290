package main

import (
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// DumpAll decodes every file with at most workers decodes in flight. A failing file does not
// stop the others.
func (d *Dumper) DumpAll(files []string, workers int) error {
	var g errgroup.Group
	g.SetLimit(workers)

	var failed atomic.Int32
	for _, path := range files {
		path := path
		g.Go(func() error {
			if err := d.DumpFile(path); err != nil {
				d.log.WithField("file", path).WithError(err).Errorf("failed dumping container")
				failed.Add(1)
			}

			return nil
		})
	}

	_ = g.Wait()

	if n := failed.Load(); n > 0 {
		return fmt.Errorf("%d of %d containers failed", n, len(files))
	}

	return nil
}
