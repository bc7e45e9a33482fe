// Package input decodes generator-level event records from LCIO and
// proio files into mc.Event decay graphs.
package input

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/decibelcooper/fccbana/mc"
)

var ErrUnknownFormat = errors.New("input: unknown file format")

// Reader iterates over the events of one file.
type Reader interface {
	Next() bool
	Event() *mc.Event
	Err() error
	Close() error
}

type Options struct {
	// Collection is the LCIO collection holding the MC record.
	Collection string
	// Tag selects the proio entries holding the MC record.
	Tag string
}

func DefaultOptions() Options {
	return Options{Collection: "MCParticle", Tag: "Particle"}
}

// Open picks a reader from the file extension.
func Open(path string, opts Options) (Reader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".slcio", ".lcio":
		return OpenLCIO(path, opts.Collection)
	case ".proio":
		return OpenProio(path, opts.Tag)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// Stream decodes paths concurrently, at most nThreads files at a time,
// and delivers all events on a single channel. The channel is closed
// once every file is done; wait returns the first decoding error.
func Stream(ctx context.Context, paths []string, opts Options, nThreads int, logger *zap.Logger) (events <-chan *mc.Event, wait func() error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if nThreads < 1 {
		nThreads = 1
	}

	out := make(chan *mc.Event)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(nThreads)

	done := make(chan error, 1)
	go func() {
		for _, path := range paths {
			path := path
			g.Go(func() error {
				return streamFile(ctx, path, opts, out, logger)
			})
		}
		err := g.Wait()
		close(out)
		done <- err
	}()

	return out, func() error { return <-done }
}

func streamFile(ctx context.Context, path string, opts Options, out chan<- *mc.Event, logger *zap.Logger) error {
	r, err := Open(path, opts)
	if err != nil {
		return err
	}
	defer r.Close()

	n := 0
	for r.Next() {
		select {
		case out <- r.Event():
			n++
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err := r.Err(); err != nil {
		return fmt.Errorf("input: reading %s: %w", path, err)
	}

	logger.Debug("finished file", zap.String("path", path), zap.Int("events", n))
	return nil
}
