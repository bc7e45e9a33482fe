package tuple

import (
	"errors"
	"fmt"

	"go-hep.org/x/hep/groot"
	"go-hep.org/x/hep/groot/rhist"
	"go-hep.org/x/hep/groot/rtree"
	"go-hep.org/x/hep/hbook"
)

// File is a ROOT file holding tuples as trees of float64 branches, plus
// histograms.
type File struct {
	f      *groot.File
	tuples []*Tuple
	closed bool
}

func Create(path string) (*File, error) {
	f, err := groot.Create(path)
	if err != nil {
		return nil, fmt.Errorf("tuple: %w", err)
	}
	return &File{f: f}, nil
}

// Attach creates a tree for t. Every later Commit of t writes one entry.
func (f *File) Attach(t *Tuple) error {
	if err := t.canAttach(); err != nil {
		return err
	}

	wvars := make([]rtree.WriteVar, len(t.vars))
	for i, name := range t.vars {
		wvars[i] = rtree.WriteVar{Name: name, Value: &t.values[i]}
	}

	w, err := rtree.NewWriter(f.f, t.name, wvars, rtree.WithTitle(t.title))
	if err != nil {
		return fmt.Errorf("tuple: creating tree %s: %w", t.name, err)
	}
	t.w = w
	f.tuples = append(f.tuples, t)
	return nil
}

func (f *File) PutH1D(name, title string, h *hbook.H1D) error {
	h.Annotation()["name"] = name
	h.Annotation()["title"] = title
	if err := f.f.Put(name, rhist.NewH1DFrom(h)); err != nil {
		return fmt.Errorf("tuple: storing %s: %w", name, err)
	}
	return nil
}

func (f *File) PutH2D(name, title string, h *hbook.H2D) error {
	h.Annotation()["name"] = name
	h.Annotation()["title"] = title
	if err := f.f.Put(name, rhist.NewH2DFrom(h)); err != nil {
		return fmt.Errorf("tuple: storing %s: %w", name, err)
	}
	return nil
}

// Close flushes and closes every attached tree, then the file. Later
// calls do nothing.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true

	var errs []error
	for _, t := range f.tuples {
		if err := t.close(); err != nil {
			errs = append(errs, fmt.Errorf("tuple: closing %s: %w", t.name, err))
		}
	}
	if err := f.f.Close(); err != nil {
		errs = append(errs, fmt.Errorf("tuple: %w", err))
	}
	return errors.Join(errs...)
}
