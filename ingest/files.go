package ingest

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/teranos/starmatch/errors"
	"github.com/teranos/starmatch/logger"
)

// Open opens a dump file. Files ending in .gz or .zst are decompressed
// transparently.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open dump %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, errors.Wrapf(err, "failed to read gzip header of %s", path)
		}
		return &stackedCloser{Reader: zr, closers: []io.Closer{zr, f}}, nil
	case ".zst":
		dec, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, errors.Wrapf(err, "failed to start zstd decoder for %s", path)
		}
		rc := dec.IOReadCloser()
		return &stackedCloser{Reader: rc, closers: []io.Closer{rc, f}}, nil
	default:
		return f, nil
	}
}

// stackedCloser closes a decompressor and the file under it.
type stackedCloser struct {
	io.Reader
	closers []io.Closer
}

func (s *stackedCloser) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

type loadFunc func(*Loader, context.Context, io.Reader) (Result, error)

var loaders = map[string]loadFunc{
	SourceRegions:      (*Loader).LoadRegions,
	SourceNamedSystems: (*Loader).LoadNamedSystems,
	SourceCatalogueA:   (*Loader).LoadCatalogueA,
	SourceCatalogueB:   (*Loader).LoadCatalogueB,
}

// LoadFile opens path and runs the loader for source over it.
func (l *Loader) LoadFile(ctx context.Context, source, path string) (Result, error) {
	load, ok := loaders[source]
	if !ok {
		return Result{Source: source, Path: path}, errors.NewInvalidRequestError("unknown dump source %q", source)
	}
	rc, err := Open(path)
	if err != nil {
		return Result{Source: source, Path: path}, err
	}
	defer rc.Close()
	return load(l, withPath(ctx, path), rc)
}

// Sources names the dump files for LoadAll. An empty path skips that dump.
type Sources struct {
	Regions      string
	NamedSystems string
	CatalogueA   string
	CatalogueB   string
	// RegionsOut receives the region table after catalogue A, which is
	// where most regions are learned.
	RegionsOut string
}

// LoadAll loads every configured dump in dependency order: regions, named
// systems, catalogue A, then catalogue B, which can only attach to
// catalogue A records. A dump file that does not exist is skipped with a
// warning; any other failure stops the run.
func (l *Loader) LoadAll(ctx context.Context, src Sources) ([]Result, error) {
	var results []Result
	step := func(source, path string) error {
		if path == "" {
			return nil
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			l.log.Warnw("Dump not found, skipping",
				logger.FieldOperation, source,
				logger.FieldPath, path)
			return nil
		}
		res, err := l.LoadFile(ctx, source, path)
		if err != nil {
			return err
		}
		results = append(results, res)
		return nil
	}

	if err := step(SourceRegions, src.Regions); err != nil {
		return results, err
	}
	if err := step(SourceNamedSystems, src.NamedSystems); err != nil {
		return results, err
	}
	if err := step(SourceCatalogueA, src.CatalogueA); err != nil {
		return results, err
	}
	if src.RegionsOut != "" {
		if err := l.reg.SaveRegionsFile(src.RegionsOut); err != nil {
			return results, err
		}
		l.log.Infow("Saved region table",
			logger.FieldPath, src.RegionsOut,
			logger.FieldCount, l.reg.Stats().Regions)
	}
	if err := step(SourceCatalogueB, src.CatalogueB); err != nil {
		return results, err
	}
	return results, nil
}
