package ingest

import (
	"context"
	"io"

	"github.com/teranos/starmatch/errors"
)

// LoadRegions adds a biased region table. The table is all or nothing: one
// bad row rejects the whole file.
func (l *Loader) LoadRegions(ctx context.Context, r io.Reader) (Result, error) {
	t := l.track(ctx, SourceRegions)
	if err := ctx.Err(); err != nil {
		return t.res, err
	}
	n, err := l.reg.LoadRegionsJSON(r)
	if err != nil {
		return t.res, errors.Wrap(err, "load regions")
	}
	t.res.Read, t.res.Loaded = n, n
	return l.finish(t), nil
}
