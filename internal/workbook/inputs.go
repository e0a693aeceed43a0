package workbook

import (
	"context"
	"errors"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/extblend/internal/core"
)

// Source is one uploaded file waiting to be decoded.
type Source struct {
	Kind    core.DatasetKind
	Name    string
	Open    func() (io.ReadCloser, error)
	Options LoadOptions
}

// LoadInputs decodes sources in parallel. Kinds without a source stay nil
// in the result so the run reports them as missing. Every failure is
// returned, joined, in source order.
func LoadInputs(ctx context.Context, sources []Source) (core.Inputs, error) {
	tables := make([]*core.Table, len(sources))
	errs := make([]error, len(sources))

	var g errgroup.Group
	for i, src := range sources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			rc, err := src.Open()
			if err != nil {
				errs[i] = fmt.Errorf("%s: open: %w", src.Name, err)
				return nil
			}
			defer rc.Close()
			tables[i], errs[i] = LoadReader(src.Name, rc, src.Options)
			return nil
		})
	}
	_ = g.Wait()

	var in core.Inputs
	for i, src := range sources {
		if tables[i] != nil {
			in.Set(src.Kind, tables[i])
		}
	}
	return in, errors.Join(errs...)
}
