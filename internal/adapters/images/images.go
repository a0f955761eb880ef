// Package images optimizes raster and vector images losslessly.
package images

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"io"
	"path"
	"runtime"
	"strings"
	"sync/atomic"

	"github.com/chensid/grunt-demo/internal/adapters/fs"
	"github.com/chensid/grunt-demo/internal/core/domain"
	"github.com/chensid/grunt-demo/internal/core/ports"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/svg"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

var (
	_ ports.Task          = (*Optimizer)(nil)
	_ ports.Fingerprinter = (*Optimizer)(nil)
)

// Optimizer re-encodes PNG files, minifies SVG files and copies every other
// image. An optimized file that ends up larger than its source is replaced by
// the source bytes.
type Optimizer struct {
	resolver ports.FileResolver
	minifier *minify.M
}

// NewOptimizer creates a new Optimizer.
func NewOptimizer(resolver ports.FileResolver) *Optimizer {
	m := minify.New()
	m.AddFunc("image/svg+xml", svg.Minify)
	return &Optimizer{resolver: resolver, minifier: m}
}

// Fingerprint lists the images and their optimized outputs.
func (o *Optimizer) Fingerprint(cfg domain.Config) (domain.Fingerprint, error) {
	pairs, err := o.resolver.Expand(cfg.Root, cfg.Images)
	if err != nil {
		return domain.Fingerprint{}, err
	}
	var fp domain.Fingerprint
	for _, pair := range pairs {
		fp.Inputs = append(fp.Inputs, pair.Src)
		fp.Outputs = append(fp.Outputs, pair.Dest)
	}
	return fp, nil
}

// Run optimizes every image concurrently.
func (o *Optimizer) Run(ctx context.Context, cfg domain.Config, out io.Writer) (domain.Config, error) {
	pairs, err := o.resolver.Expand(cfg.Root, cfg.Images)
	if err != nil {
		return cfg, err
	}

	var before, after atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, pair := range pairs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			src, err := fs.ReadFile(cfg.Root, pair.Src)
			if err != nil {
				return err
			}
			optimized, err := o.Optimize(pair.Src, src)
			if err != nil {
				return err
			}
			before.Add(int64(len(src)))
			after.Add(int64(len(optimized)))
			return fs.WriteFile(cfg.Root, pair.Dest, optimized)
		})
	}
	if err := g.Wait(); err != nil {
		return cfg, err
	}

	_, _ = fmt.Fprintf(out, "optimized %d image(s), saved %d bytes\n", len(pairs), before.Load()-after.Load())
	return cfg, nil
}

// Optimize returns the optimized content of the image called name.
func (o *Optimizer) Optimize(name string, src []byte) ([]byte, error) {
	var (
		optimized []byte
		err       error
	)
	switch strings.ToLower(path.Ext(name)) {
	case ".png":
		optimized, err = recompressPNG(src)
	case ".svg":
		optimized, err = o.minifier.Bytes("image/svg+xml", src)
	default:
		return src, nil
	}
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrImageOptimize.Error()), "file", name)
	}
	if len(optimized) >= len(src) {
		return src, nil
	}
	return optimized, nil
}

func recompressPNG(src []byte) ([]byte, error) {
	img, err := png.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
