// Package scene turns a scene config into a subdivision and its trapezoidal
// map. The CLI and the viewer share it.
package scene

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/0x0FACED/go-trapmap/pkg/config"
	"github.com/0x0FACED/go-trapmap/pkg/dcel"
	"github.com/0x0FACED/go-trapmap/pkg/generator"
	"github.com/0x0FACED/go-trapmap/pkg/geom"
	"github.com/0x0FACED/go-trapmap/pkg/logger"
	"github.com/0x0FACED/go-trapmap/pkg/trapmap"
)

type Scene struct {
	Name        string
	Subdivision *dcel.DCEL
	Segments    []geom.Segment
	Structure   *trapmap.Structure
	Elapsed     time.Duration
}

// Subdivision reads cfg.WKTFile when set and runs the configured generator
// otherwise. The returned name describes the source.
func Subdivision(ctx context.Context, cfg config.Scene, rnd *rand.Rand) (*dcel.DCEL, string, error) {
	if cfg.WKTFile != "" {
		f, err := os.Open(cfg.WKTFile)
		if err != nil {
			return nil, "", fmt.Errorf("open scene: %w", err)
		}
		defer f.Close()

		d, err := dcel.FromWKT(f)
		if err != nil {
			return nil, "", fmt.Errorf("read %s: %w", cfg.WKTFile, err)
		}
		return d, cfg.WKTFile, nil
	}

	g, err := generator.ByName(ctx, cfg.Generator, cfg.Size, rnd)
	if err != nil {
		return nil, "", err
	}
	d, err := dcel.Build(g.Points, g.Edges)
	if err != nil {
		return nil, "", fmt.Errorf("build subdivision: %w", err)
	}
	return d, fmt.Sprintf("%s(%d)", cfg.Generator, cfg.Size), nil
}

// Build loads the subdivision and inserts its edges in an order shuffled by
// cfg.Seed. The same config always yields the same structure.
func Build(ctx context.Context, cfg config.Scene, log *logger.ZapLogger) (*Scene, error) {
	if log == nil {
		log = logger.NewNop()
	}
	rnd := rand.New(rand.NewSource(cfg.Seed))

	d, name, err := Subdivision(ctx, cfg, rnd)
	if err != nil {
		return nil, err
	}
	segs, err := d.Segments()
	if err != nil {
		return nil, fmt.Errorf("subdivision edges: %w", err)
	}
	log.Info("[scene] subdivision ready",
		zap.String("scene", name),
		zap.Int("vertices", len(d.Vertices)),
		zap.Int("edges", len(segs)),
		zap.Int("faces", d.BoundedFaces()),
	)

	start := time.Now()
	s, err := trapmap.BuildShuffled(ctx, d.OuterBoundary(), segs, rnd, log)
	if err != nil {
		return nil, err
	}
	return &Scene{
		Name:        name,
		Subdivision: d,
		Segments:    segs,
		Structure:   s,
		Elapsed:     time.Since(start),
	}, nil
}
