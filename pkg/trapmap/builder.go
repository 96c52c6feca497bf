package trapmap

import (
	"context"
	"fmt"
	"math/rand"
	"slices"
	"time"

	"github.com/0x0FACED/go-trapmap/pkg/geom"
	"github.com/0x0FACED/go-trapmap/pkg/logger"
	"go.uber.org/zap"
)

// Builder inserts segments one at a time. It is not safe for concurrent use.
type Builder struct {
	s *Structure

	// endpoint seen at each x
	xs   map[float64]geom.Point
	seen map[[2]geom.Point]struct{}

	log *logger.ZapLogger
}

// NewBuilder starts from the single trapezoid spanning boundary. A nil log
// discards records.
func NewBuilder(boundary geom.OuterBoundary, log *logger.ZapLogger) *Builder {
	if log == nil {
		log = logger.NewNop()
	}
	s := &Structure{
		boundary: boundary,
		box:      boundary.Box(),
	}
	root := s.newTrapezoid(boundary.BottomLeft, boundary.UpperRight, boundary.Top, boundary.Bottom)
	s.root = s.traps[root].leaf

	return &Builder{
		s:    s,
		xs:   make(map[float64]geom.Point),
		seen: make(map[[2]geom.Point]struct{}),
		log:  log,
	}
}

// Insert adds seg to the decomposition. On error the structure is left as it
// was before the call.
func (b *Builder) Insert(seg geom.Segment) error {
	if seg.Origin.X == seg.Destination.X {
		return fmt.Errorf("%w: %v", ErrVerticalSegment, seg)
	}
	if seg.Origin.X > seg.Destination.X {
		seg.Origin, seg.Destination = seg.Destination, seg.Origin
	}

	for _, e := range [2]geom.Point{seg.Origin, seg.Destination} {
		if !b.s.box.InteriorContains(e) {
			return fmt.Errorf("%w: endpoint %v of %v", ErrOutsideBoundary, e, seg)
		}
		if other, ok := b.xs[e.X]; ok && other != e {
			return fmt.Errorf("%w: endpoint %v shares x with %v", ErrDegenerateInput, e, other)
		}
	}
	key := [2]geom.Point{seg.Origin, seg.Destination}
	if _, ok := b.seen[key]; ok {
		return fmt.Errorf("%w: %v inserted twice", ErrDegenerateInput, seg)
	}

	crossed, err := b.s.followSegment(seg)
	if err != nil {
		return err
	}

	var shape string
	if len(crossed) == 1 {
		shape = b.s.splitSingle(crossed[0], seg)
	} else {
		shape = b.s.splitMany(crossed, seg)
	}

	b.xs[seg.Origin.X] = seg.Origin
	b.xs[seg.Destination.X] = seg.Destination
	b.seen[key] = struct{}{}
	b.s.segments = append(b.s.segments, seg)

	b.log.Debug("[t] segment inserted",
		zap.Stringer("segment", seg),
		zap.Int("crossed", len(crossed)),
		zap.String("case", shape),
	)
	return nil
}

// InsertAll inserts segs in order, checking ctx between segments.
func (b *Builder) InsertAll(ctx context.Context, segs []geom.Segment) error {
	for i, seg := range segs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := b.Insert(seg); err != nil {
			return fmt.Errorf("insert segment %d: %w", i, err)
		}
	}
	return nil
}

// Structure returns the structure built so far. Later inserts keep modifying
// it.
func (b *Builder) Structure() *Structure {
	return b.s
}

// Build inserts segs in the given order.
func Build(ctx context.Context, boundary geom.OuterBoundary, segs []geom.Segment, log *logger.ZapLogger) (*Structure, error) {
	if log == nil {
		log = logger.NewNop()
	}
	start := time.Now()
	b := NewBuilder(boundary, log)
	if err := b.InsertAll(ctx, segs); err != nil {
		return nil, err
	}

	st := b.s.Stats()
	log.Info("[t] structure built",
		zap.Int("segments", st.Segments),
		zap.Int("trapezoids", st.Trapezoids),
		zap.Int("nodes", st.Nodes),
		zap.Int("depth", st.Depth),
		zap.Duration("took", time.Since(start)),
	)
	return b.s, nil
}

// BuildShuffled inserts a random permutation of segs drawn from rnd. The
// caller's slice is not reordered.
func BuildShuffled(ctx context.Context, boundary geom.OuterBoundary, segs []geom.Segment, rnd *rand.Rand, log *logger.ZapLogger) (*Structure, error) {
	order := slices.Clone(segs)
	rnd.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	return Build(ctx, boundary, order, log)
}
