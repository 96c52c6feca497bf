package trapmap

import (
	"errors"

	"github.com/0x0FACED/go-trapmap/pkg/geom"
)

var (
	// ErrOutsideBoundary is returned for segment endpoints that are not
	// strictly inside the outer boundary and for queries outside it.
	ErrOutsideBoundary = errors.New("point outside the outer boundary")
	ErrVerticalSegment = geom.ErrVerticalSegment
	// ErrDegenerateInput is returned when two distinct endpoints share an x
	// coordinate or a segment is inserted twice.
	ErrDegenerateInput = errors.New("input is not in general position")
	ErrCrossing        = errors.New("segment crosses the inserted subdivision")
)
