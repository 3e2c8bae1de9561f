package declutter

import (
	errs "github.com/matzehuels/wiresep/pkg/errors"
)

// SmallOffset is the length below which a segment is treated as zero and the
// distance below which two coordinates are treated as equal.
const SmallOffset = 0.0001

const (
	// DefaultMaxSegmentSeparation is the target gap between adjacent spread segments.
	DefaultMaxSegmentSeparation = 7.0

	// DefaultMinNubLength is the visible stub length below which the segment
	// after a nub extension is held in place.
	DefaultMinNubLength = 2.0
)

// Options configures a declutter pass.
type Options struct {
	// MaxSegmentSeparation is the gap between adjacent segments of a spread
	// cluster.
	MaxSegmentSeparation float64 `json:"max_segment_separation" toml:"max_segment_separation" yaml:"max_segment_separation"`

	// MinNubLength is the visible nub length below which the segment after a
	// nub extension becomes a FixedSeg barrier.
	MinNubLength float64 `json:"min_nub_length" toml:"min_nub_length" yaml:"min_nub_length"`
}

// DefaultOptions returns the editor's standard settings.
func DefaultOptions() Options {
	return Options{
		MaxSegmentSeparation: DefaultMaxSegmentSeparation,
		MinNubLength:         DefaultMinNubLength,
	}
}

// Validate checks that the options describe a usable pass.
func (o Options) Validate() error {
	if o.MaxSegmentSeparation <= 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "max segment separation must be positive, got %v", o.MaxSegmentSeparation)
	}
	if o.MinNubLength < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "min nub length cannot be negative, got %v", o.MinNubLength)
	}
	return nil
}
