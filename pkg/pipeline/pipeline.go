// Package pipeline runs a complete declutter over a diagram snapshot.
//
// The CLI and the HTTP server both go through [Runner.Execute], so they share
// validation, caching and instrumentation:
//
//  1. Validate: check options and apply defaults
//  2. Cache lookup: key on the canonical snapshot hash and the options
//  3. Separate: spread horizontal segments, then vertical ones
//  4. Corners: optionally remove small detours
//  5. Cache store
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, snapshot, pipeline.Options{Corners: true})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	io.WriteJSON(result.Diagram, os.Stdout)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/wiresep/pkg/cache"
	"github.com/matzehuels/wiresep/pkg/corner"
	"github.com/matzehuels/wiresep/pkg/declutter"
	"github.com/matzehuels/wiresep/pkg/diagram"
)

// DefaultCacheTTL is how long results stay cached when no TTL is given.
const DefaultCacheTTL = 24 * time.Hour

// =============================================================================
// Options
// =============================================================================

// Options configures a pipeline run.
type Options struct {
	// Declutter configures segment separation. The zero value means
	// declutter.DefaultOptions().
	Declutter declutter.Options `json:"declutter"`

	// Corners enables the corner-removal pass after separation.
	Corners       bool    `json:"corners,omitempty"`
	MaxCornerSize float64 `json:"max_corner_size,omitempty"`

	// Refresh skips the cache lookup but still stores the result.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	CacheTTL time.Duration `json:"-"`
	Logger   *log.Logger   `json:"-"`

	validated bool
}

// ValidateAndSetDefaults applies defaults and checks the options.
// Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Declutter == (declutter.Options{}) {
		o.Declutter = declutter.DefaultOptions()
	}
	if err := o.Declutter.Validate(); err != nil {
		return err
	}
	if o.MaxCornerSize == 0 {
		o.MaxCornerSize = corner.DefaultMaxCornerSize
	}
	if o.Corners {
		if err := o.CornerOptions().Validate(); err != nil {
			return err
		}
	}
	if o.CacheTTL == 0 {
		o.CacheTTL = DefaultCacheTTL
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// CornerOptions returns the corner package options.
func (o *Options) CornerOptions() corner.Options {
	return corner.Options{MaxCornerSize: o.MaxCornerSize}
}

// KeyOpts returns the cache key options for a run.
func (o *Options) KeyOpts() cache.DeclutterKeyOpts {
	k := cache.DeclutterKeyOpts{
		MaxSegmentSeparation: o.Declutter.MaxSegmentSeparation,
		MinNubLength:         o.Declutter.MinNubLength,
		Corners:              o.Corners,
	}
	if o.Corners {
		k.MaxCornerSize = o.MaxCornerSize
	}
	return k
}

// =============================================================================
// Result
// =============================================================================

// Result is the outcome of a pipeline run.
type Result struct {
	// Diagram is the decluttered snapshot. Symbols are passed through.
	Diagram diagram.Diagram

	// SnapshotHash is the hash of the input's canonical encoding.
	SnapshotHash string

	Stats    Stats
	CacheHit bool

	// Warnings lists ports whose nub runs along the symbol edge instead of
	// leaving it.
	Warnings []diagram.PortMismatch
}

// Stats contains pass statistics and timing.
type Stats struct {
	Horizontal declutter.AxisStats `json:"horizontal"`
	Vertical   declutter.AxisStats `json:"vertical"`
	Corners    int                 `json:"corners"`
	Duration   time.Duration       `json:"duration_ns"`
}
