package warp

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Operation is the single stateful warp object described in spec.md
// §2: it owns a validated Options after Initialize, and exposes
// ChunkAndWarp against that configuration (the region and buffer
// executors, warpRegion and warpRegionToBuffer, are unexported).
//
// An Operation is not safe for concurrent use; §5 states that
// concurrent invocation with Initialize/Wipe is undefined.
type Operation struct {
	opts   *Options
	kernel Kernel
	log    zerolog.Logger

	// progressBase/progressScale implement the §3/§9 progress
	// composition: the kernel's local [0,1] progress is remapped to
	// [progressBase, progressBase+progressScale] globally.
	progressBase  float64
	progressScale float64
}

// NewOperation returns an Operation bound to the given low-level warp
// kernel collaborator (§1(c), §6). Initialize must still be called
// before ChunkAndWarp.
func NewOperation(kernel Kernel) *Operation {
	return &Operation{
		kernel:        kernel,
		log:           zerolog.Nop(),
		progressBase:  0.0,
		progressScale: 1.0,
	}
}

// SetLogger installs a structured logger used for the §4.2 step-4
// debug message and other diagnostics. The zero value (unset) is a
// no-op logger.
func (op *Operation) SetLogger(l zerolog.Logger) {
	op.log = l
}

// Initialize deep-clones newOptions, applies defaults, validates the
// result, and — only on success — installs it as the Operation's
// active options (§4.1). Re-initialization discards any prior
// options, even when the new options fail validation.
func (op *Operation) Initialize(newOptions *Options) error {
	cloned := newOptions.clone()
	cloned.applyDefaults()
	if err := cloned.validate(); err != nil {
		op.opts = nil
		op.log.Debug().Err(err).Msg("warp options validation failed")
		return err
	}
	op.opts = cloned
	op.progressBase = 0.0
	op.progressScale = 1.0
	return nil
}

// Wipe discards the Operation's owned options. It is idempotent.
func (op *Operation) Wipe() {
	op.opts = nil
}

// Options returns the Operation's current validated options, or nil
// if none are installed.
func (op *Operation) Options() *Options {
	return op.opts
}

// requireOptions returns the active options or a ConfigInvalid error
// if Initialize has not (successfully) been called.
func (op *Operation) requireOptions() (*Options, error) {
	if op.opts == nil {
		return nil, newErr(ConfigInvalid, nil, "operation has no initialized options")
	}
	return op.opts, nil
}

// newCallID returns a short correlation ID used to group the log
// lines emitted by a single top-level ChunkAndWarp call tree.
func newCallID() string {
	return uuid.NewString()
}
