package engine

import (
	"fmt"

	"github.com/hailam/leiserchess/internal/board"
)

// PawnValue is the "low-res" search score unit (one pawn).
const PawnValue = 100

// EVScoreRatio converts between the evaluator's high-resolution internal
// units and the low-res score_t units the search operates on.
const EVScoreRatio = 100

// PawnEVValue is the evaluator's internal unit: one pawn, at high
// resolution.
const PawnEVValue = PawnValue * EVScoreRatio

// MaxHashMB bounds the hash option (4GB of TT, matching the reference
// engine's compile-time ceiling).
const MaxHashMB = 4096

const (
	defaultMin = -5 * PawnEVValue
	defaultMax = 5 * PawnEVValue
)

// intOption is one entry of the flat configuration registry: a name, the
// live value it controls, and the bounds a Set silently clamps to.
type intOption struct {
	Name    string
	Value   *int
	Default int
	Min     int
	Max     int
}

// Options holds every tunable knob of the engine: evaluator weights,
// search knobs, and infrastructure settings. Fields are plain ints so
// hot loops (eval, search) read them directly with no indirection; the
// registry below exists purely for the setoption/help-style discovery
// surface.
type Options struct {
	PtouchWeight    int
	PproxWeight     int
	MfaceWeight     int
	McedeWeight     int
	LcoverageWeight int
	PmidWeight      int
	MmidWeight      int
	RelqiWeight     int
	AbsqiWeight     int

	Hash int

	Draw         int
	Randomize    int
	ResetRNG     int
	LMRR1        int
	LMRR2        int
	HMB          int
	FutDepth     int
	UseNMM       int
	DetectDraws  int
	UseTT        int
	UseOB        int
	TraceMoves   int
	NMovesDraw   int

	registry []intOption
}

// NewOptions returns an Options populated with the reference defaults
// (original_source/player/options.h's iopts table), with the registry
// wired up so Set/Get/Names can address every field by name.
func NewOptions() *Options {
	o := &Options{}
	o.registry = []intOption{
		{"ptouch", &o.PtouchWeight, int(0.1029 * PawnEVValue), defaultMin, defaultMax},
		{"pprox", &o.PproxWeight, int(0.2231 * PawnEVValue), defaultMin, defaultMax},
		{"mface", &o.MfaceWeight, int(0.4186 * PawnEVValue), defaultMin, defaultMax},
		{"mcede", &o.McedeWeight, int(0.1204 * PawnEVValue), defaultMin, defaultMax},
		{"lcoverage", &o.LcoverageWeight, int(0.0175 * PawnEVValue), defaultMin, defaultMax},
		{"pmid", &o.PmidWeight, int(-0.1234 * PawnEVValue), defaultMin, defaultMax},
		{"mmid", &o.MmidWeight, int(-0.1227 * PawnEVValue), defaultMin, defaultMax},
		{"relqi", &o.RelqiWeight, int(1.2006 * PawnEVValue), defaultMin, defaultMax},
		{"absqi", &o.AbsqiWeight, int(0.0106 * PawnEVValue), defaultMin, defaultMax},
		{"hash", &o.Hash, 1040, 1, MaxHashMB},
		{"draw", &o.Draw, int(-0.0016 * PawnValue), -PawnValue, PawnValue},
		{"randomize", &o.Randomize, 0, 0, PawnEVValue},
		{"reset_rng", &o.ResetRNG, 0, 0, 1},
		{"lmr_r1", &o.LMRR1, 10, 1, board.MaxMovesPerPosition},
		{"lmr_r2", &o.LMRR2, 20, 1, board.MaxMovesPerPosition},
		{"hmb", &o.HMB, int(0.0027 * PawnValue), 0, PawnValue},
		{"fut_depth", &o.FutDepth, 3, 0, 5},
		{"use_nmm", &o.UseNMM, 1, 0, 1},
		{"detect_draws", &o.DetectDraws, 1, 0, 1},
		{"use_tt", &o.UseTT, 1, 0, 1},
		{"use_ob", &o.UseOB, 1, 0, 1},
		{"trace_moves", &o.TraceMoves, 0, 0, 1},
		{"nmoves_draw", &o.NMovesDraw, 100, 1, 1000 * 1000},
	}
	for _, opt := range o.registry {
		*opt.Value = opt.Default
	}
	return o
}

// Set clamps value into [min, max] and applies it to the named option.
// Unknown names are reported as an error; out-of-range values are
// silently clamped rather than rejected (spec §7's resource-error rule).
func (o *Options) Set(name string, value int) error {
	for _, opt := range o.registry {
		if opt.Name == name {
			if value < opt.Min {
				value = opt.Min
			} else if value > opt.Max {
				value = opt.Max
			}
			*opt.Value = value
			return nil
		}
	}
	return fmt.Errorf("engine: unknown option %q", name)
}

// Get returns the current value of the named option.
func (o *Options) Get(name string) (int, bool) {
	for _, opt := range o.registry {
		if opt.Name == name {
			return *opt.Value, true
		}
	}
	return 0, false
}

// Names returns every option name in registry order, for help text.
func (o *Options) Names() []string {
	names := make([]string, len(o.registry))
	for i, opt := range o.registry {
		names[i] = opt.Name
	}
	return names
}
