package ir

import (
	"fmt"
	"strings"

	bferrors "bfrs/internal/errors"
)

// pipeline.go implements pass sequencing (spec.md §5: "passes are run in a
// fixed order: build -> peel -> add-loop-to-mul -> copy-propagate,
// optionally iterated to fixpoint over the whole IR"). Grounded on the
// teacher's OptimizationPipeline (internal/ir/optimizations.go): a small
// named-pass interface plus a driver that prints progress as it goes,
// generalized from a flat single-pass list to the fixed three-pass order
// plus fixpoint iteration this spec requires.

// Pass is one rewrite stage. Apply reports whether it changed the program.
type Pass interface {
	Name() string
	Description() string
	Apply(p *Program) bool
}

type namedPass struct {
	name, desc string
	apply      func(p *Program) bool
}

func (n namedPass) Name() string          { return n.name }
func (n namedPass) Description() string   { return n.desc }
func (n namedPass) Apply(p *Program) bool { return n.apply(p) }

// maxFixpointRounds bounds the outer iterate-to-fixpoint loop. Each round
// that changes nothing ends the loop immediately; this cap exists only to
// guarantee termination if a future pass combination fails to converge —
// a safety net, not a semantic feature (spec.md never names a round limit).
const maxFixpointRounds = 64

// Pipeline runs the three rewrite passes in spec.md §5's fixed order,
// optionally repeating the whole sequence until none of them change
// anything. Each pass re-validates the IR it produced before the next one
// runs, so an InternalInvariant violation is attributed to the pass that
// caused it.
type Pipeline struct {
	passes  []Pass
	verbose bool
}

// NewPipeline builds the standard peel -> closed-form -> copy-propagate
// pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{
		passes: []Pass{
			namedPass{"peel", "recursive quasi-invariant loop peeling", PeelPass},
			namedPass{"closed-form", "recognizes affine loops and rewrites them to closed-form arithmetic", ClosedFormPass},
			namedPass{"copy-propagate", "substitutes known constants into dependent copies", CopyPropPass},
		},
	}
}

// SetVerbose toggles per-pass progress printing, mirroring the teacher's
// OptimizationPipeline.Run.
func (pl *Pipeline) SetVerbose(v bool) { pl.verbose = v }

// Disable removes a pass by name, for the CLI's -no-peel/-no-affine/
// -no-copyprop debug flags (SPEC_FULL.md §A).
func (pl *Pipeline) Disable(name string) {
	out := pl.passes[:0]
	for _, p := range pl.passes {
		if p.Name() != name {
			out = append(out, p)
		}
	}
	pl.passes = out
}

// Run drives the pipeline to fixpoint (spec.md §5) and returns an
// InternalInvariant error (spec.md §7) the instant any pass's output fails
// validation, naming the offending pass.
func (pl *Pipeline) Run(p *Program) error {
	for round := 0; round < maxFixpointRounds; round++ {
		if pl.verbose {
			fmt.Printf("pass round %d\n", round+1)
		}
		roundChanged := false
		for _, pass := range pl.passes {
			changed := pass.Apply(p)
			if pl.verbose {
				if changed {
					fmt.Printf("  %s: %s (changed)\n", pass.Name(), pass.Description())
				} else {
					fmt.Printf("  %s: %s (no change)\n", pass.Name(), pass.Description())
				}
			}
			if changed {
				roundChanged = true
				if err := Validate(p); err != nil {
					// Validate reports itself as the pass; name the pass that
					// just ran instead.
					if cerr, ok := err.(bferrors.CompilerError); ok {
						cerr.Message = strings.Replace(cerr.Message,
							fmt.Sprintf("pass %q", "validate"), fmt.Sprintf("pass %q", pass.Name()), 1)
						return cerr
					}
					return err
				}
			}
		}
		if !roundChanged {
			return nil
		}
	}
	return nil
}
