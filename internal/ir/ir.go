package ir

import "bfrs/token"

// ir.go is the package's top-level entry point: build the IR from a token
// stream, run the optimizer pipeline, and hand back a validated Program —
// the single call site CLI and LSP driver code needs, so neither has to
// know about Builder/Pipeline/Validate individually.

// Compile builds stream into IR and runs the standard optimizer pipeline to
// fixpoint, returning an InternalInvariant error (spec.md §7) if any pass
// leaves the IR in a state that violates spec.md §3's invariants.
func Compile(stream token.Stream) (*Program, error) {
	return CompileWithPipeline(stream, NewPipeline())
}

// CompileWithPipeline is Compile with caller-supplied pass configuration —
// used by the CLI's -no-peel/-no-affine/-no-copyprop debug flags
// (SPEC_FULL.md §A) and directly by tests that want to exercise one pass in
// isolation.
func CompileWithPipeline(stream token.Stream, pipeline *Pipeline) (*Program, error) {
	program := NewBuilder().Build(stream)
	if err := Validate(program); err != nil {
		return nil, err
	}
	if err := pipeline.Run(program); err != nil {
		return nil, err
	}
	return program, nil
}
