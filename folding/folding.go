// Package folding declares the operation contract this module consumes from
// an incremental-proving library. The accumulator construction, polynomial
// commitments and curve arithmetic all live behind these interfaces; nothing
// in this module implements them.
package folding

import (
	"github.com/consensys/gnark/constraint"

	"github.com/foldware/circomnova/circuit"
)

// StepCircuit is a single step instance ready to be folded.
type StepCircuit interface {
	// PublicOutputs returns the step's output wires in wire order.
	PublicOutputs() []constraint.Element
}

// PublicParams is the scheme's setup output, opaque to this module.
type PublicParams interface{}

// Accumulator is the scheme's running proof state. It is owned by a single
// driver run, mutated in place by successive fold operations and never read
// concurrently.
type Accumulator interface{}

// Scheme is the narrow surface of the folding library.
type Scheme interface {
	// Setup derives public parameters from the constraint system.
	Setup(def *circuit.Definition) (PublicParams, error)

	// New seeds an accumulator from the first step instance and the
	// initial public input z0.
	New(pp PublicParams, first StepCircuit, z0 []constraint.Element) (Accumulator, error)

	// ProveStep folds one step instance into the accumulator.
	ProveStep(pp PublicParams, acc Accumulator, step StepCircuit) error

	// Verify checks that acc folds exactly numSteps instances starting
	// from z0 and returns the final public output. Pass-through to the
	// library; callers use it after a completed run.
	Verify(pp PublicParams, acc Accumulator, numSteps int, z0 []constraint.Element) ([]constraint.Element, error)
}
