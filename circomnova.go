// Package circomnova drives circom-compiled circuits through an external
// folding scheme. It parses the r1cs circuit definition once, then for each
// step obtains a witness from a generator, builds a step instance and folds
// it into the running accumulator, threading the public input/output chain
// from one step to the next.
package circomnova

import (
	"errors"

	"github.com/foldware/circomnova/circuit"
	"github.com/foldware/circomnova/field"
	"github.com/foldware/circomnova/folding"
	"github.com/foldware/circomnova/witnessgen"
)

// ErrFoldStep is returned when the folding scheme rejects a step instance.
var ErrFoldStep = errors.New("fold step rejected")

// PrivateInput is one step's private signals, keyed by circom signal name.
// Values must be JSON-encodable; "step_in" is reserved for the public input
// chain.
type PrivateInput map[string]any

// Driver owns a recursion run: the shared circuit definition, the field it
// is defined over, the folding scheme and the witness generator. A Driver is
// not safe for concurrent runs; each step depends on the previous step's
// public output, so the loop is strictly sequential by construction.
type Driver struct {
	def       *circuit.Definition
	fld       field.Field
	scheme    folding.Scheme
	generator witnessgen.Generator
	stepCheck bool
}

type Option func(*Driver)

// WithStepCheck makes the driver verify constraint satisfaction of every
// step witness before folding it. The scheme enforces the constraints anyway;
// this catches a broken generator earlier and with a readable error.
func WithStepCheck() Option {
	return func(d *Driver) { d.stepCheck = true }
}

func New(def *circuit.Definition, fld field.Field, scheme folding.Scheme, generator witnessgen.Generator, opts ...Option) *Driver {
	d := &Driver{def: def, fld: fld, scheme: scheme, generator: generator}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Setup derives the scheme's public parameters for this circuit.
func (d *Driver) Setup() (folding.PublicParams, error) {
	return d.scheme.Setup(d.def)
}
