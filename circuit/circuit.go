// Package circuit holds the in-memory form of a parsed circom constraint
// system and the per-step instances built from it. A Definition is parsed
// once and shared read-only across all steps of a recursion; a CircomCircuit
// pairs it with the witness of a single step.
package circuit

import (
	"fmt"

	"github.com/consensys/gnark/constraint"

	"github.com/foldware/circomnova/field"
)

// Term is one (wire, coefficient) entry of a sparse linear combination.
type Term struct {
	WireID uint32
	Coeff  constraint.Element
}

type LinearCombination []Term

// Constraint is one R1CS row, A·z ∘ B·z = C·z over the wire vector z.
type Constraint struct {
	A LinearCombination
	B LinearCombination
	C LinearCombination
}

// Definition is a full constraint system. Wire 0 is the constant-one wire;
// wires [1, NumInputs) are the public outputs followed by the public inputs,
// the remaining NumAux wires are private.
type Definition struct {
	NumAux        int
	NumInputs     int
	NumVariables  int
	NumPubOutputs int
	Constraints   []Constraint
}

// CircomCircuit is one step instance: the shared definition plus the witness
// generated for that step.
type CircomCircuit struct {
	Def     *Definition
	Witness []constraint.Element
}

// New pairs a definition with a step witness. The witness must assign every
// wire exactly once.
func New(def *Definition, witness []constraint.Element) (*CircomCircuit, error) {
	if len(witness) != def.NumVariables {
		return nil, fmt.Errorf("witness length %d does not match %d circuit variables", len(witness), def.NumVariables)
	}
	return &CircomCircuit{Def: def, Witness: witness}, nil
}

// PublicOutputs returns the step's output wires in wire order. They directly
// follow the constant-one wire in the witness layout.
func (c *CircomCircuit) PublicOutputs() []constraint.Element {
	out := make([]constraint.Element, c.Def.NumPubOutputs)
	copy(out, c.Witness[1:1+c.Def.NumPubOutputs])
	return out
}

func (lc LinearCombination) eval(f field.Field, z []constraint.Element) (constraint.Element, error) {
	var acc constraint.Element
	for _, t := range lc {
		if int(t.WireID) >= len(z) {
			return acc, fmt.Errorf("wire %d out of range for %d variables", t.WireID, len(z))
		}
		acc = f.Add(acc, f.Mul(t.Coeff, z[t.WireID]))
	}
	return acc, nil
}

// Check evaluates every constraint row over the step witness and reports the
// first unsatisfied one.
func (c *CircomCircuit) Check(f field.Field) error {
	for i, cs := range c.Def.Constraints {
		a, err := cs.A.eval(f, c.Witness)
		if err != nil {
			return fmt.Errorf("constraint %d: %w", i, err)
		}
		b, err := cs.B.eval(f, c.Witness)
		if err != nil {
			return fmt.Errorf("constraint %d: %w", i, err)
		}
		o, err := cs.C.eval(f, c.Witness)
		if err != nil {
			return fmt.Errorf("constraint %d: %w", i, err)
		}
		if f.Mul(a, b) != o {
			return fmt.Errorf("unsatisfied constraint %d: %s * %s != %s", i, f.String(a), f.String(b), f.String(o))
		}
	}
	return nil
}
