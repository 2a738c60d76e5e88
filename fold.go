package circomnova

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/logger"

	"github.com/foldware/circomnova/binfile"
	"github.com/foldware/circomnova/circuit"
	"github.com/foldware/circomnova/folding"
)

// foldRun is the per-run state shared by the fresh-run and continuation
// entry points. The per-step transition lives here exactly once.
type foldRun struct {
	d        *Driver
	pp       folding.PublicParams
	acc      folding.Accumulator
	chain    []constraint.Element
	wtnsPath string
}

// Fold runs a fresh recursion over privateInputs, seeding the accumulator
// from step 0's instance and the initial public input z0. On any failure the
// run aborts and no accumulator is returned.
func (d *Driver) Fold(pp folding.PublicParams, privateInputs []PrivateInput, z0 []constraint.Element) (folding.Accumulator, error) {
	if len(privateInputs) == 0 {
		return nil, fmt.Errorf("no step inputs")
	}
	run, cleanup, err := d.newRun(pp, z0)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	c0, err := run.stepCircuit(privateInputs[0])
	if err != nil {
		return nil, fmt.Errorf("seeding step: %w", err)
	}
	acc, err := d.scheme.New(pp, c0, z0)
	if err != nil {
		return nil, fmt.Errorf("seeding accumulator: %w", err)
	}
	run.acc = acc

	if err := run.steps(privateInputs); err != nil {
		return nil, err
	}
	return run.acc, nil
}

// Resume extends a previously produced accumulator with more steps.
// lastOutput is the public output of the last step already folded; it seeds
// the chain exactly as z0 does on a fresh run. The accumulator is mutated in
// place by the scheme.
func (d *Driver) Resume(pp folding.PublicParams, acc folding.Accumulator, lastOutput []constraint.Element, privateInputs []PrivateInput) error {
	run, cleanup, err := d.newRun(pp, lastOutput)
	if err != nil {
		return err
	}
	defer cleanup()

	run.acc = acc
	return run.steps(privateInputs)
}

// newRun allocates a unique scratch witness path for the run. The returned
// cleanup removes it on every exit path.
func (d *Driver) newRun(pp folding.PublicParams, chain []constraint.Element) (*foldRun, func(), error) {
	f, err := os.CreateTemp("", "circom_witness_*.wtns")
	if err != nil {
		return nil, nil, err
	}
	path := f.Name()
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, nil, err
	}
	run := &foldRun{
		d:        d,
		pp:       pp,
		chain:    append([]constraint.Element(nil), chain...),
		wtnsPath: path,
	}
	return run, func() { os.Remove(path) }, nil
}

// steps applies the per-step transition once per input, in input order.
// Step i+1's witness is a function of step i's public output, so the loop
// must not be reordered or parallelized.
func (r *foldRun) steps(privateInputs []PrivateInput) error {
	log := logger.Logger()
	for i, priv := range privateInputs {
		c, err := r.stepCircuit(priv)
		if err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		out := c.PublicOutputs()
		if err := r.d.scheme.ProveStep(r.pp, r.acc, c); err != nil {
			return fmt.Errorf("step %d: %w: %v", i, ErrFoldStep, err)
		}
		r.chain = out
		log.Debug().Int("step", i).Msg("folded step instance")
	}
	return nil
}

// stepCircuit runs one witness acquisition: interchange document in,
// parsed and validated step instance out.
func (r *foldRun) stepCircuit(priv PrivateInput) (*circuit.CircomCircuit, error) {
	doc, err := r.inputDocument(priv)
	if err != nil {
		return nil, err
	}
	if err := r.d.generator.Generate(doc, r.wtnsPath); err != nil {
		return nil, err
	}
	wf, err := binfile.LoadWitness(r.wtnsPath)
	if err != nil {
		return nil, err
	}
	if wf.Field.Field().Cmp(r.d.fld.Field()) != 0 {
		return nil, fmt.Errorf("witness field %s does not match circuit field %s", wf.Field.Field(), r.d.fld.Field())
	}
	c, err := circuit.New(r.d.def, wf.Values)
	if err != nil {
		return nil, err
	}
	if r.d.stepCheck {
		if err := c.Check(r.d.fld); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// inputDocument serializes the current public input chain as decimal strings
// under "step_in", with the caller's private signals flattened alongside.
func (r *foldRun) inputDocument(priv PrivateInput) ([]byte, error) {
	doc := make(map[string]any, len(priv)+1)
	for k, v := range priv {
		if k == "step_in" {
			return nil, fmt.Errorf("private input key %q is reserved", k)
		}
		doc[k] = v
	}
	stepIn := make([]string, len(r.chain))
	for i, e := range r.chain {
		stepIn[i] = r.d.fld.ToBigInt(e).Text(10)
	}
	doc["step_in"] = stepIn
	return json.Marshal(doc)
}
