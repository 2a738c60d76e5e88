// Package witnessgen abstracts witness generation for one recursion step.
// The production implementation shells out to the executable circom emits
// next to the circuit; tests and embedders can inject an in-process
// generator instead.
package witnessgen

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/consensys/gnark/logger"
)

// ErrExternalProcess is returned when the generator process fails or
// produces no output file.
var ErrExternalProcess = errors.New("witness generator failed")

// Generator produces a witness container at outputPath from the interchange
// document. Implementations may run out of process.
type Generator interface {
	Generate(inputJSON []byte, outputPath string) error
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(inputJSON []byte, outputPath string) error

func (f GeneratorFunc) Generate(inputJSON []byte, outputPath string) error {
	return f(inputJSON, outputPath)
}

// Binary runs an external witness-generation executable. The contract is
// the one circom's generated binaries follow: two arguments, the input
// document path and the output witness path.
type Binary struct {
	Path string
}

func (b *Binary) Generate(inputJSON []byte, outputPath string) error {
	log := logger.Logger().With().Str("generator", b.Path).Logger()

	in, err := os.CreateTemp("", "circom_input_*.json")
	if err != nil {
		return err
	}
	defer os.Remove(in.Name())
	if _, err := in.Write(inputJSON); err != nil {
		in.Close()
		return err
	}
	if err := in.Close(); err != nil {
		return err
	}

	out, err := exec.Command(b.Path, in.Name(), outputPath).CombinedOutput()
	if len(out) > 0 {
		// operator-facing only; success is not inferred from it
		log.Info().Msg(string(out))
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExternalProcess, err)
	}
	if _, err := os.Stat(outputPath); err != nil {
		return fmt.Errorf("%w: no output file: %v", ErrExternalProcess, err)
	}
	return nil
}
