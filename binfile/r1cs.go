package binfile

import (
	"fmt"
	"io"
	"math/big"
	"os"

	"github.com/consensys/gnark/logger"

	"github.com/foldware/circomnova/circuit"
	"github.com/foldware/circomnova/field"
)

// "r1cs"
var r1csMagic = [4]byte{0x72, 0x31, 0x63, 0x73}

const (
	r1csSectionHeader      = 1
	r1csSectionConstraints = 2
	r1csSectionWireMap     = 3
)

// Header mirrors the r1cs header section.
type Header struct {
	FieldSize    uint32
	Prime        []byte // little-endian modulus bytes
	NWires       uint32
	NPubOut      uint32
	NPubIn       uint32
	NPrvIn       uint32
	NLabels      uint64
	NConstraints uint32
}

// R1CSFile is a fully parsed circuit-definition container.
type R1CSFile struct {
	Version     uint32
	Header      Header
	Field       field.Field
	Constraints []circuit.Constraint
	WireMapping []uint64
}

// ReadR1CS parses a circuit-definition container. It validates shape only;
// whether the constraints are arithmetically meaningful is not its business.
func ReadR1CS(r io.ReadSeeker) (*R1CSFile, error) {
	c, err := openContainer(r, r1csMagic, 1, 1)
	if err != nil {
		return nil, err
	}

	hr, hsize, err := c.sectionReader(r1csSectionHeader)
	if err != nil {
		return nil, err
	}
	header, fld, err := readHeader(hr, hsize)
	if err != nil {
		return nil, err
	}

	cr, _, err := c.sectionReader(r1csSectionConstraints)
	if err != nil {
		return nil, err
	}
	constraints, err := readConstraints(cr, fld, header.NConstraints)
	if err != nil {
		return nil, err
	}

	wr, wsize, err := c.sectionReader(r1csSectionWireMap)
	if err != nil {
		return nil, err
	}
	wireMapping, err := readWireMap(wr, wsize, header.NWires)
	if err != nil {
		return nil, err
	}

	log := logger.Logger()
	log.Debug().
		Uint32("nWires", header.NWires).
		Uint32("nConstraints", header.NConstraints).
		Uint32("nPubOut", header.NPubOut).
		Uint32("nPubIn", header.NPubIn).
		Msg("parsed r1cs container")

	return &R1CSFile{
		Version:     c.version,
		Header:      *header,
		Field:       fld,
		Constraints: constraints,
		WireMapping: wireMapping,
	}, nil
}

// LoadR1CS parses the circuit-definition container at path.
func LoadR1CS(path string) (*R1CSFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadR1CS(f)
}

// Definition derives the constraint system shared by all step instances.
func (f *R1CSFile) Definition() *circuit.Definition {
	numInputs := int(1 + f.Header.NPubIn + f.Header.NPubOut)
	numVariables := int(f.Header.NWires)
	return &circuit.Definition{
		NumAux:        numVariables - numInputs,
		NumInputs:     numInputs,
		NumVariables:  numVariables,
		NumPubOutputs: int(f.Header.NPubOut),
		Constraints:   f.Constraints,
	}
}

func readHeader(r io.Reader, size uint64) (*Header, field.Field, error) {
	fieldSize, err := readU32(r)
	if err != nil {
		return nil, nil, truncated(err, "r1cs header")
	}
	if fieldSize != 32 {
		return nil, nil, fmt.Errorf("%w: field size %d, only 32-byte fields are supported", ErrUnsupportedField, fieldSize)
	}
	if size != 32+uint64(fieldSize) {
		return nil, nil, fmt.Errorf("%w: header section size %d, want %d", ErrMalformedContainer, size, 32+fieldSize)
	}

	prime := make([]byte, fieldSize)
	if _, err := io.ReadFull(r, prime); err != nil {
		return nil, nil, truncated(err, "r1cs header prime")
	}
	fld, err := fieldFromPrime(prime)
	if err != nil {
		return nil, nil, err
	}

	h := &Header{FieldSize: fieldSize, Prime: prime}
	if h.NWires, err = readU32(r); err != nil {
		return nil, nil, truncated(err, "r1cs header")
	}
	if h.NPubOut, err = readU32(r); err != nil {
		return nil, nil, truncated(err, "r1cs header")
	}
	if h.NPubIn, err = readU32(r); err != nil {
		return nil, nil, truncated(err, "r1cs header")
	}
	if h.NPrvIn, err = readU32(r); err != nil {
		return nil, nil, truncated(err, "r1cs header")
	}
	if h.NLabels, err = readU64(r); err != nil {
		return nil, nil, truncated(err, "r1cs header")
	}
	if h.NConstraints, err = readU32(r); err != nil {
		return nil, nil, truncated(err, "r1cs header")
	}
	return h, fld, nil
}

func fieldFromPrime(prime []byte) (field.Field, error) {
	be := make([]byte, len(prime))
	for i := range prime {
		be[i] = prime[len(prime)-1-i]
	}
	fld, err := field.FromModulus(new(big.Int).SetBytes(be))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedField, err)
	}
	return fld, nil
}

func readLinearCombination(r *io.LimitedReader, fld field.Field) (circuit.LinearCombination, error) {
	n, err := readU32(r)
	if err != nil {
		return nil, truncated(err, "sparse vector length")
	}
	// each entry is a u32 wire index plus a serialized coefficient
	entrySize := uint64(4 + fld.SerializedLen())
	if uint64(n)*entrySize > uint64(r.N) {
		return nil, fmt.Errorf("%w: sparse vector of %d entries exceeds section", ErrTruncatedSection, n)
	}
	lc := make(circuit.LinearCombination, n)
	buf := make([]byte, fld.SerializedLen())
	for i := uint32(0); i < n; i++ {
		wire, err := readU32(r)
		if err != nil {
			return nil, truncated(err, "sparse vector entry")
		}
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, truncated(err, "sparse vector coefficient")
		}
		coeff, err := field.DecodeElement(fld, buf)
		if err != nil {
			return nil, fmt.Errorf("%w: wire %d coefficient: %v", ErrUnsupportedField, wire, err)
		}
		lc[i] = circuit.Term{WireID: wire, Coeff: coeff}
	}
	return lc, nil
}

func readConstraints(r *io.LimitedReader, fld field.Field, n uint32) ([]circuit.Constraint, error) {
	constraints := make([]circuit.Constraint, n)
	for i := uint32(0); i < n; i++ {
		var cs circuit.Constraint
		var err error
		if cs.A, err = readLinearCombination(r, fld); err != nil {
			return nil, fmt.Errorf("constraint %d: %w", i, err)
		}
		if cs.B, err = readLinearCombination(r, fld); err != nil {
			return nil, fmt.Errorf("constraint %d: %w", i, err)
		}
		if cs.C, err = readLinearCombination(r, fld); err != nil {
			return nil, fmt.Errorf("constraint %d: %w", i, err)
		}
		constraints[i] = cs
	}
	return constraints, nil
}

func readWireMap(r io.Reader, size uint64, nWires uint32) ([]uint64, error) {
	if size != uint64(nWires)*8 {
		return nil, fmt.Errorf("%w: wire map section size %d, want %d", ErrTruncatedSection, size, uint64(nWires)*8)
	}
	mapping := make([]uint64, nWires)
	for i := uint32(0); i < nWires; i++ {
		label, err := readU64(r)
		if err != nil {
			return nil, truncated(err, "wire map")
		}
		mapping[i] = label
	}
	if nWires > 0 && mapping[0] != 0 {
		return nil, fmt.Errorf("%w: wire 0 maps to label %d", ErrWireMapInvariant, mapping[0])
	}
	return mapping, nil
}
