package binfile

import (
	"fmt"
	"io"
	"os"

	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/logger"

	"github.com/foldware/circomnova/field"
)

// "wtns"
var wtnsMagic = [4]byte{0x77, 0x74, 0x6e, 0x73}

const (
	wtnsSectionHeader = 1
	wtnsSectionValues = 2

	wtnsVersion = 2
)

// WitnessFile is a fully parsed per-step witness container.
type WitnessFile struct {
	Version uint32
	Field   field.Field
	Prime   []byte // little-endian modulus bytes
	Values  []constraint.Element
}

// ReadWitness parses a witness container. Either the whole vector decodes or
// an error is returned; a partial vector is never handed out.
func ReadWitness(r io.ReadSeeker) (*WitnessFile, error) {
	c, err := openContainer(r, wtnsMagic, 1, wtnsVersion)
	if err != nil {
		return nil, err
	}
	if c.numSections != 2 {
		return nil, fmt.Errorf("%w: %d sections, want 2", ErrMalformedContainer, c.numSections)
	}

	hr, hsize, err := c.sectionReader(wtnsSectionHeader)
	if err != nil {
		return nil, err
	}
	fieldSize, err := readU32(hr)
	if err != nil {
		return nil, truncated(err, "wtns header")
	}
	if fieldSize != 32 {
		return nil, fmt.Errorf("%w: field size %d, only 32-byte fields are supported", ErrUnsupportedField, fieldSize)
	}
	if hsize != 4+uint64(fieldSize)+4 {
		return nil, fmt.Errorf("%w: wtns header section size %d, want %d", ErrMalformedContainer, hsize, 4+fieldSize+4)
	}
	prime := make([]byte, fieldSize)
	if _, err := io.ReadFull(hr, prime); err != nil {
		return nil, truncated(err, "wtns header prime")
	}
	fld, err := fieldFromPrime(prime)
	if err != nil {
		return nil, err
	}
	witnessLen, err := readU32(hr)
	if err != nil {
		return nil, truncated(err, "wtns header")
	}

	vr, vsize, err := c.sectionReader(wtnsSectionValues)
	if err != nil {
		return nil, err
	}
	if vsize != uint64(witnessLen)*uint64(fieldSize) {
		return nil, fmt.Errorf("%w: witness section size %d, want %d values of %d bytes", ErrTruncatedSection, vsize, witnessLen, fieldSize)
	}
	values := make([]constraint.Element, witnessLen)
	buf := make([]byte, fieldSize)
	for i := uint32(0); i < witnessLen; i++ {
		if _, err := io.ReadFull(vr, buf); err != nil {
			return nil, truncated(err, "witness values")
		}
		v, err := field.DecodeElement(fld, buf)
		if err != nil {
			return nil, fmt.Errorf("%w: witness value %d: %v", ErrUnsupportedField, i, err)
		}
		values[i] = v
	}

	log := logger.Logger()
	log.Debug().Uint32("witnessLen", witnessLen).Msg("parsed wtns container")

	return &WitnessFile{Version: c.version, Field: fld, Prime: prime, Values: values}, nil
}

// LoadWitness parses the witness container at path.
func LoadWitness(path string) (*WitnessFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadWitness(f)
}

// WriteWitness emits a version-2 witness container holding values over f.
func WriteWitness(w io.Writer, f field.Field, values []constraint.Element) error {
	o := &OutputBuf{}
	o.AppendBytes(wtnsMagic[:])
	o.AppendUint32(wtnsVersion)
	o.AppendUint32(2)

	o.AppendUint32(wtnsSectionHeader)
	o.AppendUint64(uint64(4 + f.SerializedLen() + 4))
	o.AppendUint32(uint32(f.SerializedLen()))
	o.AppendBytes(field.EncodeModulus(f))
	o.AppendUint32(uint32(len(values)))

	o.AppendUint32(wtnsSectionValues)
	o.AppendUint64(uint64(len(values)) * uint64(f.SerializedLen()))
	for _, v := range values {
		o.AppendFieldElement(f, v)
	}

	_, err := w.Write(o.Bytes())
	return err
}
