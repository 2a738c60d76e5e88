// Package field abstracts the scalar fields the circom container formats can
// carry. Elements are represented as gnark constraint.Element values; the
// per-curve subpackages wrap gnark-crypto arithmetic behind a common
// interface, and this package holds the canonical 32-byte little-endian
// codec shared by every parser.
package field

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/consensys/gnark/constraint"

	"github.com/foldware/circomnova/field/bls12381"
	"github.com/foldware/circomnova/field/bn254"
)

// ErrNonCanonical is returned when a serialized scalar is not the canonical
// representative of a field element, i.e. its value is >= the modulus.
var ErrNonCanonical = errors.New("non-canonical field element")

type Field interface {
	constraint.Field
	Field() *big.Int
	FieldBitLen() int
	SerializedLen() int
}

// FromModulus returns the Field whose order matches x.
func FromModulus(x *big.Int) (Field, error) {
	if x.Cmp(bn254.ScalarField) == 0 {
		return &bn254.Field{}, nil
	}
	if x.Cmp(bls12381.ScalarField) == 0 {
		return &bls12381.Field{}, nil
	}
	return nil, fmt.Errorf("unknown field with modulus %s", x.String())
}

// DecodeElement reads a field element from its canonical little-endian
// residue of exactly f.SerializedLen() bytes. Any byte pattern that is not a
// canonical representative is rejected; upstream parsers rely on this being
// the single range check.
func DecodeElement(f Field, b []byte) (constraint.Element, error) {
	var zero constraint.Element
	n := f.SerializedLen()
	if len(b) != n {
		return zero, fmt.Errorf("expected %d bytes, got %d", n, len(b))
	}
	be := make([]byte, n)
	for i := 0; i < n; i++ {
		be[i] = b[n-1-i]
	}
	v := new(big.Int).SetBytes(be)
	if v.Cmp(f.Field()) >= 0 {
		return zero, fmt.Errorf("%w: %s", ErrNonCanonical, v.String())
	}
	return f.FromInterface(v), nil
}

// EncodeElement writes the canonical little-endian residue of x in exactly
// f.SerializedLen() bytes.
func EncodeElement(f Field, x constraint.Element) []byte {
	n := f.SerializedLen()
	buf := make([]byte, n)
	b := f.ToBigInt(x).Bytes()
	for i := 0; i < len(b); i++ {
		buf[i] = b[len(b)-1-i]
	}
	return buf
}

// EncodeModulus writes the field order itself in the same little-endian
// layout, as both container headers embed it.
func EncodeModulus(f Field) []byte {
	n := f.SerializedLen()
	buf := make([]byte, n)
	b := f.Field().Bytes()
	for i := 0; i < len(b); i++ {
		buf[i] = b[len(b)-1-i]
	}
	return buf
}
