package field

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foldware/circomnova/field/bls12381"
	"github.com/foldware/circomnova/field/bn254"
)

func TestFromModulus(t *testing.T) {
	f, err := FromModulus(bn254.ScalarField)
	require.NoError(t, err)
	assert.IsType(t, &bn254.Field{}, f)

	f, err = FromModulus(bls12381.ScalarField)
	require.NoError(t, err)
	assert.IsType(t, &bls12381.Field{}, f)

	_, err = FromModulus(big.NewInt(17))
	assert.Error(t, err)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	f := &bn254.Field{}
	for i := 0; i < 100; i++ {
		var e fr.Element
		_, err := e.SetRandom()
		require.NoError(t, err)
		var b big.Int
		e.BigInt(&b)

		x := f.FromInterface(&b)
		enc := EncodeElement(f, x)
		require.Len(t, enc, 32)
		dec, err := DecodeElement(f, enc)
		require.NoError(t, err)
		assert.Equal(t, x, dec)
	}
}

func TestEncodeIsLittleEndian(t *testing.T) {
	f := &bn254.Field{}
	enc := EncodeElement(f, f.One())
	assert.Equal(t, byte(1), enc[0])
	for _, b := range enc[1:] {
		assert.Equal(t, byte(0), b)
	}
}

func TestDecodeRejectsNonCanonical(t *testing.T) {
	f := &bn254.Field{}

	// the modulus itself is the smallest non-canonical residue
	_, err := DecodeElement(f, EncodeModulus(f))
	assert.ErrorIs(t, err, ErrNonCanonical)

	ff := make([]byte, 32)
	for i := range ff {
		ff[i] = 0xff
	}
	_, err = DecodeElement(f, ff)
	assert.ErrorIs(t, err, ErrNonCanonical)
}

func TestDecodeRejectsBadLength(t *testing.T) {
	f := &bn254.Field{}
	_, err := DecodeElement(f, make([]byte, 31))
	assert.Error(t, err)
	_, err = DecodeElement(f, make([]byte, 33))
	assert.Error(t, err)
}

func TestDecodeModulusMinusOne(t *testing.T) {
	f := &bn254.Field{}
	v := new(big.Int).Sub(f.Field(), big.NewInt(1))

	x := f.FromInterface(v)
	enc := EncodeElement(f, x)
	dec, err := DecodeElement(f, enc)
	require.NoError(t, err)
	assert.Equal(t, x, dec)
	assert.Equal(t, v.String(), f.ToBigInt(dec).String())
}
