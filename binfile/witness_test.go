package binfile

import (
	"bytes"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/consensys/gnark/constraint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foldware/circomnova/field"
	"github.com/foldware/circomnova/field/bn254"
)

func testWitness(f field.Field, vals ...int64) []constraint.Element {
	out := make([]constraint.Element, len(vals))
	for i, v := range vals {
		out[i] = f.FromInterface(big.NewInt(v))
	}
	return out
}

func TestWitnessRoundTrip(t *testing.T) {
	f := &bn254.Field{}
	values := testWitness(f, 1, 33, 34, 0, 0xdeadbeef)

	var buf bytes.Buffer
	require.NoError(t, WriteWitness(&buf, f, values))

	wf, err := ReadWitness(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, uint32(wtnsVersion), wf.Version)
	assert.Equal(t, bn254.ScalarField, wf.Field.Field())
	assert.Equal(t, values, wf.Values)
	assert.Equal(t, field.EncodeModulus(f), wf.Prime)
}

func TestWitnessEmptyVector(t *testing.T) {
	f := &bn254.Field{}
	var buf bytes.Buffer
	require.NoError(t, WriteWitness(&buf, f, nil))

	wf, err := ReadWitness(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Len(t, wf.Values, 0)
}

func wtnsHeaderBody(f field.Field, witnessLen uint32) []byte {
	o := &OutputBuf{}
	o.AppendUint32(uint32(f.SerializedLen()))
	o.AppendBytes(field.EncodeModulus(f))
	o.AppendUint32(witnessLen)
	return o.Bytes()
}

func wtnsValuesBody(f field.Field, values []constraint.Element) []byte {
	o := &OutputBuf{}
	for _, v := range values {
		o.AppendFieldElement(f, v)
	}
	return o.Bytes()
}

func TestReadWitnessBadMagic(t *testing.T) {
	f := &bn254.Field{}
	data := buildContainer([4]byte{'w', 't', 'n', 'z'}, wtnsVersion, []secSpec{
		{wtnsSectionHeader, wtnsHeaderBody(f, 1)},
		{wtnsSectionValues, wtnsValuesBody(f, testWitness(f, 1))},
	})
	_, err := ReadWitness(bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrMalformedContainer)
}

func TestReadWitnessBadVersion(t *testing.T) {
	f := &bn254.Field{}
	data := buildContainer(wtnsMagic, 3, []secSpec{
		{wtnsSectionHeader, wtnsHeaderBody(f, 1)},
		{wtnsSectionValues, wtnsValuesBody(f, testWitness(f, 1))},
	})
	_, err := ReadWitness(bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrMalformedContainer)
}

func TestReadWitnessVersion1(t *testing.T) {
	f := &bn254.Field{}
	data := buildContainer(wtnsMagic, 1, []secSpec{
		{wtnsSectionHeader, wtnsHeaderBody(f, 1)},
		{wtnsSectionValues, wtnsValuesBody(f, testWitness(f, 1))},
	})
	wf, err := ReadWitness(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, uint32(1), wf.Version)
}

func TestReadWitnessWrongSectionCount(t *testing.T) {
	f := &bn254.Field{}
	data := buildContainer(wtnsMagic, wtnsVersion, []secSpec{
		{wtnsSectionHeader, wtnsHeaderBody(f, 1)},
		{wtnsSectionValues, wtnsValuesBody(f, testWitness(f, 1))},
		{3, nil},
	})
	_, err := ReadWitness(bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrMalformedContainer)
}

func TestReadWitnessUnsupportedFieldSize(t *testing.T) {
	o := &OutputBuf{}
	o.AppendUint32(16)
	o.AppendBytes(make([]byte, 16))
	o.AppendUint32(1)
	data := buildContainer(wtnsMagic, wtnsVersion, []secSpec{
		{wtnsSectionHeader, o.Bytes()},
		{wtnsSectionValues, make([]byte, 16)},
	})
	_, err := ReadWitness(bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrUnsupportedField)
}

func TestReadWitnessUnknownPrime(t *testing.T) {
	o := &OutputBuf{}
	o.AppendUint32(32)
	o.AppendBytes(bytes.Repeat([]byte{7}, 32))
	o.AppendUint32(0)
	data := buildContainer(wtnsMagic, wtnsVersion, []secSpec{
		{wtnsSectionHeader, o.Bytes()},
		{wtnsSectionValues, nil},
	})
	_, err := ReadWitness(bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrUnsupportedField)
}

func TestReadWitnessHeaderSizeMismatch(t *testing.T) {
	f := &bn254.Field{}
	body := append(wtnsHeaderBody(f, 1), 0)
	data := buildContainer(wtnsMagic, wtnsVersion, []secSpec{
		{wtnsSectionHeader, body},
		{wtnsSectionValues, wtnsValuesBody(f, testWitness(f, 1))},
	})
	_, err := ReadWitness(bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrMalformedContainer)
}

func TestReadWitnessValuesSizeMismatch(t *testing.T) {
	f := &bn254.Field{}
	// header declares 3 values, the section holds 2
	data := buildContainer(wtnsMagic, wtnsVersion, []secSpec{
		{wtnsSectionHeader, wtnsHeaderBody(f, 3)},
		{wtnsSectionValues, wtnsValuesBody(f, testWitness(f, 1, 2))},
	})
	_, err := ReadWitness(bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrTruncatedSection)
}

func TestReadWitnessNonCanonicalValue(t *testing.T) {
	f := &bn254.Field{}
	data := buildContainer(wtnsMagic, wtnsVersion, []secSpec{
		{wtnsSectionHeader, wtnsHeaderBody(f, 1)},
		{wtnsSectionValues, field.EncodeModulus(f)},
	})
	_, err := ReadWitness(bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrUnsupportedField)
}

func TestReadWitnessMissingValuesSection(t *testing.T) {
	f := &bn254.Field{}
	data := buildContainer(wtnsMagic, wtnsVersion, []secSpec{
		{wtnsSectionHeader, wtnsHeaderBody(f, 0)},
		{7, nil},
	})
	_, err := ReadWitness(bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrMalformedContainer)
}

func TestLoadWitness(t *testing.T) {
	f := &bn254.Field{}
	values := testWitness(f, 1, 5, 12, 7)

	var buf bytes.Buffer
	require.NoError(t, WriteWitness(&buf, f, values))
	path := filepath.Join(t.TempDir(), "step.wtns")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	wf, err := LoadWitness(path)
	require.NoError(t, err)
	assert.Equal(t, values, wf.Values)

	_, err = LoadWitness(path + ".missing")
	assert.Error(t, err)
}
