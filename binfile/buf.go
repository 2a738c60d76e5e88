package binfile

import (
	"encoding/binary"
	"math/big"

	"github.com/consensys/gnark/constraint"

	"github.com/foldware/circomnova/field"
)

// OutputBuf accumulates little-endian container bytes. It backs the wtns
// writer and is handy for building containers in tests.
type OutputBuf struct {
	buf []byte
}

func (o *OutputBuf) AppendBytes(b []byte) {
	o.buf = append(o.buf, b...)
}

func (o *OutputBuf) AppendUint32(x uint32) {
	o.buf = binary.LittleEndian.AppendUint32(o.buf, x)
}

func (o *OutputBuf) AppendUint64(x uint64) {
	o.buf = binary.LittleEndian.AppendUint64(o.buf, x)
}

// AppendBigInt appends x as a little-endian residue padded to n bytes.
func (o *OutputBuf) AppendBigInt(n int, x *big.Int) {
	zbuf := make([]byte, n)
	b := x.Bytes()
	for i := 0; i < len(b); i++ {
		zbuf[i] = b[len(b)-1-i]
	}
	o.buf = append(o.buf, zbuf...)
}

func (o *OutputBuf) AppendFieldElement(f field.Field, x constraint.Element) {
	o.buf = append(o.buf, field.EncodeElement(f, x)...)
}

func (o *OutputBuf) Bytes() []byte {
	return o.buf
}
