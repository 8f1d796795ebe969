package wire

import (
	"fmt"
	"math/big"
)

// bitSetCodec implements a raw, arbitrary-width bit-sequence field backed by
// a []byte Go field, whose width need not be a multiple of 8.
type bitSetCodec struct{}

func (bitSetCodec) Decode(oc *opContext, d Descriptor) (any, error) {
	desc, ok := d.(BitSetDescriptor)
	if !ok {
		return nil, fmt.Errorf("wire: bitSetCodec given %T", d)
	}
	n, err := resolveSize(desc.SizeExpr, oc.ctx)
	if err != nil {
		return nil, err
	}
	bits, err := oc.reader.ReadBigInt(n, resolveByteOrder(desc.ByteOrder), false)
	if err != nil {
		return nil, err
	}
	return bigIntToBytes(bits, n), nil
}

func (bitSetCodec) Encode(oc *opContext, d Descriptor, v any) error {
	desc, ok := d.(BitSetDescriptor)
	if !ok {
		return fmt.Errorf("wire: bitSetCodec given %T", d)
	}
	b, ok := v.([]byte)
	if !ok {
		return fmt.Errorf("wire: bitSetCodec given non-[]byte value %T", v)
	}
	n, err := resolveSize(desc.SizeExpr, oc.ctx)
	if err != nil {
		return err
	}
	return oc.writer.WriteBigInt(new(big.Int).SetBytes(b), n, resolveByteOrder(desc.ByteOrder))
}

// bigIntToBytes renders v as a big-endian byte slice exactly ceil(n/8) bytes
// long, left-padding with zero bytes as needed.
func bigIntToBytes(v *big.Int, n int) []byte {
	byteLen := (n + 7) / 8
	raw := v.Bytes()
	if len(raw) >= byteLen {
		return raw[len(raw)-byteLen:]
	}
	out := make([]byte, byteLen)
	copy(out[byteLen-len(raw):], raw)
	return out
}
