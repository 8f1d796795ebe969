package wire

import "fmt"

// integerCodec implements fixed- or expression-sized integer fields. Decode
// always returns a *big.Int so that assignValue can coerce it to whichever
// Go integer width (or *big.Int itself, for widths beyond 64 bits) the field
// declares.
type integerCodec struct{}

func (integerCodec) Decode(oc *opContext, d Descriptor) (any, error) {
	desc, ok := d.(IntegerDescriptor)
	if !ok {
		return nil, fmt.Errorf("wire: integerCodec given %T", d)
	}
	n, err := resolveSize(desc.SizeExpr, oc.ctx)
	if err != nil {
		return nil, err
	}
	return oc.reader.ReadBigInt(n, resolveByteOrder(desc.ByteOrder), desc.Signed)
}

func (integerCodec) Encode(oc *opContext, d Descriptor, v any) error {
	desc, ok := d.(IntegerDescriptor)
	if !ok {
		return fmt.Errorf("wire: integerCodec given %T", d)
	}
	n, err := resolveSize(desc.SizeExpr, oc.ctx)
	if err != nil {
		return err
	}
	bi, err := toBigInt(v)
	if err != nil {
		return err
	}
	return oc.writer.WriteBigInt(bi, n, resolveByteOrder(desc.ByteOrder))
}
