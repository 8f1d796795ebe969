package wire

import "fmt"

// checksumCodec reads and writes a checksum field's raw wire integer. It
// never computes or verifies the checksum value itself: the template
// parser calls it once to read/write the placeholder bytes, then separately
// computes the algorithm over the covered range (which depends on
// Template.End, something no single Descriptor knows about) and verifies or
// backpatches the result. In that sense it is a "late" codec: it always
// participates at exactly the point the parser tells it to, not in the
// ordinary per-field loop.
type checksumCodec struct{}

func (checksumCodec) Decode(oc *opContext, d Descriptor) (any, error) {
	desc, ok := d.(ChecksumDescriptor)
	if !ok {
		return nil, fmt.Errorf("wire: checksumCodec given %T", d)
	}
	return oc.reader.ReadChecksum(desc.ByteLen)
}

func (checksumCodec) Encode(oc *opContext, d Descriptor, v any) error {
	desc, ok := d.(ChecksumDescriptor)
	if !ok {
		return fmt.Errorf("wire: checksumCodec given %T", d)
	}
	value, ok := v.(uint64)
	if !ok {
		return fmt.Errorf("wire: checksumCodec given non-uint64 value %T", v)
	}
	return oc.writer.WriteChecksum(value, desc.ByteLen)
}
