// Package wire implements the declarative codec core: the struct-tag
// template compiler, the descriptor-kind codec registry, the template
// parser that drives decode/encode, the header-pattern template loader, the
// describer, and the Core façade.
package wire

import "reflect"

// DescriptorKind names a wire shape a [Codec] is registered for.
type DescriptorKind string

const (
	KindInteger          DescriptorKind = "int"
	KindString           DescriptorKind = "string"
	KindStringTerminated DescriptorKind = "stringTerminated"
	KindObject           DescriptorKind = "object"
	KindArray            DescriptorKind = "array"
	KindArrayPrimitive   DescriptorKind = "arrayPrimitive"
	KindBitSet           DescriptorKind = "bitset"
	KindChecksum         DescriptorKind = "checksum"
)

// Descriptor is the tagged-union of wire shapes a FieldPlan can declare, one
// variant per DescriptorKind.
type Descriptor interface {
	Kind() DescriptorKind
}

// IntegerDescriptor describes a fixed- or expression-sized integer field.
type IntegerDescriptor struct {
	SizeExpr  string
	ByteOrder string // "big" or "little"; resolved against boxon.ByteOrder at codec time
	Signed    bool
}

func (IntegerDescriptor) Kind() DescriptorKind { return KindInteger }

// StringDescriptor describes a fixed-size text field, optionally validated
// against a regular expression.
type StringDescriptor struct {
	SizeExpr string
	Charset  string
	Match    string
}

func (StringDescriptor) Kind() DescriptorKind { return KindString }

// StringTerminatedDescriptor describes a text field delimited by a single
// terminator byte rather than a declared size.
type StringTerminatedDescriptor struct {
	Terminator byte
	Consume    bool
	Charset    string
}

func (StringTerminatedDescriptor) Kind() DescriptorKind { return KindStringTerminated }

// ObjectDescriptor describes a nested message field: either a single static
// subtype, or a polymorphic field resolved through a Selector.
type ObjectDescriptor struct {
	Type     reflect.Type
	Selector *Selector // nil for a static (non-polymorphic) object field
}

func (ObjectDescriptor) Kind() DescriptorKind { return KindObject }

// ArrayDescriptor describes a fixed-length array of (possibly polymorphic)
// object elements.
type ArrayDescriptor struct {
	SizeExpr string
	Elem     ObjectDescriptor
}

func (ArrayDescriptor) Kind() DescriptorKind { return KindArray }

// ArrayPrimitiveDescriptor describes a fixed-length array of integer
// elements sharing one IntegerDescriptor. GoElemType is the slice's declared
// Go element type (e.g. uint32), needed to build the decoded slice via
// reflection.
type ArrayPrimitiveDescriptor struct {
	SizeExpr   string
	GoElemType reflect.Type
	Elem       IntegerDescriptor
}

func (ArrayPrimitiveDescriptor) Kind() DescriptorKind { return KindArrayPrimitive }

// BitSetDescriptor describes a raw, arbitrary-width bit-sequence field
// (Go field type []byte). ByteOrder follows the same convention as the
// `byteOrder` tag option of Integer and ArrayPrimitive fields: big keeps the
// natural order; little reverses the byte order for whole-byte widths and
// fills from the least significant bit for other widths.
type BitSetDescriptor struct {
	SizeExpr  string
	ByteOrder string // "big" or "little"; empty defaults to big
}

func (BitSetDescriptor) Kind() DescriptorKind { return KindBitSet }

// ChecksumDescriptor describes a trailing checksum field: the algorithm
// computes over the encoded bytes from SkipStart to len(message)-SkipEnd.
type ChecksumDescriptor struct {
	Algorithm string
	ByteLen   int
	SkipStart int
	SkipEnd   int
}

func (ChecksumDescriptor) Kind() DescriptorKind { return KindChecksum }
