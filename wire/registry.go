package wire

import (
	"reflect"

	"github.com/go-boxon/boxon"
)

// Codec decodes and encodes the wire representation for one DescriptorKind.
// ctx bundles the bit-level reader/writer, the evaluation context, and the
// live `#self` value; d is the specific Descriptor instance for the field
// being processed.
type Codec interface {
	Decode(ctx *opContext, d Descriptor) (any, error)
	Encode(ctx *opContext, d Descriptor, v any) error
}

// Registry is a DescriptorKind-keyed codec lookup table, mirroring the
// teacher's codec dispatch table but keyed by Boxon descriptor kind rather
// than an ASN.1 tag/class pair.
type Registry struct {
	codecs map[DescriptorKind]Codec
}

// DefaultRegistry returns a Registry seeded with every codec this package
// implements.
func DefaultRegistry() *Registry {
	r := &Registry{codecs: make(map[DescriptorKind]Codec, 8)}
	r.Register(KindInteger, integerCodec{})
	r.Register(KindString, stringCodec{})
	r.Register(KindStringTerminated, stringTerminatedCodec{})
	r.Register(KindObject, objectCodec{})
	r.Register(KindArray, arrayCodec{})
	r.Register(KindArrayPrimitive, arrayPrimitiveCodec{})
	r.Register(KindBitSet, bitSetCodec{})
	r.Register(KindChecksum, checksumCodec{})
	return r
}

// Register adds or replaces the codec for kind.
func (r *Registry) Register(kind DescriptorKind, c Codec) {
	r.codecs[kind] = c
}

// Lookup returns the codec registered for kind, or a boxon.CodecError if
// none is registered.
func (r *Registry) Lookup(kind DescriptorKind) (Codec, error) {
	c, ok := r.codecs[kind]
	if !ok {
		return nil, &boxon.CodecError{Kind: string(kind)}
	}
	return c, nil
}

// ConverterFunc transforms a codec's native wire value to and from the
// struct field's declared Go type. WireType and FieldType declare the types
// Decode/Encode actually expect and produce (the value a codec hands Decode
// and the value Encode hands back to a codec, respectively); the Template
// Compiler checks them against a field's codec and Go type at compile time,
// so a mismatched converter fails to compile rather than surfacing as a
// panic or silent misdecode the first time the template runs.
type ConverterFunc struct {
	Decode func(wireValue any) (any, error)
	Encode func(fieldValue any) (any, error)

	WireType  reflect.Type
	FieldType reflect.Type
}

var converterRegistry = map[string]ConverterFunc{}

// RegisterConverter makes conv available under id, referenced from a
// field's `boxon:"...,converter=<id>"` tag.
func RegisterConverter(id string, conv ConverterFunc) {
	converterRegistry[id] = conv
}

func lookupConverter(id string) (ConverterFunc, bool) {
	c, ok := converterRegistry[id]
	return c, ok
}

// ValidatorFunc checks a fully decoded (or about-to-be-encoded) field value,
// returning a descriptive error on rejection.
type ValidatorFunc func(v any) error

var validatorRegistry = map[string]ValidatorFunc{}

// RegisterValidator makes fn available under id, referenced from a field's
// `boxon:"...,validator=<id>"` tag.
func RegisterValidator(id string, fn ValidatorFunc) {
	validatorRegistry[id] = fn
}

func lookupValidator(id string) (ValidatorFunc, bool) {
	fn, ok := validatorRegistry[id]
	return fn, ok
}
