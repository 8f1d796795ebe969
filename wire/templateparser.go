package wire

import (
	"fmt"
	"math/big"
	"reflect"

	"github.com/go-boxon/boxon"
	"github.com/go-boxon/boxon/bitio"
	"github.com/go-boxon/boxon/checksum"
	"github.com/go-boxon/boxon/eval"
)

var bigIntType = reflect.TypeFor[*big.Int]()

// opContext bundles everything a Codec needs for one decode or encode call:
// the bit-level cursor (exactly one of reader/writer is non-nil), the codec
// and checksum-algorithm registries for resolving nested object fields and
// checksum algorithms, and the evaluation context currently bound to the
// enclosing `#self`/`#prefix`.
type opContext struct {
	reader    *bitio.Reader
	writer    *bitio.Writer
	registry  *Registry
	checksums *checksum.Registry
	ctx       boxon.Context
}

func (oc *opContext) decoding() bool { return oc.reader != nil }

func (oc *opContext) bitPosition() int64 {
	if oc.decoding() {
		return oc.reader.Position()
	}
	return oc.writer.Position()
}

// Decode drives tpl against r, producing a new value of tpl.Type. ctx is the
// caller-supplied base evaluation context (never mutated); registry and
// checksums resolve field and checksum codecs.
func Decode(tpl *Template, r *bitio.Reader, registry *Registry, checksums *checksum.Registry, ctx boxon.Context) (any, error) {
	oc := &opContext{reader: r, registry: registry, checksums: checksums, ctx: ctx}
	v, err := decodeStruct(oc, tpl)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

// Encode drives tpl against w for the value v, which must be (a pointer to)
// tpl.Type.
func Encode(tpl *Template, w *bitio.Writer, registry *Registry, checksums *checksum.Registry, ctx boxon.Context, v any) error {
	oc := &opContext{writer: w, registry: registry, checksums: checksums, ctx: ctx}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Type() != tpl.Type {
		return &boxon.TemplateError{Type: tpl.Type.String(), Err: fmt.Errorf("value has type %s", rv.Type())}
	}
	return encodeStruct(oc, tpl, rv)
}

func decodeStruct(oc *opContext, tpl *Template) (reflect.Value, error) {
	if !tpl.CanBeCode {
		return reflect.Value{}, tpl.CompileErr
	}
	result := reflect.New(tpl.Type).Elem()
	frameStart := oc.reader.Position() / 8
	baseCtx := oc.ctx
	defer func() { oc.ctx = baseCtx }()

	for _, fp := range tpl.Fields {
		oc.ctx = baseCtx.WithSelf(result.Addr().Interface())
		if fp.Condition != "" {
			ok, err := eval.EvaluateBool(fp.Condition, oc.ctx)
			if err != nil {
				return reflect.Value{}, fieldErr(oc, fp.Name, err)
			}
			if !ok {
				continue
			}
		}
		codec, err := oc.registry.Lookup(fp.Descriptor.Kind())
		if err != nil {
			return reflect.Value{}, fieldErr(oc, fp.Name, err)
		}
		wireVal, err := codec.Decode(oc, fp.Descriptor)
		if err != nil {
			return reflect.Value{}, fieldErr(oc, fp.Name, err)
		}
		if fp.Converter != "" {
			conv, ok := lookupConverter(fp.Converter)
			if !ok {
				return reflect.Value{}, fieldErr(oc, fp.Name, errUnknownConverter)
			}
			if wireVal, err = conv.Decode(wireVal); err != nil {
				return reflect.Value{}, fieldErr(oc, fp.Name, err)
			}
		}
		if fp.Validator != "" {
			fn, ok := lookupValidator(fp.Validator)
			if !ok {
				return reflect.Value{}, fieldErr(oc, fp.Name, errUnknownValidator)
			}
			if err := fn(wireVal); err != nil {
				return reflect.Value{}, fieldErr(oc, fp.Name, err)
			}
		}
		if err := assignValue(result.FieldByIndex(fp.Index), wireVal); err != nil {
			return reflect.Value{}, fieldErr(oc, fp.Name, err)
		}
	}

	oc.ctx = baseCtx
	// A checksum mismatch is reported only after the End pattern and the
	// evaluated fields have been processed.
	var checksumErr error
	if tpl.Checksum != nil {
		if err := decodeChecksum(oc, tpl, result, frameStart); err != nil {
			if _, mismatch := err.(*boxon.ChecksumError); !mismatch {
				return reflect.Value{}, err
			}
			checksumErr = err
		}
	}
	if len(tpl.End) > 0 {
		if err := verifyEndPattern(oc, tpl); err != nil {
			return reflect.Value{}, err
		}
	}

	oc.ctx = baseCtx.WithSelf(result.Addr().Interface())
	for _, ef := range tpl.Evaluated {
		val, err := eval.Evaluate(ef.Expr, oc.ctx)
		if err != nil {
			return reflect.Value{}, fieldErr(oc, ef.Name, err)
		}
		if err := assignValue(result.FieldByIndex(ef.Index), val); err != nil {
			return reflect.Value{}, fieldErr(oc, ef.Name, err)
		}
	}
	if checksumErr != nil {
		return reflect.Value{}, checksumErr
	}
	return result, nil
}

func encodeStruct(oc *opContext, tpl *Template, v reflect.Value) error {
	if !tpl.CanBeCode {
		return tpl.CompileErr
	}
	baseCtx := oc.ctx
	defer func() { oc.ctx = baseCtx }()
	oc.ctx = baseCtx.WithSelf(v.Interface())

	for _, fp := range tpl.Fields {
		if fp.Condition != "" {
			ok, err := eval.EvaluateBool(fp.Condition, oc.ctx)
			if err != nil {
				return fieldErr(oc, fp.Name, err)
			}
			if !ok {
				continue
			}
		}
		fieldVal := v.FieldByIndex(fp.Index).Interface()
		if fp.Validator != "" {
			fn, ok := lookupValidator(fp.Validator)
			if !ok {
				return fieldErr(oc, fp.Name, errUnknownValidator)
			}
			if err := fn(fieldVal); err != nil {
				return fieldErr(oc, fp.Name, err)
			}
		}
		wireVal := fieldVal
		if fp.Converter != "" {
			conv, ok := lookupConverter(fp.Converter)
			if !ok {
				return fieldErr(oc, fp.Name, errUnknownConverter)
			}
			var err error
			if wireVal, err = conv.Encode(fieldVal); err != nil {
				return fieldErr(oc, fp.Name, err)
			}
		}
		codec, err := oc.registry.Lookup(fp.Descriptor.Kind())
		if err != nil {
			return fieldErr(oc, fp.Name, err)
		}
		if err := codec.Encode(oc, fp.Descriptor, wireVal); err != nil {
			return fieldErr(oc, fp.Name, err)
		}
	}

	var checksumBitPos int64
	if tpl.Checksum != nil {
		checksumBitPos = oc.writer.Position()
		codec, err := oc.registry.Lookup(KindChecksum)
		if err != nil {
			return fieldErr(oc, tpl.Checksum.Name, err)
		}
		if err := codec.Encode(oc, tpl.Checksum.Descriptor, uint64(0)); err != nil {
			return fieldErr(oc, tpl.Checksum.Name, err)
		}
	}
	for _, b := range tpl.End {
		if err := oc.writer.WriteInt(int64(b), 8, boxon.BigEndian); err != nil {
			return &boxon.TemplateError{Type: tpl.Type.String(), Err: err}
		}
	}
	if tpl.Checksum != nil {
		if err := encodeChecksum(oc, tpl, checksumBitPos); err != nil {
			return err
		}
	}
	return nil
}

func decodeChecksum(oc *opContext, tpl *Template, result reflect.Value, frameStart int64) error {
	cp := tpl.Checksum
	startBytePos := oc.reader.Position() / 8
	codec, err := oc.registry.Lookup(KindChecksum)
	if err != nil {
		return fieldErr(oc, cp.Name, err)
	}
	rawVal, err := codec.Decode(oc, cp.Descriptor)
	if err != nil {
		return fieldErr(oc, cp.Name, err)
	}
	raw := rawVal.(uint64)
	if err := assignValue(result.FieldByIndex(cp.Index), raw); err != nil {
		return fieldErr(oc, cp.Name, err)
	}
	coveredStart, coveredEnd, err := checksumRange(cp, frameStart, startBytePos, int64(len(tpl.End)))
	if err != nil {
		return fieldErr(oc, cp.Name, err)
	}
	data := oc.reader.Bytes()
	if coveredStart < 0 || coveredEnd > int64(len(data)) || coveredStart > coveredEnd {
		return fieldErr(oc, cp.Name, errChecksumRangeOutOfBounds)
	}
	alg, ok := oc.checksums.Get(cp.Descriptor.Algorithm)
	if !ok {
		return fieldErr(oc, cp.Name, errUnknownChecksumAlgorithm)
	}
	expected := alg(data[coveredStart:coveredEnd])
	if expected != raw {
		return &boxon.ChecksumError{Field: cp.Name, Expected: expected, Actual: raw}
	}
	return nil
}

func encodeChecksum(oc *opContext, tpl *Template, checksumBitPos int64) error {
	cp := tpl.Checksum
	// The frame is already fully written (fields, checksum placeholder, and
	// End pattern): the writer's current position is the true frame end.
	coveredStart := int64(cp.Descriptor.SkipStart)
	coveredEnd := oc.writer.Position()/8 - int64(cp.Descriptor.SkipEnd)
	data := oc.writer.Flush()
	if coveredStart < 0 || coveredEnd > int64(len(data)) || coveredStart > coveredEnd {
		return fieldErr(oc, cp.Name, errChecksumRangeOutOfBounds)
	}
	alg, ok := oc.checksums.Get(cp.Descriptor.Algorithm)
	if !ok {
		return fieldErr(oc, cp.Name, errUnknownChecksumAlgorithm)
	}
	value := alg(data[coveredStart:coveredEnd])
	return oc.writer.PatchAt(checksumBitPos, cp.Descriptor.ByteLen*8, value, boxon.BigEndian)
}

// checksumRange resolves a ChecksumDescriptor's covered byte range on
// decode, as absolute offsets into the reader's buffer. frameStart is the
// byte offset where the message began; frameEnd is the offset one past the
// message: the checksum field's own bytes plus any trailing literal End
// pattern, counted from startBytePos (where the checksum field begins) — the
// actual End pattern bytes haven't been read yet at this point, but their
// length is already known from the template.
func checksumRange(cp *ChecksumPlan, frameStart, startBytePos, endPatternLen int64) (start, end int64, err error) {
	frameEnd := startBytePos + int64(cp.Descriptor.ByteLen) + endPatternLen
	return frameStart + int64(cp.Descriptor.SkipStart), frameEnd - int64(cp.Descriptor.SkipEnd), nil
}

func verifyEndPattern(oc *opContext, tpl *Template) error {
	for _, want := range tpl.End {
		got, err := oc.reader.ReadInt(8, boxon.BigEndian, false)
		if err != nil {
			return &boxon.TemplateError{Type: tpl.Type.String(), Err: err}
		}
		if byte(got) != want {
			return &boxon.TemplateError{Type: tpl.Type.String(), Err: errEndPatternMismatch}
		}
	}
	return nil
}

func fieldErr(oc *opContext, field string, err error) error {
	if fe, ok := err.(*boxon.FieldError); ok {
		return fe
	}
	return &boxon.FieldError{Field: field, BitPosition: oc.bitPosition(), Err: err}
}

// assignValue stores val, produced by a Codec or the expression evaluator,
// into field, converting between Go's numeric kinds and coercing a *big.Int
// result to the field's declared integer width when the field isn't itself
// *big.Int.
func assignValue(field reflect.Value, val any) error {
	if val == nil {
		return nil
	}
	rv := reflect.ValueOf(val)
	if rv.Type().AssignableTo(field.Type()) {
		field.Set(rv)
		return nil
	}
	if bi, ok := val.(*big.Int); ok && field.Type() != bigIntType {
		switch field.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			field.SetInt(bi.Int64())
			return nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			field.SetUint(bi.Uint64())
			return nil
		}
	}
	if rv.Type().ConvertibleTo(field.Type()) && convertibleKinds(rv.Kind(), field.Kind()) {
		field.Set(rv.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign value of type %s to field of type %s", rv.Type(), field.Type())
}

func convertibleKinds(from, to reflect.Kind) bool {
	numeric := func(k reflect.Kind) bool {
		switch k {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64:
			return true
		}
		return false
	}
	if numeric(from) && numeric(to) {
		return true
	}
	return from == to
}
