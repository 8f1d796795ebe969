package wire

import (
	"encoding/hex"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-boxon/boxon"
	"github.com/go-boxon/boxon/internal"
)

var headerType = reflect.TypeFor[Header]()

// Compile reflects over t (which must be a struct type) and builds its
// Template: one FieldPlan per declared wire field, collected evaluated
// fields and an optional trailing checksum, plus the header framing pattern
// from an embedded Header marker field, if present. Compile never panics on
// a malformed tag: it records the first boxon.AnnotationError it finds and
// returns a Template with CanBeCode == false.
func Compile(t reflect.Type) (*Template, error) {
	if t.Kind() != reflect.Struct {
		return nil, &boxon.TemplateError{Type: t.String(), Err: errNotAStruct}
	}
	tpl := &Template{Type: t, CanBeCode: true}

	for field, tag := range internal.StructFields(t) {
		if field.Type == headerType {
			start, end, charset, err := parseHeaderTag(field.Tag.Get("boxon"))
			if err != nil {
				return fail(tpl, field.Name, field.Tag.Get("boxon"), err)
			}
			tpl.Start, tpl.End, tpl.Charset = start, end, charset
			continue
		}
		if tag.Evaluate != "" {
			tpl.Evaluated = append(tpl.Evaluated, &EvaluatedFieldPlan{
				Name:  field.Name,
				Index: field.Index,
				Expr:  tag.Evaluate,
			})
			continue
		}
		if tag.Kind == string(KindChecksum) {
			cp, err := compileChecksumField(field, tag)
			if err != nil {
				return fail(tpl, field.Name, field.Tag.Get("boxon"), err)
			}
			tpl.Checksum = cp
			continue
		}
		fp, err := compileField(field, tag)
		if err != nil {
			return fail(tpl, field.Name, field.Tag.Get("boxon"), err)
		}
		tpl.Fields = append(tpl.Fields, fp)
	}
	return tpl, nil
}

func fail(tpl *Template, fieldName, tagStr string, err error) (*Template, error) {
	annErr := &boxon.AnnotationError{Field: fieldName, Tag: tagStr, Err: err}
	tpl.CanBeCode = false
	tpl.CompileErr = annErr
	return tpl, annErr
}

func compileField(field reflect.StructField, tag internal.FieldTag) (*FieldPlan, error) {
	desc, err := compileDescriptor(field, tag)
	if err != nil {
		return nil, err
	}
	if tag.Converter != "" {
		conv, ok := lookupConverter(tag.Converter)
		if !ok {
			return nil, errUnknownConverter
		}
		if err := validateConverterTypes(conv, desc, field.Type); err != nil {
			return nil, err
		}
	}
	if tag.Validator != "" {
		if _, ok := lookupValidator(tag.Validator); !ok {
			return nil, errUnknownValidator
		}
	}
	return &FieldPlan{
		Name:       field.Name,
		Index:      field.Index,
		Descriptor: desc,
		Condition:  tag.Condition,
		Converter:  tag.Converter,
		Validator:  tag.Validator,
	}, nil
}

// codecOutputType returns the Go type the codec for d hands to Decode (and
// expects back from Encode), or nil when d's kind carries no single fixed
// type (a checksum field never reaches here; ArrayDescriptor's elements may
// vary under a Selector, so its declared Elem.Type is used as the nominal
// type).
func codecOutputType(d Descriptor) reflect.Type {
	switch desc := d.(type) {
	case IntegerDescriptor:
		return bigIntType
	case StringDescriptor:
		return reflect.TypeFor[string]()
	case StringTerminatedDescriptor:
		return reflect.TypeFor[string]()
	case BitSetDescriptor:
		return reflect.TypeFor[[]byte]()
	case ObjectDescriptor:
		return desc.Type
	case ArrayDescriptor:
		return reflect.SliceOf(desc.Elem.Type)
	case ArrayPrimitiveDescriptor:
		return reflect.SliceOf(desc.GoElemType)
	}
	return nil
}

// validateConverterTypes checks conv's declared wire/field types against
// what desc's codec actually produces and what fieldType actually holds.
// This is the Template Compiler's converter-compatibility check: a
// converter that can't line up with its field is a compile-time template
// error, not a surprise the first time the template decodes something.
func validateConverterTypes(conv ConverterFunc, desc Descriptor, fieldType reflect.Type) error {
	if wireType := codecOutputType(desc); wireType != nil && conv.WireType != nil &&
		wireType != conv.WireType && !wireType.AssignableTo(conv.WireType) {
		return fmt.Errorf("%w: converter wire type %s cannot take the codec's %s output", errConverterTypeMismatch, conv.WireType, wireType)
	}
	if conv.FieldType != nil && conv.FieldType != fieldType &&
		!conv.FieldType.AssignableTo(fieldType) && !convertibleKinds(conv.FieldType.Kind(), fieldType.Kind()) {
		return fmt.Errorf("%w: converter field type %s is not assignable to struct field type %s", errConverterTypeMismatch, conv.FieldType, fieldType)
	}
	return nil
}

func compileDescriptor(field reflect.StructField, tag internal.FieldTag) (Descriptor, error) {
	switch DescriptorKind(tag.Kind) {
	case KindInteger:
		return IntegerDescriptor{SizeExpr: tag.Size, ByteOrder: orDefault(tag.ByteOrder, "big"), Signed: tag.Signed}, nil
	case KindString:
		return StringDescriptor{SizeExpr: tag.Size, Charset: orDefault(tag.Charset, "UTF-8"), Match: tag.Match}, nil
	case KindStringTerminated:
		term, err := terminatorByte(tag.Terminator)
		if err != nil {
			return nil, err
		}
		consume := true
		if tag.ConsumeTerminator != nil {
			consume = *tag.ConsumeTerminator
		}
		return StringTerminatedDescriptor{Terminator: term, Consume: consume, Charset: orDefault(tag.Charset, "UTF-8")}, nil
	case KindBitSet:
		return BitSetDescriptor{SizeExpr: tag.Size, ByteOrder: orDefault(tag.ByteOrder, "big")}, nil
	case KindObject:
		return compileObjectDescriptor(field.Type, tag)
	case KindArray, KindArrayPrimitive:
		return compileArrayDescriptor(field.Type, tag)
	default:
		return nil, errUnknownKind
	}
}

func compileObjectDescriptor(fieldType reflect.Type, tag internal.FieldTag) (Descriptor, error) {
	elemType := fieldType
	if tag.SelectFrom != "" {
		sel, ok := lookupSelector(tag.SelectFrom)
		if !ok {
			return nil, errUnknownSelector
		}
		return ObjectDescriptor{Type: elemType, Selector: sel}, nil
	}
	return ObjectDescriptor{Type: elemType}, nil
}

func compileArrayDescriptor(fieldType reflect.Type, tag internal.FieldTag) (Descriptor, error) {
	if fieldType.Kind() != reflect.Slice {
		return nil, errArrayFieldNotSlice
	}
	elemType := fieldType.Elem()
	if isIntegerKind(elemType.Kind()) {
		// Each element's bit width comes from its Go type, not the array's
		// own `size=` expression (which names the element count).
		elemWidth := strconv.Itoa(elemType.Bits())
		return ArrayPrimitiveDescriptor{
			SizeExpr:   tag.Size,
			GoElemType: elemType,
			Elem:       IntegerDescriptor{SizeExpr: elemWidth, ByteOrder: orDefault(tag.ByteOrder, "big"), Signed: tag.Signed},
		}, nil
	}
	var sel *Selector
	if tag.SelectFrom != "" {
		s, ok := lookupSelector(tag.SelectFrom)
		if !ok {
			return nil, errUnknownSelector
		}
		sel = s
	}
	return ArrayDescriptor{SizeExpr: tag.Size, Elem: ObjectDescriptor{Type: elemType, Selector: sel}}, nil
}

func compileChecksumField(field reflect.StructField, tag internal.FieldTag) (*ChecksumPlan, error) {
	if !isIntegerKind(field.Type.Kind()) {
		return nil, errChecksumFieldNotInteger
	}
	byteLen := int(field.Type.Size())
	skipStart, skipEnd := 0, 0
	if tag.SkipStart != nil {
		skipStart = *tag.SkipStart
	}
	if tag.SkipEnd != nil {
		skipEnd = *tag.SkipEnd
	}
	return &ChecksumPlan{
		Name:  field.Name,
		Index: field.Index,
		Descriptor: ChecksumDescriptor{
			Algorithm: tag.Algorithm,
			ByteLen:   byteLen,
			SkipStart: skipStart,
			SkipEnd:   skipEnd,
		},
	}, nil
}

func isIntegerKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func terminatorByte(s string) (byte, error) {
	if s == "" {
		return 0, errMissingTerminator
	}
	return s[0], nil
}

func parseHeaderTag(tagStr string) (start, end []byte, charset string, err error) {
	for part := range strings.SplitSeq(tagStr, ",") {
		key, value, _ := strings.Cut(strings.TrimSpace(part), "=")
		switch key {
		case "start":
			start, err = hex.DecodeString(value)
			if err != nil {
				return nil, nil, "", err
			}
		case "end":
			end, err = hex.DecodeString(value)
			if err != nil {
				return nil, nil, "", err
			}
		case "charset":
			charset = value
		}
	}
	return start, end, charset, nil
}

// compileCache memoizes Compile by reflect.Type: compile(T) == compile(T) and
// the underlying reflection walk is pure, so repeated calls for the same
// type are safe to share.
var compileCache sync.Map // reflect.Type -> *Template

// CompileCached wraps Compile with a process-wide cache keyed by t.
func CompileCached(t reflect.Type) (*Template, error) {
	if v, ok := compileCache.Load(t); ok {
		tpl := v.(*Template)
		if tpl.CanBeCode {
			return tpl, nil
		}
		return tpl, tpl.CompileErr
	}
	tpl, err := Compile(t)
	compileCache.Store(t, tpl)
	return tpl, err
}
