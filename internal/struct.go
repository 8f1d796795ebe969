package internal

import (
	"iter"
	"reflect"
	"strconv"
	"strings"
)

// FieldTag is the parsed representation of a `boxon` struct tag.
type FieldTag struct {
	Ignore bool // true iff this field should be ignored ("-")

	Kind string // the leading bare token: int, string, stringTerminated,
	// object, array, arrayPrimitive, bitset, or checksum.

	Size      string // a size/length expression, evaluated against #self/context
	ByteOrder string // "big" or "little"; empty defaults to big
	Signed    bool

	Charset string // IANA charset name
	Match   string // validation regexp source

	Terminator        string // single-character terminator literal
	ConsumeTerminator *bool  // nil defaults to true

	SelectFrom string // selector-registry id for polymorphic dispatch

	Condition string // skip-field-if-false expression
	Converter string // converter-registry id
	Validator string // validator-registry id

	Algorithm string // checksum algorithm name
	SkipStart *int
	SkipEnd   *int
	Evaluate  string // evaluated-field derivation expression
}

// ParseFieldTag parses a `boxon` struct tag string into a FieldTag, ignoring
// unrecognized parts. The leading comma-separated token is the field's kind
// unless it contains "=", in which case every part is a key=value pair.
func ParseFieldTag(str string) (ret FieldTag) {
	if str == "-" {
		ret.Ignore = true
		return ret
	}
	first := true
	for part := range strings.SplitSeq(str, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if first && !strings.Contains(part, "=") {
			ret.Kind = part
			first = false
			continue
		}
		first = false
		key, value, _ := strings.Cut(part, "=")
		switch key {
		case "size":
			ret.Size = value
		case "byteOrder":
			ret.ByteOrder = value
		case "signed":
			ret.Signed = true
		case "charset":
			ret.Charset = value
		case "match":
			ret.Match = value
		case "terminator":
			ret.Terminator = value
			// "terminator=," splits into "terminator=" and an empty part.
			if value == "" && strings.Contains(str, "terminator=,") {
				ret.Terminator = ","
			}
		case "consumeTerminator":
			b := value != "false"
			ret.ConsumeTerminator = &b
		case "selectFrom":
			ret.SelectFrom = value
		case "condition":
			ret.Condition = value
		case "converter":
			ret.Converter = value
		case "validator":
			ret.Validator = value
		case "algorithm":
			ret.Algorithm = value
		case "skipStart":
			if n, err := strconv.Atoi(value); err == nil {
				ret.SkipStart = &n
			}
		case "skipEnd":
			if n, err := strconv.Atoi(value); err == nil {
				ret.SkipEnd = &n
			}
		case "evaluate":
			ret.Evaluate = value
		}
	}
	return ret
}

// StructFields returns a sequence over the exported fields of the struct
// type t, in declaration order, together with each field's parsed boxon tag.
// Fields tagged `boxon:"-"` are skipped. The caller is responsible for
// recognizing and special-casing any marker field types it cares about (the
// wire package does this for its embedded Header field, to avoid this
// package depending on wire).
func StructFields(t reflect.Type) iter.Seq2[reflect.StructField, FieldTag] {
	return func(yield func(reflect.StructField, FieldTag) bool) {
		for i := range t.NumField() {
			field := t.Field(i)
			tag := ParseFieldTag(field.Tag.Get("boxon"))
			if tag.Ignore || !field.IsExported() {
				continue
			}
			if !yield(field, tag) {
				return
			}
		}
	}
}
