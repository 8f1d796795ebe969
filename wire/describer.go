package wire

import (
	"encoding/hex"

	"github.com/go-boxon/boxon"
)

// Describe renders tpl's compiled shape as a plain, JSON-marshalable map:
// every field's kind and wire parameters, the checksum and evaluated-field
// declarations, any Selector's alternatives, and a snapshot of the base
// evaluation context field expressions see as bare identifiers (not
// `#self`/`#prefix`, which only exist while a decode/encode is in
// progress) — recursing into nested object/array element types. It
// performs no I/O and never fails; a template that failed to compile
// describes its CompileErr instead of its (absent) fields.
func Describe(tpl *Template, ctx boxon.Context) map[string]any {
	out := map[string]any{"type": tpl.Type.String()}
	if !tpl.CanBeCode {
		out["error"] = tpl.CompileErr.Error()
		return out
	}
	if len(ctx) > 0 {
		out["context"] = map[string]any(ctx.Clone())
	}
	if len(tpl.Start) > 0 {
		out["start"] = hex.EncodeToString(tpl.Start)
	}
	if len(tpl.End) > 0 {
		out["end"] = hex.EncodeToString(tpl.End)
	}

	fields := make([]map[string]any, 0, len(tpl.Fields))
	for _, fp := range tpl.Fields {
		fields = append(fields, describeField(fp))
	}
	out["fields"] = fields

	if tpl.Checksum != nil {
		out["checksum"] = map[string]any{
			"name":      tpl.Checksum.Name,
			"algorithm": tpl.Checksum.Descriptor.Algorithm,
			"byteLen":   tpl.Checksum.Descriptor.ByteLen,
			"skipStart": tpl.Checksum.Descriptor.SkipStart,
			"skipEnd":   tpl.Checksum.Descriptor.SkipEnd,
		}
	}
	if len(tpl.Evaluated) > 0 {
		evaluated := make([]map[string]any, 0, len(tpl.Evaluated))
		for _, ef := range tpl.Evaluated {
			evaluated = append(evaluated, map[string]any{"name": ef.Name, "expr": ef.Expr})
		}
		out["evaluated"] = evaluated
	}
	return out
}

func describeField(fp *FieldPlan) map[string]any {
	m := map[string]any{"name": fp.Name, "kind": string(fp.Descriptor.Kind())}
	if fp.Condition != "" {
		m["condition"] = fp.Condition
	}
	if fp.Converter != "" {
		m["converter"] = fp.Converter
	}
	if fp.Validator != "" {
		m["validator"] = fp.Validator
	}
	switch d := fp.Descriptor.(type) {
	case IntegerDescriptor:
		m["size"] = d.SizeExpr
		m["byteOrder"] = d.ByteOrder
		m["signed"] = d.Signed
	case StringDescriptor:
		m["size"] = d.SizeExpr
		m["charset"] = d.Charset
		if d.Match != "" {
			m["match"] = d.Match
		}
	case StringTerminatedDescriptor:
		m["terminator"] = d.Terminator
		m["consumeTerminator"] = d.Consume
		m["charset"] = d.Charset
	case BitSetDescriptor:
		m["size"] = d.SizeExpr
		m["byteOrder"] = d.ByteOrder
	case ObjectDescriptor:
		m["object"] = describeObject(d)
	case ArrayDescriptor:
		m["size"] = d.SizeExpr
		m["elem"] = describeObject(d.Elem)
	case ArrayPrimitiveDescriptor:
		m["size"] = d.SizeExpr
		m["elemType"] = d.GoElemType.String()
	}
	return m
}

func describeObject(d ObjectDescriptor) map[string]any {
	m := map[string]any{"type": d.Type.String()}
	if d.Selector == nil {
		return m
	}
	alternatives := make([]map[string]any, 0, len(d.Selector.Alternatives))
	for _, alt := range d.Selector.Alternatives {
		alternatives = append(alternatives, map[string]any{"condition": alt.Condition, "type": alt.Type.String()})
	}
	selector := map[string]any{
		"id":           d.Selector.ID,
		"prefixBits":   d.Selector.PrefixBits,
		"alternatives": alternatives,
	}
	if d.Selector.Default != nil {
		selector["default"] = d.Selector.Default.Type.String()
	}
	m["selector"] = selector
	return m
}
