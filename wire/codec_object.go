package wire

import (
	"fmt"
	"reflect"

	"github.com/go-boxon/boxon"
	"github.com/go-boxon/boxon/eval"
)

// objectCodec implements a nested message field, compiling (and caching) the
// Template for the field's declared type — or, when the field carries a
// Selector, for whichever alternative type the Selector resolves to.
type objectCodec struct{}

func (objectCodec) Decode(oc *opContext, d Descriptor) (any, error) {
	desc, ok := d.(ObjectDescriptor)
	if !ok {
		return nil, fmt.Errorf("wire: objectCodec given %T", d)
	}
	targetType := desc.Type
	if desc.Selector != nil {
		t, err := resolveSelectorDecode(oc, desc.Selector)
		if err != nil {
			return nil, err
		}
		targetType = t
	}
	tpl, err := CompileCached(targetType)
	if err != nil {
		return nil, err
	}
	result, err := decodeStruct(oc, tpl)
	if err != nil {
		return nil, err
	}
	return result.Interface(), nil
}

func (objectCodec) Encode(oc *opContext, d Descriptor, v any) error {
	desc, ok := d.(ObjectDescriptor)
	if !ok {
		return fmt.Errorf("wire: objectCodec given %T", d)
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}
	if desc.Selector != nil {
		alt, err := resolveSelectorEncode(desc.Selector, rv.Type())
		if err != nil {
			return err
		}
		if desc.Selector.PrefixBits > 0 {
			var prefix int64
			if alt.PrefixValue != nil {
				prefix = *alt.PrefixValue
			}
			if err := oc.writer.WriteInt(prefix, desc.Selector.PrefixBits, boxon.BigEndian); err != nil {
				return err
			}
		}
	}
	tpl, err := CompileCached(rv.Type())
	if err != nil {
		return err
	}
	return encodeStruct(oc, tpl, rv)
}

// resolveSelectorDecode reads the Selector's prefix, if any, and returns the
// Go type of the first matching Alternative (Default last).
func resolveSelectorDecode(oc *opContext, sel *Selector) (reflect.Type, error) {
	ctx := oc.ctx
	if sel.PrefixBits > 0 {
		prefix, err := oc.reader.ReadInt(sel.PrefixBits, boxon.BigEndian, false)
		if err != nil {
			return nil, err
		}
		ctx = ctx.WithPrefix(prefix)
	}
	for _, alt := range sel.Alternatives {
		ok, err := eval.EvaluateBool(alt.Condition, ctx)
		if err != nil {
			return nil, err
		}
		if ok {
			return alt.Type, nil
		}
	}
	if sel.Default != nil {
		return sel.Default.Type, nil
	}
	return nil, errSelectorNoMatch
}

// resolveSelectorEncode finds the Alternative whose Type matches t.
func resolveSelectorEncode(sel *Selector, t reflect.Type) (Alternative, error) {
	for _, alt := range sel.Alternatives {
		if alt.Type == t {
			return alt, nil
		}
	}
	if sel.Default != nil && sel.Default.Type == t {
		return *sel.Default, nil
	}
	return Alternative{}, &boxon.SelectorEncodeError{Type: t.String()}
}
