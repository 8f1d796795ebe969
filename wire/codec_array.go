package wire

import (
	"fmt"
	"reflect"
)

// arrayCodec implements a fixed-length array of object elements, each
// independently routed through objectCodec so that a per-element Selector
// (e.g. a type discriminator preceding every element) is re-resolved on
// every iteration.
type arrayCodec struct{}

func (arrayCodec) Decode(oc *opContext, d Descriptor) (any, error) {
	desc, ok := d.(ArrayDescriptor)
	if !ok {
		return nil, fmt.Errorf("wire: arrayCodec given %T", d)
	}
	count, err := resolveSize(desc.SizeExpr, oc.ctx)
	if err != nil {
		return nil, err
	}
	result := reflect.MakeSlice(reflect.SliceOf(desc.Elem.Type), count, count)
	for i := 0; i < count; i++ {
		elem, err := (objectCodec{}).Decode(oc, desc.Elem)
		if err != nil {
			return nil, err
		}
		if err := assignValue(result.Index(i), elem); err != nil {
			return nil, err
		}
	}
	return result.Interface(), nil
}

func (arrayCodec) Encode(oc *opContext, d Descriptor, v any) error {
	desc, ok := d.(ArrayDescriptor)
	if !ok {
		return fmt.Errorf("wire: arrayCodec given %T", d)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return fmt.Errorf("wire: arrayCodec given non-slice value %T", v)
	}
	if count, err := resolveSize(desc.SizeExpr, oc.ctx); err == nil && count != rv.Len() {
		return fmt.Errorf("wire: array size expression %q evaluated to %d but slice has %d elements", desc.SizeExpr, count, rv.Len())
	}
	for i := 0; i < rv.Len(); i++ {
		if err := (objectCodec{}).Encode(oc, desc.Elem, rv.Index(i).Interface()); err != nil {
			return err
		}
	}
	return nil
}

// arrayPrimitiveCodec implements a fixed-length array of integer elements
// sharing one IntegerDescriptor, decoded into (or encoded from) a native Go
// slice such as []uint32.
type arrayPrimitiveCodec struct{}

func (arrayPrimitiveCodec) Decode(oc *opContext, d Descriptor) (any, error) {
	desc, ok := d.(ArrayPrimitiveDescriptor)
	if !ok {
		return nil, fmt.Errorf("wire: arrayPrimitiveCodec given %T", d)
	}
	count, err := resolveSize(desc.SizeExpr, oc.ctx)
	if err != nil {
		return nil, err
	}
	result := reflect.MakeSlice(reflect.SliceOf(desc.GoElemType), count, count)
	for i := 0; i < count; i++ {
		v, err := (integerCodec{}).Decode(oc, desc.Elem)
		if err != nil {
			return nil, err
		}
		if err := assignValue(result.Index(i), v); err != nil {
			return nil, err
		}
	}
	return result.Interface(), nil
}

func (arrayPrimitiveCodec) Encode(oc *opContext, d Descriptor, v any) error {
	desc, ok := d.(ArrayPrimitiveDescriptor)
	if !ok {
		return fmt.Errorf("wire: arrayPrimitiveCodec given %T", d)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return fmt.Errorf("wire: arrayPrimitiveCodec given non-slice value %T", v)
	}
	if count, err := resolveSize(desc.SizeExpr, oc.ctx); err == nil && count != rv.Len() {
		return fmt.Errorf("wire: array size expression %q evaluated to %d but slice has %d elements", desc.SizeExpr, count, rv.Len())
	}
	for i := 0; i < rv.Len(); i++ {
		if err := (integerCodec{}).Encode(oc, desc.Elem, rv.Index(i).Interface()); err != nil {
			return err
		}
	}
	return nil
}
