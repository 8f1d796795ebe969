package wire

import (
	"fmt"
	"regexp"

	"github.com/go-boxon/boxon"
)

// stringCodec implements fixed-size text fields, optionally validated
// against a `match` regular expression on both decode and encode.
type stringCodec struct{}

func (stringCodec) Decode(oc *opContext, d Descriptor) (any, error) {
	desc, ok := d.(StringDescriptor)
	if !ok {
		return nil, fmt.Errorf("wire: stringCodec given %T", d)
	}
	n, err := resolveSize(desc.SizeExpr, oc.ctx)
	if err != nil {
		return nil, err
	}
	s, err := oc.reader.ReadTextFixed(n, resolveCharset(desc.Charset))
	if err != nil {
		return nil, err
	}
	if desc.Match != "" {
		if err := matchString(desc.Match, s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (stringCodec) Encode(oc *opContext, d Descriptor, v any) error {
	desc, ok := d.(StringDescriptor)
	if !ok {
		return fmt.Errorf("wire: stringCodec given %T", d)
	}
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("wire: stringCodec given non-string value %T", v)
	}
	if desc.Match != "" {
		if err := matchString(desc.Match, s); err != nil {
			return err
		}
	}
	n, err := resolveSize(desc.SizeExpr, oc.ctx)
	if err != nil {
		return err
	}
	return oc.writer.WriteTextFixed(s, n, resolveCharset(desc.Charset))
}

func matchString(pattern, value string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	if !re.MatchString(value) {
		return &boxon.MatchError{Pattern: pattern, Value: value}
	}
	return nil
}

// stringTerminatedCodec implements terminator-delimited text fields.
type stringTerminatedCodec struct{}

func (stringTerminatedCodec) Decode(oc *opContext, d Descriptor) (any, error) {
	desc, ok := d.(StringTerminatedDescriptor)
	if !ok {
		return nil, fmt.Errorf("wire: stringTerminatedCodec given %T", d)
	}
	return oc.reader.ReadTextTerminated(desc.Terminator, desc.Consume, resolveCharset(desc.Charset))
}

func (stringTerminatedCodec) Encode(oc *opContext, d Descriptor, v any) error {
	desc, ok := d.(StringTerminatedDescriptor)
	if !ok {
		return fmt.Errorf("wire: stringTerminatedCodec given %T", d)
	}
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("wire: stringTerminatedCodec given non-string value %T", v)
	}
	return oc.writer.WriteTextTerminated(s, desc.Terminator, resolveCharset(desc.Charset))
}
