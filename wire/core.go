package wire

import (
	"reflect"

	"github.com/go-boxon/boxon"
	"github.com/go-boxon/boxon/bitio"
	"github.com/go-boxon/boxon/checksum"
)

// Core is the façade that ties the compiler, codec registry, checksum
// registry, loader, and template parser together into a single Parse/Compose
// API. It is the type application code is expected to construct and keep
// around; everything else in this package is reachable through it.
type Core struct {
	registry  *Registry
	checksums *checksum.Registry
	ctx       boxon.Context
	loader    *Loader
	templates []*Template
}

// NewCore returns a Core with the default codec and checksum-algorithm
// registries and an empty evaluation context.
func NewCore() *Core {
	return &Core{
		registry:  DefaultRegistry(),
		checksums: checksum.NewRegistry(),
		ctx:       make(boxon.Context),
	}
}

// RegisterCodec overrides or extends the codec used for kind.
func (c *Core) RegisterCodec(kind DescriptorKind, codec Codec) {
	c.registry.Register(kind, codec)
}

// RegisterChecksum makes alg available under name to `checksum` fields.
func (c *Core) RegisterChecksum(name string, alg checksum.Algorithm) {
	c.checksums.Register(name, alg)
}

// RegisterTemplate compiles t and adds it to the set of message types Parse
// recognizes by header pattern.
func (c *Core) RegisterTemplate(t reflect.Type) error {
	tpl, err := CompileCached(t)
	if err != nil {
		return err
	}
	c.templates = append(c.templates, tpl)
	c.loader = NewLoader(c.templates...)
	return nil
}

// SetContext replaces the base evaluation context visible to every field
// expression as bare identifiers (not `#self`/`#prefix`, which the template
// parser binds itself for the duration of each operation).
func (c *Core) SetContext(ctx boxon.Context) {
	c.ctx = ctx
}

// Describe returns t's compiled template shape as a plain map, compiling t
// if it hasn't been already.
func (c *Core) Describe(t reflect.Type) (map[string]any, error) {
	tpl, err := CompileCached(t)
	if err != nil {
		return nil, err
	}
	return Describe(tpl, c.ctx), nil
}

// Parse scans data for every message it can recognize via the registered
// templates' header patterns, decoding each in turn. A message that fails to
// decode produces a Response with Err set and Src holding that message's
// undecoded bytes; Parse resynchronizes past it and keeps scanning rather
// than aborting the whole buffer.
func (c *Core) Parse(data []byte) []boxon.Response[[]byte, any] {
	var responses []boxon.Response[[]byte, any]
	if c.loader == nil {
		return responses
	}
	r := bitio.NewReader(data)
	prevEnd := 0
	for r.Len() > 0 {
		tpl, offset, err := c.loader.FindTemplate(r)
		if err != nil {
			break
		}
		responses = append(responses, unrecognizedGap(data, prevEnd, int(offset))...)
		msg, decErr := Decode(tpl, r, c.registry, c.checksums, c.ctx)
		if decErr != nil {
			end := len(data)
			if next := int(r.Position() / 8); next > int(offset) && next <= len(data) {
				end = next
			}
			responses = append(responses, boxon.Response[[]byte, any]{Src: data[offset:end], Err: decErr})
			// Resynchronize past this message's own header so the next
			// FindTemplate call doesn't immediately re-match the same bytes.
			if seekErr := r.Seek((offset + 1) * 8); seekErr != nil {
				break
			}
			prevEnd = end
			continue
		}
		end := int(r.Position() / 8)
		responses = append(responses, boxon.Response[[]byte, any]{Src: data[offset:end], Msg: msg})
		prevEnd = end
	}
	responses = append(responses, unrecognizedGap(data, prevEnd, len(data))...)
	return responses
}

// unrecognizedGap frames data[from:to], if non-empty, as a single
// UnrecognizedBytesError Response: bytes no registered template's header
// pattern matched, whether they precede the first recognized message, sit
// between two messages, or trail the last one.
func unrecognizedGap(data []byte, from, to int) []boxon.Response[[]byte, any] {
	if to <= from {
		return nil
	}
	gap := data[from:to]
	return []boxon.Response[[]byte, any]{{Src: gap, Err: &boxon.UnrecognizedBytesError{Length: len(gap)}}}
}

// Compose encodes v, which must be a registered message type, returning its
// wire bytes. On failure, Src carries v itself so the caller can inspect
// what it tried to encode.
func (c *Core) Compose(v any) boxon.Response[any, []byte] {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	tpl, err := CompileCached(rv.Type())
	if err != nil {
		return boxon.Response[any, []byte]{Src: v, Err: err}
	}
	w := bitio.NewWriter()
	if err := Encode(tpl, w, c.registry, c.checksums, c.ctx, v); err != nil {
		return boxon.Response[any, []byte]{Src: v, Err: err}
	}
	return boxon.Response[any, []byte]{Src: v, Msg: w.Flush()}
}
