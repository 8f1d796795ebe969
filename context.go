package boxon

import "maps"

// Context is a name→value map available to the [github.com/go-boxon/boxon/eval]
// evaluator during a single decode or encode operation. A Context is supplied
// by the caller once (via a façade's SetContext method) and extended by the
// template parser with transient entries for the duration of a single
// operation; see [Context.Clone].
type Context map[string]any

// Clone returns a shallow copy of c. The template parser clones the
// caller-supplied base context at the start of every decode/encode operation
// so that transient keys such as "self" and "prefix" never leak back into the
// caller's map and are never visible to a concurrent operation sharing the
// same base context.
func (c Context) Clone() Context {
	if c == nil {
		return make(Context)
	}
	return maps.Clone(c)
}

// transient key names bound by the template parser for the lifetime of a
// single decode/encode call.
const (
	KeySelf   = "self"
	KeyPrefix = "prefix"
)

// WithSelf returns a clone of c with the "self" key bound to self. It is used
// by the template parser to expose the in-progress decoded value (or the
// value being encoded) to field expressions as `#self`.
func (c Context) WithSelf(self any) Context {
	clone := c.Clone()
	clone[KeySelf] = self
	return clone
}

// WithPrefix returns a clone of c with the "prefix" key bound to prefix. It is
// used by the template parser when resolving a [Selector] that declares a
// prefix size.
func (c Context) WithPrefix(prefix any) Context {
	clone := c.Clone()
	clone[KeyPrefix] = prefix
	return clone
}
