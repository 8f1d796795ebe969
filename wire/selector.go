package wire

import "reflect"

// Alternative is one branch of a Selector: Type is chosen when Condition
// evaluates true (or unconditionally, for the default branch, which carries
// an empty Condition and is tried last). PrefixValue is the literal value
// written to the prefix field when encoding a value of Type; it is only
// meaningful when the owning Selector has PrefixBits > 0, and is left nil for
// alternatives dispatched purely on already-decoded `#self` fields.
type Alternative struct {
	Condition   string
	PrefixValue *int64
	Type        reflect.Type
}

// Selector is the polymorphic dispatch rule for an Object or Array element:
// either a fixed-width prefix is read first and exposed to every
// Condition as `#prefix`, or dispatch relies solely on fields already
// decoded into `#self`. Alternatives are tried in declaration order
// (explicit conditions first); Default, if set, is tried last.
type Selector struct {
	ID         string
	PrefixBits int
	Alternatives []Alternative
	Default      *Alternative
}

// registeredSelectors is the process-wide selector registry the compiler
// consults when resolving a `selectFrom=<id>` tag. Selectors are registered
// once, before any affected type is compiled, via RegisterSelector.
var registeredSelectors = map[string]*Selector{}

// RegisterSelector makes sel available to the compiler under sel.ID,
// referenced from a field's `boxon:"...,selectFrom=<id>"` tag.
func RegisterSelector(sel Selector) {
	registeredSelectors[sel.ID] = &sel
}

// lookupSelector resolves a selector id previously registered with
// RegisterSelector.
func lookupSelector(id string) (*Selector, bool) {
	sel, ok := registeredSelectors[id]
	return sel, ok
}
