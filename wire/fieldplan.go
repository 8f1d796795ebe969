package wire

// FieldPlan is one struct field's compiled wire contract: how to read/write
// its bytes (Descriptor), when to skip it (Condition), and how to convert or
// validate the codec's native value against the Go field type.
type FieldPlan struct {
	Name       string
	Index      []int
	Descriptor Descriptor
	Condition  string
	Converter  string
	Validator  string
}

// EvaluatedFieldPlan is a field populated after decode (never written on
// encode) by evaluating Expr against the fully decoded `#self` and context.
type EvaluatedFieldPlan struct {
	Name  string
	Index []int
	Expr  string
}

// ChecksumPlan is the template's single trailing checksum field, if any.
type ChecksumPlan struct {
	Name       string
	Index      []int
	Descriptor ChecksumDescriptor
}
