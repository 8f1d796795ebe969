package wire

import "reflect"

// Header is embedded in a message type, under an exported field name, to
// declare the literal byte pattern the Loader uses to recognize and frame
// messages of that type:
//
//	type ACK struct {
//		Frame   Header `boxon:"start=2b41434b,end=0d0a"`
//		Header  string `boxon:"string,size=4"`
//		...
//	}
//
// Start and End are hex-encoded literal byte strings; either may be empty.
// The field must be exported (an unexported or blank-identifier field is
// never visited by the compiler at all).
type Header struct{}

// Template is the immutable compiled plan for one Go struct type. It is
// produced once by Compile and only ever referenced afterward, never copied
// or mutated; compiling the same reflect.Type twice yields equal Templates.
type Template struct {
	Type   reflect.Type
	Start  []byte
	End    []byte
	Charset string

	Fields    []*FieldPlan
	Evaluated []*EvaluatedFieldPlan
	Checksum  *ChecksumPlan

	// CanBeCode is false when compilation found a structural annotation
	// error; CompileErr then names the first such error. A Template in this
	// state fails every Decode/Encode immediately rather than panicking.
	CanBeCode bool
	CompileErr error
}
