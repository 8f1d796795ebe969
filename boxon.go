// Package boxon implements the data model shared by a declarative,
// annotation-driven binary message codec. A Boxon message type is a Go struct
// whose fields are labeled with `boxon` struct tags describing their wire
// shape. Encoding and decoding of such types is implemented by the
// [github.com/go-boxon/boxon/wire] package; this package only defines the
// shared vocabulary: byte order, charsets, the evaluation [Context], the
// [Response] envelope, and the error taxonomy produced by compiling and
// driving a template.
//
// # Defining a Boxon message
//
// A message type is described using `boxon` struct tags. Take the following
// example:
//
//	type ACK struct {
//		Frame        wire.Header `boxon:"start=2b41434b,end=0d0a"`
//		Header       string      `boxon:"string,size=4"`
//		MessageType  uint8       `boxon:"int,size=8"`
//		Mask         uint8       `boxon:"int,size=8"`
//		Version      uint16      `boxon:"int,size=16,condition=#self.Mask&1==1"`
//		Checksum     uint16      `boxon:"checksum,algorithm=CRC16-CCITT-FALSE,skipStart=4,skipEnd=4"`
//	}
//
// The order in which the struct fields are declared corresponds to the order
// of values on the wire. See [github.com/go-boxon/boxon/wire] for the
// compiler, codec registry, and parser that turn this declaration into a
// working decoder/encoder, and the package documentation there for the full
// struct tag vocabulary.
package boxon

import "strconv"

// ByteOrder controls how multi-byte values are laid out on the wire.
type ByteOrder uint8

const (
	// BigEndian stores the most significant byte first.
	BigEndian ByteOrder = iota
	// LittleEndian stores the least significant byte first.
	LittleEndian
)

// String returns a human-readable name for o.
func (o ByteOrder) String() string {
	switch o {
	case BigEndian:
		return "big-endian"
	case LittleEndian:
		return "little-endian"
	default:
		return "ByteOrder(" + strconv.Itoa(int(o)) + ")"
	}
}

// Charset names the text encoding used by String and StringTerminated
// descriptors. Only US-ASCII and UTF-8 are supported; [ParseCharset] maps
// every other name to UTF8.
type Charset uint8

const (
	// ASCII is the 7-bit US-ASCII charset (IANA name "US-ASCII").
	ASCII Charset = iota
	// UTF8 is the UTF-8 charset (IANA name "UTF-8").
	UTF8
)

// String returns the canonical IANA name for c.
func (c Charset) String() string {
	switch c {
	case ASCII:
		return "US-ASCII"
	case UTF8:
		return "UTF-8"
	default:
		return "Charset(" + strconv.Itoa(int(c)) + ")"
	}
}

// ParseCharset resolves an IANA charset name to a [Charset]. Unknown names
// default to [UTF8], mirroring the permissive behavior of most binary-protocol
// parsers encountered in the wild.
func ParseCharset(name string) Charset {
	switch name {
	case "US-ASCII", "ASCII", "ascii":
		return ASCII
	default:
		return UTF8
	}
}
