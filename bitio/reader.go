package bitio

import (
	"fmt"
	"math/big"
	"strings"
	"unicode/utf8"

	"github.com/go-boxon/boxon"
)

// Reader reads successive, possibly non-byte-aligned, fields from a fixed
// byte slice, tracking an absolute bit cursor.
type Reader struct {
	data []byte
	pos  bitPosition
	end  bitPosition
}

// NewReader returns a Reader over data, positioned at bit 0.
func NewReader(data []byte) *Reader {
	return &Reader{data: data, end: bitPosition(len(data) * 8)}
}

// Position returns the current absolute bit offset.
func (r *Reader) Position() int64 { return int64(r.pos) }

// Len returns the number of unread bits remaining.
func (r *Reader) Len() int { return int(r.end - r.pos) }

// Bytes returns the Reader's full backing byte slice, including bytes
// already consumed and bytes not yet read. It is used to recover the exact
// byte range a checksum field covers, which is only known once the cursor
// has advanced past it.
func (r *Reader) Bytes() []byte { return r.data }

// Seek repositions the cursor to an absolute bit offset. It is used to
// rewind past a field that turned out, via a Selector, not to match, and to
// resynchronize to a candidate header offset found by a pattern matcher.
func (r *Reader) Seek(bitPos int64) error {
	if bitPos < 0 || bitPosition(bitPos) > r.end {
		return fmt.Errorf("bitio: seek to %d out of range [0, %d]", bitPos, r.end)
	}
	r.pos = bitPosition(bitPos)
	return nil
}

// readBit consumes a single bit, most-significant-bit first within each byte.
func (r *Reader) readBit() (uint64, error) {
	if r.pos >= r.end {
		return 0, &boxon.InsufficientBytesError{Wanted: 1, Have: 0}
	}
	byteIndex := r.pos.bytePosition()
	shift := 7 - r.pos.fractionalBits()
	bit := (r.data[byteIndex] >> shift) & 1
	r.pos++
	return uint64(bit), nil
}

// readByteAligned consumes exactly one byte; the caller guarantees the
// cursor is byte-aligned and that a full byte remains.
func (r *Reader) readByteAligned() (byte, error) {
	if r.pos.fractionalBits() != 0 {
		// Fall back to bit-by-bit assembly for a mid-byte cursor.
		var v uint64
		for i := 0; i < 8; i++ {
			bit, err := r.readBit()
			if err != nil {
				return 0, err
			}
			v = v<<1 | bit
		}
		return byte(v), nil
	}
	if r.pos+8 > r.end {
		return 0, &boxon.InsufficientBytesError{Wanted: 8, Have: int(r.end - r.pos)}
	}
	b := r.data[r.pos.bytePosition()]
	r.pos += 8
	return b, nil
}

// ReadBits reads the next n bits (0 <= n) as a raw, unsigned, big-endian
// bit-sequence: the first bit read becomes the most significant bit of the
// result. It performs no sign interpretation or byte-order remapping and
// underlies ReadBigInt, ReadInt, and checksum and bitset field decoding.
func (r *Reader) ReadBits(n int) (*big.Int, error) {
	if n < 0 {
		return nil, fmt.Errorf("bitio: negative bit count %d", n)
	}
	if r.Len() < n {
		return nil, &boxon.InsufficientBytesError{Wanted: n, Have: r.Len()}
	}
	result := new(big.Int)
	remaining := n
	for remaining >= 8 && r.pos.fractionalBits() == 0 {
		b, err := r.readByteAligned()
		if err != nil {
			return nil, err
		}
		result.Lsh(result, 8)
		result.Or(result, big.NewInt(int64(b)))
		remaining -= 8
	}
	for remaining > 0 {
		bit, err := r.readBit()
		if err != nil {
			return nil, err
		}
		result.Lsh(result, 1)
		result.Or(result, big.NewInt(int64(bit)))
		remaining--
	}
	return result, nil
}

// ReadBigInt reads an n-bit integer honoring order and, if signed, two's
// complement sign extension. For byte-multiple n, order selects the order in
// which whole bytes are combined (the classic big/little-endian distinction).
// For non-byte-multiple n, order instead selects the bit-fill direction: big
// endian fills from the most significant bit (the first bit read is the
// value's MSB, i.e. plain [Reader.ReadBits] order), little endian fills from
// the least significant bit (the first bit read becomes the value's LSB).
func (r *Reader) ReadBigInt(n int, order boxon.ByteOrder, signed bool) (*big.Int, error) {
	if n < 0 {
		return nil, fmt.Errorf("bitio: negative bit width %d", n)
	}
	byteAligned := n%8 == 0
	var magnitude *big.Int
	switch {
	case byteAligned && order == boxon.LittleEndian:
		nbytes := n / 8
		buf := make([]byte, nbytes)
		for i := 0; i < nbytes; i++ {
			b, err := r.readByteAligned()
			if err != nil {
				return nil, err
			}
			buf[i] = b
		}
		// Reverse into big-endian order for interpretation.
		for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
			buf[i], buf[j] = buf[j], buf[i]
		}
		magnitude = new(big.Int).SetBytes(buf)
	case byteAligned:
		magnitude = new(big.Int)
		nbytes := n / 8
		for i := 0; i < nbytes; i++ {
			b, err := r.readByteAligned()
			if err != nil {
				return nil, err
			}
			magnitude.Lsh(magnitude, 8)
			magnitude.Or(magnitude, big.NewInt(int64(b)))
		}
	case order == boxon.LittleEndian:
		magnitude = new(big.Int)
		for i := 0; i < n; i++ {
			bit, err := r.readBit()
			if err != nil {
				return nil, err
			}
			if bit != 0 {
				magnitude.SetBit(magnitude, i, 1)
			}
		}
	default:
		var err error
		magnitude, err = r.ReadBits(n)
		if err != nil {
			return nil, err
		}
	}
	if signed {
		return signExtendBig(magnitude, n), nil
	}
	return magnitude, nil
}

// ReadInt is the int64-bounded convenience form of ReadBigInt, valid for
// 0 < n <= 64.
func (r *Reader) ReadInt(n int, order boxon.ByteOrder, signed bool) (int64, error) {
	if n <= 0 || n > 64 {
		return 0, fmt.Errorf("bitio: ReadInt width %d out of range (1..64)", n)
	}
	v, err := r.ReadBigInt(n, order, false)
	if err != nil {
		return 0, err
	}
	u := v.Uint64()
	if signed {
		return signExtend(u, n), nil
	}
	return int64(u), nil
}

// ReadChecksum reads an unsigned, byte-aligned, big-endian checksum value of
// byteLen bytes. Checksum fields are always whole bytes on the wire.
func (r *Reader) ReadChecksum(byteLen int) (uint64, error) {
	v, err := r.ReadInt(byteLen*8, boxon.BigEndian, false)
	if err != nil {
		return 0, err
	}
	return uint64(v), nil
}

// ReadTextFixed reads exactly byteLen bytes and decodes them as text in the
// given charset, trimming trailing NUL padding.
func (r *Reader) ReadTextFixed(byteLen int, charset boxon.Charset) (string, error) {
	if r.Len() < byteLen*8 {
		return "", &boxon.InsufficientBytesError{Wanted: byteLen * 8, Have: r.Len()}
	}
	buf := make([]byte, byteLen)
	for i := 0; i < byteLen; i++ {
		b, err := r.readByteAligned()
		if err != nil {
			return "", err
		}
		buf[i] = b
	}
	buf = bytesTrimTrailingNUL(buf)
	return decodeText(buf, charset), nil
}

// ReadTextTerminated reads bytes until the terminator byte is encountered. If
// consume is true the terminator is consumed from the stream but excluded
// from the returned string; if false, the cursor stops immediately before
// the terminator and a subsequent read observes it.
func (r *Reader) ReadTextTerminated(terminator byte, consume bool, charset boxon.Charset) (string, error) {
	var buf []byte
	for {
		if r.Len() < 8 {
			return "", &boxon.InsufficientBytesError{Wanted: 8, Have: r.Len()}
		}
		start := r.pos
		b, err := r.readByteAligned()
		if err != nil {
			return "", err
		}
		if b == terminator {
			if !consume {
				r.pos = start
			}
			return decodeText(buf, charset), nil
		}
		buf = append(buf, b)
	}
}

func bytesTrimTrailingNUL(b []byte) []byte {
	i := len(b)
	for i > 0 && b[i-1] == 0 {
		i--
	}
	return b[:i]
}

func decodeText(buf []byte, charset boxon.Charset) string {
	if charset == boxon.ASCII {
		var s strings.Builder
		s.Grow(len(buf))
		for _, b := range buf {
			if b > 0x7f {
				b = '?'
			}
			s.WriteByte(b)
		}
		return s.String()
	}
	if !utf8.Valid(buf) {
		return strings.ToValidUTF8(string(buf), "�")
	}
	return string(buf)
}
