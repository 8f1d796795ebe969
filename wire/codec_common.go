package wire

import (
	"fmt"
	"math/big"
	"reflect"

	"github.com/go-boxon/boxon"
	"github.com/go-boxon/boxon/eval"
)

func resolveByteOrder(s string) boxon.ByteOrder {
	if s == "little" {
		return boxon.LittleEndian
	}
	return boxon.BigEndian
}

func resolveCharset(s string) boxon.Charset {
	return boxon.ParseCharset(s)
}

// resolveSize evaluates a field's size expression against ctx. The
// overwhelming majority of size expressions in practice are bare numeric
// literals, which the evaluator accepts like any other constant expression.
func resolveSize(expr string, ctx boxon.Context) (int, error) {
	n, err := eval.EvaluateInt(expr, ctx)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("wire: size expression %q evaluated to negative width %d", expr, n)
	}
	return int(n), nil
}

// toBigInt coerces a Go integer value (or an already-*big.Int wire value
// produced by a converter) into a *big.Int for the bit-level writer.
func toBigInt(v any) (*big.Int, error) {
	if bi, ok := v.(*big.Int); ok {
		return bi, nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return big.NewInt(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return new(big.Int).SetUint64(rv.Uint()), nil
	}
	return nil, fmt.Errorf("wire: cannot convert value of type %T to an integer", v)
}
