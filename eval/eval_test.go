package eval_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-boxon/boxon"
	"github.com/go-boxon/boxon/eval"
)

type ackMask struct {
	Mask uint8
}

func TestEvaluateSelfFieldCondition(t *testing.T) {
	ctx := boxon.Context{}.WithSelf(ackMask{Mask: 0x07})
	got, err := eval.EvaluateBool("#self.Mask&1==1", ctx)
	require.NoError(t, err)
	require.True(t, got)
}

func TestEvaluateArithmeticAndComparison(t *testing.T) {
	ctx := boxon.Context{}
	got, err := eval.EvaluateInt("(2 + 3) * 4 - 1", ctx)
	require.NoError(t, err)
	require.EqualValues(t, 19, got)

	b, err := eval.EvaluateBool("5 >= 5 && 2 < 3", ctx)
	require.NoError(t, err)
	require.True(t, b)
}

func TestEvaluateTernary(t *testing.T) {
	ctx := boxon.Context{"flag": true}
	got, err := eval.Evaluate("flag ? 1 : 0", ctx)
	require.NoError(t, err)
	require.EqualValues(t, int64(1), got)
}

type deviceTypes struct{}

func (deviceTypes) GetName(code int64) (string, error) {
	names := map[int64]string{1: "GV300", 2: "GV500"}
	if n, ok := names[code]; ok {
		return n, nil
	}
	return "", nil
}

func TestEvaluateContextMethodCall(t *testing.T) {
	ctx := boxon.Context{"deviceTypes": deviceTypes{}}
	got, err := eval.Evaluate("#deviceTypes.GetName(1)", ctx)
	require.NoError(t, err)
	require.Equal(t, "GV300", got)
}

func TestEvaluateStaticCallAllowlist(t *testing.T) {
	eval.RegisterStatic("Converters", "upper", func(args ...any) (any, error) {
		s, _ := args[0].(string)
		out := make([]byte, len(s))
		for i := 0; i < len(s); i++ {
			c := s[i]
			if c >= 'a' && c <= 'z' {
				c -= 'a' - 'A'
			}
			out[i] = c
		}
		return string(out), nil
	})
	got, err := eval.Evaluate(`T(Converters).upper("hi")`, boxon.Context{})
	require.NoError(t, err)
	require.Equal(t, "HI", got)
}

func TestEvaluateUnregisteredStaticCallFails(t *testing.T) {
	_, err := eval.Evaluate(`T(Nope).missing()`, boxon.Context{})
	require.Error(t, err)
}

func TestEvaluateHexLiteral(t *testing.T) {
	got, err := eval.EvaluateInt("0x10 + 1", boxon.Context{})
	require.NoError(t, err)
	require.EqualValues(t, 17, got)
}
