package eval

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-boxon/boxon"
)

// StaticFunc is a function reachable through `T(fully.Qualified.Name).method(args...)`.
type StaticFunc func(args ...any) (any, error)

var staticRegistry = map[string]StaticFunc{}

// RegisterStatic adds fn to the allowlist of static calls reachable from
// expressions as `T(typeName).method(...)`. There is no dynamic class
// loading: an expression referencing a typeName/method pair that was never
// registered fails with [boxon.ExpressionError].
func RegisterStatic(typeName, method string, fn StaticFunc) {
	staticRegistry[typeName+"."+method] = fn
}

// Evaluate parses and evaluates expr against ctx. ctx["self"] (if present) is
// the in-progress decoded or about-to-be-encoded value exposed as `#self`;
// every other ctx entry is reachable as `#name`. Evaluate never mutates ctx.
func Evaluate(expr string, ctx boxon.Context) (any, error) {
	ast, err := parse(expr)
	if err != nil {
		return nil, &boxon.ExpressionError{Expr: expr, Err: err}
	}
	w := &walker{expr: expr, ctx: ctx}
	v, err := w.evalExpression(ast)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// EvaluateBool evaluates expr and coerces the result to bool, as required for
// a `condition=` or Selector predicate annotation.
func EvaluateBool(expr string, ctx boxon.Context) (bool, error) {
	v, err := Evaluate(expr, ctx)
	if err != nil {
		return false, err
	}
	b, ok := toBool(v)
	if !ok {
		return false, &boxon.ExpressionError{Expr: expr, Err: fmt.Errorf("result %v (%T) is not a boolean", v, v)}
	}
	return b, nil
}

// EvaluateInt evaluates expr and coerces the result to int64, as required for
// a `size=` annotation.
func EvaluateInt(expr string, ctx boxon.Context) (int64, error) {
	v, err := Evaluate(expr, ctx)
	if err != nil {
		return 0, err
	}
	i, ok := toInt(v)
	if !ok {
		return 0, &boxon.ExpressionError{Expr: expr, Err: fmt.Errorf("result %v (%T) is not an integer", v, v)}
	}
	return i, nil
}

type walker struct {
	expr string
	ctx  boxon.Context
}

func (w *walker) fail(identifier string, err error) error {
	return &boxon.ExpressionError{Expr: w.expr, Identifier: identifier, Err: err}
}

func (w *walker) evalExpression(e *Expression) (any, error) {
	cond, err := w.evalLogicalOr(e.Cond)
	if err != nil {
		return nil, err
	}
	if e.Then == nil {
		return cond, nil
	}
	b, ok := toBool(cond)
	if !ok {
		return nil, w.fail("", fmt.Errorf("ternary condition %v is not boolean", cond))
	}
	if b {
		return w.evalExpression(e.Then)
	}
	return w.evalExpression(e.Else)
}

func (w *walker) evalLogicalOr(n *LogicalOr) (any, error) {
	left, err := w.evalLogicalAnd(n.Left)
	if err != nil {
		return nil, err
	}
	for _, op := range n.Ops {
		lb, _ := toBool(left)
		if lb {
			left = true
			continue
		}
		right, err := w.evalLogicalAnd(op.Right)
		if err != nil {
			return nil, err
		}
		rb, ok := toBool(right)
		if !ok {
			return nil, w.fail("", fmt.Errorf("operand %v is not boolean", right))
		}
		left = rb
	}
	return left, nil
}

func (w *walker) evalLogicalAnd(n *LogicalAnd) (any, error) {
	left, err := w.evalBitwiseOr(n.Left)
	if err != nil {
		return nil, err
	}
	for _, op := range n.Ops {
		lb, _ := toBool(left)
		if !lb {
			left = false
			continue
		}
		right, err := w.evalBitwiseOr(op.Right)
		if err != nil {
			return nil, err
		}
		rb, ok := toBool(right)
		if !ok {
			return nil, w.fail("", fmt.Errorf("operand %v is not boolean", right))
		}
		left = rb
	}
	return left, nil
}

func (w *walker) evalBitwiseOr(n *BitwiseOr) (any, error) {
	left, err := w.evalBitwiseXor(n.Left)
	if err != nil {
		return nil, err
	}
	for _, op := range n.Ops {
		li, ok1 := toInt(left)
		right, err := w.evalBitwiseXor(op.Right)
		if err != nil {
			return nil, err
		}
		ri, ok2 := toInt(right)
		if !ok1 || !ok2 {
			return nil, w.fail("", fmt.Errorf("bitwise `|` requires integer operands"))
		}
		left = li | ri
	}
	return left, nil
}

func (w *walker) evalBitwiseXor(n *BitwiseXor) (any, error) {
	left, err := w.evalBitwiseAnd(n.Left)
	if err != nil {
		return nil, err
	}
	for _, op := range n.Ops {
		li, ok1 := toInt(left)
		right, err := w.evalBitwiseAnd(op.Right)
		if err != nil {
			return nil, err
		}
		ri, ok2 := toInt(right)
		if !ok1 || !ok2 {
			return nil, w.fail("", fmt.Errorf("bitwise `^` requires integer operands"))
		}
		left = li ^ ri
	}
	return left, nil
}

func (w *walker) evalBitwiseAnd(n *BitwiseAnd) (any, error) {
	left, err := w.evalEquality(n.Left)
	if err != nil {
		return nil, err
	}
	for _, op := range n.Ops {
		li, ok1 := toInt(left)
		right, err := w.evalEquality(op.Right)
		if err != nil {
			return nil, err
		}
		ri, ok2 := toInt(right)
		if !ok1 || !ok2 {
			return nil, w.fail("", fmt.Errorf("bitwise `&` requires integer operands"))
		}
		left = li & ri
	}
	return left, nil
}

func (w *walker) evalEquality(n *Equality) (any, error) {
	left, err := w.evalRelational(n.Left)
	if err != nil {
		return nil, err
	}
	for _, op := range n.Ops {
		right, err := w.evalRelational(op.Right)
		if err != nil {
			return nil, err
		}
		eq := valuesEqual(left, right)
		if op.Op == "!=" {
			left = !eq
		} else {
			left = eq
		}
	}
	return left, nil
}

func (w *walker) evalRelational(n *Relational) (any, error) {
	left, err := w.evalShift(n.Left)
	if err != nil {
		return nil, err
	}
	for _, op := range n.Ops {
		right, err := w.evalShift(op.Right)
		if err != nil {
			return nil, err
		}
		cmp, ok := compareValues(left, right)
		if !ok {
			return nil, w.fail("", fmt.Errorf("cannot compare %v and %v", left, right))
		}
		switch op.Op {
		case "<":
			left = cmp < 0
		case "<=":
			left = cmp <= 0
		case ">":
			left = cmp > 0
		case ">=":
			left = cmp >= 0
		}
	}
	return left, nil
}

func (w *walker) evalShift(n *Shift) (any, error) {
	left, err := w.evalAdditive(n.Left)
	if err != nil {
		return nil, err
	}
	for _, op := range n.Ops {
		li, ok1 := toInt(left)
		right, err := w.evalAdditive(op.Right)
		if err != nil {
			return nil, err
		}
		ri, ok2 := toInt(right)
		if !ok1 || !ok2 {
			return nil, w.fail("", fmt.Errorf("shift requires integer operands"))
		}
		if op.Op == "<<" {
			left = li << uint(ri)
		} else {
			left = li >> uint(ri)
		}
	}
	return left, nil
}

func (w *walker) evalAdditive(n *Additive) (any, error) {
	left, err := w.evalMultiplicative(n.Left)
	if err != nil {
		return nil, err
	}
	for _, op := range n.Ops {
		right, err := w.evalMultiplicative(op.Right)
		if err != nil {
			return nil, err
		}
		if op.Op == "+" {
			if ls, ok := left.(string); ok {
				left = ls + fmt.Sprint(right)
				continue
			}
		}
		left, err = arith(left, right, op.Op)
		if err != nil {
			return nil, w.fail("", err)
		}
	}
	return left, nil
}

func (w *walker) evalMultiplicative(n *Multiplicative) (any, error) {
	left, err := w.evalUnary(n.Left)
	if err != nil {
		return nil, err
	}
	for _, op := range n.Ops {
		right, err := w.evalUnary(op.Right)
		if err != nil {
			return nil, err
		}
		left, err = arith(left, right, op.Op)
		if err != nil {
			return nil, w.fail("", err)
		}
	}
	return left, nil
}

func (w *walker) evalUnary(n *Unary) (any, error) {
	if n.Op != "" {
		v, err := w.evalUnary(n.Next)
		if err != nil {
			return nil, err
		}
		switch n.Op {
		case "!":
			b, ok := toBool(v)
			if !ok {
				return nil, w.fail("", fmt.Errorf("`!` requires a boolean operand"))
			}
			return !b, nil
		case "-":
			if f, ok := v.(float64); ok {
				return -f, nil
			}
			i, ok := toInt(v)
			if !ok {
				return nil, w.fail("", fmt.Errorf("unary `-` requires a numeric operand"))
			}
			return -i, nil
		case "~":
			i, ok := toInt(v)
			if !ok {
				return nil, w.fail("", fmt.Errorf("`~` requires an integer operand"))
			}
			return ^i, nil
		}
	}
	return w.evalPostfix(n.Atom)
}

func (w *walker) evalPostfix(p *Postfix) (any, error) {
	v, err := w.evalPrimary(p.Primary)
	if err != nil {
		return nil, err
	}
	for _, access := range p.Accesses {
		args, err := w.evalArgs(access.Call)
		if err != nil {
			return nil, err
		}
		v, err = resolveAccess(v, access.Name, access.Call != nil, args)
		if err != nil {
			return nil, w.fail(access.Name, err)
		}
	}
	return v, nil
}

// evalStaticCall invokes the allowlisted function registered for
// T(typeName).method(args...), the grammar's sole dynamic-dispatch escape
// hatch. The grammar always pairs a StaticType with exactly one StaticCall
// (the `.method(args)` immediately following the closing paren), so it is
// evaluated here rather than as a Postfix.Access step.
func (w *walker) evalStaticCall(typeName string, call *Access) (any, error) {
	args, err := w.evalArgs(call.Call)
	if err != nil {
		return nil, err
	}
	fn, ok := staticRegistry[typeName+"."+call.Name]
	if !ok {
		return nil, w.fail(call.Name, fmt.Errorf("no static method registered for T(%s).%s", typeName, call.Name))
	}
	v, err := fn(args...)
	if err != nil {
		return nil, w.fail(call.Name, err)
	}
	return v, nil
}

func (w *walker) evalArgs(call *CallArgs) ([]any, error) {
	if call == nil {
		return nil, nil
	}
	args := make([]any, len(call.Args))
	for i, a := range call.Args {
		v, err := w.evalExpression(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

func (w *walker) evalPrimary(p *Primary) (any, error) {
	switch {
	case p.StaticType != nil:
		return w.evalStaticCall(*p.StaticType, p.StaticCall)
	case p.Number != nil:
		return *p.Number, nil
	case p.Int != nil:
		i, perr := strconv.ParseInt(*p.Int, 0, 64)
		if perr != nil {
			return nil, w.fail("", perr)
		}
		return i, nil
	case p.String != nil:
		return *p.String, nil
	case p.Bool != nil:
		return *p.Bool == "true", nil
	case p.HashRef != nil:
		if *p.HashRef == hashSelf {
			self, ok := w.ctx[boxon.KeySelf]
			if !ok {
				return nil, w.fail("self", fmt.Errorf("no #self bound in context"))
			}
			return self, nil
		}
		v, ok := w.ctx[*p.HashRef]
		if !ok {
			return nil, w.fail(*p.HashRef, fmt.Errorf("unresolved context reference #%s", *p.HashRef))
		}
		return v, nil
	case p.Ident != nil:
		v, ok := w.ctx[*p.Ident]
		if !ok {
			return nil, w.fail(*p.Ident, fmt.Errorf("unresolved identifier %s", *p.Ident))
		}
		return v, nil
	case p.Sub != nil:
		return w.evalExpression(p.Sub)
	}
	return nil, w.fail("", fmt.Errorf("empty expression primary"))
}

// resolveAccess resolves one `.name` or `.name(args)` postfix step against v
// via reflection: a struct/pointer field by name, or a zero/one/many-argument
// method call.
func resolveAccess(v any, name string, isCall bool, args []any) (any, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, fmt.Errorf("nil pointer dereferencing field %s", name)
		}
		rv = rv.Elem()
	}
	if isCall {
		method := reflect.ValueOf(v).MethodByName(name)
		if !method.IsValid() {
			return nil, fmt.Errorf("no method %s on %T", name, v)
		}
		in := make([]reflect.Value, len(args))
		for i, a := range args {
			in[i] = reflect.ValueOf(a)
		}
		out := method.Call(in)
		return callResult(out, name)
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("cannot access field %s on non-struct %T", name, v)
	}
	field := rv.FieldByName(name)
	if !field.IsValid() {
		return nil, fmt.Errorf("no field %s on %s", name, rv.Type())
	}
	return field.Interface(), nil
}

func callResult(out []reflect.Value, name string) (any, error) {
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		return out[0].Interface(), nil
	case 2:
		if errVal, ok := out[1].Interface().(error); ok && errVal != nil {
			return nil, errVal
		}
		return out[0].Interface(), nil
	default:
		return nil, fmt.Errorf("method %s returns more than two values", name)
	}
}

func toBool(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

func toInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), true
	case float64:
		return int64(n), true
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	if f, ok := v.(float64); ok {
		return f, true
	}
	if i, ok := toInt(v); ok {
		return float64(i), true
	}
	return 0, false
}

func arith(left, right any, op string) (any, error) {
	if lf, ok := left.(float64); ok {
		rf, ok := toFloat(right)
		if !ok {
			return nil, fmt.Errorf("operator %s requires numeric operands", op)
		}
		return floatArith(lf, rf, op)
	}
	if rf, ok := right.(float64); ok {
		lf, ok := toFloat(left)
		if !ok {
			return nil, fmt.Errorf("operator %s requires numeric operands", op)
		}
		return floatArith(lf, rf, op)
	}
	li, ok1 := toInt(left)
	ri, ok2 := toInt(right)
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("operator %s requires numeric operands", op)
	}
	switch op {
	case "+":
		return li + ri, nil
	case "-":
		return li - ri, nil
	case "*":
		return li * ri, nil
	case "/":
		if ri == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return li / ri, nil
	case "%":
		if ri == 0 {
			return nil, fmt.Errorf("modulo by zero")
		}
		return li % ri, nil
	}
	return nil, fmt.Errorf("unknown operator %s", op)
}

func floatArith(l, r float64, op string) (any, error) {
	switch op {
	case "+":
		return l + r, nil
	case "-":
		return l - r, nil
	case "*":
		return l * r, nil
	case "/":
		return l / r, nil
	}
	return nil, fmt.Errorf("operator %s not defined on floating-point operands", op)
}

func valuesEqual(a, b any) bool {
	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			return af == bf
		}
	}
	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			return as == bs
		}
	}
	if ab, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			return ab == bb
		}
	}
	return reflect.DeepEqual(a, b)
}

func compareValues(a, b any) (int, bool) {
	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			switch {
			case af < bf:
				return -1, true
			case af > bf:
				return 1, true
			default:
				return 0, true
			}
		}
	}
	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			return strings.Compare(as, bs), true
		}
	}
	return 0, false
}
