package lang

import (
	"cmp"
	"math"
	"strings"
)

// binaryOp applies a binary operator to two evaluated operands.
func binaryOp(op string, l, r any) (any, error) {
	switch op {
	case "+":
		if ls, ok := l.(string); ok {
			if rs, ok := r.(string); ok {
				return ls + rs, nil
			}
		}

		return arith(op, l, r)

	case "-", "*", "/", "%":
		return arith(op, l, r)

	case "==":
		return equal(l, r), nil

	case "!=":
		return !equal(l, r), nil

	case "<", "<=", ">", ">=":
		return compare(op, l, r)

	case "&&":
		return Truthy(l) && Truthy(r), nil

	case "||":
		return Truthy(l) || Truthy(r), nil
	}

	return nil, ErrInvalidNode.Errorf("unknown binary operator %q", op)
}

// unaryOp applies a unary operator to an evaluated operand.
func unaryOp(op string, v any) (any, error) {
	switch op {
	case "-":
		switch n := v.(type) {
		case int64:
			return -n, nil
		case float64:
			return -n, nil
		}

		return nil, ErrType.Errorf("bad operand type for unary -: %s", TypeName(v))

	case "!":
		return !Truthy(v), nil
	}

	return nil, ErrInvalidNode.Errorf("unknown unary operator %q", op)
}

// arith implements the numeric operators. Integer operands produce integer
// results, except for '/', which always divides as floating-point. Integer
// overflow wraps.
func arith(op string, l, r any) (any, error) {
	li, lInt := l.(int64)
	ri, rInt := r.(int64)

	if lInt && rInt {
		switch op {
		case "+":
			return li + ri, nil
		case "-":
			return li - ri, nil
		case "*":
			return li * ri, nil
		case "%":
			if ri == 0 {
				return nil, ErrDivisionByZero.Errorf("integer modulo")
			}

			return floorModInt(li, ri), nil
		}
	}

	lf, lNum := toFloat(l)
	rf, rNum := toFloat(r)

	if !lNum || !rNum {
		return nil, ErrType.Errorf(
			"unsupported operand types for %s: %s and %s",
			op, TypeName(l), TypeName(r),
		)
	}

	switch op {
	case "+":
		return lf + rf, nil
	case "-":
		return lf - rf, nil
	case "*":
		return lf * rf, nil
	case "/":
		if rf == 0 {
			return nil, ErrDivisionByZero
		}

		return lf / rf, nil
	case "%":
		if rf == 0 {
			return nil, ErrDivisionByZero.Errorf("float modulo")
		}

		return floorModFloat(lf, rf), nil
	}

	return nil, ErrInvalidNode.Errorf("unknown arithmetic operator %q", op)
}

// floorModInt returns a mod b with the sign of b.
func floorModInt(a, b int64) int64 {
	m := a % b
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}

	return m
}

// floorModFloat returns a mod b with the sign of b.
func floorModFloat(a, b float64) float64 {
	m := math.Mod(a, b)
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}

	return m
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// equal reports whether two values are equal. Numbers compare by value
// across int and float; values of other differing types are never equal;
// functions are equal only to themselves.
func equal(l, r any) bool {
	if li, ok := l.(int64); ok {
		if ri, ok := r.(int64); ok {
			return li == ri
		}
	}

	if lf, ok := toFloat(l); ok {
		rf, ok := toFloat(r)

		return ok && lf == rf
	}

	switch lv := l.(type) {
	case nil:
		return r == nil
	case bool:
		rv, ok := r.(bool)

		return ok && lv == rv
	case string:
		rv, ok := r.(string)

		return ok && lv == rv
	case *Function:
		rv, ok := r.(*Function)

		return ok && lv == rv
	case *Builtin:
		rv, ok := r.(*Builtin)

		return ok && lv == rv
	}

	return false
}

// compare implements the ordering operators on two numbers or two strings.
func compare(op string, l, r any) (any, error) {
	var c int

	if ls, ok := l.(string); ok {
		rs, ok := r.(string)
		if !ok {
			return nil, orderError(op, l, r)
		}

		c = strings.Compare(ls, rs)
	} else {
		li, lInt := l.(int64)
		ri, rInt := r.(int64)

		switch {
		case lInt && rInt:
			c = cmp.Compare(li, ri)

		default:
			lf, lNum := toFloat(l)
			rf, rNum := toFloat(r)

			if !lNum || !rNum {
				return nil, orderError(op, l, r)
			}

			if math.IsNaN(lf) || math.IsNaN(rf) {
				return false, nil
			}

			c = cmp.Compare(lf, rf)
		}
	}

	switch op {
	case "<":
		return c < 0, nil
	case "<=":
		return c <= 0, nil
	case ">":
		return c > 0, nil
	default:
		return c >= 0, nil
	}
}

func orderError(op string, l, r any) error {
	return ErrType.Errorf(
		"%s not supported between %s and %s",
		op, TypeName(l), TypeName(r),
	)
}
