package lang

import (
	"context"
)

// Runtime values are plain Go values:
//
//	nil        null
//	int64      integer
//	float64    floating-point number
//	bool       boolean
//	string     string
//	*Function  user-defined function
//	*Builtin   host function

// Callable is implemented by values that can appear as the target of a
// call expression.
type Callable interface {
	// Name returns the name the callable was declared or registered with.
	Name() string
	callable()
}

// Function is a closure: a function declaration paired with the live scope
// it was declared in.
type Function struct {
	Decl *FunctionDecl
	Env  *Environment
}

// Name returns the declared function name.
func (f *Function) Name() string { return f.Decl.Name }

func (*Function) callable() {}

// BuiltinFunc is the Go implementation of a [Builtin].
type BuiltinFunc func(ctx context.Context, args ...any) (any, error)

// Builtin is a host-provided callable.
type Builtin struct {
	fn   BuiltinFunc
	name string
}

// NewBuiltin returns a callable named name implemented by fn.
func NewBuiltin(name string, fn BuiltinFunc) *Builtin {
	return &Builtin{name: name, fn: fn}
}

// Name returns the registered name.
func (b *Builtin) Name() string { return b.name }

// Call invokes the builtin.
func (b *Builtin) Call(ctx context.Context, args ...any) (any, error) {
	return b.fn(ctx, args...)
}

func (*Builtin) callable() {}

// Truthy reports the boolean interpretation of v. Null, false, numeric zero
// and the empty string are false; every other value is true.
func Truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case int64:
		return v != 0
	case float64:
		return v != 0
	case string:
		return v != ""
	default:
		return true
	}
}

// TypeName returns the language-level type name of v.
func TypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "bool"
	case int64:
		return "int"
	case float64:
		return "float"
	case string:
		return "string"
	case *Function:
		return "function"
	case *Builtin:
		return "builtin"
	default:
		return "host"
	}
}

// FromGo converts a host value into a runtime value. Integers and floats of
// any width become int64 and float64, and values of other types are returned
// as is.
func FromGo(v any) any {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int8:
		return int64(n)
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case uint:
		return int64(n) //nolint:gosec
	case uint8:
		return int64(n)
	case uint16:
		return int64(n)
	case uint32:
		return int64(n)
	case uint64:
		return int64(n) //nolint:gosec
	case float32:
		return float64(n)
	default:
		return v
	}
}
