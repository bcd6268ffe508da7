// Package object defines the runtime values produced by evaluation and the
// environments that bind names to them.
package object

import (
	"strconv"
	"strings"

	"github.com/ardnew/saiyan/lang/ast"
)

// Type tags a runtime value.
type Type string

const (
	INTEGER      Type = "INTEGER"
	BOOLEAN      Type = "BOOLEAN"
	NULL         Type = "NULL"
	RETURN_VALUE Type = "RETURN_VALUE"
	ERROR        Type = "ERROR"
	FUNCTION     Type = "FUNCTION"
)

// Object is a runtime value. The set of implementations is closed.
type Object interface {
	Type() Type
	Inspect() string
	object()
}

// Integer is a signed 64-bit integer.
type Integer struct {
	Value int64
}

func (*Integer) object()           {}
func (*Integer) Type() Type        { return INTEGER }
func (i *Integer) Inspect() string { return strconv.FormatInt(i.Value, 10) }

// Boolean is true or false. Only [True] and [False] exist; compare with ==.
type Boolean struct {
	Value bool
}

func (*Boolean) object()           {}
func (*Boolean) Type() Type        { return BOOLEAN }
func (b *Boolean) Inspect() string { return strconv.FormatBool(b.Value) }

// NullValue is the type of [Null].
type NullValue struct{}

func (*NullValue) object()         {}
func (*NullValue) Type() Type      { return NULL }
func (*NullValue) Inspect() string { return "null" }

//nolint:gochecknoglobals
var (
	True  = &Boolean{Value: true}
	False = &Boolean{Value: false}
	Null  = &NullValue{}
)

// NativeBool returns the canonical Boolean for b.
func NativeBool(b bool) *Boolean {
	if b {
		return True
	}

	return False
}

// ReturnValue carries the operand of a return statement out of nested
// blocks until the enclosing function call or program unwraps it.
type ReturnValue struct {
	Value Object
}

func (*ReturnValue) object()           {}
func (*ReturnValue) Type() Type        { return RETURN_VALUE }
func (r *ReturnValue) Inspect() string { return r.Value.Inspect() }

// Error is a runtime failure. It is an ordinary value that aborts the
// evaluation containing it, and it also satisfies the error interface so it
// can travel through Go error returns.
type Error struct {
	Message string
}

func (*Error) object()           {}
func (*Error) Type() Type        { return ERROR }
func (e *Error) Inspect() string { return "ERROR: " + e.Message }
func (e *Error) Error() string   { return e.Message }

// Function is a closure: a function literal paired with the environment it
// was evaluated in.
type Function struct {
	Parameters []*ast.Identifier
	Body       *ast.BlockStatement
	Env        *Environment
}

func (*Function) object()    {}
func (*Function) Type() Type { return FUNCTION }

func (f *Function) Inspect() string {
	params := make([]string, len(f.Parameters))
	for i, p := range f.Parameters {
		params[i] = p.String()
	}

	body := ""
	if f.Body != nil {
		body = f.Body.String()
	}

	return "fn(" + strings.Join(params, ", ") + ") {\n" + body + "\n}"
}

// IsError reports whether obj is an [Error].
func IsError(obj Object) bool {
	_, ok := obj.(*Error)

	return ok
}

// IsTruthy reports whether obj counts as true in a condition. Only [False]
// and [Null] are falsy.
func IsTruthy(obj Object) bool {
	switch obj {
	case nil, Null, False:
		return false
	default:
		return true
	}
}
