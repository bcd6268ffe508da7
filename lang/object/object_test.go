package object

import (
	"errors"
	"slices"
	"testing"

	"github.com/ardnew/saiyan/lang/ast"
	"github.com/ardnew/saiyan/lang/parser"
)

func TestInspect(t *testing.T) {
	prog, diags := parser.ParseString("fn(x, y) { x + y; }")
	if len(diags) > 0 {
		t.Fatalf("parse: %v", diags)
	}

	lit := prog.Statements[0].(*ast.ExpressionStatement).Expression.(*ast.FunctionLiteral)

	tests := []struct {
		name string
		obj  Object
		typ  Type
		want string
	}{
		{"integer", &Integer{Value: -42}, INTEGER, "-42"},
		{"true", True, BOOLEAN, "true"},
		{"false", False, BOOLEAN, "false"},
		{"null", Null, NULL, "null"},
		{"return", &ReturnValue{Value: &Integer{Value: 7}}, RETURN_VALUE, "7"},
		{"error", &Error{Message: "division by zero"}, ERROR, "ERROR: division by zero"},
		{
			"function",
			&Function{Parameters: lit.Parameters, Body: lit.Body, Env: NewEnvironment()},
			FUNCTION,
			"fn(x, y) {\n(x + y)\n}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.obj.Type() != tt.typ {
				t.Errorf("Type() = %s, want %s", tt.obj.Type(), tt.typ)
			}

			if got := tt.obj.Inspect(); got != tt.want {
				t.Errorf("Inspect() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNativeBool(t *testing.T) {
	if NativeBool(true) != True || NativeBool(false) != False {
		t.Error("NativeBool does not return canonical instances")
	}
}

func TestIsTruthy(t *testing.T) {
	tests := []struct {
		name string
		obj  Object
		want bool
	}{
		{"true", True, true},
		{"false", False, false},
		{"null", Null, false},
		{"nil", nil, false},
		{"zero", &Integer{Value: 0}, true},
		{"function", &Function{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTruthy(tt.obj); got != tt.want {
				t.Errorf("IsTruthy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestError(t *testing.T) {
	var err error = &Error{Message: "identifier not found: x"}

	var target *Error
	if !errors.As(err, &target) || target.Message != "identifier not found: x" {
		t.Fatalf("errors.As failed for %v", err)
	}

	if !IsError(target) || IsError(Null) {
		t.Error("IsError misclassifies")
	}
}

func TestEnvironment(t *testing.T) {
	outer := NewEnvironment()
	outer.Set("x", &Integer{Value: 1})
	outer.Set("y", &Integer{Value: 2})

	inner := NewEnclosedEnvironment(outer)
	inner.Set("x", &Integer{Value: 10})
	inner.Set("z", True)

	tests := []struct {
		env  *Environment
		name string
		want string
		ok   bool
	}{
		{inner, "x", "10", true},
		{inner, "y", "2", true},
		{inner, "z", "true", true},
		{outer, "x", "1", true},
		{outer, "z", "", false},
		{inner, "w", "", false},
	}

	for _, tt := range tests {
		obj, ok := tt.env.Get(tt.name)
		if ok != tt.ok {
			t.Errorf("Get(%q) ok = %v, want %v", tt.name, ok, tt.ok)

			continue
		}

		if ok && obj.Inspect() != tt.want {
			t.Errorf("Get(%q) = %s, want %s", tt.name, obj.Inspect(), tt.want)
		}
	}

	if inner.Outer() != outer || outer.Outer() != nil {
		t.Error("Outer() links are wrong")
	}

	if got := inner.Names(); !slices.Equal(got, []string{"x", "y", "z"}) {
		t.Errorf("Names() = %v", got)
	}
}
