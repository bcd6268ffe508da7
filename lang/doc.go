// Package lang is the entry point to the interpreter.
//
// The language has integers, booleans, first-class functions with lexical
// closures, conditionals, and let bindings:
//
//	let fib = fn(n) { if (n < 2) { return n; } fib(n - 1) + fib(n - 2) };
//	fib(20);
//
// Source text flows through [lexer], [parser], and [eval]. This package ties
// them together: [ParseString] and [ParseReader] produce an [ast.Program] or
// a [*ParseError]; a [Session] keeps an environment alive across inputs so
// that bindings from one evaluation are visible to the next.
//
// Parse diagnostics and runtime errors are distinct. A program with
// diagnostics is never evaluated. Runtime failures are values of type
// [*object.Error] returned in place of a result.
package lang
