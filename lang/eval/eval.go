// Package eval walks a syntax tree and computes its value.
//
// Runtime failures are [object.Error] values, never panics. Internally each
// step returns the error as a Go error so that propagation is an ordinary
// early return; [Evaluator.Eval] turns it back into a value.
package eval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ardnew/saiyan/lang/ast"
	"github.com/ardnew/saiyan/lang/object"
	"github.com/ardnew/saiyan/log"
)

// DefaultMaxCallDepth bounds nested function calls.
const DefaultMaxCallDepth = 4096

// Evaluator holds evaluation settings. It has no per-run state and may be
// shared.
type Evaluator struct {
	logger   log.Logger
	maxDepth int
}

// Option configures an [Evaluator].
type Option func(*Evaluator)

// WithLogger sets the logger that receives trace events.
func WithLogger(logger log.Logger) Option {
	return func(e *Evaluator) { e.logger = logger }
}

// WithMaxCallDepth bounds nested function calls. Values below 1 restore
// [DefaultMaxCallDepth].
func WithMaxCallDepth(depth int) Option {
	return func(e *Evaluator) {
		if depth < 1 {
			depth = DefaultMaxCallDepth
		}

		e.maxDepth = depth
	}
}

// New returns an Evaluator configured by opts.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{maxDepth: DefaultMaxCallDepth}

	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}

	return e
}

// Eval evaluates node in env with default settings.
func Eval(node ast.Node, env *object.Environment) object.Object {
	return New().Eval(context.Background(), node, env)
}

// Eval evaluates node in env. The result is nil when node produces no value
// (a let statement, an empty program). Failures are returned as
// *[object.Error]. Cancellation of ctx is observed at each function call.
func (e *Evaluator) Eval(ctx context.Context, node ast.Node, env *object.Environment) object.Object {
	r := &run{ctx: ctx, Evaluator: e}

	obj, err := r.eval(node, env)
	if err != nil {
		var oe *object.Error
		if !errors.As(err, &oe) {
			oe = &object.Error{Message: err.Error()}
		}

		e.logger.DebugContext(ctx, "evaluation failed", slog.String("error", oe.Message))

		return oe
	}

	// A top-level return has already been unwrapped by evalProgram, but a
	// bare block can still yield one.
	if rv, ok := obj.(*object.ReturnValue); ok {
		return rv.Value
	}

	return obj
}

// run carries the state of one evaluation.
type run struct {
	*Evaluator
	ctx   context.Context
	depth int
}

func newError(format string, args ...any) *object.Error {
	return &object.Error{Message: fmt.Sprintf(format, args...)}
}

func (r *run) eval(node ast.Node, env *object.Environment) (object.Object, error) {
	switch node := node.(type) {
	case *ast.Program:
		if node == nil {
			return nil, nil
		}

		return r.evalProgram(node, env)

	case *ast.BlockStatement:
		if node == nil {
			return nil, nil
		}

		return r.evalBlock(node, env)

	case *ast.ExpressionStatement:
		if node == nil {
			return nil, nil
		}

		return r.eval(node.Expression, env)

	case *ast.ReturnStatement:
		if node == nil {
			return nil, nil
		}

		val, err := r.eval(node.Value, env)
		if err != nil {
			return nil, err
		}

		if val == nil {
			val = object.Null
		}

		return &object.ReturnValue{Value: val}, nil

	case *ast.LetStatement:
		if node == nil || node.Name == nil {
			return nil, nil
		}

		val, err := r.eval(node.Value, env)
		if err != nil {
			return nil, err
		}

		if val == nil {
			val = object.Null
		}

		env.Set(node.Name.Value, val)

		return nil, nil

	case *ast.IntegerLiteral:
		if node == nil {
			return nil, nil
		}

		return &object.Integer{Value: node.Value}, nil

	case *ast.Boolean:
		if node == nil {
			return nil, nil
		}

		return object.NativeBool(node.Value), nil

	case *ast.Identifier:
		if node == nil {
			return nil, nil
		}

		return evalIdentifier(node, env)

	case *ast.PrefixExpression:
		if node == nil {
			return nil, nil
		}

		right, err := r.operand(node.Right, env)
		if err != nil {
			return nil, err
		}

		return evalPrefix(node.Operator, right)

	case *ast.InfixExpression:
		if node == nil {
			return nil, nil
		}

		left, err := r.operand(node.Left, env)
		if err != nil {
			return nil, err
		}

		right, err := r.operand(node.Right, env)
		if err != nil {
			return nil, err
		}

		return evalInfix(node.Operator, left, right)

	case *ast.IfExpression:
		if node == nil {
			return nil, nil
		}

		return r.evalIf(node, env)

	case *ast.FunctionLiteral:
		if node == nil {
			return nil, nil
		}

		return &object.Function{Parameters: node.Parameters, Body: node.Body, Env: env}, nil

	case *ast.CallExpression:
		if node == nil {
			return nil, nil
		}

		return r.evalCall(node, env)

	default:
		// nil or a node without a value.
		return nil, nil
	}
}

// operand evaluates a subexpression whose value is required. A missing
// value becomes [object.Null].
func (r *run) operand(node ast.Node, env *object.Environment) (object.Object, error) {
	val, err := r.eval(node, env)
	if err != nil {
		return nil, err
	}

	if val == nil {
		return object.Null, nil
	}

	return val, nil
}

func (r *run) evalProgram(prog *ast.Program, env *object.Environment) (object.Object, error) {
	var result object.Object

	for _, stmt := range prog.Statements {
		val, err := r.eval(stmt, env)
		if err != nil {
			return nil, err
		}

		if rv, ok := val.(*object.ReturnValue); ok {
			return rv.Value, nil
		}

		result = val
	}

	return result, nil
}

// evalBlock stops at the first return without unwrapping it, so that the
// return passes through every enclosing block up to the function call.
func (r *run) evalBlock(block *ast.BlockStatement, env *object.Environment) (object.Object, error) {
	var result object.Object

	for _, stmt := range block.Statements {
		val, err := r.eval(stmt, env)
		if err != nil {
			return nil, err
		}

		if _, ok := val.(*object.ReturnValue); ok {
			return val, nil
		}

		result = val
	}

	return result, nil
}

func evalIdentifier(node *ast.Identifier, env *object.Environment) (object.Object, error) {
	if val, ok := env.Get(node.Value); ok {
		return val, nil
	}

	return nil, newError("identifier not found: %s", node.Value)
}

func evalPrefix(op string, right object.Object) (object.Object, error) {
	switch op {
	case "!":
		return object.NativeBool(!object.IsTruthy(right)), nil

	case "-":
		i, ok := right.(*object.Integer)
		if !ok {
			return nil, newError("unknown operator: -%s", right.Type())
		}

		return &object.Integer{Value: -i.Value}, nil

	default:
		return nil, newError("unknown operator: %s%s", op, right.Type())
	}
}

func evalInfix(op string, left, right object.Object) (object.Object, error) {
	switch l := left.(type) {
	case *object.Integer:
		if r, ok := right.(*object.Integer); ok {
			return evalIntegerInfix(op, l.Value, r.Value)
		}

	case *object.Boolean:
		if r, ok := right.(*object.Boolean); ok {
			switch op {
			case "==":
				return object.NativeBool(l == r), nil
			case "!=":
				return object.NativeBool(l != r), nil
			}
		}

	case *object.NullValue:
		if _, ok := right.(*object.NullValue); ok {
			switch op {
			case "==":
				return object.True, nil
			case "!=":
				return object.False, nil
			}
		}
	}

	return nil, newError("unknown operator: %s %s %s", left.Type(), op, right.Type())
}

func evalIntegerInfix(op string, l, r int64) (object.Object, error) {
	switch op {
	case "+":
		return &object.Integer{Value: l + r}, nil
	case "-":
		return &object.Integer{Value: l - r}, nil
	case "*":
		return &object.Integer{Value: l * r}, nil
	case "/":
		if r == 0 {
			return nil, newError("division by zero")
		}

		return &object.Integer{Value: l / r}, nil
	case "<":
		return object.NativeBool(l < r), nil
	case ">":
		return object.NativeBool(l > r), nil
	case "==":
		return object.NativeBool(l == r), nil
	case "!=":
		return object.NativeBool(l != r), nil
	default:
		return nil, newError("unknown operator: %s %s %s", object.INTEGER, op, object.INTEGER)
	}
}

func (r *run) evalIf(node *ast.IfExpression, env *object.Environment) (object.Object, error) {
	cond, err := r.operand(node.Condition, env)
	if err != nil {
		return nil, err
	}

	switch {
	case object.IsTruthy(cond):
		return r.operand(node.Consequence, env)
	case node.Alternative != nil:
		return r.operand(node.Alternative, env)
	default:
		return object.Null, nil
	}
}

func (r *run) evalCall(node *ast.CallExpression, env *object.Environment) (object.Object, error) {
	callee, err := r.operand(node.Function, env)
	if err != nil {
		return nil, err
	}

	args := make([]object.Object, len(node.Arguments))
	for i, a := range node.Arguments {
		if args[i], err = r.operand(a, env); err != nil {
			return nil, err
		}
	}

	fn, ok := callee.(*object.Function)
	if !ok {
		return nil, newError("not a function: %s", callee.Type())
	}

	return r.apply(fn, args)
}

func (r *run) apply(fn *object.Function, args []object.Object) (object.Object, error) {
	if len(args) != len(fn.Parameters) {
		return nil, newError("wrong number of arguments: want=%d, got=%d", len(fn.Parameters), len(args))
	}

	if err := r.ctx.Err(); err != nil {
		return nil, newError("evaluation canceled: %v", err)
	}

	if r.depth >= r.maxDepth {
		r.logger.DebugContext(r.ctx, "call depth exceeded", slog.Int("limit", r.maxDepth))

		return nil, newError("maximum call depth exceeded")
	}

	r.depth++
	defer func() { r.depth-- }()

	scope := object.NewEnclosedEnvironment(fn.Env)
	for i, p := range fn.Parameters {
		scope.Set(p.Value, args[i])
	}

	r.logger.TraceContext(r.ctx, "call",
		slog.Int("depth", r.depth),
		slog.Int("arity", len(args)))

	val, err := r.operand(fn.Body, scope)
	if err != nil {
		return nil, err
	}

	if rv, ok := val.(*object.ReturnValue); ok {
		return rv.Value, nil
	}

	return val, nil
}
