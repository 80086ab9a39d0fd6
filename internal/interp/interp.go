// Package interp is the tree-walking evaluator: it executes statements
// against a lexically scoped environment, producing print output on the
// configured writer and typed runtime errors. Evaluation aborts on the
// first error (spec.md §4.3) - there is no recovery at this phase, unlike
// tokenize and parse.
package interp

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/emberlang/ember/internal/ast"
	"github.com/emberlang/ember/internal/ember"
	"github.com/emberlang/ember/internal/invariant"
	"github.com/emberlang/ember/internal/token"
	"github.com/emberlang/ember/internal/value"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Interp executes a statement tree against a single environment that
// outlives any individual Interpret call, matching a REPL's need to
// keep bindings alive between inputs.
type Interp struct {
	Env    *Environment
	out    io.Writer
	logger *slog.Logger
}

// New creates an interpreter that writes "print" output to out.
func New(out io.Writer) *Interp {
	logLevel := slog.LevelInfo
	if os.Getenv("EMBER_DEBUG_EVAL") != "" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey || a.Key == slog.LevelKey {
				return slog.Attr{}
			}
			return a
		},
	}))
	return &Interp{Env: NewEnvironment(), out: out, logger: logger}
}

// Interpret executes statements in order. It stops and returns the first
// error encountered; a nil return means every statement ran clean.
func (in *Interp) Interpret(stmts []ast.Stmt) *ember.Error {
	for _, s := range stmts {
		if err := in.execStmt(s); err != nil {
			in.logger.Debug("interpret aborted", "kind", err.Kind, "line", err.Line)
			return err
		}
	}
	return nil
}

func (in *Interp) execStmt(s ast.Stmt) *ember.Error {
	switch s := s.(type) {
	case *ast.ExpressionStmt:
		_, err := in.eval(s.Expr)
		return err

	case *ast.PrintStmt:
		v, err := in.eval(s.Expr)
		if err != nil {
			return err
		}
		if _, werr := fmt.Fprintln(in.out, v.String()); werr != nil {
			return ember.New(ember.ErrIoError, 0, 0, "failed to write output: %v.", werr)
		}
		return nil

	case *ast.VarDecl:
		v, err := in.eval(s.Initializer)
		if err != nil {
			return err
		}
		if !in.Env.Declare(s.Name.Lexeme, v) {
			return ember.New(ember.ErrAlreadyDeclared, s.Name.Line, s.Name.Column,
				"variable %q is already declared in this scope.", s.Name.Lexeme)
		}
		return nil

	case *ast.AssignmentStmt:
		_, err := in.eval(s.Expr)
		return err

	case *ast.Block:
		in.Env.Push()
		defer in.Env.Pop()
		for _, st := range s.Stmts {
			if err := in.execStmt(st); err != nil {
				return err
			}
		}
		return nil

	case *ast.If:
		return in.execIf(s)

	case *ast.While:
		return ember.New(ember.ErrUnimplemented, 0, 0, "while loops are not implemented.")
	case *ast.Function:
		return ember.New(ember.ErrUnimplemented, 0, 0, "function declarations are not implemented.")
	case *ast.Return:
		return ember.New(ember.ErrUnimplemented, 0, 0, "return is not implemented.")
	case *ast.Class:
		return ember.New(ember.ErrUnimplemented, 0, 0, "classes are not implemented.")

	default:
		invariant.Invariant(false, "unreachable statement variant %T", s)
		return nil
	}
}

func (in *Interp) execIf(s *ast.If) *ember.Error {
	cond, err := in.eval(s.Condition)
	if err != nil {
		return err
	}
	if cond.Truthy() {
		return in.execStmt(s.Then)
	}

	for _, ei := range s.ElseIfs {
		cv, err := in.eval(ei.Condition)
		if err != nil {
			return err
		}
		if cv.Truthy() {
			return in.execStmt(ei.Then)
		}
	}

	if s.Else != nil {
		return in.execStmt(s.Else)
	}
	return nil
}

func (in *Interp) eval(expr ast.Expr) (value.Value, *ember.Error) {
	switch e := expr.(type) {
	case *ast.Literal:
		if e.Value == nil {
			return value.Nil(), nil
		}
		return *e.Value, nil

	case *ast.Grouping:
		return in.eval(e.Inner)

	case *ast.Variable:
		v, ok := in.Env.Get(e.Name.Lexeme)
		if !ok {
			return value.Nil(), in.unknownIdentifier(e.Name)
		}
		return v, nil

	case *ast.Assignment:
		v, err := in.eval(e.Value)
		if err != nil {
			return value.Nil(), err
		}
		if !in.Env.Assign(e.Name.Lexeme, v) {
			return value.Nil(), in.unknownIdentifier(e.Name)
		}
		return v, nil

	case *ast.Unary:
		return in.evalUnary(e)

	case *ast.Binary:
		return in.evalBinary(e)

	case *ast.Logical:
		return in.evalLogical(e)

	case *ast.Call:
		return value.Nil(), ember.New(ember.ErrUnimplemented, e.Paren.Line, e.Paren.Column, "function calls are not implemented.")
	case *ast.Get:
		return value.Nil(), ember.New(ember.ErrUnimplemented, e.Name.Line, e.Name.Column, "property access is not implemented.")
	case *ast.Set:
		return value.Nil(), ember.New(ember.ErrUnimplemented, e.Name.Line, e.Name.Column, "property assignment is not implemented.")
	case *ast.SuperExpr:
		return value.Nil(), ember.New(ember.ErrUnimplemented, e.Keyword.Line, e.Keyword.Column, "'super' is not implemented.")
	case *ast.SelfExpr:
		return value.Nil(), ember.New(ember.ErrUnimplemented, e.Keyword.Line, e.Keyword.Column, "'self' is not implemented.")

	default:
		invariant.Invariant(false, "unreachable expression variant %T", expr)
		return value.Nil(), nil
	}
}

func (in *Interp) evalUnary(e *ast.Unary) (value.Value, *ember.Error) {
	right, err := in.eval(e.Right)
	if err != nil {
		return value.Nil(), err
	}

	switch e.Op.Kind {
	case token.Minus:
		if right.Kind != value.NumberKind {
			return value.Nil(), in.typeMismatch(e.Op, "unary '-' requires a number, got %s.", right.TypeName())
		}
		return value.Number(-right.Num), nil
	case token.Bang:
		return value.Boolean(!right.Truthy()), nil
	default:
		invariant.Invariant(false, "unreachable unary operator %s", e.Op.Kind)
		return value.Nil(), nil
	}
}

func (in *Interp) evalLogical(e *ast.Logical) (value.Value, *ember.Error) {
	left, err := in.eval(e.Left)
	if err != nil {
		return value.Nil(), err
	}

	switch e.Op.Kind {
	case token.Or:
		if left.Truthy() {
			return left, nil
		}
		right, err := in.eval(e.Right)
		if err != nil {
			return value.Nil(), err
		}
		if right.Truthy() {
			return right, nil
		}
		return value.Boolean(false), nil

	case token.And:
		// Short-circuit on a falsy left: E in `false and E` is never
		// evaluated, matching the observable contract in spec.md §8.
		if !left.Truthy() {
			return value.Boolean(false), nil
		}
		right, err := in.eval(e.Right)
		if err != nil {
			return value.Nil(), err
		}
		if right.Truthy() {
			return right, nil
		}
		return value.Boolean(false), nil

	default:
		invariant.Invariant(false, "unreachable logical operator %s", e.Op.Kind)
		return value.Nil(), nil
	}
}

func (in *Interp) evalBinary(e *ast.Binary) (value.Value, *ember.Error) {
	left, err := in.eval(e.Left)
	if err != nil {
		return value.Nil(), err
	}
	right, err := in.eval(e.Right)
	if err != nil {
		return value.Nil(), err
	}

	switch e.Op.Kind {
	case token.Plus:
		return in.evalAdd(e.Op, left, right)

	case token.Minus:
		n1, n2, ok := bothNumbers(left, right)
		if !ok {
			return value.Nil(), in.typeMismatch(e.Op, "operator '-' requires two numbers, got %s and %s.", left.TypeName(), right.TypeName())
		}
		return value.Number(n1 - n2), nil

	case token.Star:
		n1, n2, ok := bothNumbers(left, right)
		if !ok {
			return value.Nil(), in.typeMismatch(e.Op, "operator '*' requires two numbers, got %s and %s.", left.TypeName(), right.TypeName())
		}
		return value.Number(n1 * n2), nil

	case token.Slash:
		n1, n2, ok := bothNumbers(left, right)
		if !ok {
			return value.Nil(), in.typeMismatch(e.Op, "operator '/' requires two numbers, got %s and %s.", left.TypeName(), right.TypeName())
		}
		if n2 == 0.0 {
			return value.Nil(), ember.New(ember.ErrDivideByZero, e.Op.Line, e.Op.Column, "division by zero.")
		}
		return value.Number(n1 / n2), nil

	case token.EqualEqual:
		return value.Boolean(left.Equals(right)), nil

	case token.BangEqual:
		return value.Boolean(!left.Equals(right)), nil

	case token.Greater, token.GreaterEqual, token.Less, token.LessEqual:
		return in.evalCompare(e.Op, left, right)

	default:
		invariant.Invariant(false, "unreachable binary operator %s", e.Op.Kind)
		return value.Nil(), nil
	}
}

func (in *Interp) evalAdd(op token.Token, left, right value.Value) (value.Value, *ember.Error) {
	if left.Kind == value.NumberKind && right.Kind == value.NumberKind {
		return value.Number(left.Num + right.Num), nil
	}

	leftConcatable := left.Kind == value.StringKind || left.Kind == value.NumberKind
	rightConcatable := right.Kind == value.StringKind || right.Kind == value.NumberKind
	if (left.Kind == value.StringKind || right.Kind == value.StringKind) && leftConcatable && rightConcatable {
		return value.String(left.String() + right.String()), nil
	}

	return value.Nil(), in.typeMismatch(op, "operator '+' is not defined for %s and %s.", left.TypeName(), right.TypeName())
}

func (in *Interp) evalCompare(op token.Token, left, right value.Value) (value.Value, *ember.Error) {
	n1, n2, ok := bothNumbers(left, right)
	if !ok {
		return value.Nil(), in.typeMismatch(op, "operator '%s' requires two numbers, got %s and %s.", op.Lexeme, left.TypeName(), right.TypeName())
	}
	switch op.Kind {
	case token.Greater:
		return value.Boolean(n1 > n2), nil
	case token.GreaterEqual:
		return value.Boolean(n1 >= n2), nil
	case token.Less:
		return value.Boolean(n1 < n2), nil
	case token.LessEqual:
		return value.Boolean(n1 <= n2), nil
	default:
		invariant.Invariant(false, "unreachable comparison operator %s", op.Kind)
		return value.Boolean(false), nil
	}
}

func bothNumbers(left, right value.Value) (float64, float64, bool) {
	if left.Kind != value.NumberKind || right.Kind != value.NumberKind {
		return 0, 0, false
	}
	return left.Num, right.Num, true
}

func (in *Interp) typeMismatch(op token.Token, format string, args ...interface{}) *ember.Error {
	return ember.New(ember.ErrTypeMismatch, op.Line, op.Column, format, args...)
}

// unknownIdentifier reports an unresolved name, suggesting the closest
// visible binding (if any) the same way the rest of the corpus suggests
// decorator names: rank every candidate with fuzzy.RankFindFold and take
// the closest match. Only names that contain the unresolved name's
// letters in order (case-insensitively) are candidates, so a transposed
// spelling such as "coutn" for "count" gets no hint.
func (in *Interp) unknownIdentifier(name token.Token) *ember.Error {
	e := ember.New(ember.ErrUnknownIdentifier, name.Line, name.Column, "undefined variable %q.", name.Lexeme)

	candidates := in.Env.Names()
	if len(candidates) == 0 {
		return e
	}
	ranks := fuzzy.RankFindFold(name.Lexeme, candidates)
	if len(ranks) > 0 {
		sort.Sort(ranks)
		e = e.WithHint(fmt.Sprintf("did you mean %q?", ranks[0].Target))
	}
	return e
}
