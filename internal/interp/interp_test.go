package interp

import (
	"bytes"
	"strings"
	"testing"

	"github.com/emberlang/ember/internal/ember"
	"github.com/emberlang/ember/internal/lexer"
	"github.com/emberlang/ember/internal/parser"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, src string) (string, *ember.Error) {
	t.Helper()
	tokens, tokErrs := lexer.Tokenize(src)
	require.Empty(t, tokErrs)
	stmts, parseErrs := parser.Parse(tokens)
	require.Empty(t, parseErrs, "unexpected parse errors for %q", src)

	var out bytes.Buffer
	in := New(&out)
	err := in.Interpret(stmts)
	return out.String(), err
}

func TestArithmeticPrecedence(t *testing.T) {
	out, err := run(t, "print 1 + 2 * 3;")
	require.Nil(t, err)
	require.Equal(t, "7\n", out)
}

func TestStringConcatenationCoercesNumbers(t *testing.T) {
	out, err := run(t, `print "count: " + 3;`)
	require.Nil(t, err)
	require.Equal(t, "count: 3\n", out)
}

func TestBlockScopingAndShadowing(t *testing.T) {
	out, err := run(t, `
		var x = 1;
		{
			var x = 2;
			print x;
		}
		print x;
	`)
	require.Nil(t, err)
	require.Equal(t, "2\n1\n", out)
}

func TestAssignmentUpdatesDefiningFrameNotInnermost(t *testing.T) {
	out, err := run(t, `
		var x = 1;
		{
			x = 2;
			print x;
		}
		print x;
	`)
	require.Nil(t, err)
	require.Equal(t, "2\n2\n", out)
}

func TestIfElseIfElseChain(t *testing.T) {
	out, err := run(t, `
		var n = 2;
		if n == 1 {
			print "one";
		} else if n == 2 {
			print "two";
		} else {
			print "other";
		}
	`)
	require.Nil(t, err)
	require.Equal(t, "two\n", out)
}

func TestShortCircuitOrReturnsOperandNotBoolean(t *testing.T) {
	out, err := run(t, `print nil or "fallback";`)
	require.Nil(t, err)
	require.Equal(t, "fallback\n", out)
}

func TestShortCircuitAndSkipsRightSideOnFalse(t *testing.T) {
	// if the right side were evaluated, it would divide by zero and fail
	out, err := run(t, `
		var x = false;
		print x and (1 / 0 == 0);
	`)
	require.Nil(t, err)
	require.Equal(t, "false\n", out)
}

func TestDivideByZeroIsRuntimeError(t *testing.T) {
	_, err := run(t, "print 1 / 0;")
	require.NotNil(t, err)
	require.Equal(t, ember.ErrDivideByZero, err.Kind)
}

func TestTypeMismatchOnArithmeticWithString(t *testing.T) {
	_, err := run(t, `print "a" - 1;`)
	require.NotNil(t, err)
	require.Equal(t, ember.ErrTypeMismatch, err.Kind)
}

func TestAlreadyDeclaredInSameScope(t *testing.T) {
	_, err := run(t, "var x = 1; var x = 2;")
	require.NotNil(t, err)
	require.Equal(t, ember.ErrAlreadyDeclared, err.Kind)
}

func TestRedeclaringInNestedScopeIsAllowed(t *testing.T) {
	_, err := run(t, "var x = 1; { var x = 2; }")
	require.Nil(t, err)
}

func TestUnknownIdentifierSuggestsClosestMatch(t *testing.T) {
	_, err := run(t, "var count = 1; print cnt;")
	require.NotNil(t, err)
	require.Equal(t, ember.ErrUnknownIdentifier, err.Kind)
	require.True(t, strings.Contains(err.Hint, "count"))
}

func TestUnaryNegationAndNot(t *testing.T) {
	out, err := run(t, "print -5; print !false;")
	require.Nil(t, err)
	require.Equal(t, "-5\ntrue\n", out)
}

func TestEqualityReflexivity(t *testing.T) {
	out, err := run(t, `print 1 == 1; print "a" == "a"; print 1 == "1";`)
	require.Nil(t, err)
	require.Equal(t, "true\ntrue\nfalse\n", out)
}

func TestComparisonOperators(t *testing.T) {
	out, err := run(t, "print 1 < 2; print 2 <= 2; print 3 > 2; print 2 >= 3;")
	require.Nil(t, err)
	require.Equal(t, "true\ntrue\ntrue\nfalse\n", out)
}

func TestBuiltinOSIsAString(t *testing.T) {
	out, err := run(t, "print OS;")
	require.Nil(t, err)
	require.NotEqual(t, "nil\n", out)
	require.Equal(t, hostOS()+"\n", out)
}
