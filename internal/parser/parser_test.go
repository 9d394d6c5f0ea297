package parser_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/rickyang/rick/internal/ast"
	"github.com/rickyang/rick/internal/lexer"
	"github.com/rickyang/rick/internal/parser"
	"github.com/rickyang/rick/internal/value"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) (*parser.Parser, error) {
	t.Helper()
	pairs, lexErr := lexer.New(src, nil).ScanAll()
	require.Nil(t, lexErr)
	p := parser.New(pairs, nil)
	_, parseErr := p.Parse()
	if parseErr != nil {
		return p, parseErr
	}
	return p, nil
}

func TestParseValidProgram(t *testing.T) {
	_, err := parse(t, `
func add(integer a, integer b) integer { return a + b; }
func main(string array argv) integer { return add(1, 2); }
`)
	require.NoError(t, err)
}

func TestForwardReferenceAllowedAcrossPasses(t *testing.T) {
	// main calls helper, which is defined after it in source order;
	// pass 1's signature collection is what makes this legal.
	_, err := parse(t, `
func main(string array argv) integer { return helper(); }
func helper() integer { return 42; }
`)
	require.NoError(t, err)
}

func TestDuplicateFunctionDefinitionIsRejected(t *testing.T) {
	_, err := parse(t, `
func f() integer { return 1; }
func f() integer { return 2; }
func main(string array argv) integer { return 0; }
`)
	require.Error(t, err)
}

func TestEmptyProgramIsRejected(t *testing.T) {
	_, err := parse(t, ``)
	require.Error(t, err)
}

func TestNonFuncTopLevelIsRejected(t *testing.T) {
	_, err := parse(t, `let x = 1;`)
	require.Error(t, err)
}

func TestOrderingComparisonRequiresNumeric(t *testing.T) {
	_, err := parse(t, `
func main(string array argv) integer {
	if "a" > "b" { return 1; }
	return 0;
}
`)
	require.Error(t, err)
}

func TestEqualityAllowsExactTypeMatch(t *testing.T) {
	_, err := parse(t, `
func main(string array argv) integer {
	if "a" == "a" { return 1; }
	return 0;
}
`)
	require.NoError(t, err)
}

func TestAdditivePlusRequiresSameType(t *testing.T) {
	_, err := parse(t, `
func main(string array argv) integer {
	var integer x;
	let x = 1 + 1.0;
	return 0;
}
`)
	require.Error(t, err)
}

func TestOrRequiresBooleanOperands(t *testing.T) {
	_, err := parse(t, `
func main(string array argv) integer {
	var boolean b;
	let b = 1 or 2;
	return 0;
}
`)
	require.Error(t, err)
}

func TestExponentRequiresIntegerOperands(t *testing.T) {
	_, err := parse(t, `
func main(string array argv) integer {
	var float f;
	let f = 2.0 ** 3;
	return 0;
}
`)
	require.Error(t, err)
}

func TestArrayAllocationRequiresArrayType(t *testing.T) {
	_, err := parse(t, `
func main(string array argv) integer {
	var integer x;
	let x = array 3;
	return 0;
}
`)
	require.Error(t, err)
}

func TestArrayAllocationAcceptedForArrayType(t *testing.T) {
	_, err := parse(t, `
func main(string array argv) integer {
	var integer array xs;
	let xs = array 3;
	return 0;
}
`)
	require.NoError(t, err)
}

func TestIndexingNonArrayIsRejected(t *testing.T) {
	_, err := parse(t, `
func main(string array argv) integer {
	var integer x;
	let x[0] = 1;
	return 0;
}
`)
	require.Error(t, err)
}

func TestCallArityMismatchIsRejected(t *testing.T) {
	_, err := parse(t, `
func f(integer a) integer { return a; }
func main(string array argv) integer { return f(1, 2); }
`)
	require.Error(t, err)
}

func TestCallArgTypeMismatchIsRejected(t *testing.T) {
	_, err := parse(t, `
func f(integer a) integer { return a; }
func main(string array argv) integer { return f("x"); }
`)
	require.Error(t, err)
}

func TestProcedureCannotBeUsedAsExpression(t *testing.T) {
	_, err := parse(t, `
func p() { print("side effect"); }
func main(string array argv) integer {
	var integer x;
	let x = p();
	return 0;
}
`)
	require.Error(t, err)
}

func TestFunctionCalledAsStatementIsRejected(t *testing.T) {
	_, err := parse(t, `
func f() integer { return 1; }
func main(string array argv) integer {
	f();
	return 0;
}
`)
	require.Error(t, err)
}

func TestReturnTypeMismatchIsRejected(t *testing.T) {
	_, err := parse(t, `
func f() integer { return "oops"; }
func main(string array argv) integer { return 0; }
`)
	require.Error(t, err)
}

func TestProcedureReturningValueIsRejected(t *testing.T) {
	_, err := parse(t, `
func p() { return 1; }
func main(string array argv) integer { return 0; }
`)
	require.Error(t, err)
}

func TestIfConditionMustBeBoolean(t *testing.T) {
	_, err := parse(t, `
func main(string array argv) integer {
	if 1 { return 1; }
	return 0;
}
`)
	require.Error(t, err)
}

func TestBlockScopingHidesLocalsAfterBlockExit(t *testing.T) {
	_, err := parse(t, `
func main(string array argv) integer {
	{
		var integer x;
		let x = 1;
	}
	let x = 2;
	return 0;
}
`)
	require.Error(t, err, "x declared inside the inner block must not be visible afterward")
}

func TestUnresolvedIdentifierSuggestsCloseName(t *testing.T) {
	_, err := parse(t, `
func main(string array argv) integer {
	var integer count;
	let count = 1;
	return coutn;
}
`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "did you mean")
}

func TestUnaryBangStacks(t *testing.T) {
	_, err := parse(t, `
func main(string array argv) integer {
	var boolean b;
	let b = !!true;
	return 0;
}
`)
	require.NoError(t, err)
}

func TestUnaryMinusAppliesOnce(t *testing.T) {
	// Double unary minus is not valid at the 'simple' level: only a
	// single leading '-' is accepted before a term.
	_, err := parse(t, `
func main(string array argv) integer {
	var integer x;
	let x = --1;
	return 0;
}
`)
	require.Error(t, err)
}

func TestASTShapeForSimpleProgram(t *testing.T) {
	_, err := parse(t, `func main(string array argv) integer { return 0; }`)
	require.NoError(t, err)
	// Parsing twice from identical source must yield structurally
	// identical ASTs (go-cmp, ignoring the nodes' unexported position
	// fields and comparing literal values in full).
	p1 := mustParse(t, `func main(string array argv) integer { return 0; }`)
	p2 := mustParse(t, `func main(string array argv) integer { return 0; }`)
	opts := []cmp.Option{
		cmpopts.IgnoreUnexported(ast.Toplevel{}, ast.Funcdef{}, ast.Block{}, ast.Return{}, ast.ValueNode{}),
		cmp.AllowUnexported(value.Value{}),
	}
	if diff := cmp.Diff(p1, p2, opts...); diff != "" {
		t.Fatalf("identical source produced different ASTs (-got +want):\n%s", diff)
	}
}

func mustParse(t *testing.T, src string) any {
	t.Helper()
	pairs, lexErr := lexer.New(src, nil).ScanAll()
	require.Nil(t, lexErr)
	p := parser.New(pairs, nil)
	top, parseErr := p.Parse()
	require.Nil(t, parseErr)
	return top
}
