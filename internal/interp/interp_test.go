package interp_test

import (
	"strings"
	"testing"

	"github.com/rickyang/rick/internal/interp"
	"github.com/rickyang/rick/internal/lexer"
	"github.com/rickyang/rick/internal/parser"
	"github.com/stretchr/testify/require"
)

// run compiles and evaluates source, feeding stdin and argv, and
// returns the process exit code alongside everything written to
// stdout.
func run(t *testing.T, source, stdin string, argv []string) (int, string) {
	t.Helper()
	pairs, lexErr := lexer.New(source, nil).ScanAll()
	require.Nil(t, lexErr, "lex error: %v", lexErr)

	p := parser.New(pairs, nil)
	top, parseErr := p.Parse()
	require.Nil(t, parseErr, "parse error: %v", parseErr)

	var out strings.Builder
	it := interp.New(top, strings.NewReader(stdin), &out, nil)
	code, fault := it.Run(argv)
	require.Nil(t, fault, "runtime fault: %v", fault)
	return code, out.String()
}

func TestHelloWorld(t *testing.T) {
	src := `
func main(string array argv) integer {
	print("hello, world\n");
	return 0;
}`
	code, out := run(t, src, "", nil)
	require.Equal(t, 0, code)
	require.Equal(t, "hello, world\n", out)
}

func TestArithmetic(t *testing.T) {
	src := `
func main(string array argv) integer {
	var integer x, y;
	let x = 3;
	let y = 4;
	print(x * x + y * y);
	return 0;
}
`
	code, out := run(t, src, "", nil)
	require.Equal(t, 0, code)
	require.Equal(t, "25", out)
}

func TestLoopSum(t *testing.T) {
	src := `
func main(string array argv) integer {
	var integer i, total;
	let i = 1;
	let total = 0;
	while i <= 10 {
		let total = total + i;
		let i = i + 1;
	}
	print(total);
	return 0;
}
`
	code, out := run(t, src, "", nil)
	require.Equal(t, 0, code)
	require.Equal(t, "55", out)
}

func TestArrayAllocationAndIndexing(t *testing.T) {
	src := `
func main(string array argv) integer {
	var integer array xs;
	let xs = array 3;
	let xs[0] = 10;
	let xs[1] = 20;
	let xs[2] = 30;
	print(xs[0] + xs[2]);
	return 0;
}
`
	code, out := run(t, src, "", nil)
	require.Equal(t, 0, code)
	require.Equal(t, "40", out)
}

func TestRecursion(t *testing.T) {
	src := `
func fact(integer n) integer {
	if n <= 1 {
		return 1;
	}
	return n * fact(n - 1);
}
func main(string array argv) integer { print(fact(5)); return 0; }
`
	code, out := run(t, src, "", nil)
	require.Equal(t, 0, code)
	require.Equal(t, "120", out)
}

func TestShortCircuitAnd(t *testing.T) {
	// The right-hand side calls a function with a side effect; if it
	// ran despite the left side being false, "called" would be printed.
	src := `
func sideEffect(integer n) boolean {
	print("called");
	return true;
}
func main(string array argv) integer {
	if false and sideEffect(1) {
		print("unreachable");
	}
	return 0;
}
`
	code, out := run(t, src, "", nil)
	require.Equal(t, 0, code)
	require.Equal(t, "", out)
}

func TestShortCircuitOr(t *testing.T) {
	src := `
func sideEffect(integer n) boolean {
	print("called");
	return true;
}
func main(string array argv) integer {
	if true or sideEffect(1) {
		print("reached");
	}
	return 0;
}
`
	code, out := run(t, src, "", nil)
	require.Equal(t, 0, code)
	require.Equal(t, "reached", out)
}

func TestReadCoercion(t *testing.T) {
	src := `
func main(string array argv) integer {
	var integer n;
	read(n);
	print(n * 2);
	return 0;
}
`
	code, out := run(t, src, "21\n", nil)
	require.Equal(t, 0, code)
	require.Equal(t, "42", out)
}

func TestDivisionByZeroFaults(t *testing.T) {
	src := `
func main(string array argv) integer {
	var integer x;
	let x = 1 / 0;
	return x;
}
`
	pairs, lexErr := lexer.New(src, nil).ScanAll()
	require.Nil(t, lexErr)
	p := parser.New(pairs, nil)
	top, parseErr := p.Parse()
	require.Nil(t, parseErr)

	var out strings.Builder
	it := interp.New(top, strings.NewReader(""), &out, nil)
	_, fault := it.Run(nil)
	require.NotNil(t, fault)
	require.Contains(t, fault.Error(), "division by zero")
}

func TestArrayOutOfBoundsFaults(t *testing.T) {
	src := `
func main(string array argv) integer {
	var integer array xs;
	let xs = array 2;
	print(xs[5]);
	return 0;
}
`
	pairs, lexErr := lexer.New(src, nil).ScanAll()
	require.Nil(t, lexErr)
	p := parser.New(pairs, nil)
	top, parseErr := p.Parse()
	require.Nil(t, parseErr)

	var out strings.Builder
	it := interp.New(top, strings.NewReader(""), &out, nil)
	_, fault := it.Run(nil)
	require.NotNil(t, fault)
	require.Contains(t, fault.Error(), "out of bounds")
}

func TestArgvSeededAsStringArray(t *testing.T) {
	src := `
func main(string array argv) integer {
	print(argv[1]);
	return 0;
}
`
	code, out := run(t, src, "", []string{"prog", "hello"})
	require.Equal(t, 0, code)
	require.Equal(t, "hello", out)
}

func TestArrayArgumentIsDuplicatedOnCall(t *testing.T) {
	src := `
func mutate(integer array a) {
	let a[0] = 999;
}
func main(string array argv) integer {
	var integer array xs;
	let xs = array 3;
	let xs[0] = 1;
	mutate(xs);
	print(xs[0]);
	return 0;
}
`
	code, out := run(t, src, "", nil)
	require.Equal(t, 0, code)
	require.Equal(t, "1", out, "mutate's parameter must not alias main's xs")
}

func TestArrayVariableAssignmentIsDuplicated(t *testing.T) {
	src := `
func main(string array argv) integer {
	var integer array xs, ys;
	let xs = array 2;
	let xs[0] = 1;
	let ys = xs;
	let ys[0] = 999;
	print(xs[0]);
	return 0;
}
`
	code, out := run(t, src, "", nil)
	require.Equal(t, 0, code)
	require.Equal(t, "1", out, "ys := xs must copy the array, not alias it")
}

func TestMainIntegerReturnIsExitCode(t *testing.T) {
	src := `
func main(string array argv) integer {
	return 0;
}
`
	code, out := run(t, src, "", nil)
	require.Equal(t, 0, code)
	require.Equal(t, "", out)
}
