// Package formula evaluates the arithmetic formulas of calculation questions
// in a restricted environment: the drawn variables, the constants pi and e,
// and the math and random namespaces. No other names are reachable.
package formula

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
)

// Source is the randomness used by the random namespace.
type Source interface {
	Intn(n int) int
	Float64() float64
}

type globalSource struct{}

func (globalSource) Intn(n int) int   { return rand.Intn(n) }
func (globalSource) Float64() float64 { return rand.Float64() }

var (
	ErrFloorDivision   = errors.New("floor division // is not supported, use math.floor(a / b)")
	ErrModuloByZero    = errors.New("modulo by zero")
	ErrCaretOperator   = errors.New("^ is not supported, write powers as **")
)

// Error is returned when a formula cannot be compiled or evaluated, or when
// it does not produce a finite number.
type Error struct {
	Formula string
	Reason  string
	Wrapped error
}

func (e *Error) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("formula %q: %s: %v", e.Formula, e.Reason, e.Wrapped)
	}
	return fmt.Sprintf("formula %q: %s", e.Formula, e.Reason)
}

func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Evaluate computes formula with the given variable bindings. A nil src uses
// the package-level math/rand functions.
func Evaluate(formula string, vars map[string]int, src Source) (float64, error) {
	if src == nil {
		src = globalSource{}
	}
	// expr reads // as a line comment, which would silently drop the rest.
	if strings.Contains(formula, "//") {
		return 0, &Error{Formula: formula, Reason: "compile", Wrapped: ErrFloorDivision}
	}
	// Bank formulas treat ^ as xor at the lowest precedence; expr parses it
	// as a power, so no rewrite keeps the meaning.
	if strings.Contains(formula, "^") {
		return 0, &Error{Formula: formula, Reason: "compile", Wrapped: ErrCaretOperator}
	}
	env := environment(vars, src)

	program, err := expr.Compile(formula,
		expr.Env(env),
		expr.DisableAllBuiltins(),
		expr.Function("floormod", floorMod),
		expr.Patch(floorModPatcher{}),
	)
	if err != nil {
		return 0, &Error{Formula: formula, Reason: "compile", Wrapped: err}
	}

	out, err := expr.Run(program, env)
	if err != nil {
		return 0, &Error{Formula: formula, Reason: "evaluate", Wrapped: err}
	}

	v, ok := toFloat(out)
	if !ok {
		return 0, &Error{Formula: formula, Reason: fmt.Sprintf("result %v is not a number", out)}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &Error{Formula: formula, Reason: "result is not a finite number"}
	}
	return v, nil
}

func environment(vars map[string]int, src Source) map[string]any {
	env := make(map[string]any, len(vars)+4)
	for name, v := range vars {
		env[name] = v
	}
	// The constants and namespaces win over a variable of the same name.
	env["pi"] = math.Pi
	env["e"] = math.E
	env["math"] = mathNamespace()
	env["random"] = randomNamespace(src)
	return env
}

// floorModPatcher turns every a % b into floormod(a, b), whatever the
// operand types are known to be at compile time.
type floorModPatcher struct{}

func (floorModPatcher) Visit(node *ast.Node) {
	b, ok := (*node).(*ast.BinaryNode)
	if !ok || b.Operator != "%" {
		return
	}
	ast.Patch(node, &ast.CallNode{
		Callee:    &ast.IdentifierNode{Value: "floormod"},
		Arguments: []ast.Node{b.Left, b.Right},
	})
}

// floorMod is % with the sign of the divisor: -5 % 3 == 1.
func floorMod(params ...any) (any, error) {
	if len(params) != 2 {
		return nil, fmt.Errorf("floormod takes 2 arguments, got %d", len(params))
	}
	if a, ok := params[0].(int); ok {
		if b, ok := params[1].(int); ok {
			if b == 0 {
				return nil, ErrModuloByZero
			}
			m := a % b
			if m != 0 && (m < 0) != (b < 0) {
				m += b
			}
			return m, nil
		}
	}

	a, ok1 := toFloat(params[0])
	b, ok2 := toFloat(params[1])
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("unsupported operands for %%: %T and %T", params[0], params[1])
	}
	if b == 0 {
		return nil, ErrModuloByZero
	}
	return a - b*math.Floor(a/b), nil
}

// Namespace functions take untyped arguments because the evaluator calls them
// reflectively with whatever numeric type the expression produced. A
// non-numeric argument yields NaN, which Evaluate reports as an error.

func unary(f func(float64) float64) func(any) float64 {
	return func(x any) float64 {
		v, ok := toFloat(x)
		if !ok {
			return math.NaN()
		}
		return f(v)
	}
}

func binary(f func(float64, float64) float64) func(any, any) float64 {
	return func(x, y any) float64 {
		a, ok1 := toFloat(x)
		b, ok2 := toFloat(y)
		if !ok1 || !ok2 {
			return math.NaN()
		}
		return f(a, b)
	}
}

func mathNamespace() map[string]any {
	return map[string]any{
		"pi":    math.Pi,
		"e":     math.E,
		"sqrt":  unary(math.Sqrt),
		"sin":   unary(math.Sin),
		"cos":   unary(math.Cos),
		"tan":   unary(math.Tan),
		"asin":  unary(math.Asin),
		"acos":  unary(math.Acos),
		"atan":  unary(math.Atan),
		"exp":   unary(math.Exp),
		"log":   unary(math.Log),
		"log10": unary(math.Log10),
		"log2":  unary(math.Log2),
		"fabs":  unary(math.Abs),
		"floor": unary(math.Floor),
		"ceil":  unary(math.Ceil),
		"radians": unary(func(d float64) float64 {
			return d * math.Pi / 180
		}),
		"degrees": unary(func(r float64) float64 {
			return r * 180 / math.Pi
		}),
		"factorial": unary(factorial),
		"pow":       binary(math.Pow),
		"hypot":     binary(math.Hypot),
		"atan2":     binary(math.Atan2),
	}
}

func randomNamespace(src Source) map[string]any {
	return map[string]any{
		"random": func() float64 { return src.Float64() },
		"uniform": binary(func(a, b float64) float64 {
			return a + (b-a)*src.Float64()
		}),
		"randint": binary(func(a, b float64) float64 {
			lo, hi := int(a), int(b)
			if hi < lo {
				return math.NaN()
			}
			return float64(lo + src.Intn(hi-lo+1))
		}),
	}
}

func factorial(n float64) float64 {
	if n < 0 || n != math.Trunc(n) {
		return math.NaN()
	}
	out := 1.0
	for i := 2.0; i <= n; i++ {
		out *= i
	}
	return out
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
