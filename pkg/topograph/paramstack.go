package topograph

import (
	"math"
	"strconv"
	"strings"

	"github.com/Knetic/govaluate"

	"github.com/asalnikov/topologies/internal/log"
)

// paramBinding is one (name, value) entry on the ParamStack.
type paramBinding struct {
	name  string
	value float64
}

// ParamStack is the lexically-scoped stack of (name → float64) bindings
// that expressions are evaluated against, per spec.md §4.1. Pushes append
// at the tail; lookups during evaluation resolve the most recent (tail-most)
// binding for a name, exactly as spec.md §3 requires.
type ParamStack struct {
	bindings []paramBinding
}

// NewParamStack returns an empty ParamStack.
func NewParamStack() *ParamStack {
	return &ParamStack{}
}

// Enter evaluates raw.Value against the current stack and pushes
// (raw.Name, result). Bindings entered earlier in the same Enter call
// sequence (e.g. a module's own params, left to right) are visible to
// later ones, since each is pushed before the next is evaluated.
func (p *ParamStack) Enter(raw RawParam) error {
	val, err := p.Eval(raw.Value)
	if err != nil {
		return err
	}
	p.bindings = append(p.bindings, paramBinding{name: raw.Name, value: val})
	return nil
}

// EnterLiteral pushes a literal integer binding without evaluation, used
// for loop and submodule-index variables.
func (p *ParamStack) EnterLiteral(name string, v int) {
	p.bindings = append(p.bindings, paramBinding{name: name, value: float64(v)})
}

// Leave pops the most recent binding.
func (p *ParamStack) Leave() {
	p.bindings = p.bindings[:len(p.bindings)-1]
}

// constants holds the names always available to expressions, shadowed by
// any user parameter of the same name (user bindings are merged over these).
var constants = map[string]interface{}{
	"pi": math.Pi,
	"e":  math.E,
}

// functions mirrors the teacher's (( calc )) supportedFunctions() table
// (op_calc.go), extended with the transcendentals spec.md §4.1 names
// explicitly (sin/cos/tan/exp/log/sqrt).
func functions() map[string]govaluate.ExpressionFunction {
	unary := func(f func(float64) float64) govaluate.ExpressionFunction {
		return func(args ...interface{}) (interface{}, error) {
			if len(args) != 1 {
				return nil, newErr(ErrEval, "function expects one argument, got %d", len(args))
			}
			v, err := toFloat(args[0])
			if err != nil {
				return nil, err
			}
			return f(v), nil
		}
	}
	binary := func(f func(float64, float64) float64) govaluate.ExpressionFunction {
		return func(args ...interface{}) (interface{}, error) {
			if len(args) != 2 {
				return nil, newErr(ErrEval, "function expects two arguments, got %d", len(args))
			}
			a, err := toFloat(args[0])
			if err != nil {
				return nil, err
			}
			b, err := toFloat(args[1])
			if err != nil {
				return nil, err
			}
			return f(a, b), nil
		}
	}
	return map[string]govaluate.ExpressionFunction{
		"sin":   unary(math.Sin),
		"cos":   unary(math.Cos),
		"tan":   unary(math.Tan),
		"exp":   unary(math.Exp),
		"log":   unary(math.Log),
		"sqrt":  unary(math.Sqrt),
		"floor": unary(math.Floor),
		"ceil":  unary(math.Ceil),
		"min":   binary(math.Min),
		"max":   binary(math.Max),
		"mod":   binary(math.Mod),
		"pow":   binary(math.Pow),
	}
}

func toFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	default:
		return 0, newErr(ErrEval, "expected a number, got %T", v)
	}
}

// rewriteCaret replaces "^" (exponentiation in this domain) with govaluate's
// "**" operator, since govaluate reserves "^" for bitwise XOR. Grounded on
// the teacher's own (( calc )) preprocessing of input text before handing
// it to govaluate (op_calc.go's replaceReferences).
func rewriteCaret(expr string) string {
	if !strings.Contains(expr, "^") {
		return expr
	}
	return strings.ReplaceAll(expr, "^", "**")
}

// Eval compiles expr against all current bindings (plus the constants and
// functions table) and evaluates it to a float64. Fails with ErrEval on
// parse or evaluation failure, per spec.md §4.1.
func (p *ParamStack) Eval(expr string) (float64, error) {
	log.TRACE("eval %q", expr)

	compiled, err := govaluate.NewEvaluableExpressionWithFunctions(rewriteCaret(expr), functions())
	if err != nil {
		return 0, wrapErr(ErrEval, err, "%s", expr)
	}

	params := make(map[string]interface{}, len(constants)+len(p.bindings))
	for k, v := range constants {
		params[k] = v
	}
	// Tail-first: earliest-in-this-loop write for a name wins, so iterate
	// from the most recent binding backward and never overwrite.
	seen := make(map[string]bool, len(p.bindings))
	for i := len(p.bindings) - 1; i >= 0; i-- {
		b := p.bindings[i]
		if seen[b.name] {
			continue
		}
		seen[b.name] = true
		params[b.name] = b.value
	}

	result, err := compiled.Evaluate(params)
	if err != nil {
		return 0, wrapErr(ErrEval, err, "%s", expr)
	}
	f, ok := result.(float64)
	if !ok {
		return 0, newErr(ErrEval, "%s: expression did not evaluate to a number (got %T)", expr, result)
	}
	return f, nil
}

// EvalInt evaluates expr and rounds to the nearest integer, used for every
// size/index/bound expression. Halves round away from zero (math.Round).
func (p *ParamStack) EvalInt(expr string) (int, error) {
	f, err := p.Eval(expr)
	if err != nil {
		return 0, err
	}
	return int(math.Round(f)), nil
}

// EvalName implements spec.md §4.1's eval_name: for a string containing
// zero or more "[...]" bracket expressions, evaluate each inner expression
// as an integer and substitute "[<int>]" back in, preserving the rest of
// the string verbatim.
func (p *ParamStack) EvalName(pattern string) (string, error) {
	var out strings.Builder
	i := 0
	for i < len(pattern) {
		c := pattern[i]
		if c != '[' {
			out.WriteByte(c)
			i++
			continue
		}
		depth := 1
		j := i + 1
		for j < len(pattern) && depth > 0 {
			switch pattern[j] {
			case '[':
				depth++
			case ']':
				depth--
			}
			if depth > 0 {
				j++
			}
		}
		if depth != 0 {
			return "", newErr(ErrEval, "unbalanced brackets in %q", pattern)
		}
		inner := pattern[i+1 : j]
		v, err := p.EvalInt(inner)
		if err != nil {
			return "", err
		}
		out.WriteByte('[')
		out.WriteString(strconv.Itoa(v))
		out.WriteString("]")
		i = j + 1
	}
	return out.String(), nil
}
