package filter

import (
	"github.com/google/cel-go/cel"
	"github.com/spf13/cast"
	"github.com/vuuvv/errors"
)

// Variable is the name decoded frames are bound to in expressions.
const Variable = "frame"

// Filter is a compiled CEL predicate over a flattened frame, for example
//
//	frame.type_name == "user_data" && frame.children.exists(c, c.kind == "kernel_message")
type Filter struct {
	expr string
	prg  cel.Program
}

func Compile(expr string) (*Filter, error) {
	env, err := cel.NewEnv(
		cel.Variable(Variable, cel.MapType(cel.StringType, cel.DynType)), // Result.ToMap()
	)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, errors.Wrapf(issues.Err(), "compile filter %q", expr)
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &Filter{expr: expr, prg: prg}, nil
}

// Match evaluates the filter. Expressions that do not yield a boolean are
// an error.
func (f *Filter) Match(frame map[string]any) (bool, error) {
	out, _, err := f.prg.Eval(map[string]any{Variable: frame})
	if err != nil {
		return false, errors.Wrapf(err, "evaluate filter %q", f.expr)
	}
	matched, err := cast.ToBoolE(out.Value())
	if err != nil {
		return false, errors.Wrapf(err, "filter %q", f.expr)
	}
	return matched, nil
}

func (f *Filter) String() string {
	return f.expr
}
