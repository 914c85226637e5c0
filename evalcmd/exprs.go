package evalcmd

import (
	"fmt"
	"strconv"
	"strings"

	"go.brendoncarroll.net/star"

	"rankeval.org/rankeval"
	"rankeval.org/rankeval/interp"
	"rankeval.org/rankeval/nodes"
	"rankeval.org/rankeval/tensor"
	"rankeval.org/rankeval/value"
)

var exprParam = star.Param[string]{Name: "expr", Parse: star.ParseString}

var nameParam = star.Param[string]{Name: "name", Parse: star.ParseString}

var paramsParam = star.Param[string]{
	Name:     "p",
	Repeated: true,
	Parse:    star.ParseString,
}

// argsParam holds name=value bindings. Values that parse as numbers bind as
// doubles, anything else binds as a string.
var argsParam = star.Param[argBinding]{
	Name:     "arg",
	Repeated: true,
	Parse:    parseArgBinding,
}

type argBinding struct {
	name string
	val  any
}

func parseArgBinding(x string) (argBinding, error) {
	name, rest, ok := strings.Cut(x, "=")
	if !ok {
		return argBinding{}, fmt.Errorf("argument %q is not name=value", x)
	}
	if f, err := strconv.ParseFloat(rest, 64); err == nil {
		return argBinding{name: name, val: f}, nil
	}
	return argBinding{name: name, val: rest}, nil
}

var eval = star.Command{
	Metadata: star.Metadata{
		Short: "evaluate an expression with the given arguments",
	},
	Flags: []star.IParam{argsParam},
	Pos:   []star.IParam{exprParam},
	F: func(c star.Context) error {
		fn, ectx, err := compileInline(c)
		if err != nil {
			return err
		}
		out := fn.Eval(ectx)
		printValue(c, out)
		return nil
	},
}

var disasm = star.Command{
	Metadata: star.Metadata{
		Short: "print the compiled program of an expression",
	},
	Flags: []star.IParam{argsParam},
	Pos:   []star.IParam{exprParam},
	F: func(c star.Context) error {
		fn, _, err := compileInline(c)
		if err != nil {
			return err
		}
		for i, line := range fn.Disassemble() {
			c.Printf("%4d %s\n", i, line)
		}
		return nil
	},
}

// compileInline parses the positional expression using the arg bindings as
// the parameter list, and returns an eval context with those values bound.
func compileInline(c star.Context) (*interp.Function, *interp.Context, error) {
	args := argsParam.LoadAll(c)
	names := make([]string, len(args))
	for i, a := range args {
		names[i] = a.name
	}
	root, err := nodes.Parse(exprParam.Load(c), names)
	if err != nil {
		return nil, nil, err
	}
	fn := interp.Compile(c, tensor.Simple{}, root, len(names))
	ectx := interp.NewContext()
	ps := make([]float64, len(args))
	for i, a := range args {
		switch v := a.val.(type) {
		case float64:
			ps[i] = v
		case string:
			ps[i] = rankeval.HashString(v)
		}
	}
	ectx.SetParams(ps)
	return fn, ectx, nil
}

func printValue(c star.Context, v value.Value) {
	if d, ok := v.AsDouble(); ok {
		c.Printf("%v\n", d)
		return
	}
	if t, ok := v.AsTensor(); ok {
		if st, ok := t.(interface{ Spec() tensor.Spec }); ok {
			for _, cell := range st.Spec().Cells {
				c.Printf("%v: %v\n", cell.Address, cell.Value)
			}
			return
		}
		c.Printf("tensor%v\n", t.Dims())
		return
	}
	c.Printf("error\n")
}

var put = star.Command{
	Metadata: star.Metadata{
		Short: "store a named expression",
	},
	Flags: []star.IParam{DBParam, paramsParam},
	Pos:   []star.IParam{nameParam, exprParam},
	F: func(c star.Context) error {
		cat, err := newCatalog(c)
		if err != nil {
			return err
		}
		return cat.Put(c, nameParam.Load(c), exprParam.Load(c), paramsParam.LoadAll(c))
	},
}

var get = star.Command{
	Metadata: star.Metadata{
		Short: "show a stored expression",
	},
	Flags: []star.IParam{DBParam},
	Pos:   []star.IParam{nameParam},
	F: func(c star.Context) error {
		cat, err := newCatalog(c)
		if err != nil {
			return err
		}
		e, err := cat.Get(c, nameParam.Load(c))
		if err != nil {
			return err
		}
		c.Printf("%s(%s) = %s\n", e.Name, strings.Join(e.Params, ", "), e.Expr)
		return nil
	},
}

var list = star.Command{
	Metadata: star.Metadata{
		Short: "list stored expressions",
	},
	Flags: []star.IParam{DBParam},
	F: func(c star.Context) error {
		cat, err := newCatalog(c)
		if err != nil {
			return err
		}
		names, err := cat.List(c)
		if err != nil {
			return err
		}
		for _, name := range names {
			c.Printf("%s\n", name)
		}
		return nil
	},
}

var deleteCmd = star.Command{
	Metadata: star.Metadata{
		Short: "delete a stored expression",
	},
	Flags: []star.IParam{DBParam},
	Pos:   []star.IParam{nameParam},
	F: func(c star.Context) error {
		cat, err := newCatalog(c)
		if err != nil {
			return err
		}
		return cat.Delete(c, nameParam.Load(c))
	},
}

var call = star.Command{
	Metadata: star.Metadata{
		Short: "evaluate a stored expression with the given arguments",
	},
	Flags: []star.IParam{DBParam, argsParam},
	Pos:   []star.IParam{nameParam},
	F: func(c star.Context) error {
		cat, err := newCatalog(c)
		if err != nil {
			return err
		}
		args := map[string]any{}
		for _, a := range argsParam.LoadAll(c) {
			args[a.name] = a.val
		}
		res, err := cat.Eval(c, nameParam.Load(c), args)
		if err != nil {
			return err
		}
		switch res.Kind {
		case "double":
			c.Printf("%v\n", res.Double)
		case "tensor":
			for _, cell := range res.Cells {
				c.Printf("%v: %v\n", cell.Address, cell.Value)
			}
		default:
			c.Printf("error\n")
		}
		return nil
	},
}
