package ast

// Transform walks n depth-first and replaces each node with fn(node), bottom-up (children are
// transformed before their parent is offered to fn). It never mutates n; every node on the
// path back to the root is rebuilt. This is the substitution primitive the evaluator composes
// variable resolution, function inlining, and builtin evaluation out of.
func Transform(n Node, fn func(Node) (Node, error)) (Node, error) {
	rebuilt, err := transformChildren(n, fn)
	if err != nil {
		return nil, err
	}
	return fn(rebuilt)
}

func transformChildren(n Node, fn func(Node) (Node, error)) (Node, error) {
	switch v := n.(type) {
	case *Variable:
		body, err := Transform(v.Body, fn)
		if err != nil {
			return nil, err
		}
		return &Variable{Name: v.Name, Body: body}, nil

	case *Function:
		body, err := Transform(v.Body, fn)
		if err != nil {
			return nil, err
		}
		args := make([]string, len(v.Args))
		copy(args, v.Args)
		return &Function{Name: v.Name, Args: args, Body: body}, nil

	case *FunctionCall:
		args := make([]Node, len(v.Args))
		for i, a := range v.Args {
			t, err := Transform(a, fn)
			if err != nil {
				return nil, err
			}
			args[i] = t
		}
		return &FunctionCall{Name: v.Name, Args: args}, nil

	case *InfixCall:
		l, err := Transform(v.Left, fn)
		if err != nil {
			return nil, err
		}
		r, err := Transform(v.Right, fn)
		if err != nil {
			return nil, err
		}
		return &InfixCall{Op: v.Op, Left: l, Right: r}, nil

	case *PrefixCall:
		a, err := Transform(v.Arg, fn)
		if err != nil {
			return nil, err
		}
		return &PrefixCall{Op: v.Op, Arg: a}, nil

	case *PostfixCall:
		a, err := Transform(v.Arg, fn)
		if err != nil {
			return nil, err
		}
		return &PostfixCall{Op: v.Op, Arg: a}, nil

	default:
		// leaf node: Boolean, Float, Integer, Text, DateTime, Reference, VariableValue
		return n, nil
	}
}

// References collects every Reference name reachable in n. A fully resolved AST contains no
// Reference to any name resolvable in the active scopes.
func References(n Node) []string {
	var out []string
	_, _ = Transform(n, func(cur Node) (Node, error) {
		if r, ok := cur.(Reference); ok {
			out = append(out, r.Name)
		}
		return cur, nil
	})
	return out
}
