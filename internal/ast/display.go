package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Print renders n back to csv++ source syntax, using the unambiguous fully-parenthesised
// form for infix calls (e.g. "((1 + 2) * 3)").
func Print(n Node) string {
	switch v := n.(type) {
	case Boolean:
		if v {
			return "TRUE"
		}
		return "FALSE"

	case Float:
		return strconv.FormatFloat(float64(v), 'f', -1, 64)

	case Integer:
		return strconv.FormatInt(int64(v), 10)

	case Text:
		return `"` + escapeText(string(v)) + `"`

	case DateTime:
		return v.Raw

	case Reference:
		return v.Name

	case *Variable:
		return fmt.Sprintf("%s := %s", v.Name, Print(v.Body))

	case *Function:
		return fmt.Sprintf("%s(%s) %s", v.Name, strings.Join(v.Args, ", "), Print(v.Body))

	case *FunctionCall:
		args := make([]string, len(v.Args))
		for i, a := range v.Args {
			args[i] = Print(a)
		}
		return fmt.Sprintf("%s(%s)", v.Name, strings.Join(args, ", "))

	case *InfixCall:
		return fmt.Sprintf("(%s %s %s)", Print(v.Left), v.Op, Print(v.Right))

	case *PrefixCall:
		return fmt.Sprintf("%s%s", v.Op, Print(v.Arg))

	case *PostfixCall:
		return fmt.Sprintf("%s%s", Print(v.Arg), v.Op)

	case VariableValue:
		return printVariableValue(v)

	default:
		return fmt.Sprintf("<unknown node %T>", n)
	}
}

func printVariableValue(v VariableValue) string {
	switch v.Kind {
	case RowValue:
		n := strconv.Itoa(v.Row + 1)
		return n + ":" + n
	case ColumnValue:
		return fmt.Sprintf("col:%d", v.Col)
	case RowRelative:
		return fmt.Sprintf("rowrel:%d:%d", v.FillID, v.Row)
	case ColumnRelative:
		return fmt.Sprintf("colrel:%d:%d", v.FillID, v.Col)
	default:
		return fmt.Sprintf("abs:%d:%d", v.Col, v.Row)
	}
}

// escapeText re-escapes a text literal's backslash and double-quote characters so that
// Print(Parse(Print(n))) round-trips.
func escapeText(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
