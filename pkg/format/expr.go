package format

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapcube/pkg/ast"
)

func (p *Printer) formatExpr(e ast.Expr) {
	if e == nil {
		return
	}

	switch expr := e.(type) {
	case *ast.Identifier:
		p.write(expr.Name)
	case *ast.StringLiteral:
		p.formatString(expr)
	case *ast.NumberLiteral:
		p.write(expr.Raw)
	case *ast.KeywordLiteral:
		p.write(expr.Value)
	case *ast.TemplateLiteral:
		p.formatTemplate(expr)
	case *ast.Array:
		p.formatArray(expr)
	case *ast.Object:
		p.formatObject(expr)
	case *ast.Spread:
		p.write("...")
		p.formatExpr(expr.X)
	case *ast.Member:
		p.formatMember(expr)
	case *ast.Call:
		p.formatCall(expr)
	case *ast.Function:
		p.formatFunction(expr)
	case *ast.Binary:
		p.formatExpr(expr.Left)
		p.writef(" %s ", expr.Op)
		p.formatExpr(expr.Right)
	case *ast.Unary:
		p.write(expr.Op)
		if isWordOperator(expr.Op) {
			p.write(" ")
		}
		p.formatExpr(expr.X)
	case *ast.Paren:
		p.write("(")
		p.formatExpr(expr.X)
		p.write(")")
	}
}

func isWordOperator(op string) bool {
	switch op {
	case "typeof", "void", "await", "delete":
		return true
	}
	return false
}

func (p *Printer) formatString(s *ast.StringLiteral) {
	if s.Raw != "" {
		p.write(s.Raw)
		return
	}
	p.write(quote(s.Value))
}

// quote renders s as a single quoted JavaScript string.
func quote(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\x%02x`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

// formatTemplate re-emits the raw chunks so escapes survive untouched.
func (p *Printer) formatTemplate(t *ast.TemplateLiteral) {
	p.write("`")
	for i, q := range t.Quasis {
		p.write(q.Raw)
		if i < len(t.Exprs) {
			p.write("${")
			p.formatExpr(t.Exprs[i])
			p.write("}")
		}
	}
	p.write("`")
}

func (p *Printer) formatArray(a *ast.Array) {
	p.write("[")
	p.formatList(len(a.Elements), func(i int) {
		p.formatExpr(a.Elements[i])
	}, ", ")
	if n := len(a.Elements); n > 0 && a.Elements[n-1] == nil {
		// A trailing hole needs its own comma.
		p.write(",")
	}
	p.write("]")
}

func (p *Printer) formatObject(o *ast.Object) {
	if len(o.Properties) == 0 {
		p.write("{}")
		return
	}

	p.write("{")
	p.writeln()
	p.indent()
	for _, m := range o.Properties {
		switch m := m.(type) {
		case *ast.Property:
			p.formatProperty(m)
		case *ast.Spread:
			p.formatExpr(m)
		}
		p.write(",")
		p.writeln()
	}
	p.dedent()
	p.write("}")
}

func (p *Printer) formatProperty(prop *ast.Property) {
	if isShorthand(prop) {
		p.formatExpr(prop.Key)
		return
	}
	if prop.Computed {
		p.write("[")
		p.formatExpr(prop.Key)
		p.write("]")
	} else {
		p.formatExpr(prop.Key)
	}
	p.write(": ")
	p.formatExpr(prop.Value)
}

// isShorthand reports whether prop can still be written as { name }. A rewrite
// may have replaced the value after parsing.
func isShorthand(prop *ast.Property) bool {
	if !prop.Shorthand || prop.Computed {
		return false
	}
	key, ok := prop.Key.(*ast.Identifier)
	if !ok {
		return false
	}
	value, ok := prop.Value.(*ast.Identifier)
	return ok && value.Name == key.Name
}

func (p *Printer) formatMember(m *ast.Member) {
	p.formatCallee(m.Object)
	switch {
	case m.Computed && m.Optional:
		p.write("?.[")
	case m.Computed:
		p.write("[")
	case m.Optional:
		p.write("?.")
	default:
		p.write(".")
	}
	p.formatExpr(m.Property)
	if m.Computed {
		p.write("]")
	}
}

func (p *Printer) formatCall(c *ast.Call) {
	p.formatCallee(c.Callee)
	if c.Optional {
		p.write("?.")
	}
	p.write("(")
	p.formatList(len(c.Args), func(i int) {
		p.formatExpr(c.Args[i])
	}, ", ")
	p.write(")")
}

// formatCallee parenthesises operands that would otherwise bind looser than a
// member access or call.
func (p *Printer) formatCallee(e ast.Expr) {
	switch e.(type) {
	case *ast.Function, *ast.Binary, *ast.Unary:
		p.write("(")
		p.formatExpr(e)
		p.write(")")
	default:
		p.formatExpr(e)
	}
}

func (p *Printer) formatFunction(f *ast.Function) {
	if f.Async {
		p.write("async ")
	}
	p.write("(")
	p.formatList(len(f.Params), func(i int) {
		p.write(f.Params[i].Name)
	}, ", ")
	p.write(") => ")

	if _, ok := f.Body.(*ast.Object); ok {
		p.write("(")
		p.formatExpr(f.Body)
		p.write(")")
		return
	}
	p.formatExpr(f.Body)
}
