package format

import (
	"github.com/leapstack-labs/leapcube/pkg/ast"
)

// Program prints a whole file. Top-level statements are separated by a blank line.
func Program(prog *ast.Program) string {
	p := newPrinter()
	p.formatProgram(prog)
	return p.String()
}

// Node prints any node. Statements keep their terminating semicolon.
func Node(n ast.Node) string {
	p := newPrinter()
	switch n := n.(type) {
	case *ast.Program:
		p.formatProgram(n)
	case ast.Stmt:
		p.formatStmt(n)
	case *ast.Property:
		p.formatProperty(n)
	case ast.Expr:
		p.formatExpr(n)
	}
	return p.String()
}

func (p *Printer) formatProgram(prog *ast.Program) {
	if prog == nil {
		return
	}
	for i, s := range prog.Body {
		if i > 0 {
			p.writeln()
		}
		p.formatStmt(s)
		p.writeln()
	}
}

func (p *Printer) formatStmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.VarDecl:
		p.writef("%s %s", s.Keyword, s.Name.Name)
		if s.Init != nil {
			p.write(" = ")
			p.formatExpr(s.Init)
		}
		p.write(";")
	case *ast.ExprStmt:
		// A leading brace or function would start a block or declaration.
		switch s.X.(type) {
		case *ast.Object, *ast.Function:
			p.write("(")
			p.formatExpr(s.X)
			p.write(")")
		default:
			p.formatExpr(s.X)
		}
		p.write(";")
	}
}
