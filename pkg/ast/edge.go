package ast

// Edge names the field through which a node is reached from its parent.
type Edge int

// Edge values.
const (
	EdgeNone Edge = iota // traversal root
	EdgeProgramBody
	EdgeVarName
	EdgeVarInit
	EdgeStmtExpr
	EdgeTemplateExpr
	EdgeArrayElement
	EdgeObjectProperty
	EdgePropertyKey
	EdgePropertyValue
	EdgeSpreadArgument
	EdgeMemberObject
	EdgeMemberProperty
	EdgeCallCallee
	EdgeCallArgument
	EdgeFunctionParam
	EdgeFunctionBody
	EdgeBinaryLeft
	EdgeBinaryRight
	EdgeUnaryOperand
	EdgeParenExpr
)

var edgeNames = [...]string{
	EdgeNone:           "None",
	EdgeProgramBody:    "Program.Body",
	EdgeVarName:        "VarDecl.Name",
	EdgeVarInit:        "VarDecl.Init",
	EdgeStmtExpr:       "ExprStmt.X",
	EdgeTemplateExpr:   "TemplateLiteral.Exprs",
	EdgeArrayElement:   "Array.Elements",
	EdgeObjectProperty: "Object.Properties",
	EdgePropertyKey:    "Property.Key",
	EdgePropertyValue:  "Property.Value",
	EdgeSpreadArgument: "Spread.X",
	EdgeMemberObject:   "Member.Object",
	EdgeMemberProperty: "Member.Property",
	EdgeCallCallee:     "Call.Callee",
	EdgeCallArgument:   "Call.Args",
	EdgeFunctionParam:  "Function.Params",
	EdgeFunctionBody:   "Function.Body",
	EdgeBinaryLeft:     "Binary.Left",
	EdgeBinaryRight:    "Binary.Right",
	EdgeUnaryOperand:   "Unary.X",
	EdgeParenExpr:      "Paren.X",
}

func (e Edge) String() string {
	if e < 0 || int(e) >= len(edgeNames) {
		return "Edge(?)"
	}
	return edgeNames[e]
}

// slot is one child position of a node. get re-reads the field so that a
// replacement made while siblings are being visited is observed.
type slot struct {
	edge  Edge
	index int // position in a list field, -1 for single fields
	get   func() Node
	set   func(Node)
}

// children lists the child slots of n in source order. Nil children are omitted.
// This is the only place that knows the shape of every node type.
func children(n Node) []slot {
	var out []slot

	switch n := n.(type) {
	case *Program:
		for i := range n.Body {
			out = append(out, slot{
				edge: EdgeProgramBody, index: i,
				get: func() Node { return n.Body[i] },
				set: func(r Node) { n.Body[i] = r.(Stmt) },
			})
		}

	case *VarDecl:
		if n.Name != nil {
			out = append(out, slot{
				edge: EdgeVarName, index: -1,
				get: func() Node { return n.Name },
				set: func(r Node) { n.Name = r.(*Identifier) },
			})
		}
		if n.Init != nil {
			out = append(out, slot{
				edge: EdgeVarInit, index: -1,
				get: func() Node { return n.Init },
				set: func(r Node) { n.Init = r.(Expr) },
			})
		}

	case *ExprStmt:
		if n.X != nil {
			out = append(out, slot{
				edge: EdgeStmtExpr, index: -1,
				get: func() Node { return n.X },
				set: func(r Node) { n.X = r.(Expr) },
			})
		}

	case *Identifier, *StringLiteral, *NumberLiteral, *KeywordLiteral:
		// Leaf nodes

	case *TemplateLiteral:
		for i := range n.Exprs {
			out = append(out, slot{
				edge: EdgeTemplateExpr, index: i,
				get: func() Node { return n.Exprs[i] },
				set: func(r Node) { n.Exprs[i] = r.(Expr) },
			})
		}

	case *Array:
		for i := range n.Elements {
			if n.Elements[i] == nil {
				continue // hole: [a, , b]
			}
			out = append(out, slot{
				edge: EdgeArrayElement, index: i,
				get: func() Node { return n.Elements[i] },
				set: func(r Node) { n.Elements[i] = r.(Expr) },
			})
		}

	case *Object:
		for i := range n.Properties {
			out = append(out, slot{
				edge: EdgeObjectProperty, index: i,
				get: func() Node { return n.Properties[i] },
				set: func(r Node) { n.Properties[i] = r.(ObjectMember) },
			})
		}

	case *Property:
		if n.Key != nil {
			out = append(out, slot{
				edge: EdgePropertyKey, index: -1,
				get: func() Node { return n.Key },
				set: func(r Node) { n.Key = r.(Expr) },
			})
		}
		if n.Value != nil {
			out = append(out, slot{
				edge: EdgePropertyValue, index: -1,
				get: func() Node { return n.Value },
				set: func(r Node) {
					n.Value = r.(Expr)
					n.Shorthand = false
				},
			})
		}

	case *Spread:
		if n.X != nil {
			out = append(out, slot{
				edge: EdgeSpreadArgument, index: -1,
				get: func() Node { return n.X },
				set: func(r Node) { n.X = r.(Expr) },
			})
		}

	case *Member:
		if n.Object != nil {
			out = append(out, slot{
				edge: EdgeMemberObject, index: -1,
				get: func() Node { return n.Object },
				set: func(r Node) { n.Object = r.(Expr) },
			})
		}
		if n.Property != nil {
			out = append(out, slot{
				edge: EdgeMemberProperty, index: -1,
				get: func() Node { return n.Property },
				set: func(r Node) { n.Property = r.(Expr) },
			})
		}

	case *Call:
		if n.Callee != nil {
			out = append(out, slot{
				edge: EdgeCallCallee, index: -1,
				get: func() Node { return n.Callee },
				set: func(r Node) { n.Callee = r.(Expr) },
			})
		}
		for i := range n.Args {
			out = append(out, slot{
				edge: EdgeCallArgument, index: i,
				get: func() Node { return n.Args[i] },
				set: func(r Node) { n.Args[i] = r.(Expr) },
			})
		}

	case *Function:
		for i := range n.Params {
			out = append(out, slot{
				edge: EdgeFunctionParam, index: i,
				get: func() Node { return n.Params[i] },
				set: func(r Node) { n.Params[i] = r.(*Identifier) },
			})
		}
		if n.Body != nil {
			out = append(out, slot{
				edge: EdgeFunctionBody, index: -1,
				get: func() Node { return n.Body },
				set: func(r Node) { n.Body = r.(Expr) },
			})
		}

	case *Binary:
		if n.Left != nil {
			out = append(out, slot{
				edge: EdgeBinaryLeft, index: -1,
				get: func() Node { return n.Left },
				set: func(r Node) { n.Left = r.(Expr) },
			})
		}
		if n.Right != nil {
			out = append(out, slot{
				edge: EdgeBinaryRight, index: -1,
				get: func() Node { return n.Right },
				set: func(r Node) { n.Right = r.(Expr) },
			})
		}

	case *Unary:
		if n.X != nil {
			out = append(out, slot{
				edge: EdgeUnaryOperand, index: -1,
				get: func() Node { return n.X },
				set: func(r Node) { n.X = r.(Expr) },
			})
		}

	case *Paren:
		if n.X != nil {
			out = append(out, slot{
				edge: EdgeParenExpr, index: -1,
				get: func() Node { return n.X },
				set: func(r Node) { n.X = r.(Expr) },
			})
		}
	}

	return out
}
