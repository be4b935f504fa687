// Package ast defines the syntax tree of cube schema files.
//
// Schema files are written in a small subset of JavaScript: top-level calls such as
// cube('Orders', { ... }), view(...) and context(...), object and array literals,
// template literals holding SQL, member accesses and arrow functions. The node set is
// closed: every node type lives in this package and carries a Kind tag, so switches
// over node types can be checked for exhaustiveness in one place (see children in
// edge.go).
package ast

import "github.com/leapstack-labs/leapcube/pkg/token"

// Node is the base interface for all syntax tree nodes.
type Node interface {
	// Kind returns the node's tag.
	Kind() Kind
	// Pos returns the position of the first character of the node.
	Pos() token.Position
	node()
}

// Expr is a marker interface for expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a marker interface for statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// ObjectMember is implemented by the nodes allowed inside an object literal:
// *Property and *Spread.
type ObjectMember interface {
	Node
	objectMember()
}

// Kind tags a node with its type.
type Kind int

// Kind values. The order is part of the package API; append only.
const (
	KindInvalid Kind = iota
	KindProgram
	KindVarDecl
	KindExprStmt
	KindIdentifier
	KindStringLiteral
	KindTemplateLiteral
	KindNumberLiteral
	KindKeywordLiteral
	KindArray
	KindObject
	KindProperty
	KindSpread
	KindMember
	KindCall
	KindFunction
	KindBinary
	KindUnary
	KindParen
)

var kindNames = [...]string{
	KindInvalid:         "Invalid",
	KindProgram:         "Program",
	KindVarDecl:         "VarDecl",
	KindExprStmt:        "ExprStmt",
	KindIdentifier:      "Identifier",
	KindStringLiteral:   "StringLiteral",
	KindTemplateLiteral: "TemplateLiteral",
	KindNumberLiteral:   "NumberLiteral",
	KindKeywordLiteral:  "KeywordLiteral",
	KindArray:           "Array",
	KindObject:          "Object",
	KindProperty:        "Property",
	KindSpread:          "Spread",
	KindMember:          "Member",
	KindCall:            "Call",
	KindFunction:        "Function",
	KindBinary:          "Binary",
	KindUnary:           "Unary",
	KindParen:           "Paren",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(?)"
	}
	return kindNames[k]
}
