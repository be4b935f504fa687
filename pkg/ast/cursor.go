package ast

// Handler is called for every visited node of the kind it is registered for.
type Handler func(c *Cursor)

// Visitor maps node kinds to handlers. Kinds without a handler are traversed
// without a callback.
type Visitor map[Kind]Handler

// Cursor describes a node during traversal: the node itself, the slot it occupies in
// its parent and the chain of ancestors up to the traversal root. Cursors of a
// sub-traversal (Cursor.Traverse) keep the ancestors of the cursor they started from.
type Cursor struct {
	node   Node
	parent *Cursor
	edge   Edge
	index  int
	set    func(Node)
}

// Node returns the current node.
func (c *Cursor) Node() Node { return c.node }

// Parent returns the parent node, or nil at the root of the tree.
func (c *Cursor) Parent() Node {
	if c.parent == nil {
		return nil
	}
	return c.parent.node
}

// ParentCursor returns the cursor of the parent node, or nil at the root of the tree.
func (c *Cursor) ParentCursor() *Cursor { return c.parent }

// Edge returns the parent field holding the current node.
func (c *Cursor) Edge() Edge { return c.edge }

// Index returns the position of the current node in a list field, or -1.
func (c *Cursor) Index() int { return c.index }

// Replace puts n in place of the current node. Traversal continues into n's
// children. Replace panics at the traversal root and when n does not fit the
// parent field (for example a statement in an expression position).
func (c *Cursor) Replace(n Node) {
	if c.set == nil {
		panic("ast: Replace called on a node without a parent slot")
	}
	c.set(n)
	c.node = n
}

// Children returns cursors for the current node's children in source order.
func (c *Cursor) Children() []*Cursor {
	slots := children(c.node)
	out := make([]*Cursor, 0, len(slots))
	for _, s := range slots {
		out = append(out, c.child(s))
	}
	return out
}

// Field returns the cursor of the first child reached through e, or nil.
func (c *Cursor) Field(e Edge) *Cursor {
	for _, s := range children(c.node) {
		if s.edge == e {
			return c.child(s)
		}
	}
	return nil
}

// Traverse visits the descendants of the current node (not the node itself) with
// a fresh visitor.
func (c *Cursor) Traverse(v Visitor) {
	c.descend(v)
}

func (c *Cursor) child(s slot) *Cursor {
	return &Cursor{node: s.get(), parent: c, edge: s.edge, index: s.index, set: s.set}
}

func (c *Cursor) descend(v Visitor) {
	for _, s := range children(c.node) {
		walk(c.child(s), v)
	}
}

// Traverse walks the tree rooted at root in pre-order, depth-first and left to
// right, calling the visitor's handler for every node including root.
func Traverse(root Node, v Visitor) {
	if root == nil {
		return
	}
	walk(&Cursor{node: root, edge: EdgeNone, index: -1}, v)
}

// NewCursor returns a root cursor for n, for callers that want to inspect or
// sub-traverse a tree without a full traversal.
func NewCursor(n Node) *Cursor {
	return &Cursor{node: n, edge: EdgeNone, index: -1}
}

func walk(c *Cursor, v Visitor) {
	if h, ok := v[c.node.Kind()]; ok {
		h(c)
	}
	c.descend(v)
}
