package mathex

// Destroy releases t's tree, invoking each Func node's Cleanup (if any)
// exactly once for its allocated context buffer. It is safe to call on a
// Tree whose environment has already been destroyed; it never touches
// Variables. t must not be evaluated again afterward.
func (t *Tree) Destroy() {
	if t == nil {
		return
	}
	destroyNode(t.root)
	t.root = nil
}

func destroyNode(n *Node) {
	if n == nil {
		return
	}
	destroyNode(n.Left)
	destroyNode(n.Right)
	for _, a := range n.Args {
		destroyNode(a)
	}
	if n.Kind == NodeFunc && n.Func != nil && n.Func.Cleanup != nil && n.Ctx != nil {
		n.Func.Cleanup(n.Ctx)
	}
}
