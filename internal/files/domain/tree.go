package domain

// BuildTree arranges a flat item list into a forest. Items whose parent is
// missing, is not a folder, or sits on a parent cycle become roots. Input
// order is kept among siblings.
func BuildTree(items []Item) []*TreeNode {
	nodes := make(map[string]*TreeNode, len(items))
	for i := range items {
		nodes[items[i].ID] = &TreeNode{Item: items[i], Children: []*TreeNode{}}
	}

	roots := make([]*TreeNode, 0)
	for i := range items {
		n := nodes[items[i].ID]
		parent := attachTo(n, nodes)
		if parent == nil {
			roots = append(roots, n)
			continue
		}
		parent.Children = append(parent.Children, n)
	}
	return roots
}

func attachTo(n *TreeNode, nodes map[string]*TreeNode) *TreeNode {
	if n.ParentID == nil {
		return nil
	}
	parent, ok := nodes[*n.ParentID]
	if !ok || parent.Type != TypeFolder {
		return nil
	}

	// walk up; a chain that comes back to n never reaches a root
	seen := map[string]bool{}
	for cur := parent; cur.ParentID != nil; {
		if cur.ID == n.ID {
			return nil
		}
		if seen[cur.ID] {
			break
		}
		seen[cur.ID] = true
		next, ok := nodes[*cur.ParentID]
		if !ok || next.Type != TypeFolder {
			break
		}
		cur = next
	}
	return parent
}

// Descendants returns the ids of every item below id, following parent links.
func Descendants(items []Item, id string) map[string]bool {
	children := make(map[string][]string, len(items))
	for _, it := range items {
		if it.ParentID != nil {
			children[*it.ParentID] = append(children[*it.ParentID], it.ID)
		}
	}

	out := map[string]bool{}
	stack := append([]string(nil), children[id]...)
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if out[cur] {
			continue
		}
		out[cur] = true
		stack = append(stack, children[cur]...)
	}
	return out
}
