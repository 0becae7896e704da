package domain

// BuildTree nests a flat list of comments into reply trees.
//
// Comments are indexed by id once and attached to their parent in a second
// pass, so siblings keep the order of the input (newest first when the list
// comes from the repository). A comment whose parent is missing from the input
// becomes a root. Rows that form a stored cycle are broken by promoting the
// first unreachable comment to a root, so every input row appears exactly once.
// Duplicate ids after the first occurrence are ignored.
func BuildTree(comments []Comment) []*Node {
	arena := make([]Node, 0, len(comments))
	index := make(map[int64]int, len(comments))
	for _, c := range comments {
		if _, dup := index[c.ID]; dup {
			continue
		}
		index[c.ID] = len(arena)
		arena = append(arena, Node{Comment: c})
	}

	parent := make([]int, len(arena))
	children := make([][]int, len(arena))
	for i := range arena {
		parent[i] = -1
		pid := arena[i].ParentID
		if pid == nil {
			continue
		}
		p, ok := index[*pid]
		if !ok || p == i {
			continue
		}
		parent[i] = p
		children[p] = append(children[p], i)
	}

	reached := make([]bool, len(arena))
	mark := func(root int) {
		stack := []int{root}
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if reached[n] {
				continue
			}
			reached[n] = true
			stack = append(stack, children[n]...)
		}
	}
	for i := range arena {
		if parent[i] == -1 {
			mark(i)
		}
	}
	for i := range arena {
		if reached[i] {
			continue
		}
		p := parent[i]
		siblings := children[p]
		for j, c := range siblings {
			if c == i {
				children[p] = append(siblings[:j:j], siblings[j+1:]...)
				break
			}
		}
		parent[i] = -1
		mark(i)
	}

	roots := make([]*Node, 0)
	for i := range arena {
		if len(children[i]) > 0 {
			arena[i].Children = make([]*Node, len(children[i]))
			for j, c := range children[i] {
				arena[i].Children[j] = &arena[c]
			}
		} else {
			arena[i].Children = []*Node{}
		}
		if parent[i] == -1 {
			roots = append(roots, &arena[i])
		}
	}
	return roots
}

// Flatten lists the comments of a forest in pre-order.
func Flatten(roots []*Node) []Comment {
	out := make([]Comment, 0, len(roots))
	stack := make([]*Node, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, roots[i])
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, n.Comment)
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
	return out
}

// Count returns the number of nodes in a forest.
func Count(roots []*Node) int {
	n := 0
	queue := append([]*Node(nil), roots...)
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		n++
		queue = append(queue, node.Children...)
	}
	return n
}

// Prune returns a copy of the forest without the nodes rejected by keep. A
// rejected node takes its whole subtree with it. The input is left untouched.
func Prune(roots []*Node, keep func(Comment) bool) []*Node {
	type job struct {
		src *Node
		dst *[]*Node
	}
	out := make([]*Node, 0, len(roots))
	queue := make([]job, 0, len(roots))
	for _, r := range roots {
		queue = append(queue, job{src: r, dst: &out})
	}
	for len(queue) > 0 {
		j := queue[0]
		queue = queue[1:]
		if !keep(j.src.Comment) {
			continue
		}
		cp := &Node{Comment: j.src.Comment, Children: make([]*Node, 0, len(j.src.Children))}
		*j.dst = append(*j.dst, cp)
		for _, c := range j.src.Children {
			queue = append(queue, job{src: c, dst: &cp.Children})
		}
	}
	return out
}

// Visible is the public thread filter: approved and not flagged as spam.
func Visible(c Comment) bool {
	return c.IsApproved && !c.IsSpam
}
