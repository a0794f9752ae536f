package forum

import (
	"sort"

	"bullpen/internal/models"
)

// CommentNode decorates a comment with its replies. It is a view-layer
// derivation and is never persisted.
type CommentNode struct {
	models.Comment
	Children []*CommentNode `json:"children"`
}

// BuildCommentTree turns the flat comment list of one thread into a forest.
//
// A comment whose parent_id is nil, or points outside the input set, becomes
// a root: missing parents degrade to root-level display instead of dropping
// the reply. Roots are ordered newest-first; children at every depth are
// ordered oldest-first. The input slice and its comments are not mutated.
func BuildCommentTree(comments []models.Comment) []*CommentNode {
	if len(comments) == 0 {
		return []*CommentNode{}
	}

	// Single pass: id -> node, children start empty.
	nodes := make(map[uint]*CommentNode, len(comments))
	for i := range comments {
		nodes[comments[i].ID] = &CommentNode{Comment: comments[i], Children: []*CommentNode{}}
	}

	// Resolvable parent links only; dangling references fall out here.
	parentOf := make(map[uint]uint, len(comments))
	for i := range comments {
		if p := comments[i].ParentID; p != nil {
			if _, ok := nodes[*p]; ok {
				parentOf[comments[i].ID] = *p
			}
		}
	}

	// Second pass: attach to resolvable parents, everything else is a root.
	// A comment sitting on a parent cycle (self-parent included) would attach
	// inside its own subtree and vanish from the forest, so exactly one
	// member of each cycle is promoted to a root instead. Writes reject such
	// parents; this only keeps legacy rows displayable.
	roots := make([]*CommentNode, 0, len(comments))
	for i := range comments {
		id := comments[i].ID
		node := nodes[id]
		if p, ok := parentOf[id]; ok && !breaksCycle(id, parentOf) {
			nodes[p].Children = append(nodes[p].Children, node)
			continue
		}
		roots = append(roots, node)
	}

	sort.SliceStable(roots, func(i, j int) bool {
		return roots[i].CreatedAt.After(roots[j].CreatedAt)
	})
	for _, root := range roots {
		sortChildren(root)
	}
	return roots
}

// breaksCycle reports whether id lies on a parent cycle and is the member
// chosen to break it (the lowest id on the cycle). The other members keep
// their parent link and end up beneath the promoted root.
func breaksCycle(id uint, parentOf map[uint]uint) bool {
	seen := make(map[uint]struct{})
	cur := id
	for {
		if _, ok := seen[cur]; ok {
			break
		}
		seen[cur] = struct{}{}
		next, ok := parentOf[cur]
		if !ok {
			return false // chain terminates, no cycle
		}
		cur = next
	}

	// cur is on the cycle; walk it once to find the members.
	lowest := cur
	onCycle := cur == id
	for n := parentOf[cur]; n != cur; n = parentOf[n] {
		if n < lowest {
			lowest = n
		}
		if n == id {
			onCycle = true
		}
	}
	return onCycle && id == lowest
}

func sortChildren(node *CommentNode) {
	sort.SliceStable(node.Children, func(i, j int) bool {
		return node.Children[i].CreatedAt.Before(node.Children[j].CreatedAt)
	})
	for _, child := range node.Children {
		sortChildren(child)
	}
}

// CountNodes returns the total number of nodes in the forest.
func CountNodes(roots []*CommentNode) int {
	total := 0
	for _, root := range roots {
		total += 1 + CountNodes(root.Children)
	}
	return total
}
