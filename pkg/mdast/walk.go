package mdast

// WalkFunc is the function signature for Walk callbacks.
// Return a non-nil error to stop the walk.
type WalkFunc func(n *Node) error

// Walk performs a pre-order traversal of the tree starting at root.
// Groups are transparent: nodes inside a group are visited as if they
// were direct children. Nodes held in Opts (a table's header row) are
// visited before the node's content.
func Walk(root *Node, walkFunc WalkFunc) error {
	return WalkWithContext(root, walkFunc, nil)
}

// WalkWithContext performs a traversal with enter and leave callbacks.
// Enter is called before visiting children, leave is called after.
// Either callback may be nil.
func WalkWithContext(root *Node, enter, leave WalkFunc) error {
	if root == nil {
		return nil
	}

	if enter != nil {
		if err := enter(root); err != nil {
			return err
		}
	}

	if root.Opts != nil && root.Opts.Header != nil {
		if err := WalkWithContext(root.Opts.Header, enter, leave); err != nil {
			return err
		}
	}

	if err := walkItems(root.Content, enter, leave); err != nil {
		return err
	}

	if leave != nil {
		if err := leave(root); err != nil {
			return err
		}
	}

	return nil
}

func walkItems(items []Item, enter, leave WalkFunc) error {
	for _, it := range items {
		switch v := it.(type) {
		case *Node:
			if err := WalkWithContext(v, enter, leave); err != nil {
				return err
			}
		case Group:
			if err := walkItems(v, enter, leave); err != nil {
				return err
			}
		case Text:
		}
	}
	return nil
}

// FindAll returns all nodes matching the predicate.
func FindAll(root *Node, predicate func(n *Node) bool) []*Node {
	var result []*Node

	//nolint:errcheck,revive // Walk only returns nil errors in this usage
	Walk(root, func(node *Node) error {
		if predicate(node) {
			result = append(result, node)
		}
		return nil
	})

	return result
}

// FindFirst returns the first node matching the predicate, or nil if none found.
func FindFirst(root *Node, predicate func(n *Node) bool) *Node {
	var found *Node

	//nolint:errcheck,revive // errStopWalk is expected and intentionally ignored
	Walk(root, func(node *Node) error {
		if predicate(node) {
			found = node
			return errStopWalk
		}
		return nil
	})

	return found
}

// FindByElem returns all nodes of the specified elem.
func FindByElem(root *Node, elem Elem) []*Node {
	return FindAll(root, func(n *Node) bool {
		return n.Elem == elem
	})
}

// Count returns the number of nodes of each elem under root, root included.
func Count(root *Node) map[Elem]int {
	counts := make(map[Elem]int)

	//nolint:errcheck,revive // Walk only returns nil errors in this usage
	Walk(root, func(node *Node) error {
		counts[node.Elem]++
		return nil
	})

	return counts
}

// errStopWalk is a sentinel error used to stop walking early.
var errStopWalk = &stopWalkError{}

type stopWalkError struct{}

func (e *stopWalkError) Error() string {
	return "stop walk"
}
