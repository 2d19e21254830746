package internal

import "weak"

// outEdge is one entry in a subscriber's ordered outgoing-edge list: a
// source this node read during its last recomputation, and the mode it
// read it in.
type outEdge struct {
	source *Node
	mode   Mode
}

// inEdge is a weakly-held reverse edge: dep is a subscriber that read
// this node, recorded so writes can find their dependents without the
// dependency keeping the dependent alive (spec §3, §5).
type inEdge struct {
	dep  weak.Pointer[Node]
	mode Mode
}

// trackRead is called by Handle.Read* while cur is being (re)computed: it
// registers that cur read src in mode m, reusing the edge-cursor
// protocol of spec §4.3 so that re-reading the same sources in the same
// order across reruns is O(1) per edge instead of clear-and-rebuild.
func trackRead(cur *Node, src *Node, m Mode) error {
	if src.compute != nil && src.height >= cur.height {
		cur.height = src.height + 1
	}

	cursor := cur.recomputeCursor

	if cursor < len(cur.out) && cur.out[cursor].source == src {
		cur.out[cursor].mode |= m
		cur.recomputeCursor++
		return nil
	}

	// scan the remainder for this source; if found, swap it with the
	// edge at the cursor position (that edge moves to the found slot).
	for i := cursor + 1; i < len(cur.out); i++ {
		if cur.out[i].source == src {
			cur.out[cursor], cur.out[i] = cur.out[i], cur.out[cursor]
			cur.out[cursor].mode |= m
			cur.recomputeCursor++
			return nil
		}
	}

	if err := checkCircular(src, cur); err != nil {
		return &CellError{Kind: CircularDependency, Cause: err}
	}

	edge := outEdge{source: src, mode: m}
	if cursor < len(cur.out) {
		// a stale edge occupies the cursor slot from a previous run;
		// insert before it, shifting the rest right by one.
		cur.out = append(cur.out, outEdge{})
		copy(cur.out[cursor+1:], cur.out[cursor:])
		cur.out[cursor] = edge
	} else {
		cur.out = append(cur.out, edge)
	}
	cur.recomputeCursor++

	src.addIncoming(cur, m)
	return nil
}

// finalizeEdges drops every outgoing edge past the cursor: sources that
// were not re-visited this recomputation round (spec §4.3 step 7).
func (n *Node) finalizeEdges() {
	for i := n.recomputeCursor; i < len(n.out); i++ {
		n.out[i].source.removeIncoming(n)
	}
	n.out = n.out[:n.recomputeCursor]
	n.recomputeCursor = 0
}

func (n *Node) addIncoming(dep *Node, m Mode) {
	if n.in == nil {
		n.in = make(map[uint64]*inEdge)
	}
	if e, ok := n.in[dep.id]; ok {
		e.mode |= m
		return
	}
	n.in[dep.id] = &inEdge{dep: weak.Make(dep), mode: m}
	n.bumpListenerVersion()
}

func (n *Node) removeIncoming(dep *Node) {
	if n.in == nil {
		return
	}
	delete(n.in, dep.id)
	n.bumpListenerVersion()
}

// liveIncoming iterates incoming edges, pruning and skipping any whose
// weak target has been collected.
func (n *Node) liveIncoming(yield func(*Node, Mode) bool) {
	if n.in == nil {
		return
	}
	for id, e := range n.in {
		dep := e.dep.Value()
		if dep == nil {
			delete(n.in, id)
			continue
		}
		if !yield(dep, e.mode) {
			return
		}
	}
}

// checkCircular performs the DFS of spec §4.3's edge-append step: if cur
// (the node about to depend on src) is reachable from src by following
// src's own outgoing edges, linking would create a cycle.
func checkCircular(src *Node, cur *Node) error {
	if src == cur {
		return &CircularDependencyError{Node: cur}
	}

	seen := make(map[uint64]bool)
	var visit func(n *Node) bool
	visit = func(n *Node) bool {
		if n == cur {
			return true
		}
		if seen[n.id] {
			return false
		}
		seen[n.id] = true
		for _, e := range n.out {
			if visit(e.source) {
				return true
			}
		}
		return false
	}

	if visit(src) {
		return &CircularDependencyError{Node: cur}
	}
	return nil
}

// CircularDependencyError is returned by trackRead when a read during
// recomputation would close a cycle in the source graph.
type CircularDependencyError struct {
	Node *Node
}

func (e *CircularDependencyError) Error() string {
	name := e.Node.name
	if name == "" {
		name = "cell"
	}
	return "circular dependency detected while recomputing " + name
}
