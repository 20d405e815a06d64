package depgraph

import "sort"

// TopoOrder returns a topological ordering of all nodes: every package
// appears after each of its dependencies. Kahn's algorithm with ties among
// ready nodes broken by lexical order, so the result is byte-identical across
// runs for a fixed edge set. The graph must have passed Validate; on a cyclic
// graph the returned order is truncated.
func (g *Graph) TopoOrder() []string {
	unmet := make(map[string]int, len(g.nodes))
	dependents := make(map[string][]string, len(g.nodes))
	for _, from := range g.nodes {
		unmet[from] = len(g.deps[from])
		for _, to := range g.deps[from] {
			dependents[to] = append(dependents[to], from)
		}
	}

	var ready []string
	for _, id := range g.nodes {
		if unmet[id] == 0 {
			ready = append(ready, id)
		}
	}
	sort.Strings(ready)

	order := make([]string, 0, len(g.nodes))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)
		for _, dep := range dependents[id] {
			unmet[dep]--
			if unmet[dep] == 0 {
				ready = insertSorted(ready, dep)
			}
		}
	}
	return order
}

func insertSorted(ss []string, s string) []string {
	i := sort.SearchStrings(ss, s)
	ss = append(ss, "")
	copy(ss[i+1:], ss[i:])
	ss[i] = s
	return ss
}
