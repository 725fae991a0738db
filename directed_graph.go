package cfg

// DirectedGraph is a directed graph over symbols. The normalizer builds one
// from the unit productions, with an arc A -> B for every A ::= B
type DirectedGraph struct {
	Arcs     map[Symbol]symbolSet
	Vertices symbolSet
}

// NewDirectedGraph creates a new DirectedGraph
func NewDirectedGraph() *DirectedGraph {
	return &DirectedGraph{
		Arcs:     map[Symbol]symbolSet{},
		Vertices: symbolSet{},
	}
}

// Add adds an arc into graph
func (g *DirectedGraph) Add(s, t Symbol) {
	if g.Arcs[s] == nil {
		g.Arcs[s] = symbolSet{}
	}
	g.Arcs[s][t] = true
	g.Vertices[s] = true
	g.Vertices[t] = true
}

// hasArc returns whether arc (s, t) exists in this graph
func (g *DirectedGraph) hasArc(s, t Symbol) bool {
	return g.Arcs[s][t]
}

// DFS runs depth-first search on graph and returns the vertices visited by
// deep-first order. Successors are visited alphabetically.
// It will not visit the vertices where visited[V] == true.
// After finished, it will update the visited map
func (g *DirectedGraph) DFS(s Symbol, visited map[Symbol]bool) []Symbol {
	if visited[s] || !g.Vertices[s] {
		return []Symbol{}
	}
	visited[s] = true

	order := []Symbol{s}
	for _, next := range g.Arcs[s].sorted() {
		order = append(order, g.DFS(next, visited)...)
	}
	return order
}

// Closure returns every vertex reachable from s, s included, sorted. It
// returns nil if s is not in the graph
func (g *DirectedGraph) Closure(s Symbol) []Symbol {
	if !g.Vertices[s] {
		return nil
	}
	closure := g.DFS(s, map[Symbol]bool{})
	sortSymbols(closure)
	return closure
}

// postOrder appends the vertices reachable from s to order, each one after
// all of its successors
func (g *DirectedGraph) postOrder(s Symbol, visited map[Symbol]bool, order *[]Symbol) {
	visited[s] = true
	for _, next := range g.Arcs[s].sorted() {
		if !visited[next] {
			g.postOrder(next, visited, order)
		}
	}
	*order = append(*order, s)
}

// TopologicalSort sorts the graph by decreasing DFS finish time, which is a
// topological order when the graph has no cycle
func (g *DirectedGraph) TopologicalSort() []Symbol {
	visited := map[Symbol]bool{}
	order := []Symbol{}
	for _, v := range g.Vertices.sorted() {
		if !visited[v] {
			g.postOrder(v, visited, &order)
		}
	}
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order
}

// Transpose returns the reversed graph of g
func (g *DirectedGraph) Transpose() *DirectedGraph {
	reversed := NewDirectedGraph()
	for s, targets := range g.Arcs {
		for t := range targets {
			reversed.Add(t, s)
		}
	}
	return reversed
}

// StrongComponents find strong connected components that contain a cycle:
// more than one vertex, or a single vertex with an arc to itself. For unit
// productions these are the cycles like A ::= B, B ::= A
func (g *DirectedGraph) StrongComponents() [][]Symbol {
	visited := map[Symbol]bool{}
	components := [][]Symbol{}
	topologicalOrder := g.TopologicalSort()
	gt := g.Transpose()
	for _, v := range topologicalOrder {
		if visited[v] {
			continue
		}

		component := gt.DFS(v, visited)
		if len(component) == 1 && !g.hasArc(v, v) {
			continue
		}
		sortSymbols(component)
		components = append(components, component)
	}
	return components
}
