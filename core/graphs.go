// This file contains thin wrappers around the graph module
// for ordering the metric computations.
package core

import (
	"cmp"
	"slices"

	"github.com/dominikbraun/graph"
)

type GraphNode interface {
	// A unique ID that is used as the node hash
	Id() int
}

func getNodeId[T GraphNode](node T) int {
	return node.Id()
}

type DependencyGraph[T GraphNode] struct {
	graph.Graph[int, T]
	predecessorMap map[int]map[int]graph.Edge[int]
}

// Adds an edge from the dependency source to the dependant target
func (g *DependencyGraph[T]) AddEdge(source, target T) error {
	return g.Graph.AddEdge(source.Id(), target.Id())
}

// Returns the nodes that are on the incoming edges of the given
// target node (its dependencies) ordered by their ids.
func (g *DependencyGraph[T]) GetDependencies(target T) []T {
	if g.predecessorMap == nil {
		// The graphs do not change after their initialization
		// so the predecessor map is stored on the first call
		g.predecessorMap, _ = g.Graph.PredecessorMap()
	}

	inEdges := g.predecessorMap[target.Id()]
	dependencies := make([]T, 0, len(inEdges))
	for k := range inEdges {
		dependency, _ := g.Vertex(k)
		dependencies = append(dependencies, dependency)
	}
	slices.SortFunc(dependencies, func(a, b T) int { return cmp.Compare(a.Id(), b.Id()) })

	return dependencies
}

// Returns the nodes ordered such that each node comes
// after all of its dependencies. Nodes without a mutual
// dependency keep the order of their ids.
func (g *DependencyGraph[T]) Order() ([]T, error) {
	keys, err := graph.StableTopologicalSort(g.Graph, func(a, b int) bool { return a < b })
	if err != nil {
		return nil, err
	}

	nodes := make([]T, 0, len(keys))
	for _, k := range keys {
		node, err := g.Vertex(k)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// The MetricGraph has the metric kinds as its nodes. An edge
// points from a metric to the metric that is computed from the
// opponents' values of it:
//
//	avg -> sos -> xsos
//
// The average score is the root. Every other metric is the mean
// of the opponents' values of the metric on its incoming edge.
// The graph is acyclic so every metric only ever reads metrics
// of a lower tier.
type MetricGraph struct {
	DependencyGraph[MetricKind]
}

func NewMetricGraph() *MetricGraph {
	g := &MetricGraph{
		DependencyGraph: DependencyGraph[MetricKind]{
			Graph: graph.New(getNodeId[MetricKind], graph.Directed(), graph.PreventCycles()),
		},
	}

	for _, kind := range []MetricKind{Average, StrengthOfSchedule, ExtendedStrengthOfSchedule} {
		_ = g.AddVertex(kind)
	}
	_ = g.AddEdge(Average, StrengthOfSchedule)
	_ = g.AddEdge(StrengthOfSchedule, ExtendedStrengthOfSchedule)

	return g
}

var metricGraph = NewMetricGraph()
