// Package filtergraph models the ffmpeg filter graph as an explicit,
// topologically ordered list of typed nodes and serializes it to the
// filter_complex wire text only at the engine-invocation boundary.
package filtergraph

import "strings"

// Param is one operator parameter. Order is preserved through
// serialization so graph text is byte-stable across builds.
type Param struct {
	Key   string
	Value string
}

// Node is one named operation: it consumes previously produced streams
// and introduces exactly one new named stream. Source operators (such as
// anullsrc) have no inputs.
type Node struct {
	Inputs []string
	Op     string
	Params []Param
	Output string
}

// Graph is an ordered node list, acyclic by construction: appending via
// [Graph.Add] keeps nodes in topological order and every output name is
// introduced exactly once.
type Graph struct {
	Nodes []Node
}

// Terminal stream names mapped by the engine invocation.
const (
	VideoOut = "video_out"
	AudioOut = "audio_out"
)

// Add appends a node. The caller is responsible for referencing only
// already-introduced stream names; Build satisfies that by construction.
func (g *Graph) Add(n Node) {
	g.Nodes = append(g.Nodes, n)
}

// HasOp reports whether any node uses the given operator. Used by the
// orchestrator's fallback assertions and tests.
func (g *Graph) HasOp(op string) bool {
	for _, n := range g.Nodes {
		if n.Op == op {
			return true
		}
	}
	return false
}

// HasAudio reports whether the graph produces the audio terminal stream.
func (g *Graph) HasAudio() bool {
	for _, n := range g.Nodes {
		if n.Output == AudioOut {
			return true
		}
	}
	return false
}

// Wire serializes the graph to filter_complex text: each node as
// [in1][in2]op=key=value:key=value[out], nodes joined by ";" in
// topological order.
func (g *Graph) Wire() string {
	var b strings.Builder
	for i, n := range g.Nodes {
		if i > 0 {
			b.WriteByte(';')
		}
		for _, in := range n.Inputs {
			b.WriteByte('[')
			b.WriteString(in)
			b.WriteByte(']')
		}
		b.WriteString(n.Op)
		for j, p := range n.Params {
			if j == 0 {
				b.WriteByte('=')
			} else {
				b.WriteByte(':')
			}
			b.WriteString(p.Key)
			b.WriteByte('=')
			b.WriteString(p.Value)
		}
		b.WriteByte('[')
		b.WriteString(n.Output)
		b.WriteByte(']')
	}
	return b.String()
}
