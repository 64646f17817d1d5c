package graph

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

var (
	ErrNodeNameCollision = errors.New("graph: node name collision")
	ErrDanglingInput     = errors.New("graph: input references an unknown node")
)

// Name identifies a node within a single graph.
type Name string

type Kind int

const (
	KindImport Kind = iota
	KindTransform
	KindExport
)

func (k Kind) String() string {
	switch k {
	case KindImport:
		return "import"
	case KindTransform:
		return "transform"
	case KindExport:
		return "export"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Operation is the payload of a node. The set of implementations is closed:
// ImportS3, ExportS3, ImageCommand, VideoConvert and Thumbnail.
type Operation interface {
	Kind() Kind
	Inputs() []Name
	json.Marshaler
	operation()
}

type Node struct {
	Name Name
	Op   Operation
}

// NodeNameCollisionError is returned when a node is added under a name that
// is already taken.
type NodeNameCollisionError struct {
	Name Name
}

func (e *NodeNameCollisionError) Error() string {
	return fmt.Sprintf("graph: node %q already exists", e.Name)
}

func (e *NodeNameCollisionError) Unwrap() error { return ErrNodeNameCollision }

// DanglingInputError is returned when a node references an input that has not
// been added yet.
type DanglingInputError struct {
	Node  Name
	Input Name
}

func (e *DanglingInputError) Error() string {
	return fmt.Sprintf("graph: node %q references unknown input %q", e.Node, e.Input)
}

func (e *DanglingInputError) Unwrap() error { return ErrDanglingInput }

// Graph is an insertion-ordered set of named operations. Inputs must be added
// before the nodes that consume them, which keeps the graph acyclic.
type Graph struct {
	nodes []Node
	index map[Name]int
}

func New() *Graph {
	return &Graph{index: make(map[Name]int)}
}

// Add appends a node after checking that its name is free and that all of its
// inputs are already present.
func (g *Graph) Add(name Name, op Operation) error {
	if op == nil {
		return fmt.Errorf("graph: node %q has no operation", name)
	}
	if _, ok := g.index[name]; ok {
		return &NodeNameCollisionError{Name: name}
	}
	for _, in := range op.Inputs() {
		if _, ok := g.index[in]; !ok {
			return &DanglingInputError{Node: name, Input: in}
		}
	}
	g.index[name] = len(g.nodes)
	g.nodes = append(g.nodes, Node{Name: name, Op: op})
	return nil
}

// Nodes returns the nodes in insertion order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

func (g *Graph) Node(name Name) (Node, bool) {
	i, ok := g.index[name]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i], true
}

func (g *Graph) Len() int { return len(g.nodes) }

// CountKind returns how many nodes are of kind k.
func (g *Graph) CountKind(k Kind) int {
	n := 0
	for _, node := range g.nodes {
		if node.Op.Kind() == k {
			n++
		}
	}
	return n
}

// MarshalJSON renders the graph as a JSON object keyed by node name, keeping
// insertion order so that job logs and diffs stay stable.
func (g *Graph) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, node := range g.nodes {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(node.Name))
		if err != nil {
			return nil, err
		}
		val, err := node.Op.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("marshal node %q: %w", node.Name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Fingerprint is the hex xxhash64 of the serialised graph.
func (g *Graph) Fingerprint() (string, error) {
	data, err := g.MarshalJSON()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(data)), nil
}
