// Package ids generates task identifiers.
//
// IDs are snowflakes with a narrowed layout (2 node bits, 8 sequence bits)
// so every value stays below 2^53 and survives a round trip through any
// JSON reader that stores numbers as float64.
package ids

import (
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/pkg/errors"
)

const (
	nodeBits = 2
	stepBits = 8

	// MaxNode is the largest node number accepted by New.
	MaxNode = 1<<nodeBits - 1
)

var layoutOnce sync.Once

// Generator hands out unique, increasing int64 IDs.
type Generator struct {
	node *snowflake.Node
}

// New creates a Generator for the given node number (0..MaxNode).
func New(node int64) (*Generator, error) {
	layoutOnce.Do(func() {
		snowflake.NodeBits = nodeBits
		snowflake.StepBits = stepBits
	})
	if node < 0 || node > MaxNode {
		return nil, errors.Errorf("node %d out of range (want 0..%d)", node, MaxNode)
	}
	n, err := snowflake.NewNode(node)
	if err != nil {
		return nil, errors.Wrap(err, "create snowflake node")
	}
	return &Generator{node: n}, nil
}

// MustNew is like New but panics on error.
func MustNew(node int64) *Generator {
	g, err := New(node)
	if err != nil {
		panic(err)
	}
	return g
}

// Next returns the next ID.
func (g *Generator) Next() int64 {
	return g.node.Generate().Int64()
}
