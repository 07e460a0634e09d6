package diagram

import (
	"strconv"
	"sync/atomic"
)

// DefaultIDPrefix is prepended to every id handed out for dropped nodes.
const DefaultIDPrefix = "dndnode_"

// IDGenerator hands out unique node ids of the form prefix + counter.
// The counter starts at the seed and increases by one per call, so ids are
// never reused for the lifetime of the generator. One generator is shared by
// every editor session of a process.
type IDGenerator struct {
	prefix string
	next   atomic.Uint64
}

// NewIDGenerator creates a generator whose first id is prefix + seed.
func NewIDGenerator(prefix string, seed uint64) *IDGenerator {
	g := &IDGenerator{prefix: prefix}
	g.next.Store(seed)
	return g
}

// Next returns a fresh id.
func (g *IDGenerator) Next() string {
	n := g.next.Add(1) - 1
	return g.prefix + strconv.FormatUint(n, 10)
}

// Prefix returns the prefix used for generated ids.
func (g *IDGenerator) Prefix() string {
	return g.prefix
}
