package graph

import (
	"maps"
	"slices"
	"sync"

	errs "github.com/matzehuels/nodeweave/pkg/errors"
)

// NodeSpec describes the sockets and defaults of a node type.
type NodeSpec struct {
	Title   string       // default title
	Inputs  []SocketType // input socket types in index order
	Outputs []SocketType // output socket types in index order
	IsVar   bool         // variable node (getter/setter toggle)
	Content Content      // initial content
}

// Constructor returns the spec of a fresh node of some type.
type Constructor func() NodeSpec

// Registry maps node types to constructors. Scenes use it to build new
// nodes and to reject documents that reference unknown node types.
//
// Registry is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	ctors map[NodeType]Constructor
	names map[NodeType]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		ctors: make(map[NodeType]Constructor),
		names: make(map[NodeType]string),
	}
}

// Register adds a constructor for t. Returns a DUPLICATE_ID error if t is
// already registered.
func (r *Registry) Register(t NodeType, name string, ctor Constructor) error {
	if ctor == nil {
		return errs.New(errs.ErrCodeInvalidInput, "node type %d: nil constructor", t)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ctors[t]; ok {
		return errs.New(errs.ErrCodeDuplicateID, "node type %d already registered", t)
	}
	r.ctors[t] = ctor
	r.names[t] = name
	return nil
}

// MustRegister is like Register but panics on error. Intended for
// package-level registration of built-in node types.
func (r *Registry) MustRegister(t NodeType, name string, ctor Constructor) {
	if err := r.Register(t, name, ctor); err != nil {
		panic(err)
	}
}

// Lookup returns the constructor for t.
func (r *Registry) Lookup(t NodeType) (Constructor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.ctors[t]
	return c, ok
}

// Name returns the registered name of t, or "" if t is unknown.
func (r *Registry) Name(t NodeType) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.names[t]
}

// TypeByName returns the node type registered under name.
func (r *Registry) TypeByName(name string) (NodeType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for t, n := range r.names {
		if n == name {
			return t, true
		}
	}
	return 0, false
}

// Types returns all registered node types in ascending order.
func (r *Registry) Types() []NodeType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.ctors))
}
