package room

import (
	"sync"

	"go.uber.org/zap"

	"github.com/amol1000/chat-server/internal/metrics"
)

// trieChildren is the fan-out of one trie node: one slot per possible
// byte value, mirroring utils.c's 128-way TrieNode (room names are
// ASCII, ≤ 20 bytes, so a byte-indexed trie never needs more than 256
// slots; 256 rather than 128 costs nothing and avoids masking non-ASCII
// bytes the protocol layer happens to let through).
const trieChildren = 256

type trieNode struct {
	children [trieChildren]*trieNode
	room     *Room
}

// Directory is the name -> room mapping. Lookup, get-or-create, and
// removal-on-empty are all serialized by mu (spec.md's "directory-D").
// The reference implementation keys it with a 128-way trie; this keeps
// the same structure (spec.md §9, "Trie as keyed directory") rather
// than substituting a plain map, since the corpus's closest analog
// (original_source/utils.c) is itself trie-based and the spec pins the
// trie's contract, not its presence.
type Directory struct {
	mu   sync.Mutex
	root *trieNode

	logger  *zap.Logger
	metrics *metrics.Registry
}

// NewDirectory constructs an empty directory. logger and reg may be
// nil (tests exercise the directory without either).
func NewDirectory(logger *zap.Logger, reg *metrics.Registry) *Directory {
	return &Directory{
		root:    &trieNode{},
		logger:  logger,
		metrics: reg,
	}
}

// Lookup returns the room mapped to name, if any, without creating it.
func (d *Directory) Lookup(name string) (*Room, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	node := d.walk(name)
	if node == nil || node.room == nil {
		return nil, false
	}
	return node.room, true
}

// GetOrCreate returns the existing room for name or allocates, inserts,
// and returns a new one. Atomic with respect to every other
// GetOrCreate/ReleaseIfEmpty call: two concurrent callers for the same
// name always observe the same *Room.
func (d *Directory) GetOrCreate(name string) *Room {
	d.mu.Lock()
	defer d.mu.Unlock()

	node := d.root
	for i := 0; i < len(name); i++ {
		b := name[i]
		if node.children[b] == nil {
			node.children[b] = &trieNode{}
		}
		node = node.children[b]
	}

	if node.room == nil {
		node.room = newRoom(name, d.logger, d.metrics)
		if d.metrics != nil {
			d.metrics.RoomsActive.Inc()
		}
	}
	return node.room
}

// ReleaseIfEmpty unmaps name from the directory if, and only if, room
// still has zero members. It acquires the directory lock and then the
// room lock — the only legal order per spec.md §4.5 — and rechecks
// emptiness under both locks, so a member that joined in the interval
// between the caller's own Room.Remove and this call keeps the room
// alive. Returns true if the room was unmapped.
func (d *Directory) ReleaseIfEmpty(name string, target *Room) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	target.mu.Lock()
	defer target.mu.Unlock()

	if target.members.len() != 0 {
		return false
	}

	path := d.pathTo(name)
	if path == nil {
		return false
	}
	terminal := path[len(path)-1].node
	if terminal.room != target {
		// Name was already remapped to a different room (e.g. by a
		// GetOrCreate racing in after a prior delete); nothing to do.
		return false
	}
	terminal.room = nil
	d.prune(path)

	if d.metrics != nil {
		d.metrics.RoomsActive.Dec()
	}
	return true
}

type pathStep struct {
	node *trieNode
	b    byte
}

// pathTo returns the sequence of trie nodes visited while walking to
// name, root included as the first step's node with no meaningful b,
// or nil if the path does not fully exist.
func (d *Directory) pathTo(name string) []pathStep {
	steps := make([]pathStep, 0, len(name)+1)
	node := d.root
	steps = append(steps, pathStep{node: node})
	for i := 0; i < len(name); i++ {
		b := name[i]
		next := node.children[b]
		if next == nil {
			return nil
		}
		steps = append(steps, pathStep{node: next, b: b})
		node = next
	}
	return steps
}

func (d *Directory) walk(name string) *trieNode {
	node := d.root
	for i := 0; i < len(name); i++ {
		node = node.children[name[i]]
		if node == nil {
			return nil
		}
	}
	return node
}

// prune removes trailing nodes along path that carry no room and no
// children, stopping at the first still-branching or still-occupied
// ancestor, per spec.md §9's pruning rule. path[0] is the root and is
// never removed.
func (d *Directory) prune(path []pathStep) {
	for i := len(path) - 1; i > 0; i-- {
		node := path[i].node
		if node.room != nil || hasChild(node) {
			return
		}
		parent := path[i-1].node
		parent.children[path[i].b] = nil
	}
}

func hasChild(n *trieNode) bool {
	for _, c := range n.children {
		if c != nil {
			return true
		}
	}
	return false
}
