package ir

import (
	"fmt"
	"sort"
	"strings"
)

// arena.go implements the Arena + Value-Numbering Table component (spec.md
// §4.1): hash-consed storage of pure data nodes, each unique idealized node
// stored exactly once behind a stable, dense integer id.
//
// Tagged variants over subclassing (spec.md §9 Design Notes): Node is a
// tagged union keyed by Kind rather than a type hierarchy; NodeID is a thin
// wrapper around a dense int that documents "this is expected to name a
// pure node", checked by Arena.Get on access.

// NodeID is a stable identifier for an interned pure node. Ids are dense
// small integers assigned in creation order and are never reused or
// deleted (spec.md §3 invariant 4): the arena only grows for the lifetime
// of a compilation.
type NodeID int

// Invalid is the sentinel NodeID for "no node". It is -1 rather than the
// zero value, since NodeID(0) names the first interned node.
const Invalid NodeID = -1

// NoBlock is the sentinel BlockID used where no enclosing block applies
// (e.g. rendering a Loop/If condition, which isn't itself a Delta entry of
// any particular block).
const NoBlock BlockID = -1

// Kind tags the variant of a pure Node.
type Kind int

const (
	KConst Kind = iota
	KCopy
	KInput
	KAdd
	KMul
	KIsZero
	KIsNonZero
	KIsEven
	KTrue
	KFalse
)

func (k Kind) String() string {
	switch k {
	case KConst:
		return "Const"
	case KCopy:
		return "Copy"
	case KInput:
		return "Input"
	case KAdd:
		return "Add"
	case KMul:
		return "Mul"
	case KIsZero:
		return "IsZero"
	case KIsNonZero:
		return "IsNonZero"
	case KIsEven:
		return "IsEven"
	case KTrue:
		return "True"
	case KFalse:
		return "False"
	default:
		return "?"
	}
}

// Node is the immutable record for one interned pure node. Only the fields
// relevant to its Kind are meaningful. There are no Kind-specific
// accessors: call sites switch on Kind and read the relevant fields
// directly, and Arena.Get checks only that an id is in range.
type Node struct {
	Kind     Kind
	Children []NodeID // operands, for KAdd/KMul/KIsZero/KIsNonZero/KIsEven (len 1)
	Const    byte      // for KConst
	Offset   int       // for KCopy
	Block    BlockID   // for KCopy
	Input    int       // for KInput
}

// Arena owns every pure node created during a compilation and the
// value-numbering table that deduplicates them. The e-graph variant
// described in spec.md §4.1 additionally groups ids into equivalence
// classes; this repo ships the tree variant (see DESIGN.md for why), but
// keeps a minimal, insert-only Eclasses map purely for introspection so a
// debug dump can show which nodes a pass judged equivalent without ever
// using it to pick a canonical id — hash-consing already guarantees that.
type Arena struct {
	nodes       []Node
	table       map[string]NodeID
	Eclasses    map[NodeID]NodeID
	nextBlockID BlockID
}

// NewBlockID mints a fresh, never-reused BlockID. The Builder uses it to
// seed each Block it opens; rewrite passes use it when they synthesize a
// brand-new effectful region (the closed-form pass's guarded Then block,
// the peeling pass's residual loop bodies, compose.go's composite block)
// that was never part of the original token stream.
func (a *Arena) NewBlockID() BlockID {
	id := a.nextBlockID
	a.nextBlockID++
	return id
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{
		table:    make(map[string]NodeID),
		Eclasses: make(map[NodeID]NodeID),
	}
}

// Get returns the node record for id. It panics on an out-of-range id,
// since a NodeID from this arena should always be valid by construction —
// a bad id means a pass bug, which spec.md §7 wants loud, not silent.
func (a *Arena) Get(id NodeID) Node {
	if int(id) < 0 || int(id) >= len(a.nodes) {
		panic(fmt.Sprintf("ir: invalid NodeID %d", id))
	}
	return a.nodes[id]
}

// Len reports how many distinct pure nodes have been interned so far.
func (a *Arena) Len() int { return len(a.nodes) }

// key builds the hash-consing key for (kind, canonicalized children, extra
// fields). Canonicalization (sorting/flattening) must already have happened
// by the time intern is called; intern only deduplicates.
func (a *Arena) key(kind Kind, children []NodeID, c byte, offset int, block BlockID, input int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d|%d|%d|%d|%d|", kind, c, offset, block, input)
	for i, ch := range children {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%d", ch)
	}
	return b.String()
}

// intern returns the stable id for (kind, children, ...), hash-consing so
// two structurally equal idealized nodes always return the same id (spec.md
// §3: "Two structurally equal idealized nodes must return the same
// identifier. This is global value numbering.").
func (a *Arena) intern(kind Kind, children []NodeID, c byte, offset int, block BlockID, input int) NodeID {
	k := a.key(kind, children, c, offset, block, input)
	if id, ok := a.table[k]; ok {
		return id
	}
	id := NodeID(len(a.nodes))
	a.nodes = append(a.nodes, Node{
		Kind: kind, Children: children, Const: c, Offset: offset, Block: block, Input: input,
	})
	a.table[k] = id
	return id
}

// recordEquivalence notes, for introspection only, that a pass judged `from`
// and `to` to compute the same value. It never changes which id call sites
// hold — see the Arena doc comment.
func (a *Arena) recordEquivalence(from, to NodeID) {
	if from == to {
		return
	}
	if _, ok := a.Eclasses[from]; !ok {
		a.Eclasses[from] = to
	}
}

func sortIDs(ids []NodeID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
