// Package btree implements the in-memory B+-tree primary-key index: an
// ordered map from value.Value keys to value.Row values, with
// size-driven leaf splits and count-driven internal splits.
//
// Nodes live in an arena (BTree.arena) and are referenced by stable
// integer ids rather than pointers, so a split never has to juggle
// shared ownership between the old node and its new sibling the way a
// pointer graph would.
package btree

import (
	"fmt"

	"github.com/smythg4/godb/internal/codec"
	"github.com/smythg4/godb/internal/dberr"
	"github.com/smythg4/godb/internal/value"
)

type nodeID int

const nilNode nodeID = -1

type leafNode struct {
	keys []value.Value
	rows []value.Row
	next nodeID
}

// internalEntry is one (separator_key, left_child, right_child) triple.
// Adjacent entries share a subtree: entries[i].Right == entries[i+1].Left.
type internalEntry struct {
	Key   value.Value
	Left  nodeID
	Right nodeID
}

type internalNode struct {
	entries []internalEntry
}

type node struct {
	leaf     *leafNode
	internal *internalNode
}

func (n *node) isLeaf() bool { return n.leaf != nil }

// BTree is an ordered, in-memory index keyed by value.Value. degree bounds
// internal-node fan-out (count-driven); pageByteSize bounds a leaf's
// codec-encoded size (size-driven) — the two splits are independent.
type BTree struct {
	codec        codec.Codec
	pageByteSize int
	degree       int
	arena        []*node
	root         nodeID
}

// New constructs an empty tree with a single empty leaf as its root.
// degree must be at least 3 so an internal split always leaves both
// halves non-empty.
func New(c codec.Codec, pageByteSize, degree int) *BTree {
	t := &BTree{codec: c, pageByteSize: pageByteSize, degree: degree}
	t.root = t.newLeaf()
	return t
}

func (t *BTree) newLeaf() nodeID {
	t.arena = append(t.arena, &node{leaf: &leafNode{next: nilNode}})
	return nodeID(len(t.arena) - 1)
}

func (t *BTree) newInternal() nodeID {
	t.arena = append(t.arena, &node{internal: &internalNode{}})
	return nodeID(len(t.arena) - 1)
}

func (t *BTree) at(id nodeID) *node { return t.arena[id] }

// Insert places key/value.Row into the tree. It fails with a
// dberr.DuplicateKey error if key is already present; no partial mutation
// is visible to callers in that case.
func (t *BTree) Insert(key value.Value, row value.Row) error {
	splitID, promoted, err := t.insert(t.root, key, row)
	if err != nil {
		return err
	}
	if splitID == nilNode {
		return nil
	}
	newRootID := t.newInternal()
	t.at(newRootID).internal.entries = append(t.at(newRootID).internal.entries, internalEntry{
		Key: promoted, Left: t.root, Right: splitID,
	})
	t.root = newRootID
	return nil
}

// insert recurses to the owning leaf and returns (newSiblingID, promotedKey)
// when the recursion caused a split at this level, or (nilNode, _) otherwise.
func (t *BTree) insert(id nodeID, key value.Value, row value.Row) (nodeID, value.Value, error) {
	n := t.at(id)
	if n.isLeaf() {
		return t.insertLeaf(n.leaf, key, row)
	}
	return t.insertInternal(n.internal, key, row)
}

func (t *BTree) insertLeaf(l *leafNode, key value.Value, row value.Row) (nodeID, value.Value, error) {
	pos, found, err := searchLeaf(l, key)
	if err != nil {
		return nilNode, value.Value{}, err
	}
	if found {
		return nilNode, value.Value{}, dberr.New(dberr.DuplicateKey, fmt.Sprintf("duplicate entry: %v", key))
	}

	l.keys = append(l.keys, value.Value{})
	copy(l.keys[pos+1:], l.keys[pos:])
	l.keys[pos] = key

	l.rows = append(l.rows, nil)
	copy(l.rows[pos+1:], l.rows[pos:])
	l.rows[pos] = row

	size, err := t.leafSize(l)
	if err != nil {
		return nilNode, value.Value{}, err
	}
	if size < t.pageByteSize {
		return nilNode, value.Value{}, nil
	}

	mid := len(l.keys) / 2
	siblingID := t.newLeaf()
	sibling := t.at(siblingID).leaf
	sibling.keys = append(sibling.keys, l.keys[mid:]...)
	sibling.rows = append(sibling.rows, l.rows[mid:]...)
	sibling.next = l.next

	l.keys = l.keys[:mid]
	l.rows = l.rows[:mid]
	l.next = siblingID

	return siblingID, sibling.keys[0], nil
}

func (t *BTree) leafSize(l *leafNode) (int, error) {
	total := 0
	for i := range l.keys {
		sz, err := t.codec.EntrySize(l.keys[i], l.rows[i])
		if err != nil {
			return 0, err
		}
		total += sz
	}
	return total, nil
}

func searchLeaf(l *leafNode, key value.Value) (pos int, found bool, err error) {
	lo, hi := 0, len(l.keys)
	for lo < hi {
		mid := (lo + hi) / 2
		cmp, cerr := key.Compare(l.keys[mid])
		if cerr != nil {
			return 0, false, cerr
		}
		switch {
		case cmp == 0:
			return mid, true, nil
		case cmp < 0:
			hi = mid
		default:
			lo = mid + 1
		}
	}
	return lo, false, nil
}

func (t *BTree) insertInternal(in *internalNode, key value.Value, row value.Row) (nodeID, value.Value, error) {
	pos, found, err := searchInternal(in, key)
	if err != nil {
		return nilNode, value.Value{}, err
	}
	if found {
		return nilNode, value.Value{}, dberr.New(dberr.DuplicateKey, fmt.Sprintf("duplicate entry: %v", key))
	}

	var childID nodeID
	var insertAt int
	if pos == len(in.entries) {
		childID = in.entries[len(in.entries)-1].Right
		insertAt = len(in.entries)
	} else {
		cmp, cerr := key.Compare(in.entries[pos].Key)
		if cerr != nil {
			return nilNode, value.Value{}, cerr
		}
		if cmp < 0 {
			childID = in.entries[pos].Left
			insertAt = pos
		} else {
			childID = in.entries[pos].Right
			insertAt = pos + 1
		}
	}

	splitChild, promoted, err := t.insert(childID, key, row)
	if err != nil {
		return nilNode, value.Value{}, err
	}
	if splitChild == nilNode {
		return nilNode, value.Value{}, nil
	}

	newEntry := internalEntry{Key: promoted, Left: childID, Right: splitChild}
	in.entries = append(in.entries, internalEntry{})
	copy(in.entries[insertAt+1:], in.entries[insertAt:])
	in.entries[insertAt] = newEntry

	// Repair adjacency: the entries flanking the new one must still
	// share subtrees with it on each side.
	if insertAt > 0 {
		in.entries[insertAt-1].Right = in.entries[insertAt].Left
	}
	if insertAt+1 < len(in.entries) {
		in.entries[insertAt+1].Left = in.entries[insertAt].Right
	}

	if len(in.entries) < t.degree {
		return nilNode, value.Value{}, nil
	}

	mid := len(in.entries) / 2
	promotedKey := in.entries[mid].Key
	siblingID := t.newInternal()
	sibling := t.at(siblingID).internal
	sibling.entries = append(sibling.entries, in.entries[mid+1:]...)
	in.entries = in.entries[:mid]

	return siblingID, promotedKey, nil
}

func searchInternal(in *internalNode, key value.Value) (pos int, found bool, err error) {
	lo, hi := 0, len(in.entries)
	for lo < hi {
		mid := (lo + hi) / 2
		cmp, cerr := key.Compare(in.entries[mid].Key)
		if cerr != nil {
			return 0, false, cerr
		}
		switch {
		case cmp == 0:
			return mid, true, nil
		case cmp < 0:
			hi = mid
		default:
			lo = mid + 1
		}
	}
	return lo, false, nil
}

// Contains reports whether key is already present, without mutating the
// tree. Callers that need to keep a physical insert and the index in sync
// (so a rejected duplicate leaves no trace anywhere) should check this
// before performing the physical write, then call Insert once they know
// it will succeed.
func (t *BTree) Contains(key value.Value) (bool, error) {
	id := t.root
	for {
		n := t.at(id)
		if n.isLeaf() {
			_, found, err := searchLeaf(n.leaf, key)
			return found, err
		}
		pos, found, err := searchInternal(n.internal, key)
		if err != nil {
			return false, err
		}
		if found {
			return true, nil
		}
		if pos == len(n.internal.entries) {
			id = n.internal.entries[len(n.internal.entries)-1].Right
			continue
		}
		cmp, err := key.Compare(n.internal.entries[pos].Key)
		if err != nil {
			return false, err
		}
		if cmp < 0 {
			id = n.internal.entries[pos].Left
		} else {
			id = n.internal.entries[pos].Right
		}
	}
}

// Iter returns a lazy, single-pass, ascending-key-order channel of rows.
func (t *BTree) Iter() <-chan value.Row {
	ch := make(chan value.Row)
	go func() {
		defer close(ch)
		id := t.leftmostLeaf()
		for id != nilNode {
			l := t.at(id).leaf
			for _, r := range l.rows {
				ch <- r
			}
			id = l.next
		}
	}()
	return ch
}

func (t *BTree) leftmostLeaf() nodeID {
	id := t.root
	for {
		n := t.at(id)
		if n.isLeaf() {
			return id
		}
		id = n.internal.entries[0].Left
	}
}

// Keys returns a depth-first traversal of every separator and leaf key in
// the tree, duplicates included. It exists only to let tests assert on
// tree shape after a split.
func (t *BTree) Keys() []value.Value {
	var out []value.Value
	var walk func(id nodeID)
	walk = func(id nodeID) {
		n := t.at(id)
		if n.isLeaf() {
			out = append(out, n.leaf.keys...)
			return
		}
		for i, e := range n.internal.entries {
			if i == 0 {
				walk(e.Left)
			}
			out = append(out, e.Key)
			walk(e.Right)
		}
	}
	walk(t.root)
	return out
}
