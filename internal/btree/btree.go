// Package btree implements an in-memory B-tree of minimum degree t.
//
// Every node except the root holds between t-1 and 2t-1 keys, all leaves
// sit at the same depth and keys are kept in ascending order. Lookups use
// binary search inside a node; the number of key comparisons is counted so
// callers can report the cost of a search.
//
// A Tree is not safe for concurrent use.
package btree

import (
	"cmp"
	"errors"
	"fmt"
)

// MinDegree is the smallest allowed minimum degree.
const MinDegree = 2

// ErrDegree is returned by New for a degree below MinDegree.
var ErrDegree = errors.New("btree: degree must be at least 2")

type item[K cmp.Ordered, V any] struct {
	key   K
	value V
}

type node[K cmp.Ordered, V any] struct {
	items    []item[K, V]
	children []*node[K, V]
}

func (n *node[K, V]) leaf() bool {
	return len(n.children) == 0
}

// Tree is a B-tree mapping ordered keys to values.
type Tree[K cmp.Ordered, V any] struct {
	t           int
	root        *node[K, V]
	length      int
	comparisons int
}

// New creates an empty tree of minimum degree t.
func New[K cmp.Ordered, V any](t int) (*Tree[K, V], error) {
	if t < MinDegree {
		return nil, fmt.Errorf("%w: got %d", ErrDegree, t)
	}
	return &Tree[K, V]{t: t, root: &node[K, V]{}}, nil
}

// Degree returns the minimum degree.
func (tr *Tree[K, V]) Degree() int {
	return tr.t
}

// Len returns the number of keys.
func (tr *Tree[K, V]) Len() int {
	return tr.length
}

// Comparisons returns the number of key comparisons since the last call
// and resets the counter.
func (tr *Tree[K, V]) Comparisons() int {
	c := tr.comparisons
	tr.comparisons = 0
	return c
}

// search binary-searches n for key. It returns the index of the key when
// found, otherwise the index of the child to descend into.
func (tr *Tree[K, V]) search(n *node[K, V], key K) (int, bool) {
	lo, hi := 0, len(n.items)-1
	for lo <= hi {
		mid := int(uint(lo+hi) >> 1)
		tr.comparisons++
		switch c := cmp.Compare(key, n.items[mid].key); {
		case c == 0:
			return mid, true
		case c < 0:
			hi = mid - 1
		default:
			lo = mid + 1
		}
	}
	return lo, false
}

// Get returns the value stored under key.
func (tr *Tree[K, V]) Get(key K) (V, bool) {
	n := tr.root
	for {
		i, found := tr.search(n, key)
		if found {
			return n.items[i].value, true
		}
		if n.leaf() {
			var zero V
			return zero, false
		}
		n = n.children[i]
	}
}

// Has reports whether key is present.
func (tr *Tree[K, V]) Has(key K) bool {
	_, ok := tr.Get(key)
	return ok
}

// Put stores value under key. If the key was already present its old
// value is returned along with true.
func (tr *Tree[K, V]) Put(key K, value V) (V, bool) {
	if old, replaced := tr.replace(key, value); replaced {
		return old, true
	}

	r := tr.root
	if len(r.items) == 2*tr.t-1 {
		s := &node[K, V]{children: []*node[K, V]{r}}
		tr.root = s
		tr.splitChild(s, 0)
	}
	tr.insertNonFull(tr.root, item[K, V]{key: key, value: value})
	tr.length++

	var zero V
	return zero, false
}

func (tr *Tree[K, V]) replace(key K, value V) (V, bool) {
	n := tr.root
	for {
		i, found := tr.search(n, key)
		if found {
			old := n.items[i].value
			n.items[i].value = value
			return old, true
		}
		if n.leaf() {
			var zero V
			return zero, false
		}
		n = n.children[i]
	}
}

// splitChild splits the full child x.children[i] around its median.
func (tr *Tree[K, V]) splitChild(x *node[K, V], i int) {
	t := tr.t
	y := x.children[i]
	z := &node[K, V]{}

	median := y.items[t-1]
	z.items = append(z.items, y.items[t:]...)
	y.items = y.items[:t-1:t-1]
	if !y.leaf() {
		z.children = append(z.children, y.children[t:]...)
		y.children = y.children[:t:t]
	}

	x.children = append(x.children, nil)
	copy(x.children[i+2:], x.children[i+1:])
	x.children[i+1] = z

	x.items = append(x.items, item[K, V]{})
	copy(x.items[i+1:], x.items[i:])
	x.items[i] = median
}

func (tr *Tree[K, V]) insertNonFull(x *node[K, V], it item[K, V]) {
	for {
		i, _ := tr.search(x, it.key)
		if x.leaf() {
			x.items = append(x.items, item[K, V]{})
			copy(x.items[i+1:], x.items[i:])
			x.items[i] = it
			return
		}
		if len(x.children[i].items) == 2*tr.t-1 {
			tr.splitChild(x, i)
			tr.comparisons++
			if it.key > x.items[i].key {
				i++
			}
		}
		x = x.children[i]
	}
}

// Delete removes key and returns its value.
func (tr *Tree[K, V]) Delete(key K) (V, bool) {
	v, ok := tr.delete(tr.root, key)
	if len(tr.root.items) == 0 && !tr.root.leaf() {
		tr.root = tr.root.children[0]
	}
	if ok {
		tr.length--
	}
	return v, ok
}

func (tr *Tree[K, V]) delete(x *node[K, V], key K) (V, bool) {
	var zero V
	t := tr.t

	for {
		i, found := tr.search(x, key)

		if x.leaf() {
			if !found {
				return zero, false
			}
			v := x.items[i].value
			x.items = append(x.items[:i], x.items[i+1:]...)
			return v, true
		}

		if !found {
			x = tr.ensureChild(x, i)
			continue
		}

		left, right := x.children[i], x.children[i+1]
		switch {
		case len(left.items) >= t:
			v := x.items[i].value
			x.items[i] = tr.popMax(left)
			return v, true
		case len(right.items) >= t:
			v := x.items[i].value
			x.items[i] = tr.popMin(right)
			return v, true
		default:
			// both children minimal: pull the key down and keep going
			tr.merge(x, i)
			x = left
		}
	}
}

func insertItem[K cmp.Ordered, V any](items []item[K, V], i int, it item[K, V]) []item[K, V] {
	items = append(items, item[K, V]{})
	copy(items[i+1:], items[i:])
	items[i] = it
	return items
}

// popMax removes and returns the largest item in the subtree at x,
// keeping every node on the path at t keys or more.
func (tr *Tree[K, V]) popMax(x *node[K, V]) item[K, V] {
	for !x.leaf() {
		x = tr.ensureChild(x, len(x.children)-1)
	}
	it := x.items[len(x.items)-1]
	x.items = x.items[:len(x.items)-1]
	return it
}

// popMin removes and returns the smallest item in the subtree at x.
func (tr *Tree[K, V]) popMin(x *node[K, V]) item[K, V] {
	for !x.leaf() {
		x = tr.ensureChild(x, 0)
	}
	it := x.items[0]
	x.items = append(x.items[:0], x.items[1:]...)
	return it
}

// ensureChild makes sure x.children[i] holds at least t keys before the
// descent, borrowing from a sibling or merging with one. It returns the
// child to descend into.
func (tr *Tree[K, V]) ensureChild(x *node[K, V], i int) *node[K, V] {
	t := tr.t
	c := x.children[i]
	if len(c.items) >= t {
		return c
	}

	if i > 0 && len(x.children[i-1].items) >= t {
		left := x.children[i-1]
		c.items = insertItem(c.items, 0, x.items[i-1])
		x.items[i-1] = left.items[len(left.items)-1]
		left.items = left.items[:len(left.items)-1]
		if !left.leaf() {
			last := left.children[len(left.children)-1]
			left.children = left.children[:len(left.children)-1]
			c.children = append([]*node[K, V]{last}, c.children...)
		}
		return c
	}

	if i < len(x.children)-1 && len(x.children[i+1].items) >= t {
		right := x.children[i+1]
		c.items = append(c.items, x.items[i])
		x.items[i] = right.items[0]
		right.items = append(right.items[:0], right.items[1:]...)
		if !right.leaf() {
			first := right.children[0]
			right.children = append(right.children[:0], right.children[1:]...)
			c.children = append(c.children, first)
		}
		return c
	}

	if i < len(x.children)-1 {
		tr.merge(x, i)
		return c
	}
	tr.merge(x, i-1)
	return x.children[i-1]
}

// merge folds x.items[i] and x.children[i+1] into x.children[i].
func (tr *Tree[K, V]) merge(x *node[K, V], i int) {
	left, right := x.children[i], x.children[i+1]
	left.items = append(left.items, x.items[i])
	left.items = append(left.items, right.items...)
	left.children = append(left.children, right.children...)

	x.items = append(x.items[:i], x.items[i+1:]...)
	x.children = append(x.children[:i+1], x.children[i+2:]...)
}

// Min returns the smallest key and its value.
func (tr *Tree[K, V]) Min() (K, V, bool) {
	var (
		zk K
		zv V
	)
	if tr.length == 0 {
		return zk, zv, false
	}
	n := tr.root
	for !n.leaf() {
		n = n.children[0]
	}
	return n.items[0].key, n.items[0].value, true
}

// Max returns the largest key and its value.
func (tr *Tree[K, V]) Max() (K, V, bool) {
	var (
		zk K
		zv V
	)
	if tr.length == 0 {
		return zk, zv, false
	}
	n := tr.root
	for !n.leaf() {
		n = n.children[len(n.children)-1]
	}
	it := n.items[len(n.items)-1]
	return it.key, it.value, true
}

// Ascend calls fn for every key in ascending order until fn returns false.
func (tr *Tree[K, V]) Ascend(fn func(key K, value V) bool) {
	ascend(tr.root, fn)
}

func ascend[K cmp.Ordered, V any](n *node[K, V], fn func(K, V) bool) bool {
	for i, it := range n.items {
		if !n.leaf() && !ascend(n.children[i], fn) {
			return false
		}
		if !fn(it.key, it.value) {
			return false
		}
	}
	if !n.leaf() {
		return ascend(n.children[len(n.children)-1], fn)
	}
	return true
}

// Page returns the values of page index (zero-based) when the keys are
// split into pages of size n.
func (tr *Tree[K, V]) Page(index, size int) []V {
	if index < 0 || size <= 0 {
		return nil
	}
	skip := index * size
	if skip >= tr.length {
		return nil
	}
	out := make([]V, 0, min(size, tr.length-skip))
	pos := 0
	tr.Ascend(func(_ K, v V) bool {
		if pos >= skip {
			out = append(out, v)
		}
		pos++
		return len(out) < size
	})
	return out
}

// Height returns the number of levels; an empty tree has height 0.
func (tr *Tree[K, V]) Height() int {
	if tr.length == 0 {
		return 0
	}
	h := 1
	for n := tr.root; !n.leaf(); n = n.children[0] {
		h++
	}
	return h
}

// Clear removes every key.
func (tr *Tree[K, V]) Clear() {
	tr.root = &node[K, V]{}
	tr.length = 0
}

// Lookup is Get that also returns the number of key comparisons the
// search made, independent of the running counter.
func (tr *Tree[K, V]) Lookup(key K) (V, int, bool) {
	saved := tr.comparisons
	tr.comparisons = 0
	v, ok := tr.Get(key)
	n := tr.comparisons
	tr.comparisons = saved + n
	return v, n, ok
}

// Check verifies the structural invariants of the tree.
func (tr *Tree[K, V]) Check() error {
	leafDepth := -1
	count := 0
	var walk func(n *node[K, V], depth int, lo, hi *K) error
	walk = func(n *node[K, V], depth int, lo, hi *K) error {
		if n != tr.root && (len(n.items) < tr.t-1 || len(n.items) > 2*tr.t-1) {
			return fmt.Errorf("btree: node at depth %d has %d keys", depth, len(n.items))
		}
		if n == tr.root && len(n.items) > 2*tr.t-1 {
			return fmt.Errorf("btree: root has %d keys", len(n.items))
		}
		for i, it := range n.items {
			if i > 0 && n.items[i-1].key >= it.key {
				return fmt.Errorf("btree: keys out of order at depth %d", depth)
			}
			if (lo != nil && it.key <= *lo) || (hi != nil && it.key >= *hi) {
				return fmt.Errorf("btree: key outside parent bounds at depth %d", depth)
			}
		}
		count += len(n.items)
		if n.leaf() {
			if leafDepth == -1 {
				leafDepth = depth
			} else if leafDepth != depth {
				return fmt.Errorf("btree: leaves at depths %d and %d", leafDepth, depth)
			}
			return nil
		}
		if len(n.children) != len(n.items)+1 {
			return fmt.Errorf("btree: node with %d keys has %d children", len(n.items), len(n.children))
		}
		for i, c := range n.children {
			clo, chi := lo, hi
			if i > 0 {
				clo = &n.items[i-1].key
			}
			if i < len(n.items) {
				chi = &n.items[i].key
			}
			if err := walk(c, depth+1, clo, chi); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(tr.root, 0, nil, nil); err != nil {
		return err
	}
	if count != tr.length {
		return fmt.Errorf("btree: counted %d keys, length is %d", count, tr.length)
	}
	return nil
}
