package ir

// Linkable is implemented by every value that can be a member of a List:
// Instruction (owned by a BasicBlock). A Function keeps its blocks in a
// plain slice, so *BasicBlock is not Linkable. Embedding a Node and exposing it through linkNode is the Go
// stand-in for the original's ListNode base class — there is no single
// concrete "node" type to allocate, so each embedder supplies its own
// storage and the list operates purely through the interface.
type Linkable interface {
	linkNode() *Node
}

// Node is the intrusive prev/next pair. Embed it (by value) in any type
// that implements Linkable.
type Node struct {
	prev, next Linkable
}

// List is an intrusive doubly-linked list with a sentinel node, giving
// O(1) insertion, removal, and removal-safe iteration — ported from
// support/List.hh. The sentinel is a real Linkable so Next/Prev never
// need a nil check at the ends; End() is the sentinel itself.
type List struct {
	sentinel Linkable
}

type sentinelNode struct {
	Node
}

func (s *sentinelNode) linkNode() *Node { return &s.Node }

// NewList returns an empty list.
func NewList() *List {
	s := &sentinelNode{}
	s.prev = s
	s.next = s
	return &List{sentinel: s}
}

// End returns the list's sentinel value. It is never a real element;
// iteration stops when it is reached.
func (l *List) End() Linkable { return l.sentinel }

// Front returns the first element, or End() if the list is empty.
func (l *List) Front() Linkable { return l.sentinel.linkNode().next }

// Back returns the last element, or End() if the list is empty.
func (l *List) Back() Linkable { return l.sentinel.linkNode().prev }

// Empty reports whether the list has no elements.
func (l *List) Empty() bool { return l.Front() == l.End() }

// Len walks the list counting elements. O(n), matching the original's
// std::distance(begin(), end()).
func (l *List) Len() int {
	n := 0
	for e := l.Front(); e != l.End(); e = Next(e) {
		n++
	}
	return n
}

// PushBack appends elem to the end of the list.
func (l *List) PushBack(elem Linkable) {
	l.InsertBefore(l.sentinel, elem)
}

// InsertBefore splices elem in immediately before mark. mark may be
// l.End() to append.
func (l *List) InsertBefore(mark, elem Linkable) {
	markNode := mark.linkNode()
	elemNode := elem.linkNode()
	prev := markNode.prev

	elemNode.prev = prev
	elemNode.next = mark
	markNode.prev = elem
	prev.linkNode().next = elem
}

// Remove unlinks elem from the list. elem's own prev/next are left
// pointing at its former neighbours (as in the original) rather than
// cleared, since no caller inspects them post-removal.
func (l *List) Remove(elem Linkable) {
	n := elem.linkNode()
	prev, next := n.prev, n.next
	next.linkNode().prev = prev
	prev.linkNode().next = next
}

// Next returns the element following e (which may be l.End()).
func Next(e Linkable) Linkable { return e.linkNode().next }

// Prev returns the element preceding e (which may be l.End()).
func Prev(e Linkable) Linkable { return e.linkNode().prev }
