// Package pqueue is a small min-priority queue over container/heap, used
// wherever a generator or solver needs to pop the best of several candidate
// next steps instead of scanning a slice; pkg/bridges' island planting is
// its one caller. The heap.Interface plumbing (index-tracking Swap,
// Push/Pop on a pointer receiver) is built for single-goroutine callers:
// nothing in this module runs a generator or solver across multiple
// goroutines, so the queue carries no mutex or condition variable.
package pqueue

import "container/heap"

// Item is one entry: Priority orders the heap (lower pops first), Value is
// caller-defined payload carried alongside it.
type Item struct {
	Priority int
	Value    interface{}

	index int
}

type innerHeap []*Item

func (h innerHeap) Len() int            { return len(h) }
func (h innerHeap) Less(i, j int) bool  { return h[i].Priority < h[j].Priority }
func (h innerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *innerHeap) Push(x interface{}) {
	item := x.(*Item)
	item.index = len(*h)
	*h = append(*h, item)
}

func (h *innerHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*h = old[:n-1]
	return item
}

// Queue is a min-priority queue of Items. The zero value is ready to use.
type Queue struct {
	h innerHeap
}

// Push adds value at the given priority.
func (q *Queue) Push(priority int, value interface{}) {
	heap.Push(&q.h, &Item{Priority: priority, Value: value})
}

// Pop removes and returns the lowest-priority item's value. ok is false if
// the queue is empty.
func (q *Queue) Pop() (value interface{}, ok bool) {
	if len(q.h) == 0 {
		return nil, false
	}
	item := heap.Pop(&q.h).(*Item)
	return item.Value, true
}

// Len reports how many items remain.
func (q *Queue) Len() int { return len(q.h) }
