package scheduler

import "container/heap"

// scheduleHeap implements container/heap.Interface for armed items,
// sorted by ScheduledAt (earliest first), ties broken by id.
type scheduleHeap []*ScheduledItem

func (h scheduleHeap) Len() int { return len(h) }
func (h scheduleHeap) Less(i, j int) bool {
	if h[i].ScheduledAt.Equal(h[j].ScheduledAt) {
		return h[i].ID < h[j].ID
	}
	return h[i].ScheduledAt.Before(h[j].ScheduledAt)
}
func (h scheduleHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *scheduleHeap) Push(x any) {
	*h = append(*h, x.(*ScheduledItem))
}

func (h *scheduleHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return x
}

// heapPush adds an item to the heap, maintaining the heap invariant.
func heapPush(h *scheduleHeap, it *ScheduledItem) {
	heap.Push(h, it)
}

// heapPop removes and returns the item with the earliest ScheduledAt.
// Panics if the heap is empty.
func heapPop(h *scheduleHeap) *ScheduledItem {
	return heap.Pop(h).(*ScheduledItem)
}

// heapRemoveByID removes the item with the given id.
// Returns true if the item was found and removed.
func heapRemoveByID(h *scheduleHeap, id string) bool {
	for i, it := range *h {
		if it.ID == id {
			heap.Remove(h, i)
			return true
		}
	}
	return false
}
