// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package pool

import (
	"sync"
)

// workItem is one block of one generation. Each is popped at most once.
type workItem struct {
	generation *Generation
	block      int
}

// queue is a blocking FIFO of workItems shared by all workers.
type queue struct {
	mu     sync.Mutex
	cond   sync.Cond
	items  []workItem
	closed bool
}

func newQueue() *queue {
	q := new(queue)
	q.cond.L = &q.mu
	return q
}

// enqueue resets the generation's buffer and appends one item per block.
// Both happen under the lock, so no worker can observe a partially reset
// buffer or a partial set of blocks.
func (q *queue) enqueue(g *Generation) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrClosed
	}

	layout := g.builder.Layout()
	g.buffer.Reset(layout)
	for block := 0; block < layout.Blocks; block++ {
		q.items = append(q.items, workItem{generation: g, block: block})
	}

	q.cond.Broadcast()
	return nil
}

// pop blocks until an item is available or the queue is closed, in which case
// ok is false.
func (q *queue) pop() (item workItem, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}

	if q.closed {
		return
	}

	item = q.items[0]
	q.items[0] = workItem{}
	q.items = q.items[1:]
	if len(q.items) == 0 {
		q.items = nil // release the consumed prefix
	}
	return item, true
}

// close wakes every worker and returns the items that will never be popped.
func (q *queue) close() []workItem {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	q.closed = true

	dropped := q.items
	q.items = nil
	q.cond.Broadcast()
	return dropped
}

func (q *queue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
