// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package pool

import (
	"sync/atomic"
	"time"

	"github.com/SoftbearStudios/island/server/terrain"
	"github.com/SoftbearStudios/island/server/terrain/mesh"
)

// Generation is one request to fill a Buffer. Once Done is closed every block
// write happens before any read of the Buffer by a goroutine that received
// from Done (or returned from Wait).
type Generation struct {
	id      uint64
	params  terrain.Parameters
	buffer  *mesh.Buffer
	builder *mesh.Builder
	start   time.Time

	remaining int32 // atomic
	abandoned int32 // atomic
	duration  int64 // atomic, nanoseconds
	done      chan struct{}
}

func newGeneration(id uint64, params terrain.Parameters, buffer *mesh.Buffer, builder *mesh.Builder) *Generation {
	g := &Generation{
		id:        id,
		params:    params,
		buffer:    buffer,
		builder:   builder,
		start:     time.Now(),
		remaining: int32(builder.Layout().Blocks),
		done:      make(chan struct{}),
	}
	if g.remaining <= 0 {
		g.remaining = 0
		close(g.done)
	}
	return g
}

// finish accounts for one block, whether it was built or dropped.
func (g *Generation) finish(abandoned bool) {
	if abandoned {
		atomic.StoreInt32(&g.abandoned, 1)
	}
	if atomic.AddInt32(&g.remaining, -1) == 0 {
		atomic.StoreInt64(&g.duration, int64(time.Since(g.start)))
		close(g.done)
	}
}

// ID increases by one for every generation requested from the same Pool.
func (g *Generation) ID() uint64 {
	return g.id
}

// Parameters is the copy of the parameters the generation was requested with.
func (g *Generation) Parameters() terrain.Parameters {
	return g.params
}

func (g *Generation) Buffer() *mesh.Buffer {
	return g.buffer
}

// Done is closed when all blocks have been written or dropped.
func (g *Generation) Done() <-chan struct{} {
	return g.done
}

// Wait blocks until Done and returns Err.
func (g *Generation) Wait() error {
	<-g.done
	return g.Err()
}

// Err returns ErrClosed if any block was dropped because the Pool closed. The
// Buffer contents are undefined in that case.
func (g *Generation) Err() error {
	if atomic.LoadInt32(&g.abandoned) != 0 {
		return ErrClosed
	}
	return nil
}

// Duration is the time from request to completion, or zero if not done.
func (g *Generation) Duration() time.Duration {
	return time.Duration(atomic.LoadInt64(&g.duration))
}

// Remaining is the number of blocks not yet finished.
func (g *Generation) Remaining() int {
	return int(atomic.LoadInt32(&g.remaining))
}
