// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package pool generates terrain meshes on a fixed set of worker goroutines.
// Each generation is split into the blocks of a mesh.Layout; workers take
// blocks from a shared queue in order and write them to disjoint ranges of the
// generation's Buffer.
package pool

import (
	"errors"
	"sync"

	"github.com/SoftbearStudios/island/server/terrain"
	"github.com/SoftbearStudios/island/server/terrain/mesh"
)

// DefaultWorkers is the number of workers used when none is specified.
const DefaultWorkers = 4

// ErrClosed is returned when regenerating with a closed Pool and by
// generations that were abandoned by Close.
var ErrClosed = errors.New("pool closed")

type Pool struct {
	source  terrain.Source
	layout  mesh.Layout
	workers int
	queue   *queue
	wg      sync.WaitGroup

	// mu serializes Regenerate and guards latest and nextID.
	mu     sync.Mutex
	latest *Generation
	nextID uint64

	closeOnce sync.Once
}

// New starts workers goroutines (at least one) that build meshes of layout
// with samplers from source.
func New(source terrain.Source, layout mesh.Layout, workers int) *Pool {
	if workers < 1 {
		workers = 1
	}

	p := &Pool{
		source:  source,
		layout:  layout,
		workers: workers,
		queue:   newQueue(),
	}

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.work(make([]terrain.Vertex, layout.BlockVertices()))
	}

	return p
}

func (p *Pool) work(scratch []terrain.Vertex) {
	defer p.wg.Done()

	for {
		item, ok := p.queue.pop()
		if !ok {
			return
		}

		g := item.generation
		g.builder.Build(g.buffer, item.block, scratch)
		g.finish(false)
	}
}

func (p *Pool) Layout() mesh.Layout {
	return p.layout
}

func (p *Pool) Workers() int {
	return p.workers
}

// Regenerate requests a new mesh of params in buffer. It first waits for the
// previous generation to complete, so buffer may be the previous generation's
// Buffer. params is copied; later changes by the caller have no effect.
//
// Regenerate returns as soon as the work is queued. Use the returned
// Generation to find out when buffer may be read.
func (p *Pool) Regenerate(buffer *mesh.Buffer, params terrain.Parameters) (*Generation, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.latest != nil {
		<-p.latest.Done()
	}

	sampler := p.source.Sampler(params, p.layout.ResolutionX, p.layout.ResolutionY)
	builder := mesh.NewBuilder(sampler, params, p.layout)

	p.nextID++
	g := newGeneration(p.nextID, params, buffer, builder)
	if err := p.queue.enqueue(g); err != nil {
		return nil, err
	}

	p.latest = g
	return g, nil
}

// Latest returns the most recently requested generation, or nil.
func (p *Pool) Latest() *Generation {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.latest
}

// Wait blocks until the most recently requested generation is complete.
func (p *Pool) Wait() error {
	g := p.Latest()
	if g == nil {
		return nil
	}
	return g.Wait()
}

// Pending is the number of queued blocks not yet taken by a worker.
func (p *Pool) Pending() int {
	return p.queue.len()
}

// Close stops the workers after their current block. Queued blocks are
// dropped and their generations complete with ErrClosed. Close waits for the
// workers to exit.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		for _, item := range p.queue.close() {
			item.generation.finish(true)
		}
		p.wg.Wait()
	})
}
