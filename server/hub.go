// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/SoftbearStudios/island/server/terrain"
	"github.com/SoftbearStudios/island/server/terrain/mesh"
	"github.com/SoftbearStudios/island/server/terrain/noise"
	"github.com/SoftbearStudios/island/server/terrain/pool"
)

const (
	debugPeriod = time.Second * 5
)

// HubOptions configures a Hub. Zero values select defaults.
type HubOptions struct {
	Cloud      Cloud
	Source     terrain.Source // defaults to noise.Source
	Layout     mesh.Layout    // defaults to mesh.DefaultLayout
	Workers    int            // defaults to pool.DefaultWorkers
	Parameters *terrain.Parameters
	Auth       string // required to save presets if not empty
}

// Hub owns the current parameters and the one mesh being generated or
// displayed. All state except the published fields is only accessed by the
// hub goroutine.
type Hub struct {
	cloud  Cloud
	auth   string
	pool   *pool.Pool
	buffer *mesh.Buffer

	// Viewer state
	params     terrain.Parameters
	setting    terrain.Setting
	clients    ClientList // implemented as double-linked list
	generation *pool.Generation // in flight, nil if idle
	dirty      bool             // parameters changed while generation was in flight
	generated  Generated        // last published
	presets    []string

	// Published (served atomically by HTTP)
	statusJSON atomic.Value // []byte
	meshBytes  atomic.Value // []byte
	imagePNG   atomic.Value // []byte

	// funcBenches are benchmarks of core Hub functions.
	funcBenches []funcBench

	// Inbound channels
	inbound    chan SignedInbound
	register   chan Client
	unregister chan Client

	// Shutdown
	closeOnce sync.Once
	closing   chan struct{}
	closed    chan struct{}

	// Timer based events
	cloudTicker *time.Ticker
	debugTicker *time.Ticker
}

func NewHub(options HubOptions) *Hub {
	if options.Cloud == nil {
		options.Cloud = Offline{}
	}
	if options.Source == nil {
		options.Source = noise.Source
	}
	if options.Layout.Blocks == 0 {
		options.Layout = mesh.DefaultLayout()
	}
	if options.Workers == 0 {
		options.Workers = pool.DefaultWorkers
	}

	params := terrain.DefaultParameters()
	if options.Parameters != nil {
		params = *options.Parameters
	}

	return &Hub{
		cloud:       options.Cloud,
		auth:        options.Auth,
		pool:        pool.New(options.Source, options.Layout, options.Workers),
		buffer:      mesh.NewBuffer(),
		params:      params,
		inbound:     make(chan SignedInbound, 16),
		register:    make(chan Client, 8),
		unregister:  make(chan Client, 16),
		closing:     make(chan struct{}),
		closed:      make(chan struct{}),
		cloudTicker: time.NewTicker(options.Cloud.UpdatePeriod()),
		debugTicker: time.NewTicker(debugPeriod),
	}
}

// Run processes clients, messages and generations until Close.
func (h *Hub) Run() {
	defer h.shutdown()

	h.regenerate()
	h.Cloud()

	for {
		// nil (blocks forever) while idle
		var generated <-chan struct{}
		if h.generation != nil {
			generated = h.generation.Done()
		}

		select {
		case client := <-h.register:
			h.clients.Add(client)
			client.Data().Hub = h
			client.Init()
			h.greet(client)
		case client := <-h.unregister:
			// Destroy may race with shutdown or be called twice by a misbehaving client
			if client.Data().Hub != h {
				break
			}
			client.Close()
			client.Data().Hub = nil
			h.clients.Remove(client)
		case in := <-h.inbound:
			// Read all messages currently in the channel
			n := len(h.inbound)

			for {
				// If not same hub the message is old
				if in.Client == nil || in.Client.Data().Hub == h {
					in.Inbound.Inbound(h, in.Client)
				}

				if n--; n <= 0 {
					break
				}

				in = <-h.inbound
			}
		case <-generated:
			h.publish()
		case <-h.debugTicker.C:
			h.Debug()
		case <-h.cloudTicker.C:
			h.Cloud()
		case <-h.closing:
			return
		}
	}
}

func (h *Hub) shutdown() {
	h.cloudTicker.Stop()
	h.debugTicker.Stop()

	for client := h.clients.First; client != nil; client = h.clients.Remove(client) {
		client.Close()
		client.Data().Hub = nil
	}

	h.pool.Close()
	close(h.closed)
}

// Close stops Run, closes all clients and the worker pool. It must only be
// called if Run was.
func (h *Hub) Close() {
	h.closeOnce.Do(func() {
		close(h.closing)
	})
	<-h.closed
}

// Register adds a client. It may be called from any goroutine.
func (h *Hub) Register(client Client) {
	select {
	case <-h.closed:
		return
	default:
	}

	select {
	case h.register <- client:
	case <-h.closed:
	}
}

// Unregister removes a client. It never blocks, so it may be called by the
// hub goroutine itself, for example from Client.Send.
func (h *Hub) Unregister(client Client) {
	select {
	case h.unregister <- client:
	default:
		go func() {
			select {
			case h.unregister <- client:
			case <-h.closed:
			}
		}()
	}
}

// ReceiveSigned queues an inbound message. If blocking is false and the
// queue is full the message is dropped. Returns false if the message was not
// queued.
func (h *Hub) ReceiveSigned(in SignedInbound, blocking bool) bool {
	select {
	case <-h.closed:
		return false
	default:
	}

	if blocking {
		select {
		case h.inbound <- in:
			return true
		case <-h.closed:
			return false
		}
	}

	select {
	case h.inbound <- in:
		return true
	default:
		return false
	}
}

// receiveLater delivers an inbound from a goroutine doing slow work (cloud
// requests) back to the hub goroutine.
func (h *Hub) receiveLater(in SignedInbound) {
	if !h.ReceiveSigned(in, true) {
		log.Println("hub closed before delivering", in.Inbound)
	}
}

// regenerate starts generating h.params, or if a generation is in flight,
// marks the hub dirty so the latest parameters are generated when it completes.
func (h *Hub) regenerate() {
	if h.generation != nil {
		h.dirty = true
		return
	}

	defer h.timeFunction("regenerate", time.Now())

	// Never waits since the previous generation has been published.
	g, err := h.pool.Regenerate(h.buffer, h.params)
	if err != nil {
		log.Println("regenerate error:", err)
		return
	}

	h.generation = g
	h.dirty = false
}

// publish makes the completed generation available and starts the next one
// if the parameters changed meanwhile.
func (h *Hub) publish() {
	g := h.generation
	h.generation = nil

	if err := g.Err(); err != nil {
		log.Println("generation error:", err)
		return
	}

	h.publishMesh(g)

	h.generated = Generated{
		Generation: g.ID(),
		Millis:     float32(g.Duration()) / float32(time.Millisecond),
		Vertices:   h.buffer.Len(),
		Layout:     h.buffer.Layout(),
	}
	h.clients.Broadcast(h.generated)

	if h.dirty {
		h.regenerate()
	}
	h.broadcastStatus()
}

// status is the Status as of now.
func (h *Hub) status() Status {
	return Status{
		Text:       h.params.Text(h.setting, h.frameTime()),
		Setting:    h.setting,
		Parameters: h.params,
		Generation: h.generated.Generation,
		Generating: h.generation != nil,
	}
}

func (h *Hub) broadcastStatus() {
	h.clients.Broadcast(h.status())
}

// greet brings a new client up to date.
func (h *Hub) greet(client Client) {
	client.Send(h.status())
	if h.generated.Generation != 0 {
		client.Send(h.generated)
	}
	if h.presets != nil {
		client.Send(Presets{Names: h.presets})
	}
}

// frameTime is the average frame time reported by clients, or zero.
func (h *Hub) frameTime() time.Duration {
	var (
		fps   float32
		count int
	)

	for client := h.clients.First; client != nil; client = client.Data().Next {
		if f := client.Data().FPS; f > 0 {
			fps += f
			count++
		}
	}

	if count == 0 {
		return 0
	}
	return time.Duration(float32(time.Second) * float32(count) / fps)
}
