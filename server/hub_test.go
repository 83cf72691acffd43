// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"bytes"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/SoftbearStudios/island/server/terrain"
	"github.com/SoftbearStudios/island/server/terrain/mesh"
	"github.com/SoftbearStudios/island/server/terrain/noise"
	"github.com/SoftbearStudios/island/server/terrain/pool"
	"github.com/chewxy/math32"
)

const testTimeout = 5 * time.Second

func testHubLayout() mesh.Layout {
	return mesh.Layout{
		ResolutionX: 32,
		ResolutionY: 24,
		Width:       320,
		Height:      240,
		Blocks:      5,
	}
}

// chanClient is an in process client that records everything it is sent.
type chanClient struct {
	ClientData
	hub    *Hub
	out    chan Outbound
	closed chan struct{}
	once   sync.Once
}

func newChanClient(hub *Hub) *chanClient {
	return &chanClient{
		hub:    hub,
		out:    make(chan Outbound, 256),
		closed: make(chan struct{}),
	}
}

func (c *chanClient) Init() {}

func (c *chanClient) Close() {
	close(c.closed)
}

func (c *chanClient) Send(out Outbound) {
	select {
	case c.out <- out:
	default:
		c.Destroy()
	}
}

func (c *chanClient) Destroy() {
	c.once.Do(func() {
		c.hub.Unregister(c)
	})
}

func (c *chanClient) Data() *ClientData {
	return &c.ClientData
}

func (c *chanClient) send(t *testing.T, in Inbound) {
	t.Helper()
	if !c.hub.ReceiveSigned(SignedInbound{Client: c, Inbound: in}, true) {
		t.Fatal("hub closed")
	}
}

// next waits for an outbound that satisfies match.
func (c *chanClient) next(t *testing.T, what string, match func(Outbound) bool) Outbound {
	t.Helper()

	timeout := time.After(testTimeout)
	for {
		select {
		case out := <-c.out:
			if match(out) {
				return out
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s", what)
		}
	}
}

func (c *chanClient) nextGenerated(t *testing.T, after uint64) Generated {
	t.Helper()
	return c.next(t, "generated", func(out Outbound) bool {
		g, ok := out.(Generated)
		return ok && g.Generation > after
	}).(Generated)
}

// nextIdle waits for a status of a finished mesh of params.
func (c *chanClient) nextIdle(t *testing.T, params terrain.Parameters) Status {
	t.Helper()
	return c.next(t, "idle status", func(out Outbound) bool {
		s, ok := out.(Status)
		return ok && !s.Generating && s.Parameters == params
	}).(Status)
}

// memoryCloud is a Cloud backed by maps.
type memoryCloud struct {
	mu        sync.Mutex
	presets   map[string]terrain.Parameters
	snapshots map[string][]byte
	published []string
}

func newMemoryCloud() *memoryCloud {
	return &memoryCloud{
		presets:   make(map[string]terrain.Parameters),
		snapshots: make(map[string][]byte),
	}
}

func (m *memoryCloud) String() string {
	return "[memory]"
}

func (m *memoryCloud) SavePreset(name string, params terrain.Parameters, snapshot []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.presets[name] = params
	m.snapshots[name] = snapshot
	return nil
}

func (m *memoryCloud) Preset(name string) (terrain.Parameters, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	params, ok := m.presets[name]
	if !ok {
		return params, ErrOffline
	}
	return params, nil
}

func (m *memoryCloud) Presets() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.presets))
	for name := range m.presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (m *memoryCloud) UpdatePresets(names []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = names
	return nil
}

func (m *memoryCloud) UpdatePeriod() time.Duration {
	return time.Hour
}

func startHub(t *testing.T, options HubOptions) (*Hub, *chanClient) {
	t.Helper()

	if options.Layout.Blocks == 0 {
		options.Layout = testHubLayout()
	}
	if options.Workers == 0 {
		options.Workers = 3
	}

	h := NewHub(options)
	go h.Run()

	client := newChanClient(h)
	h.Register(client)
	return h, client
}

func TestHub_Generate(t *testing.T) {
	h, client := startHub(t, HubOptions{})
	defer h.Close()

	layout := testHubLayout()
	generated := client.nextGenerated(t, 0)
	if generated.Vertices != layout.VertexCount() {
		t.Errorf("expected %d vertices, got %d", layout.VertexCount(), generated.Vertices)
	}
	if generated.Layout != layout {
		t.Errorf("unexpected layout %+v", generated.Layout)
	}

	rec := httptest.NewRecorder()
	h.ServeMesh(rec, httptest.NewRequest(http.MethodGet, "/mesh", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("mesh status %d", rec.Code)
	}
	if rec.Body.Len() != layout.VertexCount()*terrain.VertexSize {
		t.Errorf("expected %d mesh bytes, got %d", layout.VertexCount()*terrain.VertexSize, rec.Body.Len())
	}

	// Matches a generation of the same parameters outside the hub.
	p := pool.New(noise.Source, layout, 1)
	defer p.Close()
	g, err := p.Regenerate(mesh.NewBuffer(), terrain.DefaultParameters())
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(rec.Body.Bytes(), terrain.EncodeVertices(g.Buffer().Vertices())) {
		t.Error("published mesh differs from a direct generation")
	}
	if !bytes.Equal(h.Mesh(), rec.Body.Bytes()) {
		t.Error("Mesh differs from ServeMesh")
	}

	rec = httptest.NewRecorder()
	h.ServeImage(rec, httptest.NewRequest(http.MethodGet, "/terrain.png", nil))
	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != layout.ResolutionX || b.Dy() != layout.ResolutionY {
		t.Errorf("unexpected image bounds %v", b)
	}
}

func TestHub_NotGenerated(t *testing.T) {
	h := NewHub(HubOptions{Layout: testHubLayout()})
	defer h.pool.Close()

	rec := httptest.NewRecorder()
	h.ServeMesh(rec, httptest.NewRequest(http.MethodGet, "/mesh", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected %d before the first generation, got %d", http.StatusServiceUnavailable, rec.Code)
	}
	if h.Mesh() != nil {
		t.Error("expected nil mesh")
	}
}

func TestHub_AdjustSetting(t *testing.T) {
	h, client := startHub(t, HubOptions{})
	defer h.Close()

	first := client.nextGenerated(t, 0)

	client.send(t, SelectSetting{Delta: -1}) // wraps to lightFactor
	status := client.next(t, "status", func(out Outbound) bool {
		s, ok := out.(Status)
		return ok && s.Setting == terrain.SettingLightFactor
	}).(Status)
	if status.Parameters != terrain.DefaultParameters() {
		t.Error("selecting a setting changed parameters")
	}

	client.send(t, AdjustSetting{Steps: -2})

	want := terrain.DefaultParameters()
	want.Adjust(terrain.SettingLightFactor, -2)
	if math32.Abs(want.LightFactor-0.5) > 1e-6 {
		t.Fatalf("expected light factor 0.5, got %g", want.LightFactor)
	}

	client.nextGenerated(t, first.Generation)
	client.nextIdle(t, want)
}

func TestHub_Coalesce(t *testing.T) {
	h, client := startHub(t, HubOptions{})
	defer h.Close()

	client.nextGenerated(t, 0)

	// Each adjustment arrives while the previous generation may still be in
	// flight; the hub must settle on a mesh of the final parameters.
	const adjustments = 10
	for i := 0; i < adjustments; i++ {
		client.send(t, AdjustSetting{Steps: 1})
	}

	want := terrain.DefaultParameters()
	for i := 0; i < adjustments; i++ {
		want.Adjust(terrain.SettingFrequency, 1)
	}
	status := client.nextIdle(t, want)
	if status.Generation > 1+adjustments {
		t.Errorf("expected at most %d generations, got %d", 1+adjustments, status.Generation)
	}

	p := pool.New(noise.Source, testHubLayout(), 2)
	defer p.Close()
	g, err := p.Regenerate(mesh.NewBuffer(), want)
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	h.ServeMesh(rec, httptest.NewRequest(http.MethodGet, "/mesh", nil))
	if !bytes.Equal(rec.Body.Bytes(), terrain.EncodeVertices(g.Buffer().Vertices())) {
		t.Error("published mesh is not of the final parameters")
	}
}

func TestHub_Presets(t *testing.T) {
	cloud := newMemoryCloud()
	h, client := startHub(t, HubOptions{Cloud: cloud, Auth: "secret"})
	defer h.Close()

	client.nextGenerated(t, 0)
	saved := terrain.DefaultParameters()

	client.send(t, SavePreset{Name: "Bad"})
	client.send(t, SavePreset{Name: "  Atoll  ", Auth: "secret"})
	client.next(t, "presets", func(out Outbound) bool {
		p, ok := out.(Presets)
		return ok && len(p.Names) == 1 && p.Names[0] == "Atoll"
	})

	cloud.mu.Lock()
	if _, ok := cloud.presets["Bad"]; ok {
		t.Error("saved a preset without auth")
	}
	if len(cloud.snapshots["Atoll"]) == 0 {
		t.Error("expected a snapshot of the idle mesh")
	}
	if len(cloud.published) != 1 {
		t.Errorf("expected published presets, got %v", cloud.published)
	}
	cloud.mu.Unlock()

	changed := saved
	changed.HeightBase = 0.25
	changed.Octaves = 100
	client.send(t, SetParameters{Parameters: changed})

	changed.Octaves = octavesMax
	client.nextIdle(t, changed)

	client.send(t, LoadPreset{Name: "Atoll"})
	client.nextIdle(t, saved)
}

func TestHub_Close(t *testing.T) {
	h, client := startHub(t, HubOptions{})
	client.nextGenerated(t, 0)

	h.Close()

	select {
	case <-client.closed:
	default:
		t.Error("expected client to be closed")
	}
	if h.ReceiveSigned(SignedInbound{Client: client, Inbound: Trace{FPS: 30}}, true) {
		t.Error("expected closed hub to refuse messages")
	}

	// Returns immediately once closed
	h.Close()
	h.Register(newChanClient(h))
}

func TestHub_Trace(t *testing.T) {
	h, client := startHub(t, HubOptions{})
	defer h.Close()

	client.nextGenerated(t, 0)
	client.send(t, Trace{FPS: 120})
	client.send(t, SelectSetting{Delta: 1})

	status := client.next(t, "status", func(out Outbound) bool {
		s, ok := out.(Status)
		return ok && s.Setting == terrain.SettingFrequencyBase
	}).(Status)

	// Clamped to 60 fps
	if want := "Frame: 16ms\n"; status.Text[:len(want)] != want {
		t.Errorf("expected text to start with %q, got %q", want, status.Text)
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"atoll", "atoll", true},
		{"  Big Island \u200b", "Big Island", true},
		{"../../etc/passwd", "....etcpasswd", true},
		{"[tag] name", "tag name", true},
		{"abcdefghijklmnopqrstuvwxyz", "abcdefghijklmnopqrstuvwx", true},
		{"tab\there", "tabhere", true},
		{"   ", "", false},
		{"", "", false},
	}

	for _, test := range tests {
		got, ok := sanitize(test.in, presetNameLengthMin, presetNameLengthMax)
		if got != test.want || ok != test.ok {
			t.Errorf("sanitize(%q) = %q, %v, expected %q, %v", test.in, got, ok, test.want, test.ok)
		}
	}
}
