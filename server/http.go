// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"bytes"
	"image/png"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/SoftbearStudios/island/server/terrain"
	"github.com/SoftbearStudios/island/server/terrain/pool"
)

// publishMesh encodes the completed generation for HTTP. The encoded copies
// stay valid after the buffer is reused by the next generation.
func (h *Hub) publishMesh(g *pool.Generation) {
	defer h.timeFunction("publish", time.Now())

	vertices := g.Buffer().Vertices()
	h.meshBytes.Store(terrain.EncodeVertices(vertices))

	layout := g.Buffer().Layout()
	img := terrain.Render(vertices, layout.ResolutionX, layout.ResolutionY, g.Parameters().LightFactor)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		log.Println("encode png error:", err)
		return
	}
	h.imagePNG.Store(buf.Bytes())
}

// Mesh returns the latest encoded mesh, or nil if none was generated yet.
// The returned bytes must not be modified.
func (h *Hub) Mesh() []byte {
	buf, _ := h.meshBytes.Load().([]byte)
	return buf
}

// ServeIndex serves the status JSON updated by Cloud.
func (h *Hub) ServeIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", "application/json")
	buf, ok := h.statusJSON.Load().([]byte)
	if ok {
		_, _ = w.Write(buf)
	}
}

// ServeSocket upgrades to a websocket and registers a SocketClient.
func (h *Hub) ServeSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("upgrade error", err)
		return
	}

	h.Register(NewSocketClient(h, conn))
}

// ServeMesh serves the latest mesh as little endian vertices (see
// terrain.AppendVertex).
func (h *Hub) ServeMesh(w http.ResponseWriter, r *http.Request) {
	serveBytes(w, &h.meshBytes, "application/octet-stream")
}

// ServeImage serves the latest mesh rendered as a PNG.
func (h *Hub) ServeImage(w http.ResponseWriter, r *http.Request) {
	serveBytes(w, &h.imagePNG, "image/png")
}

type byteLoader interface {
	Load() interface{}
}

func serveBytes(w http.ResponseWriter, value byteLoader, contentType string) {
	buf, ok := value.Load().([]byte)
	if !ok {
		http.Error(w, "not generated yet", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(buf)))
	_, _ = w.Write(buf)
}
