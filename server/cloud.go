// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/SoftbearStudios/island/server/terrain"
)

// ErrOffline is returned by Offline for operations that need storage.
var ErrOffline = errors.New("offline")

// Cloud stores presets. Methods may be called from any goroutine.
type Cloud interface {
	fmt.Stringer
	// SavePreset stores params under name. snapshot is an encoded PNG of
	// the mesh or nil.
	SavePreset(name string, params terrain.Parameters, snapshot []byte) error
	// Preset loads the params stored under name.
	Preset(name string) (terrain.Parameters, error)
	// Presets lists preset names, sorted.
	Presets() ([]string, error)
	// UpdatePresets publishes the list of preset names.
	UpdatePresets(names []string) error
	UpdatePeriod() time.Duration
}

// Offline is a Cloud without storage. This just means server is in offline mode.
type Offline struct{}

func (offline Offline) String() string {
	return "[offline]"
}

func (offline Offline) SavePreset(string, terrain.Parameters, []byte) error {
	return ErrOffline
}

func (offline Offline) Preset(string) (terrain.Parameters, error) {
	return terrain.Parameters{}, ErrOffline
}

func (offline Offline) Presets() ([]string, error) {
	return nil, nil
}

func (offline Offline) UpdatePresets([]string) error {
	return nil
}

func (offline Offline) UpdatePeriod() time.Duration {
	return time.Hour
}

// Cloud updates the status JSON and refreshes presets in the background.
func (h *Hub) Cloud() {
	fmt.Println("Updating cloud", h.cloud)

	statusJSON, err := JSON.Marshal(struct {
		Clients    int     `json:"clients"`
		Generation uint64  `json:"generation"`
		Millis     float32 `json:"millis"`
		Workers    int     `json:"workers"`
	}{
		Clients:    h.clients.Len,
		Generation: h.generated.Generation,
		Millis:     h.generated.Millis,
		Workers:    h.pool.Workers(),
	})

	if err == nil {
		h.statusJSON.Store(statusJSON)
	} else {
		fmt.Println("error marshaling status:", err)
	}

	go h.updatePresets()
}

// updatePresets lists and publishes presets, then tells the hub. Must not be
// called on the hub goroutine.
func (h *Hub) updatePresets() {
	names, err := h.cloud.Presets()
	if err != nil {
		log.Println("Error listing presets:", err)
		return
	}

	if err := h.cloud.UpdatePresets(names); err != nil {
		log.Println("Error updating presets:", err)
	}

	if names == nil {
		names = []string{}
	}
	h.receiveLater(SignedInbound{Inbound: presetsLoaded{names: names}})
}
