// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"github.com/SoftbearStudios/island/server/terrain"
	"github.com/SoftbearStudios/island/server/terrain/mesh"
)

type (
	// Status is the heads up display: current parameters, the selected
	// setting and whether a generation is in progress.
	Status struct {
		Text       string             `json:"text"`
		Setting    terrain.Setting    `json:"setting"`
		Parameters terrain.Parameters `json:"parameters"`
		Generation uint64             `json:"generation"`
		Generating bool               `json:"generating"`
	}

	// Generated announces a new mesh at /mesh and /terrain.png.
	Generated struct {
		Generation uint64      `json:"generation"`
		Millis     float32     `json:"millis"`
		Vertices   int         `json:"vertices"`
		Layout     mesh.Layout `json:"layout"`
	}

	// Presets is the sorted list of saved preset names.
	Presets struct {
		Names []string `json:"names"`
	}
)

func init() {
	registerOutbound(
		Status{},
		Generated{},
		Presets{},
	)
}

// Outbounds are shared by all clients in a broadcast, so none are pooled.

func (status Status) Pool() {}

func (generated Generated) Pool() {}

func (presets Presets) Pool() {}
