// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package db

import (
	"github.com/SoftbearStudios/island/server/terrain"
)

// Preset is a named set of terrain parameters.
type Preset struct {
	Name       string             `dynamo:"name" json:"name"`
	Parameters terrain.Parameters `dynamo:"parameters" json:"parameters"`
	Created    int64              `dynamo:"created" json:"created"` // unix seconds
}
