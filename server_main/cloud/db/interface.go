// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package db

import (
	"errors"
)

// ErrNotFound is returned when reading a preset that doesn't exist.
var ErrNotFound = errors.New("preset not found")

type Database interface {
	UpdatePreset(preset Preset) error
	ReadPreset(name string) (Preset, error)
	ReadPresets() (presets []Preset, err error)
}
