// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package terrain

import (
	"fmt"
	"io"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

const (
	// Seed default noise seed.
	Seed = int64(56)

	// DefaultHeightFactor is half of the default display height.
	DefaultHeightFactor = 600 / 2
)

// Parameters control the shape, coloring and lighting of the terrain.
// A generation captures them by value, so editing a Parameters never
// affects work that is already queued.
type Parameters struct {
	Octaves             int     `json:"octaves"`
	Frequency           float32 `json:"frequency"`
	FrequencyBase       float32 `json:"frequencyBase"`
	HeightBase          float32 `json:"heightBase"`
	EdgeFactor          float32 `json:"edgeFactor"`
	EdgeDropoffExponent float32 `json:"edgeDropoffExponent"`
	SnowcapHeight       float32 `json:"snowcapHeight"`
	HeightFactor        float32 `json:"heightFactor"`
	HeightFlatten       float32 `json:"heightFlatten"`
	LightFactor         float32 `json:"lightFactor"`
	Seed                int64   `json:"seed"`
}

func DefaultParameters() Parameters {
	return Parameters{
		Octaves:             3,
		Frequency:           7,
		FrequencyBase:       4,
		HeightBase:          0,
		EdgeFactor:          0.9,
		EdgeDropoffExponent: 1.5,
		SnowcapHeight:       0.6,
		HeightFactor:        DefaultHeightFactor,
		HeightFlatten:       3,
		LightFactor:         0.7,
		Seed:                Seed,
	}
}

// Strict so that typos in parameter files don't go unnoticed.
var parametersJSON = jsoniter.Config{
	EscapeHTML:            false,
	SortMapKeys:           true,
	DisallowUnknownFields: true,
	TagKey:                "json",
	CaseSensitive:         true,
}.Froze()

// ReadParameters decodes JSON parameters from r. Fields that are missing keep
// their default values. Values are not validated.
func ReadParameters(r io.Reader) (Parameters, error) {
	params := DefaultParameters()
	if err := parametersJSON.NewDecoder(r).Decode(&params); err != nil {
		return params, fmt.Errorf("reading parameters: %w", err)
	}
	return params, nil
}

// Setting is one of the adjustable Parameters.
type Setting uint8

const (
	SettingFrequency Setting = iota
	SettingFrequencyBase
	SettingHeightBase
	SettingEdgeFactor
	SettingEdgeDropoffExponent
	SettingSnowcapHeight
	SettingHeightFactor
	SettingHeightFlatten
	SettingLightFactor
	SettingCount
)

// SettingStep is how much one step of Adjust changes a setting.
const SettingStep = 0.1

var settingNames = [SettingCount]string{
	"perlinFrequency",
	"perlinFrequencyBase",
	"heightBase",
	"edgeFactor",
	"edgeDropoffExponent",
	"snowcapHeight",
	"heightFactor",
	"heightFlatten",
	"lightFactor",
}

func (setting Setting) String() string {
	if setting >= SettingCount {
		return "invalid"
	}
	return settingNames[setting]
}

func ParseSetting(name string) (Setting, bool) {
	for i, n := range settingNames {
		if n == name {
			return Setting(i), true
		}
	}
	return SettingCount, false
}

// Next moves delta settings forward (or backward if negative), wrapping around.
func (setting Setting) Next(delta int) Setting {
	n := (int(setting) + delta) % int(SettingCount)
	if n < 0 {
		n += int(SettingCount)
	}
	return Setting(n)
}

// Value returns a pointer to the field of params that setting controls.
func (params *Parameters) Value(setting Setting) *float32 {
	switch setting {
	case SettingFrequency:
		return &params.Frequency
	case SettingFrequencyBase:
		return &params.FrequencyBase
	case SettingHeightBase:
		return &params.HeightBase
	case SettingEdgeFactor:
		return &params.EdgeFactor
	case SettingEdgeDropoffExponent:
		return &params.EdgeDropoffExponent
	case SettingSnowcapHeight:
		return &params.SnowcapHeight
	case SettingHeightFactor:
		return &params.HeightFactor
	case SettingHeightFlatten:
		return &params.HeightFlatten
	case SettingLightFactor:
		return &params.LightFactor
	default:
		panic("invalid setting " + setting.String())
	}
}

// Adjust changes setting by steps * SettingStep.
func (params *Parameters) Adjust(setting Setting, steps int) {
	*params.Value(setting) += float32(steps) * SettingStep
}

// Text formats params for a heads up display, marking the current setting.
func (params *Parameters) Text(current Setting, frame time.Duration) string {
	var builder strings.Builder
	builder.Grow(256)

	fmt.Fprintf(&builder, "Frame: %dms\n", frame.Milliseconds())
	fmt.Fprintf(&builder, "perlinOctaves: %d\n", params.Octaves)

	for setting := Setting(0); setting < SettingCount; setting++ {
		if setting == current {
			builder.WriteString("> ")
		}
		fmt.Fprintf(&builder, "%s: %g\n", setting, *params.Value(setting))
	}

	return builder.String()
}
