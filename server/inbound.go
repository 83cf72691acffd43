// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"log"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/SoftbearStudios/island/server/terrain"
	"github.com/finnbear/moderation"
)

const (
	presetNameLengthMin = 1
	presetNameLengthMax = 24

	// Remote clients may not request more octaves than this.
	octavesMax = 12
)

// Make sure to register in init function
type (
	// SelectSetting moves the selected setting by Delta (the up and down arrows).
	SelectSetting struct {
		Delta int `json:"delta"`
	}

	// AdjustSetting changes the selected setting by Steps * terrain.SettingStep
	// (the left and right arrows).
	AdjustSetting struct {
		Steps int `json:"steps"`
	}

	// SetParameters replaces all parameters.
	SetParameters struct {
		Parameters terrain.Parameters `json:"parameters"`
	}

	// SavePreset saves the current parameters under Name.
	SavePreset struct {
		Name string `json:"name"`
		Auth string `json:"auth"`
	}

	// LoadPreset replaces all parameters with a saved preset.
	LoadPreset struct {
		Name string `json:"name"`
	}

	// Trace sends debug info.
	Trace struct {
		FPS float32 `json:"fps"`
	}

	// InvalidInbound means invalid message type from client (possibly out of date).
	// NOTE: Do not register, otherwise client could send type "invalidInbound"
	InvalidInbound struct {
		messageType messageType
	}

	// presetLoaded is sent by the goroutine that loaded a preset.
	// NOTE: Do not register
	presetLoaded struct {
		name       string
		parameters terrain.Parameters
	}

	// presetsLoaded is sent by the goroutine that listed the presets.
	// NOTE: Do not register
	presetsLoaded struct {
		names []string
	}
)

func init() {
	registerInbound(
		SelectSetting{},
		AdjustSetting{},
		SetParameters{},
		SavePreset{},
		LoadPreset{},
		Trace{},
	)
}

func (data SelectSetting) Inbound(h *Hub, _ Client) {
	h.setting = h.setting.Next(data.Delta)
	h.broadcastStatus()
}

func (data AdjustSetting) Inbound(h *Hub, _ Client) {
	if data.Steps == 0 {
		return
	}
	h.params.Adjust(h.setting, data.Steps)
	h.regenerate()
	h.broadcastStatus()
}

func (data SetParameters) Inbound(h *Hub, _ Client) {
	h.setParameters(data.Parameters)
}

func (h *Hub) setParameters(params terrain.Parameters) {
	if params.Octaves > octavesMax {
		params.Octaves = octavesMax
	}
	h.params = params
	h.regenerate()
	h.broadcastStatus()
}

func (data SavePreset) Inbound(h *Hub, _ Client) {
	if h.auth != "" && data.Auth != h.auth {
		return
	}

	name, ok := sanitize(data.Name, presetNameLengthMin, presetNameLengthMax)
	if !ok {
		return
	}

	// The published image matches h.params only while idle.
	var snapshot []byte
	if h.generation == nil {
		snapshot, _ = h.imagePNG.Load().([]byte)
	}

	params := h.params
	go func() {
		if err := h.cloud.SavePreset(name, params, snapshot); err != nil {
			log.Println("save preset error:", err)
			return
		}
		h.updatePresets()
	}()
}

func (data LoadPreset) Inbound(h *Hub, client Client) {
	name := data.Name
	go func() {
		params, err := h.cloud.Preset(name)
		if err != nil {
			log.Printf("load preset %q error: %v\n", name, err)
			return
		}
		h.receiveLater(SignedInbound{Client: client, Inbound: presetLoaded{name: name, parameters: params}})
	}()
}

func (data presetLoaded) Inbound(h *Hub, _ Client) {
	log.Printf("loaded preset %q\n", data.name)
	h.setParameters(data.parameters)
}

func (data presetsLoaded) Inbound(h *Hub, _ Client) {
	h.presets = data.names
	h.clients.Broadcast(Presets{Names: data.names})
}

func (trace Trace) Inbound(_ *Hub, client Client) {
	if trace.FPS <= 0 {
		return
	}

	// Clamp to 60 for clients possibly running above to not pollute average
	if trace.FPS > 60 {
		trace.FPS = 60
	}

	client.Data().FPS = trace.FPS

	_ = AppendLog("/tmp/island-trace.log", []interface{}{
		time.Now().UnixNano() / 1e6,
		trace.FPS,
	})
}

func (data InvalidInbound) Inbound(_ *Hub, _ Client) {}

func trimUtf8(in string, low, high int) (str string, ok bool) {
	if !utf8.ValidString(in) {
		return "", false
	}

	str = strings.TrimSpace(in)
	str = strings.TrimFunc(str, func(r rune) bool {
		// NOTE: The following characters are not detected by
		// unicode.IsSpace() but show up as blank
		return r == 0x2800 || r == 0x200B
	})

	// Too long but can resize down
	if len(str) > high {
		var builder strings.Builder
		for _, r := range str {
			if builder.Len()+utf8.RuneLen(r) > high {
				break
			}
			builder.WriteRune(r)
		}
		str = strings.TrimSpace(builder.String())
	}

	if len(str) < low {
		return "", false
	}
	ok = true
	return
}

// sanitize cleans up a preset name. Names are used as keys and file names
// so path separators are removed along with formatting characters.
func sanitize(text string, low, high int) (string, bool) {
	const removals = "()[]{}*/\\"
	for i := 0; i < len(removals); i++ {
		text = strings.ReplaceAll(text, removals[i:i+1], "")
	}

	text = strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || unicode.IsGraphic(r) {
			return r
		}
		return -1
	}, text)

	text, ok := trimUtf8(text, low, high)
	if !ok {
		return "", false
	}

	result := moderation.Scan(text)
	if result.Is(moderation.Inappropriate) {
		if result.Is(moderation.Inappropriate & moderation.Moderate) {
			return "", false
		}
		text, _ = moderation.Censor(text, moderation.Inappropriate)
	}

	return text, true
}
