// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"strings"
	"testing"

	"github.com/SoftbearStudios/island/server/terrain"
	"github.com/SoftbearStudios/island/server/terrain/mesh"
)

func TestJSON_Outbound(t *testing.T) {
	tests := []struct {
		out  Outbound
		want string
	}{
		{
			out: Generated{
				Generation: 3,
				Millis:     2.5,
				Vertices:   6,
				Layout:     mesh.Layout{ResolutionX: 1, ResolutionY: 1, Width: 8, Height: 6, Blocks: 1},
			},
			want: `{"data":{"generation":3,"millis":2.5,"vertices":6,"layout":{"resolutionX":1,"resolutionY":1,"width":8,"height":6,"blocks":1}},"type":"generated"}`,
		},
		{
			out:  Presets{Names: []string{"archipelago", "atoll"}},
			want: `{"data":{"names":["archipelago","atoll"]},"type":"presets"}`,
		},
	}

	for _, test := range tests {
		buf, err := JSON.Marshal(Message{Data: test.out})
		if err != nil {
			t.Error("error marshaling:", err.Error())
			continue
		}
		if string(buf) != test.want {
			t.Errorf("different output:\nexpected: %s\ngot:      %s", test.want, buf)
		}
	}
}

func TestJSON_Status(t *testing.T) {
	params := terrain.DefaultParameters()
	status := Status{
		Text:       params.Text(terrain.SettingHeightFactor, 0),
		Setting:    terrain.SettingHeightFactor,
		Parameters: params,
	}

	buf, err := JSON.Marshal(Message{Data: status})
	if err != nil {
		t.Fatal(err)
	}

	str := string(buf)
	for _, want := range []string{`"type":"status"`, `"setting":"heightFactor"`, `"octaves":3`, `"seed":56`, `> heightFactor: 300`} {
		if !strings.Contains(str, want) {
			t.Errorf("expected %s in %s", want, str)
		}
	}
}

func TestJSON_Inbound(t *testing.T) {
	tests := []struct {
		in   string
		want Inbound
	}{
		{`{"type":"adjustSetting","data":{"steps":-2}}`, AdjustSetting{Steps: -2}},
		// data before type needs a second pass
		{`{"data":{"delta":1},"type":"selectSetting"}`, SelectSetting{Delta: 1}},
		{`{"type":"trace","extra":true,"data":{"fps":59.5}}`, Trace{FPS: 59.5}},
		{`{"type":"loadPreset","data":{"name":"atoll"}}`, LoadPreset{Name: "atoll"}},
		{`{"type":"savePreset","data":{"name":"atoll","auth":"x"}}`, SavePreset{Name: "atoll", Auth: "x"}},
		{`{"type":"setParameters","data":{"parameters":{"octaves":5,"lightFactor":0.5}}}`,
			SetParameters{Parameters: terrain.Parameters{Octaves: 5, LightFactor: 0.5}}},
		{`{"type":"selectSetting"}`, SelectSetting{}},
		{`{"type":"spawn","data":{"name":"bob"}}`, InvalidInbound{messageType: "spawn"}},
		// Internal messages can't be sent by clients
		{`{"type":"presetLoaded","data":{}}`, InvalidInbound{messageType: "presetLoaded"}},
	}

	for _, test := range tests {
		var message Message
		if err := JSON.Unmarshal([]byte(test.in), &message); err != nil {
			t.Errorf("error unmarshaling %s: %v", test.in, err)
			continue
		}
		if message.Data != test.want {
			t.Errorf("unmarshaling %s:\nexpected: %#v\ngot:      %#v", test.in, test.want, message.Data)
		}
	}
}

func TestJSON_InboundErrors(t *testing.T) {
	for _, in := range []string{
		`{"data":{"delta":1}}`,
		`{"type":"adjustSetting","data":{"steps":"many"}}`,
		`[1, 2]`,
	} {
		var message Message
		if err := JSON.Unmarshal([]byte(in), &message); err == nil {
			t.Errorf("expected error unmarshaling %s, got %#v", in, message.Data)
		}
	}
}

func TestJSON_Setting(t *testing.T) {
	for setting := terrain.Setting(0); setting < terrain.SettingCount; setting++ {
		buf, err := JSON.Marshal(setting)
		if err != nil {
			t.Fatal(err)
		}

		var decoded terrain.Setting
		if err := JSON.Unmarshal(buf, &decoded); err != nil {
			t.Fatal(err)
		}
		if decoded != setting {
			t.Errorf("setting %s decoded as %s", setting, decoded)
		}
	}

	var setting terrain.Setting
	if err := JSON.Unmarshal([]byte(`"octaves"`), &setting); err == nil {
		t.Error("expected error decoding a setting that can't be adjusted")
	}
}

func BenchmarkJSON_Status(b *testing.B) {
	params := terrain.DefaultParameters()
	status := Message{Data: Status{
		Text:       params.Text(terrain.SettingFrequency, 0),
		Parameters: params,
	}}

	for i := 0; i < b.N; i++ {
		if _, err := JSON.Marshal(status); err != nil {
			b.Fatal(err)
		}
	}
}
