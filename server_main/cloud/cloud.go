// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package cloud

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"sort"
	"time"

	"github.com/SoftbearStudios/island/server/terrain"
	"github.com/SoftbearStudios/island/server_main/cloud/db"
	"github.com/SoftbearStudios/island/server_main/cloud/fs"
	jsoniter "github.com/json-iterator/go"
	"github.com/nfnt/resize"
)

const (
	UpdatePeriod   = 30 * time.Second
	thumbnailWidth = 160
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Cloud stores presets in a database and publishes their names and
// thumbnails as static files. Implements server.Cloud.
type Cloud struct {
	name     string
	database db.Database
	fs       fs.Filesystem
}

func (cloud *Cloud) String() string {
	return "[" + cloud.name + "]"
}

// New connects to AWS using the instance's user data.
func New() (*Cloud, error) {
	userData, err := loadUserData()
	if err != nil {
		return nil, err
	}

	session, err := getAWSSession(userData.Region)
	if err != nil {
		return nil, err
	}

	database, err := db.NewDynamoDBDatabase(session, userData.Stage)
	if err != nil {
		return nil, err
	}
	filesystem, err := fs.NewS3Filesystem(session, userData.Stage)
	if err != nil {
		return nil, err
	}

	return &Cloud{
		name:     userData.Region + " " + userData.Stage,
		database: database,
		fs:       filesystem,
	}, nil
}

// NewLocal keeps presets in dir, for running without AWS.
func NewLocal(dir string) (*Cloud, error) {
	database, err := db.NewLevelDBDatabase(dir + "/presets.db")
	if err != nil {
		return nil, err
	}
	filesystem, err := fs.NewLocalFilesystem(dir + "/static")
	if err != nil {
		return nil, err
	}

	return &Cloud{
		name:     "local " + dir,
		database: database,
		fs:       filesystem,
	}, nil
}

func (cloud *Cloud) SavePreset(name string, params terrain.Parameters, snapshot []byte) error {
	if name == "" {
		return errors.New("empty preset name")
	}

	err := cloud.database.UpdatePreset(db.Preset{
		Name:       name,
		Parameters: params,
		Created:    time.Now().Unix(),
	})
	if err != nil {
		return err
	}

	if snapshot == nil {
		return nil
	}

	thumb, err := thumbnail(snapshot)
	if err != nil {
		return fmt.Errorf("thumbnail of %s: %w", name, err)
	}
	return cloud.fs.UploadStaticFile("presets/"+name+".png", 60, thumb)
}

func (cloud *Cloud) Preset(name string) (terrain.Parameters, error) {
	preset, err := cloud.database.ReadPreset(name)
	if err != nil {
		return terrain.Parameters{}, err
	}
	return preset.Parameters, nil
}

func (cloud *Cloud) Presets() ([]string, error) {
	presets, err := cloud.database.ReadPresets()
	if err != nil {
		return nil, err
	}

	names := make([]string, len(presets))
	for i, preset := range presets {
		names[i] = preset.Name
	}
	sort.Strings(names)
	return names, nil
}

func (cloud *Cloud) UpdatePresets(names []string) error {
	if names == nil {
		names = []string{}
	}
	presetsJSON, err := json.Marshal(names)
	if err != nil {
		return err
	}
	return cloud.fs.UploadStaticFile("presets.json", 10, presetsJSON)
}

func (cloud *Cloud) UpdatePeriod() time.Duration {
	return UpdatePeriod
}

// thumbnail scales a PNG down to thumbnailWidth, preserving aspect ratio.
func thumbnail(snapshot []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(snapshot))
	if err != nil {
		return nil, err
	}

	if img.Bounds().Dx() > thumbnailWidth {
		img = resize.Resize(thumbnailWidth, 0, img, resize.Bilinear)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
