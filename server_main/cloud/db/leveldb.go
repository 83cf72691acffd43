// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package db

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

const presetPrefix = "preset/"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// LevelDBDatabase keeps presets in a local LevelDB, for running without AWS.
type LevelDBDatabase struct {
	db *leveldb.DB
}

func NewLevelDBDatabase(path string) (*LevelDBDatabase, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("opening presets database: %w", err)
	}
	return &LevelDBDatabase{db: db}, nil
}

func (ldb *LevelDBDatabase) Close() error {
	return ldb.db.Close()
}

func (ldb *LevelDBDatabase) UpdatePreset(preset Preset) error {
	value, err := json.Marshal(preset)
	if err != nil {
		return err
	}
	return ldb.db.Put([]byte(presetPrefix+preset.Name), value, nil)
}

func (ldb *LevelDBDatabase) ReadPreset(name string) (preset Preset, err error) {
	value, err := ldb.db.Get([]byte(presetPrefix+name), nil)
	if err == leveldb.ErrNotFound {
		err = ErrNotFound
	}
	if err != nil {
		return
	}
	err = json.Unmarshal(value, &preset)
	return
}

// ReadPresets returns presets ordered by name.
func (ldb *LevelDBDatabase) ReadPresets() (presets []Preset, err error) {
	iter := ldb.db.NewIterator(util.BytesPrefix([]byte(presetPrefix)), nil)
	defer iter.Release()

	for iter.Next() {
		var preset Preset
		if err = json.Unmarshal(iter.Value(), &preset); err != nil {
			return nil, fmt.Errorf("preset %s: %w", iter.Key(), err)
		}
		presets = append(presets, preset)
	}
	err = iter.Error()
	return
}
