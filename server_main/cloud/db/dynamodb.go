// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package db

import (
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/guregu/dynamo"
)

type DynamoDBDatabase struct {
	svc          *dynamodb.DynamoDB
	db           *dynamo.DB
	presetsTable dynamo.Table
}

func NewDynamoDBDatabase(session *session.Session, stage string) (*DynamoDBDatabase, error) {
	ddb := &DynamoDBDatabase{svc: dynamodb.New(session)}
	ddb.db = dynamo.NewFromIface(ddb.svc)
	ddb.presetsTable = ddb.db.Table("island-" + stage + "-presets")
	return ddb, nil
}

func (ddb *DynamoDBDatabase) UpdatePreset(preset Preset) error {
	return ddb.presetsTable.Put(preset).Run()
}

func (ddb *DynamoDBDatabase) ReadPreset(name string) (preset Preset, err error) {
	err = ddb.presetsTable.Get("name", name).One(&preset)
	if err == dynamo.ErrNotFound {
		err = ErrNotFound
	}
	return
}

func (ddb *DynamoDBDatabase) ReadPresets() (presets []Preset, err error) {
	query := ddb.presetsTable.Scan().Iter()

	for {
		var preset Preset
		ok := query.Next(&preset)
		if !ok {
			err = query.Err()
			return
		}
		presets = append(presets, preset)
	}
}
