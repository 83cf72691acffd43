// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build js
// +build js

package main

import (
	"log"

	"github.com/SoftbearStudios/island/server"
	"github.com/SoftbearStudios/island/server/terrain/mesh"
)

func main() {
	layout := mesh.DefaultLayout()
	// Browsers have fewer cores to spare.
	layout.Blocks = 8

	hub := server.NewHub(server.HubOptions{
		Cloud:   server.Offline{},
		Layout:  layout,
		Workers: 2,
	})

	log.Println("island WASM server started")

	hub.Register(&localClient)

	hub.Run()
}
