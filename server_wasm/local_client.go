// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build js
// +build js

package main

import (
	"log"
	"syscall/js"

	"github.com/SoftbearStudios/island/server"
)

var (
	self        = js.Global().Get("self")
	postMessage = self.Get("postMessage")
	localClient LocalClient // only one of these ever exists
)

func init() {
	self.Set("onmessage", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		data := []byte(args[0].Get("data").String())

		var message server.Message
		err := server.JSON.Unmarshal(data, &message)
		if err != nil {
			log.Println("unmarshal error:", err.Error())
			return nil
		}

		if _, ok := message.Data.(server.InvalidInbound); ok {
			log.Println("invalid message type received")
		} else if localClient.Hub != nil {
			localClient.Hub.ReceiveSigned(server.SignedInbound{Client: &localClient, Inbound: message.Data.(server.Inbound)}, true)
		}

		return nil
	}))
}

// There may only ever be one local client. Meshes are not served over HTTP
// in the browser, so Generated is followed by the encoded vertices.
type LocalClient struct {
	server.ClientData
}

func (client *LocalClient) Close() {
	panic("local client closed")
}

func (client *LocalClient) Data() *server.ClientData {
	return &client.ClientData
}

func (client *LocalClient) Destroy() {
	panic("local client destroyed")
}

func (client *LocalClient) Init() {}

func (client *LocalClient) Send(out server.Outbound) {
	buf, err := server.JSON.Marshal(server.Message{Data: out})
	if err != nil {
		panic(err)
	}

	postMessage.Invoke(string(buf))

	if _, ok := out.(server.Generated); ok {
		if mesh := client.Hub.Mesh(); mesh != nil {
			array := js.Global().Get("Uint8Array").New(len(mesh))
			js.CopyBytesToJS(array, mesh)
			postMessage.Invoke(array)
		}
	}

	out.Pool()
}
