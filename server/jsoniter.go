// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"errors"
	"reflect"
	"sync"
	"unsafe"

	"github.com/SoftbearStudios/island/server/terrain"
	jsoniter "github.com/json-iterator/go"
)

// JSON is the codec of all messages. Make sure encoders are registered first.
var JSON = func() jsoniter.API {
	neverEmpty := func(pointer unsafe.Pointer) bool { return false }

	// Encoders
	jsoniter.RegisterTypeEncoderFunc(reflect.TypeOf(Message{}).String(), encodeMessage, neverEmpty)
	jsoniter.RegisterTypeEncoderFunc(reflect.TypeOf(terrain.Setting(0)).String(), encodeSetting, neverEmpty)

	// Decoders
	jsoniter.RegisterTypeDecoderFunc(reflect.TypeOf(Message{}).String(), decodeMessage)
	jsoniter.RegisterTypeDecoderFunc(reflect.TypeOf(terrain.Setting(0)).String(), decodeSetting)

	return jsoniter.Config{
		IndentionStep:                 0,
		MarshalFloatWith6Digits:       true,
		EscapeHTML:                    false,
		SortMapKeys:                   true,
		UseNumber:                     false,
		DisallowUnknownFields:         false,
		TagKey:                        "json",
		OnlyTaggedField:               false,
		ValidateJsonRawMessage:        false,
		ObjectFieldMustBeSimpleString: true,
		CaseSensitive:                 true,
	}.Froze()
}()

func encodeMessage(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	message := (*Message)(ptr)
	stream.WriteVal(message.messageJSON())
}

// Settings are sent by name, e.g. "heightFactor".
func encodeSetting(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	stream.WriteString((*(*terrain.Setting)(ptr)).String())
}

func decodeSetting(ptr unsafe.Pointer, iter *jsoniter.Iterator) {
	name := iter.ReadString()
	setting, ok := terrain.ParseSetting(name)
	if !ok {
		iter.ReportError("decode setting", "unknown setting "+name)
		return
	}
	*(*terrain.Setting)(ptr) = setting
}

// Buffers large enough to hold most inbounds
var decodeMessagePool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, 0, 512)
		return &buf
	},
}

func decodeMessage(ptr unsafe.Pointer, topLevelIter *jsoniter.Iterator) {
	bufPtr := decodeMessagePool.Get().(*[]byte)

	// Read bytes so "data" can be decoded after "type" regardless of order
	messageBytes := topLevelIter.SkipAndAppendBytes(*bufPtr)

	pool := topLevelIter.Pool()
	iter := pool.BorrowIterator(messageBytes)
	defer pool.ReturnIterator(iter)

	// Pointer to a registered Inbound type
	var in interface{}
	var decoded bool

	// At most two passes: the first finds the type, the second the data if it came first.
	for pass := 0; pass < 2 && !decoded; pass++ {
		iter.ResetBytes(messageBytes)
		iter.ReadObjectCB(func(i *jsoniter.Iterator, field string) bool {
			switch field {
			case "type":
				if in != nil {
					i.Skip()
					return true
				}

				typeBytes := i.ReadStringAsSlice()
				inboundType, ok := inboundMessageTypes[messageType(typeBytes)]
				if !ok {
					in = &InvalidInbound{messageType: messageType(typeBytes)}
				} else {
					in = reflect.New(inboundType).Interface()
				}
			case "data":
				if in == nil {
					i.Skip()
					return true
				}
				i.ReadVal(in)
				decoded = true
				return false
			default:
				i.Skip()
			}
			return true
		})

		if err := iter.Error; err != nil {
			topLevelIter.Error = err
			return
		}

		if in == nil {
			topLevelIter.Error = errors.New("no inbound message type")
			return
		}
	}

	*bufPtr = messageBytes[:0]
	decodeMessagePool.Put(bufPtr)

	message := (*Message)(ptr)
	message.Data = reflect.Indirect(reflect.ValueOf(in)).Interface()
}
