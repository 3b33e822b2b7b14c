//go:build js && wasm

// Package main exposes framegrab to JavaScript as a WebAssembly module.
//
// Registered globals:
//
//	extractVideoFrame(data: Uint8Array, time: number) -> result object
//	getVersion() -> string
//	checkEnvironment() -> boolean
package main

import (
	"syscall/js"

	"github.com/user/framegrab/pkg/extract"
	"github.com/user/framegrab/pkg/framegrab"
)

func main() {
	js.Global().Set("extractVideoFrame", js.FuncOf(extractVideoFrame))
	js.Global().Set("getVersion", js.FuncOf(getVersion))
	js.Global().Set("checkEnvironment", js.FuncOf(checkEnvironment))

	// keep the Go runtime alive for callbacks
	select {}
}

func extractVideoFrame(_ js.Value, args []js.Value) any {
	if len(args) < 2 {
		return invalidInput("extractVideoFrame expects (Uint8Array, number)")
	}
	data, t := args[0], args[1]
	if data.Type() != js.TypeObject || !data.InstanceOf(js.Global().Get("Uint8Array")) {
		return invalidInput("data must be a Uint8Array")
	}
	if t.Type() != js.TypeNumber {
		return invalidInput("time must be a number")
	}

	input := make([]byte, data.Get("length").Int())
	js.CopyBytesToGo(input, data)

	return toJS(framegrab.Flatten(framegrab.ExtractVideoFrame(input, t.Float())))
}

func getVersion(_ js.Value, _ []js.Value) any {
	return framegrab.Version()
}

func checkEnvironment(_ js.Value, _ []js.Value) any {
	_, err := framegrab.CheckEnvironment()
	return err == nil
}

func invalidInput(msg string) js.Value {
	return toJS(framegrab.Flatten(extract.Failure{Code: extract.InvalidInput, Message: msg}))
}

func toJS(o framegrab.Outcome) js.Value {
	obj := js.Global().Get("Object").New()
	obj.Set("success", o.Success)

	if !o.Success {
		obj.Set("width", 0)
		obj.Set("height", 0)
		obj.Set("pixels", js.Null())
		obj.Set("errorCode", o.ErrorCode)
		obj.Set("errorName", o.ErrorName)
		obj.Set("errorMessage", o.ErrorMessage)
		return obj
	}

	pixels := js.Global().Get("Uint8Array").New(len(o.Pixels))
	js.CopyBytesToJS(pixels, o.Pixels)

	obj.Set("width", o.Width)
	obj.Set("height", o.Height)
	obj.Set("pixels", pixels)
	obj.Set("errorCode", js.Null())
	obj.Set("errorName", js.Null())
	obj.Set("errorMessage", js.Null())
	return obj
}
