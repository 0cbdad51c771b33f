//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/satkunas/sticker-factory/backend-go/internal/engine"
	"github.com/satkunas/sticker-factory/backend-go/internal/template"
)

// The renderer itself is stateless; the facade keeps the working
// template and its overrides so the frontend can issue small edits.
var (
	renderer  = &engine.Renderer{}
	current   *template.Template
	overrides = map[string]template.Override{}
)

func main() {
	// Create the engine API object
	stickerEngine := js.Global().Get("Object").New()

	// --- Commands (frontend → backend) ---
	stickerEngine.Set("loadTemplate", js.FuncOf(loadTemplate))
	stickerEngine.Set("loadSampleTemplate", js.FuncOf(loadSampleTemplate))
	stickerEngine.Set("setOverride", js.FuncOf(setOverride))
	stickerEngine.Set("clearOverride", js.FuncOf(clearOverride))
	stickerEngine.Set("clearOverrides", js.FuncOf(clearOverrides))

	// --- Queries (frontend ← backend) ---
	stickerEngine.Set("render", js.FuncOf(render))
	stickerEngine.Set("getTemplate", js.FuncOf(getTemplate))
	stickerEngine.Set("analyzeLayers", js.FuncOf(analyzeLayers))
	stickerEngine.Set("layerCenter", js.FuncOf(layerCenter))
	stickerEngine.Set("resolvePosition", js.FuncOf(resolvePosition))

	// Register on global scope
	js.Global().Set("stickerEngine", stickerEngine)

	// Signal that WASM is ready
	js.Global().Set("stickerWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

// --- Command Handlers ---

func loadTemplate(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing template JSON"})
	}

	var doc template.Template
	if err := json.Unmarshal([]byte(args[0].String()), &doc); err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}
	if err := template.Validate(&doc); err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}

	current = &doc
	overrides = map[string]template.Override{}
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func loadSampleTemplate(this js.Value, args []js.Value) interface{} {
	current = template.NewSampleTemplate()
	overrides = map[string]template.Override{}
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func setOverride(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf(map[string]interface{}{"error": "need a layer id and an override JSON"})
	}

	var o template.Override
	if err := json.Unmarshal([]byte(args[1].String()), &o); err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}

	overrides[args[0].String()] = o
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func clearOverride(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	delete(overrides, args[0].String())
	return nil
}

func clearOverrides(this js.Value, args []js.Value) interface{} {
	overrides = map[string]template.Override{}
	return nil
}

// --- Query Handlers ---

func render(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(renderer.Render(current, overrides))
}

func getTemplate(this js.Value, args []js.Value) interface{} {
	data, err := json.Marshal(current)
	if err != nil {
		return js.ValueOf("null")
	}
	return js.ValueOf(string(data))
}

func analyzeLayers(this js.Value, args []js.Value) interface{} {
	infos := renderer.AnalyzeLayers(current)
	if infos == nil {
		return js.ValueOf("[]")
	}
	data, err := json.Marshal(infos)
	if err != nil {
		return js.ValueOf("[]")
	}
	return js.ValueOf(string(data))
}

func layerCenter(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing layer id"})
	}

	result, ok := renderer.LayerCenter(current, args[0].String())
	if !ok {
		return js.ValueOf(map[string]interface{}{"error": "unknown layer id"})
	}
	data, err := json.Marshal(result)
	if err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}
	return js.ValueOf(string(data))
}

func resolvePosition(this js.Value, args []js.Value) interface{} {
	if current == nil {
		return js.ValueOf(map[string]interface{}{"error": "no template loaded"})
	}
	if len(args) < 2 {
		return js.ValueOf(map[string]interface{}{"error": "need x and y coordinates"})
	}

	pos := template.Position{X: jsCoord(args[0]), Y: jsCoord(args[1])}
	p := engine.ResolvePosition(pos, current.Space())
	data, err := json.Marshal(p)
	if err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}
	return js.ValueOf(string(data))
}

// jsCoord accepts either a number or a percentage string like "50%".
func jsCoord(v js.Value) template.Coord {
	if v.Type() == js.TypeString {
		return template.Expr(v.String())
	}
	return template.Abs(v.Float())
}
