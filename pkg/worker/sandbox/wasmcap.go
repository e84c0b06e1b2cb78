/*
Copyright 2026 The Actias Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package sandbox

import (
	"context"

	lua "github.com/yuin/gopher-lua"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
)

const wasmInstanceTypeName = "WasmInstance"

// wasmHandle is the Go-side value a WasmInstance userdata wraps. The
// owning Sandbox is the arena that ultimately closes runtime; a script
// never calls close directly, avoiding a reference cycle between the
// script-visible handle and the wazero runtime it borrows (spec.md §9
// "Cyclic handle ownership").
type wasmHandle struct {
	runtime wazero.Runtime
	module  api.Module
}

func registerWasmInstanceType(L *lua.LState) {
	mt := L.NewTypeMetatable(wasmInstanceTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"get_export": guard(luaWasmGetExport),
	}))
}

// newWasmCapability implements the wasm capability: WasmInstance.from(
// bytes) with get_export(name) returning a callable wrapper (spec.md
// §4.2).
func newWasmCapability(sb *Sandbox) lua.LValue {
	L := sb.L
	registerWasmInstanceType(L)

	t := L.NewTable()
	instModule := L.NewTable()
	instModule.RawSetString("from", newFunc(L, sb.luaWasmFrom))
	t.RawSetString("WasmInstance", instModule)
	return t
}

func (sb *Sandbox) luaWasmFrom(L *lua.LState) int {
	wasmBytes := []byte(L.CheckString(1))

	ctx := L.Context()
	rt := wazero.NewRuntime(ctx)

	if _, err := wasi_snapshot_preview1.Instantiate(ctx, rt); err != nil {
		rt.Close(ctx)
		L.RaiseError("WasmInstance.from: %s", err.Error())
		return 0
	}

	mod, err := rt.Instantiate(ctx, wasmBytes)
	if err != nil {
		rt.Close(ctx)
		L.RaiseError("WasmInstance.from: %s", err.Error())
		return 0
	}

	sb.own(func() { rt.Close(context.Background()) })

	ud := L.NewUserData()
	ud.Value = &wasmHandle{runtime: rt, module: mod}
	ud.Metatable = L.GetTypeMetatable(wasmInstanceTypeName)
	L.Push(ud)
	return 1
}

func luaWasmGetExport(L *lua.LState) int {
	ud := L.CheckUserData(1)
	h, ok := ud.Value.(*wasmHandle)
	if !ok {
		L.ArgError(1, "WasmInstance expected")
		return 0
	}
	name := L.CheckString(2)

	fn := h.module.ExportedFunction(name)
	if fn == nil {
		L.RaiseError("WasmInstance.get_export: no such export %q", name)
		return 0
	}

	L.Push(newFunc(L, func(L *lua.LState) int {
		args := make([]uint64, 0, L.GetTop()-1)
		for i := 2; i <= L.GetTop(); i++ {
			args = append(args, uint64(L.CheckNumber(i)))
		}
		results, err := fn.Call(L.Context(), args...)
		if err != nil {
			L.RaiseError("wasm call: %s", err.Error())
			return 0
		}
		for _, r := range results {
			L.Push(lua.LNumber(r))
		}
		return len(results)
	}))
	return 1
}
