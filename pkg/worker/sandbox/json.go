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
	gopherjson "github.com/layeh/gopher-json"
	lua "github.com/yuin/gopher-lua"
)

// newJSONCapability implements the json capability: stringify(v) ->
// string, parse(s) -> value (spec.md §4.2).
func newJSONCapability(sb *Sandbox) lua.LValue {
	L := sb.L
	t := L.NewTable()

	t.RawSetString("stringify", newFunc(L, func(L *lua.LState) int {
		v := L.CheckAny(1)
		b, err := gopherjson.Encode(v)
		if err != nil {
			L.RaiseError("json.stringify: %s", err.Error())
			return 0
		}
		L.Push(lua.LString(b))
		return 1
	}))

	t.RawSetString("parse", newFunc(L, func(L *lua.LState) int {
		s := L.CheckString(1)
		v, err := gopherjson.Decode(L, []byte(s))
		if err != nil {
			L.RaiseError("json.parse: %s", err.Error())
			return 0
		}
		L.Push(v)
		return 1
	}))

	return t
}
