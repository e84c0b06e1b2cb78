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
	"github.com/google/uuid"
	lua "github.com/yuin/gopher-lua"
)

// newUUIDCapability implements the uuid capability: v4() -> string
// (spec.md §4.2).
func newUUIDCapability(sb *Sandbox) lua.LValue {
	L := sb.L
	t := L.NewTable()

	t.RawSetString("v4", newFunc(L, func(L *lua.LState) int {
		L.Push(lua.LString(uuid.NewString()))
		return 1
	}))

	return t
}
