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
	lua "github.com/yuin/gopher-lua"
)

// goToLua converts a plain Go value — the shape encoding/json.Unmarshal
// produces (map[string]any, []any, string, float64, bool, nil) — into its
// Lua representation. Used by the jwt capability to hand decoded claims
// back to a script.
func goToLua(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case string:
		return lua.LString(val)
	case float64:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case int:
		return lua.LNumber(val)
	case map[string]any:
		t := L.NewTable()
		for k, e := range val {
			t.RawSetString(k, goToLua(L, e))
		}
		return t
	case []any:
		t := L.NewTable()
		for _, e := range val {
			t.Append(goToLua(L, e))
		}
		return t
	default:
		return lua.LNil
	}
}

// luaFieldString reads a string-valued field off t, returning "" if it is
// absent or not a string.
func luaFieldString(t *lua.LTable, name string) string {
	if s, ok := t.RawGetString(name).(lua.LString); ok {
		return string(s)
	}
	return ""
}

// luaFieldStringDefault is luaFieldString with a fallback for an absent
// field.
func luaFieldStringDefault(t *lua.LTable, name, def string) string {
	v := t.RawGetString(name)
	if v.Type() == lua.LTNil {
		return def
	}
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return def
}
