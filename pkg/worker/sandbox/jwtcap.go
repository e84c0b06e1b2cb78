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
	"encoding/json"

	"github.com/golang-jwt/jwt/v5"
	lua "github.com/yuin/gopher-lua"
)

// newJWTCapability implements the jwt capability: Jwt.new(algorithm,
// secret) with encode(payload)/decode(token) (spec.md §4.2).
func newJWTCapability(sb *Sandbox) lua.LValue {
	L := sb.L
	t := L.NewTable()

	jwtModule := L.NewTable()
	jwtModule.RawSetString("new", newFunc(L, luaJWTNew))
	t.RawSetString("Jwt", jwtModule)

	return t
}

func luaJWTNew(L *lua.LState) int {
	algorithm := L.CheckString(1)
	secret := L.CheckString(2)

	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		L.RaiseError("Jwt.new: unknown algorithm %q", algorithm)
		return 0
	}

	inst := L.NewTable()
	inst.RawSetString("algorithm", lua.LString(algorithm))
	inst.RawSetString("secret", lua.LString(secret))

	inst.RawSetString("encode", newFunc(L, func(L *lua.LState) int {
		self := L.CheckTable(1)
		payload := L.CheckTable(2)

		claims := jwt.MapClaims(luaTableToGo(payload).(map[string]any))
		alg := luaFieldString(self, "algorithm")
		key := luaFieldString(self, "secret")

		token := jwt.NewWithClaims(jwt.GetSigningMethod(alg), claims)
		signed, err := token.SignedString([]byte(key))
		if err != nil {
			L.RaiseError("Jwt.encode: %s", err.Error())
			return 0
		}
		L.Push(lua.LString(signed))
		return 1
	}))

	inst.RawSetString("decode", newFunc(L, func(L *lua.LState) int {
		self := L.CheckTable(1)
		tokenStr := L.CheckString(2)
		key := luaFieldString(self, "secret")

		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
			return []byte(key), nil
		})
		if err != nil {
			L.Push(lua.LNil)
			return 1
		}

		L.Push(goToLua(L, map[string]any(claims)))
		return 1
	}))

	L.Push(inst)
	return 1
}

// luaTableToGo converts a Lua table into a plain Go value via a JSON
// round-trip: luaTableToJSONValue decides the map/slice shape, and
// encoding/json marshals and unmarshals the result.
func luaTableToGo(t *lua.LTable) any {
	b, err := json.Marshal(luaTableToJSONValue(t))
	if err != nil {
		return map[string]any{}
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return map[string]any{}
	}
	return v
}

func luaTableToJSONValue(t *lua.LTable) any {
	if isLuaArray(t) {
		arr := make([]any, 0, t.Len())
		t.ForEach(func(_, v lua.LValue) {
			arr = append(arr, luaValueToJSONValue(v))
		})
		return arr
	}

	obj := map[string]any{}
	t.ForEach(func(k, v lua.LValue) {
		key, ok := k.(lua.LString)
		if !ok {
			return
		}
		obj[string(key)] = luaValueToJSONValue(v)
	})
	return obj
}

func luaValueToJSONValue(v lua.LValue) any {
	switch val := v.(type) {
	case lua.LString:
		return string(val)
	case lua.LNumber:
		return float64(val)
	case lua.LBool:
		return bool(val)
	case *lua.LTable:
		return luaTableToJSONValue(val)
	default:
		return nil
	}
}

// isLuaArray reports whether t looks like a sequence (keys 1..Len()
// only, no string keys) rather than a map.
func isLuaArray(t *lua.LTable) bool {
	count := 0
	isArray := true
	t.ForEach(func(k, _ lua.LValue) {
		count++
		if _, ok := k.(lua.LString); ok {
			isArray = false
		}
	})
	return isArray && count == t.Len()
}
