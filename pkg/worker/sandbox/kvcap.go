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
	"fmt"
	"math"
	"strconv"

	gopherjson "github.com/layeh/gopher-json"
	lua "github.com/yuin/gopher-lua"
)

// newKVCapability implements the kv capability: get_namespace(name)
// returns a handle with get/set/set_batch/delete (spec.md §4.2/§4.4).
func newKVCapability(sb *Sandbox) lua.LValue {
	L := sb.L
	t := L.NewTable()

	t.RawSetString("get_namespace", newFunc(L, func(L *lua.LState) int {
		name := L.CheckString(1)
		L.Push(sb.newKVNamespaceHandle(name))
		return 1
	}))

	return t
}

func (sb *Sandbox) newKVNamespaceHandle(namespace string) *lua.LTable {
	L := sb.L
	h := L.NewTable()
	h.RawSetString("namespace", lua.LString(namespace))

	h.RawSetString("get", newFunc(L, func(L *lua.LState) int {
		key := L.CheckString(2)

		if sb.kv == nil {
			L.RaiseError("kv capability is not configured")
			return 0
		}
		value, typ, found, err := sb.kv.Get(L.Context(), namespace, key)
		if err != nil {
			L.RaiseError("kv.get: %s", err.Error())
			return 0
		}
		if !found {
			L.Push(lua.LNil)
			return 1
		}

		v, err := decodeKVValue(L, value, typ)
		if err != nil {
			L.RaiseError("kv.get: %s", err.Error())
			return 0
		}
		L.Push(v)
		return 1
	}))

	h.RawSetString("set", newFunc(L, func(L *lua.LState) int {
		key := L.CheckString(2)
		val := L.CheckAny(3)

		if sb.kv == nil {
			L.RaiseError("kv capability is not configured")
			return 0
		}

		var ttl int64
		if L.GetTop() >= 4 {
			ttl = int64(L.CheckNumber(4))
		}

		str, typ, isDelete, err := encodeKVValue(val)
		if err != nil {
			L.RaiseError("kv.set: %s", err.Error())
			return 0
		}
		if isDelete {
			if err := sb.kv.Delete(L.Context(), namespace, []string{key}); err != nil {
				L.RaiseError("kv.set: %s", err.Error())
			}
			return 0
		}
		if err := sb.kv.Set(L.Context(), namespace, key, str, typ, ttl); err != nil {
			L.RaiseError("kv.set: %s", err.Error())
		}
		return 0
	}))

	h.RawSetString("set_batch", newFunc(L, func(L *lua.LState) int {
		batch := L.CheckTable(2)

		if sb.kv == nil {
			L.RaiseError("kv capability is not configured")
			return 0
		}

		pairs := map[string]struct {
			Value string
			Type  string
		}{}
		var deletes []string
		var outerErr error
		batch.ForEach(func(k, v lua.LValue) {
			if outerErr != nil {
				return
			}
			key, ok := k.(lua.LString)
			if !ok {
				outerErr = fmt.Errorf("kv.set_batch: keys must be strings")
				return
			}
			str, typ, isDelete, err := encodeKVValue(v)
			if err != nil {
				outerErr = err
				return
			}
			if isDelete {
				deletes = append(deletes, string(key))
				return
			}
			pairs[string(key)] = struct {
				Value string
				Type  string
			}{Value: str, Type: typ}
		})
		if outerErr != nil {
			L.RaiseError("%s", outerErr.Error())
			return 0
		}

		if len(pairs) > 0 {
			if err := sb.kv.SetBatch(L.Context(), namespace, pairs); err != nil {
				L.RaiseError("kv.set_batch: %s", err.Error())
				return 0
			}
		}
		if len(deletes) > 0 {
			if err := sb.kv.Delete(L.Context(), namespace, deletes); err != nil {
				L.RaiseError("kv.set_batch: %s", err.Error())
				return 0
			}
		}
		return 0
	}))

	h.RawSetString("delete", newFunc(L, func(L *lua.LState) int {
		if sb.kv == nil {
			L.RaiseError("kv capability is not configured")
			return 0
		}
		keys := make([]string, 0, L.GetTop()-1)
		for i := 2; i <= L.GetTop(); i++ {
			keys = append(keys, L.CheckString(i))
		}
		if err := sb.kv.Delete(L.Context(), namespace, keys); err != nil {
			L.RaiseError("kv.delete: %s", err.Error())
		}
		return 0
	}))

	return h
}

// encodeKVValue implements the script-side type-coercion table of
// spec.md §4.4. isDelete is true for a nil value, which callers must
// treat as a delete rather than a set.
func encodeKVValue(v lua.LValue) (value, typ string, isDelete bool, err error) {
	switch val := v.(type) {
	case *lua.LNilType:
		return "", "", true, nil
	case lua.LBool:
		if bool(val) {
			return "true", "boolean", false, nil
		}
		return "false", "boolean", false, nil
	case lua.LNumber:
		n := float64(val)
		if n == math.Trunc(n) {
			return strconv.FormatInt(int64(n), 10), "integer", false, nil
		}
		return strconv.FormatFloat(n, 'g', -1, 64), "number", false, nil
	case lua.LString:
		return string(val), "string", false, nil
	case *lua.LTable:
		b, encErr := gopherjson.Encode(val)
		if encErr != nil {
			return "", "", false, fmt.Errorf("SerializeError: %s", encErr.Error())
		}
		return string(b), "json", false, nil
	default:
		return "", "", false, fmt.Errorf("SerializeError: unsupported value type %s", v.Type().String())
	}
}

// decodeKVValue inverts encodeKVValue.
func decodeKVValue(L *lua.LState, value, typ string) (lua.LValue, error) {
	switch typ {
	case "boolean":
		return lua.LBool(value == "true"), nil
	case "integer":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed integer value %q", value)
		}
		return lua.LNumber(n), nil
	case "number":
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed number value %q", value)
		}
		return lua.LNumber(n), nil
	case "string":
		return lua.LString(value), nil
	case "json":
		v, err := gopherjson.Decode(L, []byte(value))
		if err != nil {
			return nil, fmt.Errorf("malformed json value: %s", err.Error())
		}
		return v, nil
	default:
		return nil, fmt.Errorf("unknown stored value type %q", typ)
	}
}
