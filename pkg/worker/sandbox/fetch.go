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
	"strconv"
	"time"

	lua "github.com/yuin/gopher-lua"
	luar "layeh.com/gopher-luar"

	"github.com/actiasdev/actias/pkg/apperr"
)

// Request is the host-side representation of the script-visible request
// value (spec.md §6.2).
type Request struct {
	URI        string
	ContextURI string
	Method     string
	Headers    map[string]string
	Version    string
	Body       []byte
}

// Response is the host-side representation of the value a fetch
// listener returns (spec.md §6.2).
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

// Dispatch invokes the registered fetch listener with req under the
// per-script wall-clock limit, and converts its return value back to a
// Response. The caller must have already called ArmRequestDeadline.
func (sb *Sandbox) Dispatch(ctx context.Context, req Request, limit time.Duration) (*Response, error) {
	fn, ok := sb.FetchHandler()
	if !ok {
		return nil, apperr.New(apperr.KindInternal, "script did not register a fetch listener")
	}

	L := sb.L
	reqVal := sb.requestToLua(req)

	err := L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, reqVal)
	if err != nil {
		return nil, translateLuaErr(err, limit)
	}

	ret := L.Get(-1)
	L.Pop(1)

	return sb.luaToResponse(ret)
}

func (sb *Sandbox) requestToLua(req Request) *lua.LTable {
	L := sb.L
	t := L.NewTable()
	t.RawSetString("uri", lua.LString(req.URI))
	t.RawSetString("context_uri", lua.LString(req.ContextURI))
	method := req.Method
	if method == "" {
		method = "GET"
	}
	t.RawSetString("method", lua.LString(method))

	// Headers are handed to the script as a live luar-wrapped map rather
	// than a copied table: request.headers["X-Foo"] indexes req.Headers
	// directly through reflection (spec.md §6.2).
	t.RawSetString("headers", luar.New(L, req.Headers))

	version := req.Version
	if version == "" {
		version = "HTTP/1.1"
	}
	t.RawSetString("version", lua.LString(version))

	if req.Body != nil {
		t.RawSetString("body", lua.LString(req.Body))
	}
	return t
}

// luaToResponse converts the table a fetch listener returned into a
// Response, per spec.md §4.1 step 6: missing status defaults to 200;
// header values that fail to stringify are substituted with "" rather
// than aborting the request.
func (sb *Sandbox) luaToResponse(v lua.LValue) (*Response, error) {
	resp := &Response{StatusCode: 200, Headers: map[string]string{}}

	t, ok := v.(*lua.LTable)
	if !ok {
		return resp, nil
	}

	if sc := t.RawGetString("status_code"); sc.Type() == lua.LTNumber {
		resp.StatusCode = int(lua.LVAsNumber(sc))
	}

	if h, ok := t.RawGetString("headers").(*lua.LTable); ok {
		h.ForEach(func(k, val lua.LValue) {
			name, ok := k.(lua.LString)
			if !ok {
				return
			}
			resp.Headers[string(name)] = stringifyHeaderValue(val)
		})
	}

	if body := t.RawGetString("body"); body.Type() != lua.LTNil {
		if s, ok := body.(lua.LString); ok {
			resp.Body = []byte(s)
		} else {
			resp.Body = []byte(lua.LVAsString(body))
		}
	}

	return resp, nil
}

// stringifyHeaderValue converts a Lua header value to its wire string,
// substituting "" for anything that cannot be represented as a header
// value rather than aborting the response.
func stringifyHeaderValue(v lua.LValue) string {
	switch val := v.(type) {
	case lua.LString:
		return string(val)
	case lua.LNumber:
		return strconv.FormatFloat(float64(val), 'f', -1, 64)
	case lua.LBool:
		if bool(val) {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}
