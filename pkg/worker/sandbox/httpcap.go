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
	"bytes"
	"io"
	"net/http"
	"net/url"

	lua "github.com/yuin/gopher-lua"
	luar "layeh.com/gopher-luar"
)

// newURITable builds the script-facing Uri value: a plain table with
// scheme/authority/path/query string fields and a tostring closure. Uri
// is built by hand rather than with gopher-luar because its fields are
// spec-mandated lowercase identifiers, not Go struct field names luar
// would reflect verbatim; luar is used instead for header maps below,
// where the keys are runtime data rather than reflected identifiers.
func newURITable(L *lua.LState, scheme, authority, p, query string) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("scheme", lua.LString(scheme))
	t.RawSetString("authority", lua.LString(authority))
	t.RawSetString("path", lua.LString(p))
	t.RawSetString("query", lua.LString(query))
	t.RawSetString("tostring", newFunc(L, func(L *lua.LState) int {
		self := L.CheckTable(1)
		L.Push(lua.LString(uriTableString(self)))
		return 1
	}))
	return t
}

func uriTableString(t *lua.LTable) string {
	scheme := luaFieldString(t, "scheme")
	authority := luaFieldString(t, "authority")
	path := luaFieldString(t, "path")
	query := luaFieldString(t, "query")

	s := ""
	if scheme != "" {
		s += scheme + "://"
	}
	s += authority + path
	if query != "" {
		s += "?" + query
	}
	return s
}

func parseURIString(L *lua.LState, raw string) (*lua.LTable, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	return newURITable(L, u.Scheme, u.Host, u.Path, u.RawQuery), nil
}

// newHTTPCapability implements the http capability: make_request and
// the Uri value type (spec.md §4.2).
func newHTTPCapability(sb *Sandbox) lua.LValue {
	L := sb.L
	t := L.NewTable()

	uriModule := L.NewTable()
	uriModule.RawSetString("new", newFunc(L, func(L *lua.LState) int {
		parts := L.CheckTable(1)
		L.Push(newURITable(L,
			luaFieldString(parts, "scheme"),
			luaFieldString(parts, "authority"),
			luaFieldString(parts, "path"),
			luaFieldString(parts, "query"),
		))
		return 1
	}))
	uriModule.RawSetString("parse", newFunc(L, func(L *lua.LState) int {
		raw := L.CheckString(1)
		ut, err := parseURIString(L, raw)
		if err != nil {
			L.RaiseError("Uri.parse: %s", err.Error())
			return 0
		}
		L.Push(ut)
		return 1
	}))
	t.RawSetString("Uri", uriModule)

	t.RawSetString("make_request", newFunc(L, sb.luaMakeRequest))

	return t
}

func (sb *Sandbox) luaMakeRequest(L *lua.LState) int {
	opts := L.CheckTable(1)

	uri := resolveRequestURI(L, opts)
	if uri == "" {
		L.RaiseError("http.make_request: uri is required")
		return 0
	}

	method := luaFieldStringDefault(opts, "method", "GET")

	var bodyReader io.Reader
	if bodyVal, ok := opts.RawGetString("body").(lua.LString); ok {
		bodyReader = bytes.NewReader([]byte(bodyVal))
	}

	req, err := http.NewRequestWithContext(L.Context(), method, uri, bodyReader)
	if err != nil {
		L.RaiseError("http.make_request: %s", err.Error())
		return 0
	}

	if headers, ok := opts.RawGetString("headers").(*lua.LTable); ok {
		headers.ForEach(func(k, v lua.LValue) {
			name, ok := k.(lua.LString)
			if !ok {
				return
			}
			req.Header.Set(string(name), stringifyHeaderValue(v))
		})
	}

	client := sb.httpClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		L.RaiseError("http.make_request: %s", err.Error())
		return 0
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		L.RaiseError("http.make_request: %s", err.Error())
		return 0
	}

	flatHeaders := make(map[string]string, len(resp.Header))
	for name, values := range resp.Header {
		if len(values) > 0 {
			flatHeaders[name] = values[0]
		}
	}

	result := L.NewTable()
	result.RawSetString("status_code", lua.LNumber(resp.StatusCode))
	// luar-wraps the flattened header map the same way the incoming
	// request's headers are exposed (spec.md §4.2's make_request result).
	result.RawSetString("headers", luar.New(L, flatHeaders))
	result.RawSetString("body", lua.LString(body))

	L.Push(result)
	return 1
}

func resolveRequestURI(L *lua.LState, opts *lua.LTable) string {
	v := opts.RawGetString("uri")
	switch val := v.(type) {
	case lua.LString:
		return string(val)
	case *lua.LTable:
		return uriTableString(val)
	default:
		return ""
	}
}
