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
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	lua "github.com/yuin/gopher-lua"

	"github.com/actiasdev/actias/pkg/bundle"
)

func TestSandbox(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "sandbox suite")
}

var _ = Describe("KV value codec", func() {
	var L *lua.LState

	BeforeEach(func() {
		L = lua.NewState(lua.Options{SkipOpenLibs: true})
	})

	AfterEach(func() {
		L.Close()
	})

	It("round-trips every scalar ValueType of spec.md §4.4", func() {
		cases := []struct {
			name string
			v    lua.LValue
			typ  string
		}{
			{"boolean true", lua.LBool(true), "boolean"},
			{"boolean false", lua.LBool(false), "boolean"},
			{"integer", lua.LNumber(42), "integer"},
			{"negative integer", lua.LNumber(-7), "integer"},
			{"number", lua.LNumber(3.25), "number"},
			{"string", lua.LString("hello"), "string"},
		}
		for _, c := range cases {
			value, typ, isDelete, err := encodeKVValue(c.v)
			Expect(err).NotTo(HaveOccurred(), c.name)
			Expect(isDelete).To(BeFalse(), c.name)
			Expect(typ).To(Equal(c.typ), c.name)

			got, err := decodeKVValue(L, value, typ)
			Expect(err).NotTo(HaveOccurred(), c.name)
			Expect(got).To(Equal(c.v), c.name)
		}
	})

	It("encodes a table as json", func() {
		t := L.NewTable()
		t.RawSetString("a", lua.LNumber(1))
		value, typ, isDelete, err := encodeKVValue(t)
		Expect(err).NotTo(HaveOccurred())
		Expect(isDelete).To(BeFalse())
		Expect(typ).To(Equal("json"))
		Expect(value).To(ContainSubstring(`"a"`))

		got, err := decodeKVValue(L, value, typ)
		Expect(err).NotTo(HaveOccurred())
		gotTable, ok := got.(*lua.LTable)
		Expect(ok).To(BeTrue())
		Expect(gotTable.RawGetString("a")).To(Equal(lua.LNumber(1)))
	})

	It("treats nil as a delete", func() {
		_, _, isDelete, err := encodeKVValue(lua.LNil)
		Expect(err).NotTo(HaveOccurred())
		Expect(isDelete).To(BeTrue())
	})

	It("rejects a function value with SerializeError", func() {
		fn := L.NewFunction(func(L *lua.LState) int { return 0 })
		_, _, _, err := encodeKVValue(fn)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("SerializeError"))
	})
})

var _ = Describe("translateLuaErr", func() {
	It("produces the exact timeout wording spec.md §8 requires", func() {
		err := translateLuaErr(context.DeadlineExceeded, 5*time.Second)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("Script timed out, limit is 5 seconds"))
	})

	It("detects a deadline wrapped inside a gopher-lua ApiError", func() {
		wrapped := &lua.ApiError{Type: lua.ApiErrorRun, Object: lua.LString("context deadline exceeded")}
		err := translateLuaErr(wrapped, 1*time.Second)
		Expect(err.Error()).To(ContainSubstring("Script timed out, limit is 1 seconds"))
	})

	It("passes through an ordinary runtime error's message", func() {
		wrapped := &lua.ApiError{Type: lua.ApiErrorRun, Object: lua.LString("boom")}
		err := translateLuaErr(wrapped, time.Second)
		Expect(err.Error()).To(ContainSubstring("boom"))
		Expect(err.Error()).NotTo(ContainSubstring("timed out"))
	})
})

var _ = Describe("Sandbox lifecycle", func() {
	It("evaluates the entry point and registers a fetch listener", func() {
		b := &bundle.Bundle{
			EntryPoint: "index.lua",
			Files: []bundle.File{
				{FileName: "index.lua", FilePath: "index.lua", Content: []byte(
					`add_event_listener("fetch", function(req) return {status_code=200, body="ok"} end)`,
				)},
			},
		}
		sb, err := New(context.Background(), Config{Bundle: b, BundleEvalTimeLimit: time.Second})
		Expect(err).NotTo(HaveOccurred())
		defer sb.Close()

		_, ok := sb.FetchHandler()
		Expect(ok).To(BeTrue())
	})

	It("rejects an entry point missing from the bundle", func() {
		b := &bundle.Bundle{EntryPoint: "missing.lua"}
		_, err := New(context.Background(), Config{Bundle: b, BundleEvalTimeLimit: time.Second})
		Expect(err).To(HaveOccurred())
	})
})
