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

// Package sandbox is the per-request script runtime (spec.md §4.2): a
// single-use, non-thread-safe gopher-lua interpreter instance assembled
// from a revision bundle, exposing a curated capability surface and
// enforcing wall-clock and memory bounds.
package sandbox

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/actiasdev/actias/pkg/apperr"
	"github.com/actiasdev/actias/pkg/bundle"
)

const registryModules = "__actias_modules"

// eventFetch is the only recognized event name (spec.md §4.2).
const eventFetch = "fetch"

// Config configures a Sandbox's construction.
type Config struct {
	Bundle *bundle.Bundle

	// BundleEvalTimeLimit bounds entry-point evaluation (spec.md §4.2's
	// "default 1-second bound").
	BundleEvalTimeLimit time.Duration

	// MemoryCapBytes is the best-effort watchdog's delta threshold; <= 0
	// disables it.
	MemoryCapBytes int64

	// HTTPClient is the shared egress client for http.make_request
	// (SPEC_FULL.md §4.1); callers build it once per worker process.
	HTTPClient *http.Client

	// KV, if non-nil, backs the kv capability extension.
	KV KVBackend
}

// KVBackend is the worker-side abstraction the kv capability dispatches
// through; pkg/worker implements it against the KV service gRPC client.
type KVBackend interface {
	Get(ctx context.Context, namespace, key string) (value string, typ string, found bool, err error)
	Set(ctx context.Context, namespace, key, value, typ string, ttlSeconds int64) error
	SetBatch(ctx context.Context, namespace string, pairs map[string]struct {
		Value string
		Type  string
	}) error
	Delete(ctx context.Context, namespace string, keys []string) error
}

// Sandbox is one interpreter instance, good for exactly one request.
type Sandbox struct {
	L        *lua.LState
	files    *fileIndex
	watchdog *memoryWatchdog
	cancel   context.CancelFunc

	httpClient *http.Client
	kv         KVBackend

	fetchHandler *lua.LFunction

	// closers releases arena-owned resources (e.g. wazero runtimes) that
	// capability extensions create on the sandbox's behalf; see spec.md
	// §9 "Cyclic handle ownership".
	closers []func()
}

// own registers a cleanup func to run when the sandbox is torn down.
func (sb *Sandbox) own(closer func()) {
	sb.closers = append(sb.closers, closer)
}

// New constructs a Sandbox, evaluates the bundle's entry point under the
// configured bundle-eval deadline, and returns it ready to dispatch a
// fetch event. The caller must call Close.
func New(rootCtx context.Context, cfg Config) (*Sandbox, error) {
	if cfg.Bundle == nil {
		return nil, apperr.NewValidationError("sandbox: bundle is required")
	}

	opts := lua.Options{
		SkipOpenLibs:        true,
		CallStackSize:       256,
		RegistrySize:        1 << 16,
		RegistryMaxSize:     1 << 18,
		IncludeGoStackTrace: false,
	}
	L := lua.NewState(opts)

	for _, open := range []func(*lua.LState) int{
		lua.OpenBase,
		lua.OpenString,
		lua.OpenTable,
		lua.OpenMath,
		lua.OpenCoroutine,
	} {
		open(L)
	}

	ctx, cancel := context.WithCancel(rootCtx)

	sb := &Sandbox{
		L:          L,
		files:      newFileIndex(cfg.Bundle),
		cancel:     cancel,
		httpClient: cfg.HTTPClient,
		kv:         cfg.KV,
	}
	sb.watchdog = startMemoryWatchdog(cfg.MemoryCapBytes, cancel)

	L.SetContext(ctx)
	L.SetGlobal(registryModules, L.NewTable())

	sb.installGlobals()
	sb.installCapabilities()

	evalCtx, evalCancel := context.WithTimeout(ctx, nonZero(cfg.BundleEvalTimeLimit, time.Second))
	defer evalCancel()
	L.SetContext(evalCtx)

	entry, ok := sb.files.byPath(cfg.Bundle.EntryPoint)
	if !ok {
		entry, ok = sb.files.byName(cfg.Bundle.EntryPoint)
	}
	if !ok {
		sb.Close()
		return nil, apperr.NewValidationError("entry_point does not name a file in the bundle")
	}

	if err := sb.runChunk(entry.Content, "="+entry.FilePath); err != nil {
		sb.Close()
		return nil, translateLuaErr(err, nonZero(cfg.BundleEvalTimeLimit, time.Second))
	}

	return sb, nil
}

// Close releases the interpreter and stops the watchdog. Safe to call
// more than once.
func (sb *Sandbox) Close() {
	for i := len(sb.closers) - 1; i >= 0; i-- {
		sb.closers[i]()
	}
	sb.watchdog.Stop()
	sb.cancel()
	sb.L.Close()
}

// ArmRequestDeadline replaces the interpreter's context with one bounded
// by limit, per spec.md §4.2 ("armed when the fetch handler is invoked").
func (sb *Sandbox) ArmRequestDeadline(parent context.Context, limit time.Duration) context.CancelFunc {
	ctx, cancel := context.WithTimeout(parent, limit)
	sb.L.SetContext(ctx)
	return cancel
}

// FetchHandler reports whether add_event_listener("fetch", fn) was
// called during entry-point evaluation.
func (sb *Sandbox) FetchHandler() (*lua.LFunction, bool) {
	return sb.fetchHandler, sb.fetchHandler != nil
}

// runChunk loads and protected-calls source under chunkName, returning
// any Lua error (including a wall-clock-interrupt error) as a Go error.
func (sb *Sandbox) runChunk(source []byte, chunkName string) error {
	fn, err := sb.L.Load(bytes.NewReader(source), chunkName)
	if err != nil {
		return err
	}
	return sb.L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	})
}

// guard wraps a host-provided Go function so that a Go panic becomes a
// Lua runtime error instead of crashing the process (spec.md §4.2's
// "panic boundary").
func guard(fn lua.LGFunction) lua.LGFunction {
	return func(L *lua.LState) (n int) {
		defer func() {
			if r := recover(); r != nil {
				L.RaiseError("%v", r)
			}
		}()
		return fn(L)
	}
}

func (sb *Sandbox) installGlobals() {
	L := sb.L
	L.SetGlobal("require", L.NewFunction(guard(sb.luaRequire)))
	L.SetGlobal("dofile", L.NewFunction(guard(sb.luaDofile)))
	L.SetGlobal("getfile", L.NewFunction(guard(sb.luaGetfile)))
	L.SetGlobal("add_event_listener", L.NewFunction(guard(sb.luaAddEventListener)))
}

// luaAddEventListener implements add_event_listener(name, fn). The
// recognized event set is closed to {"fetch"} (spec.md §4.2).
func (sb *Sandbox) luaAddEventListener(L *lua.LState) int {
	name := L.CheckString(1)
	fn := L.CheckFunction(2)

	if name != eventFetch {
		L.RaiseError("unknown event %q", name)
		return 0
	}
	sb.fetchHandler = fn
	return 0
}

// luaRequire implements require(name): resolve against bundle files,
// evaluate once, cache. Non-file names fall through to the module
// registry (capability modules registered by the host).
func (sb *Sandbox) luaRequire(L *lua.LState) int {
	name := L.CheckString(1)

	modules := L.GetGlobal(registryModules).(*lua.LTable)
	if cached := modules.RawGetString(name); cached.Type() != lua.LTNil {
		L.Push(cached)
		return 1
	}

	f, ok := sb.resolveModuleFile(name)
	if !ok {
		L.RaiseError("module %q not found", name)
		return 0
	}

	fn, err := L.Load(bytes.NewReader(f.Content), "="+f.FilePath)
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}); err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}

	result := L.Get(-1)
	L.Pop(1)
	modules.RawSetString(name, result)
	L.Push(result)
	return 1
}

// resolveModuleFile tries name, name+".lua", and a dotted-to-slash
// normalization, in that order (spec.md §4.2).
func (sb *Sandbox) resolveModuleFile(name string) (bundle.File, bool) {
	if f, ok := sb.files.byPath(name); ok {
		return f, true
	}
	if f, ok := sb.files.byName(name); ok {
		return f, true
	}
	if f, ok := sb.files.byPath(name + ".lua"); ok {
		return f, true
	}
	if f, ok := sb.files.byName(name + ".lua"); ok {
		return f, true
	}
	slashed := strings.ReplaceAll(name, ".", "/")
	if f, ok := sb.files.byPath(slashed + ".lua"); ok {
		return f, true
	}
	return bundle.File{}, false
}

// luaDofile implements dofile(path): evaluate a file by exact relative
// path each call, without caching.
func (sb *Sandbox) luaDofile(L *lua.LState) int {
	p := L.CheckString(1)
	f, ok := sb.files.byPath(p)
	if !ok {
		L.RaiseError("file %q not found", p)
		return 0
	}

	fn, err := L.Load(bytes.NewReader(f.Content), "="+f.FilePath)
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}); err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	return 1
}

// luaGetfile implements getfile(path): returns raw bytes, or nil.
func (sb *Sandbox) luaGetfile(L *lua.LState) int {
	p := L.CheckString(1)
	f, ok := sb.files.byPath(p)
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(f.Content))
	return 1
}

func nonZero(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}

// translateLuaErr replaces gopher-lua's generic context-cancellation
// wording with the literal message spec.md §8 requires ("Script timed
// out, limit is N seconds") whenever the interruption was a deadline,
// and otherwise wraps the Lua error as a ScriptRuntime apperr.
func translateLuaErr(err error, limit time.Duration) error {
	if err == nil {
		return nil
	}
	if isDeadlineErr(err) {
		return apperr.NewScriptRuntimeError(fmt.Sprintf("Script timed out, limit is %d seconds", int(limit.Seconds())))
	}
	return apperr.NewScriptRuntimeError(luaErrString(err))
}

// IsTimeout reports whether err is a wall-clock-governor interrupt
// produced by translateLuaErr.
func IsTimeout(err error) bool {
	ae, ok := apperr.Of(err)
	return ok && ae.Kind == apperr.KindScriptRuntime && strings.HasPrefix(ae.Message, "Script timed out")
}

func isDeadlineErr(err error) bool {
	if err == nil {
		return false
	}
	if err == context.DeadlineExceeded {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, context.DeadlineExceeded.Error()) || strings.Contains(msg, "context deadline exceeded")
}

// luaErrString extracts a clean message from a gopher-lua error, which
// may be an *lua.ApiError wrapping an LValue.
func luaErrString(err error) string {
	if ae, ok := err.(*lua.ApiError); ok {
		if ae.Object != nil {
			if s, ok := ae.Object.(lua.LString); ok {
				return string(s)
			}
			return ae.Object.String()
		}
	}
	return err.Error()
}

// capabilityFactory builds a capability's script-visible value.
type capabilityFactory func(sb *Sandbox) lua.LValue

type capabilityDef struct {
	name    string
	def     bool
	factory capabilityFactory
}

// builtinCapabilities is the closed set from spec.md §4.2's table.
var builtinCapabilities = []capabilityDef{
	{name: "json", def: true, factory: newJSONCapability},
	{name: "uuid", def: true, factory: newUUIDCapability},
	{name: "http", def: true, factory: newHTTPCapability},
	{name: "crypto", def: true, factory: newCryptoCapability},
	{name: "jwt", def: true, factory: newJWTCapability},
	{name: "kv", def: true, factory: newKVCapability},
	{name: "wasm", def: true, factory: newWasmCapability},
}

// registerCapability installs a single capability into both the module
// registry (for require(name)) and, if def, as a global.
func (sb *Sandbox) registerCapability(name string, def bool, factory capabilityFactory) {
	v := factory(sb)
	modules := sb.L.GetGlobal(registryModules).(*lua.LTable)
	modules.RawSetString(name, v)
	if def {
		sb.L.SetGlobal(name, v)
	}
}

func (sb *Sandbox) installCapabilities() {
	for _, c := range builtinCapabilities {
		sb.registerCapability(c.name, c.def, c.factory)
	}
}

// newFunc is a small helper capability files use to build guarded
// LGFunction values on the interpreter.
func newFunc(L *lua.LState, fn lua.LGFunction) *lua.LFunction {
	return L.NewFunction(guard(fn))
}
