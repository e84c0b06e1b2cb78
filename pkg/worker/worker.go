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

// Package worker implements the HTTP front door (spec.md §4.1): routing
// a request to its script's current revision, constructing a sandbox,
// dispatching the fetch event, and serializing the response.
package worker

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-logr/logr"

	"github.com/actiasdev/actias/pkg/apperr"
	"github.com/actiasdev/actias/pkg/bundle"
	"github.com/actiasdev/actias/pkg/metrics"
	"github.com/actiasdev/actias/pkg/scriptservice/proto"
	"github.com/actiasdev/actias/pkg/worker/sandbox"
)

// Worker is the HTTP handler implementing spec.md §4.1's request
// lifecycle.
type Worker struct {
	scriptClient proto.ScriptServiceClient
	kvBackend    KVBackendFactory

	httpClient *http.Client
	log        logr.Logger

	bundleEvalTimeLimit time.Duration
	defaultTimeLimit    time.Duration
	memoryCapBytes      int64
}

// KVBackendFactory builds a sandbox.KVBackend scoped to one project,
// for a request's kv capability.
type KVBackendFactory func(projectID string) sandbox.KVBackend

// Config configures a Worker.
type Config struct {
	ScriptClient        proto.ScriptServiceClient
	KVBackend           KVBackendFactory
	HTTPClient          *http.Client
	Log                 logr.Logger
	BundleEvalTimeLimit time.Duration
	DefaultTimeLimit    time.Duration
	MemoryCapBytes      int64
}

func New(cfg Config) *Worker {
	return &Worker{
		scriptClient:        cfg.ScriptClient,
		kvBackend:           cfg.KVBackend,
		httpClient:          cfg.HTTPClient,
		log:                 cfg.Log,
		bundleEvalTimeLimit: cfg.BundleEvalTimeLimit,
		defaultTimeLimit:    cfg.DefaultTimeLimit,
		memoryCapBytes:      cfg.MemoryCapBytes,
	}
}

func (w *Worker) ServeHTTP(respWriter http.ResponseWriter, r *http.Request) {
	identifier, rest := splitIdentifier(r.URL.Path)
	if identifier == "" {
		writeErr(respWriter, http.StatusNotFound, "Invalid script")
		return
	}

	rw := &statusRecorder{ResponseWriter: respWriter, status: http.StatusOK}
	start := time.Now()
	defer func() {
		metrics.RequestsTotal.WithLabelValues(identifier, strconv.Itoa(rw.status)).Inc()
		metrics.RequestDuration.WithLabelValues(identifier).Observe(time.Since(start).Seconds())
	}()

	ctx := r.Context()
	sessionID := r.Header.Get("X-Actias-Session")

	sc, rev, err := w.resolveRevision(ctx, identifier, sessionID)
	if err != nil {
		w.writeUpstreamErr(rw, err)
		return
	}
	if rev == nil {
		writeErr(rw, http.StatusNotFound, "Script did not have a revision.")
		return
	}

	b := revisionToBundle(rev)

	kv := sandbox.KVBackend(nil)
	if w.kvBackend != nil {
		kv = w.kvBackend(sc.ProjectID)
	}

	sb, err := sandbox.New(ctx, sandbox.Config{
		Bundle:              b,
		BundleEvalTimeLimit: w.bundleEvalTimeLimit,
		MemoryCapBytes:      w.memoryCapBytes,
		HTTPClient:          w.httpClient,
		KV:                  kv,
	})
	if err != nil {
		writeErr(rw, http.StatusInternalServerError, errorMessage(err))
		return
	}
	defer sb.Close()

	if _, ok := sb.FetchHandler(); !ok {
		writeErr(rw, http.StatusInternalServerError, "script did not register a fetch listener")
		return
	}

	contextURI := buildContextURI(r.URL, rest)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeErr(rw, http.StatusInternalServerError, err.Error())
		return
	}

	req := sandbox.Request{
		URI:        r.URL.String(),
		ContextURI: contextURI,
		Method:     r.Method,
		Headers:    flattenHeaders(r.Header),
		Version:    r.Proto,
		Body:       body,
	}

	limit := nonZeroDuration(w.defaultTimeLimit, 30*time.Second)
	cancel := sb.ArmRequestDeadline(ctx, limit)
	defer cancel()

	resp, err := sb.Dispatch(ctx, req, limit)
	if err != nil {
		if sandbox.IsTimeout(err) {
			metrics.SandboxTimeouts.WithLabelValues(identifier).Inc()
		}
		writeErr(rw, http.StatusInternalServerError, errorMessage(err))
		return
	}

	for k, v := range resp.Headers {
		rw.Header().Set(k, v)
	}
	status := resp.StatusCode
	if status < 100 || status > 599 {
		status = 200
	}
	rw.WriteHeader(status)
	if len(resp.Body) > 0 {
		rw.Write(resp.Body)
	}
}

// resolveRevision fetches the script, then its current revision (or an
// optional session revision when the request carries
// X-Actias-Session), per spec.md §4.1 step 2 and SPEC_FULL.md §3.
func (w *Worker) resolveRevision(ctx context.Context, identifier, sessionID string) (*proto.Script, *proto.Revision, error) {
	sc, err := w.scriptClient.QueryScript(ctx, &proto.QueryScriptRequest{PublicIdentifier: &identifier})
	if err != nil {
		return nil, nil, err
	}

	if sessionID != "" {
		rev, err := w.scriptClient.GetSessionRevision(ctx, &proto.SessionRevisionRequest{
			ScriptID:  sc.ID,
			SessionID: sessionID,
		})
		if err == nil && rev != nil {
			return sc, rev, nil
		}
	}

	if sc.CurrentRevisionID == nil {
		return sc, nil, nil
	}

	rev, err := w.scriptClient.GetRevision(ctx, &proto.GetRevisionRequest{
		ID:         *sc.CurrentRevisionID,
		WithBundle: true,
	})
	if err != nil {
		return nil, nil, err
	}
	return sc, rev, nil
}

// writeUpstreamErr maps a script-lookup error onto its upstream status
// where possible (404 for not-found, 500 otherwise; spec.md §4.1
// "Errors").
func (w *Worker) writeUpstreamErr(rw http.ResponseWriter, err error) {
	if appErrKind(err) == apperr.KindNotFound {
		writeErr(rw, http.StatusNotFound, "Invalid script")
		return
	}
	writeErr(rw, http.StatusInternalServerError, errorMessage(err))
}

// appErrKind resolves err's Kind whether it is a local *apperr.Error or
// a gRPC status error that crossed the script-service wire.
func appErrKind(err error) apperr.Kind {
	if ae, ok := apperr.Of(err); ok {
		return ae.Kind
	}
	if ae, ok := apperr.FromGRPCStatus(err); ok {
		return ae.Kind
	}
	return apperr.KindInternal
}

// revisionToBundle converts the wire Revision's bundle into the
// in-memory bundle.Bundle the sandbox package consumes.
func revisionToBundle(rev *proto.Revision) *bundle.Bundle {
	if rev.Bundle == nil {
		return &bundle.Bundle{EntryPoint: rev.EntryPoint}
	}
	files := make([]bundle.File, 0, len(rev.Bundle.Files))
	for _, f := range rev.Bundle.Files {
		files = append(files, bundle.File{
			FileName: f.FileName,
			FilePath: f.FilePath,
			Content:  f.Content,
		})
	}
	return &bundle.Bundle{EntryPoint: rev.Bundle.EntryPoint, Files: files}
}

// splitIdentifier splits a request path into its leading public
// identifier segment and the remainder (including the leading slash),
// per spec.md §4.1 step 1 / §6.1.
func splitIdentifier(p string) (identifier, rest string) {
	trimmed := strings.TrimPrefix(p, "/")
	if trimmed == "" {
		return "", "/"
	}
	idx := strings.IndexByte(trimmed, '/')
	if idx < 0 {
		return trimmed, "/"
	}
	return trimmed[:idx], trimmed[idx:]
}

// buildContextURI drops the leading public-identifier segment while
// preserving scheme, authority, remaining path, and query (spec.md
// §4.1 step 4, testable property #7).
func buildContextURI(u *url.URL, rest string) string {
	out := &url.URL{
		Scheme:   u.Scheme,
		Host:     u.Host,
		Path:     rest,
		RawQuery: u.RawQuery,
	}
	return out.String()
}

func flattenHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

func nonZeroDuration(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}

// errorMessage extracts the literal message of an *apperr.Error rather
// than its "Kind: Message"-formatted Error() string, so responses match
// the exact wording spec.md's testable scenarios require.
func errorMessage(err error) string {
	if ae, ok := apperr.Of(err); ok {
		return ae.Message
	}
	if ae, ok := apperr.FromGRPCStatus(err); ok {
		return ae.Message
	}
	return err.Error()
}

func writeErr(rw http.ResponseWriter, status int, msg string) {
	rw.WriteHeader(status)
	rw.Write([]byte(msg))
}

// statusRecorder remembers the status code written to it so ServeHTTP's
// deferred metrics observation can label by outcome.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
