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

package worker

import (
	"errors"
	"net/url"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"google.golang.org/grpc/status"

	"github.com/actiasdev/actias/pkg/apperr"
)

func TestWorker(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "worker suite")
}

var _ = Describe("splitIdentifier", func() {
	It("splits the leading public-identifier segment from the rest", func() {
		id, rest := splitIdentifier("/my-script/sub/path")
		Expect(id).To(Equal("my-script"))
		Expect(rest).To(Equal("/sub/path"))
	})

	It("defaults rest to / when the identifier has no remainder", func() {
		id, rest := splitIdentifier("/my-script")
		Expect(id).To(Equal("my-script"))
		Expect(rest).To(Equal("/"))
	})

	It("returns an empty identifier for the root path", func() {
		id, rest := splitIdentifier("/")
		Expect(id).To(Equal(""))
		Expect(rest).To(Equal("/"))
	})
})

var _ = Describe("buildContextURI", func() {
	It("drops the public-identifier segment while keeping scheme, host, path and query", func() {
		u := &url.URL{Scheme: "https", Host: "actias.dev", Path: "/my-script/a/b", RawQuery: "x=1"}
		got := buildContextURI(u, "/a/b")
		Expect(got).To(Equal("https://actias.dev/a/b?x=1"))
	})
})

var _ = Describe("errorMessage and appErrKind", func() {
	It("extracts the literal message from a local *apperr.Error", func() {
		err := apperr.New(apperr.KindNotFound, "script not found")
		Expect(errorMessage(err)).To(Equal("script not found"))
		Expect(appErrKind(err)).To(Equal(apperr.KindNotFound))
	})

	It("extracts the literal message across a gRPC status boundary", func() {
		original := apperr.New(apperr.KindNotFound, "script not found")
		st := status.Error(original.GRPCCode(), original.Error())

		Expect(errorMessage(st)).To(Equal("script not found"))
		Expect(appErrKind(st)).To(Equal(apperr.KindNotFound))
	})

	It("falls back to KindInternal and Error() for an unrecognized error", func() {
		err := errors.New("boom")
		Expect(errorMessage(err)).To(Equal("boom"))
		Expect(appErrKind(err)).To(Equal(apperr.KindInternal))
	})
})

var _ = Describe("flattenHeaders", func() {
	It("keeps only the first value of each header", func() {
		h := map[string][]string{"X-Foo": {"a", "b"}, "X-Empty": {}}
		got := flattenHeaders(h)
		Expect(got).To(HaveKeyWithValue("X-Foo", "a"))
		Expect(got).NotTo(HaveKey("X-Empty"))
	})
})
