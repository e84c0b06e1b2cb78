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

package scriptservice

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/actiasdev/actias/pkg/apperr"
	"github.com/actiasdev/actias/pkg/scriptservice/proto"
)

func TestScriptService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "scriptservice suite")
}

var _ = Describe("Service validation", func() {
	var svc *Service

	BeforeEach(func() {
		// store/sessions are never reached by the cases below: each is
		// rejected before any I/O is attempted.
		svc = &Service{}
	})

	It("rejects CreateScript with a non-UUID project_id", func() {
		_, err := svc.CreateScript(context.Background(), "not-a-uuid", "my-script")
		Expect(err).To(HaveOccurred())
		ae, ok := apperr.Of(err)
		Expect(ok).To(BeTrue())
		Expect(ae.Kind).To(Equal(apperr.KindInvalidArgument))
	})

	It("rejects CreateScript with an empty public_identifier", func() {
		_, err := svc.CreateScript(context.Background(), "11111111-1111-1111-1111-111111111111", "")
		Expect(err).To(HaveOccurred())
	})

	It("rejects QueryScript with neither selector set", func() {
		_, err := svc.QueryScript(context.Background(), nil, nil)
		Expect(err).To(HaveOccurred())
	})

	It("rejects CreateRevision when the manifest id does not match script_id", func() {
		otherID := "22222222-2222-2222-2222-222222222222"
		cfg := `{"id":"` + otherID + `","entry_point":"index.lua","includes":["**/*.lua"]}`
		_, err := svc.CreateRevision(context.Background(), "11111111-1111-1111-1111-111111111111", cfg, &proto.Bundle{
			EntryPoint: "index.lua",
			Files:      []*proto.File{{FileName: "index.lua", FilePath: "index.lua"}},
		})
		Expect(err).To(HaveOccurred())
		ae, ok := apperr.Of(err)
		Expect(ok).To(BeTrue())
		Expect(ae.Kind).To(Equal(apperr.KindInvalidArgument))
	})

	It("rejects CreateRevision when entry_point is not among the bundle's files", func() {
		id := "11111111-1111-1111-1111-111111111111"
		cfg := `{"id":"` + id + `","entry_point":"missing.lua","includes":["**/*.lua"]}`
		_, err := svc.CreateRevision(context.Background(), id, cfg, &proto.Bundle{
			EntryPoint: "missing.lua",
			Files:      []*proto.File{{FileName: "index.lua", FilePath: "index.lua"}},
		})
		Expect(err).To(HaveOccurred())
	})

	It("rejects ListRevisions with a negative page", func() {
		_, err := svc.ListRevisions(context.Background(), nil, -1, 10)
		Expect(err).To(HaveOccurred())
	})

	It("returns an empty page with zero total_pages when page_size is 0", func() {
		resp, err := svc.ListRevisions(context.Background(), nil, 0, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.Items).To(BeEmpty())
		Expect(resp.TotalPages).To(Equal(int32(0)))
	})
})

var _ = Describe("ListRevisionsResponse.TotalPages", func() {
	It("holds zero total_pages when built for an empty result", func() {
		resp := &proto.ListRevisionsResponse{Page: 0, TotalPages: 0}
		Expect(resp.TotalPages).To(Equal(int32(0)))
	})
})
