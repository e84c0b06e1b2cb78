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

package kvservice

import (
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestKVService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "kvservice suite")
}

var _ = Describe("continuation tokens", func() {
	It("round-trips arbitrary page state bytes", func() {
		state := []byte{0x00, 0xFF, 0x10, 0x7E, 0x01}
		tok := encodeToken(state)
		Expect(tok).NotTo(BeEmpty())
		Expect(tok).NotTo(ContainSubstring("="))

		back, err := decodeToken(tok)
		Expect(err).NotTo(HaveOccurred())
		Expect(back).To(Equal(state))
	})

	It("encodes an empty page state as the empty string", func() {
		Expect(encodeToken(nil)).To(Equal(""))
		Expect(encodeToken([]byte{})).To(Equal(""))
	})

	It("decodes the empty token as a nil page state", func() {
		back, err := decodeToken("")
		Expect(err).NotTo(HaveOccurred())
		Expect(back).To(BeNil())
	})

	It("rejects a malformed token", func() {
		_, err := decodeToken("not base64 url!!")
		Expect(err).To(HaveOccurred())
	})

	It("never pads its encoding", func() {
		for i := 1; i < 8; i++ {
			tok := encodeToken(make([]byte, i))
			Expect(strings.HasSuffix(tok, "=")).To(BeFalse())
		}
	})
})

var _ = Describe("ValueTypes", func() {
	It("accepts exactly the canonical five types", func() {
		for _, typ := range []string{"string", "integer", "number", "boolean", "json"} {
			Expect(ValueTypes[typ]).To(BeTrue())
		}
	})

	It("rejects historical aliases", func() {
		Expect(ValueTypes["object"]).To(BeFalse())
	})
})
