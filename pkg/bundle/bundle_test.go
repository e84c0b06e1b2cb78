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

package bundle

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestBundle(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "bundle suite")
}

type testHelper interface {
	Helper()
	TempDir() string
	Fatal(args ...interface{})
}

func writeProject(t testHelper, id string) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"index.lua":         `add_event_listener("fetch", function(req) return {status=200} end)`,
		"lib/helpers.lua":    "return {}",
		"node_modules/x.lua": "-- should be ignored",
		"notes.txt":          "not included",
	}
	for rel, content := range files {
		full := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	m := &Manifest{
		ID:         &id,
		EntryPoint: "index.lua",
		Includes:   []string{"**/*.lua"},
		Ignore:     []string{"node_modules/**"},
	}
	if err := WriteManifest(dir, m); err != nil {
		t.Fatal(err)
	}
	return dir
}

var _ = Describe("Build", func() {
	It("selects included files, excludes ignored and the manifest itself", func() {
		dir := writeProject(GinkgoT(), "11111111-1111-1111-1111-111111111111")

		b, m, err := Build(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(m.EntryPoint).To(Equal("index.lua"))

		var paths []string
		for _, f := range b.Files {
			paths = append(paths, f.FilePath)
		}
		Expect(paths).To(ConsistOf("index.lua", "lib/helpers.lua"))
	})

	It("rejects a manifest whose entry_point is not in the included set", func() {
		dir := writeProject(GinkgoT(), "11111111-1111-1111-1111-111111111111")
		m, err := LoadManifest(dir)
		Expect(err).NotTo(HaveOccurred())
		m.EntryPoint = "missing.lua"
		Expect(WriteManifest(dir, m)).To(Succeed())

		_, _, err = Build(dir)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("compress/decompress", func() {
	It("round-trips arbitrary content and prefixes the original size", func() {
		data := []byte("the quick brown fox jumps over the lazy dog, repeated: " +
			"the quick brown fox jumps over the lazy dog")

		out, err := compress(data)
		Expect(err).NotTo(HaveOccurred())
		Expect(len(out)).To(BeNumerically(">=", 8))
		Expect(binary.LittleEndian.Uint64(out[:8])).To(Equal(uint64(len(data))))

		back, err := decompress(out)
		Expect(err).NotTo(HaveOccurred())
		Expect(back).To(Equal(data))
	})
})

var _ = Describe("Clone", func() {
	It("round-trips a built bundle back to disk byte-for-byte", func() {
		src := writeProject(GinkgoT(), "22222222-2222-2222-2222-222222222222")
		b, m, err := Build(src)
		Expect(err).NotTo(HaveOccurred())

		dst := GinkgoT().TempDir()
		Expect(Clone(dst, m, b.Files)).To(Succeed())

		cloned, clonedManifest, err := Build(dst)
		Expect(err).NotTo(HaveOccurred())
		Expect(clonedManifest.ID).To(Equal(m.ID))
		Expect(len(cloned.Files)).To(Equal(len(b.Files)))
	})

	It("refuses to clone into an unrelated non-empty directory", func() {
		src := writeProject(GinkgoT(), "33333333-3333-3333-3333-333333333333")
		b, m, err := Build(src)
		Expect(err).NotTo(HaveOccurred())

		dst := GinkgoT().TempDir()
		if err := os.WriteFile(filepath.Join(dst, "unrelated.txt"), []byte("x"), 0o644); err != nil {
			t := GinkgoT()
			t.Fatal(err)
		}

		err = Clone(dst, m, b.Files)
		Expect(err).To(HaveOccurred())
	})
})
