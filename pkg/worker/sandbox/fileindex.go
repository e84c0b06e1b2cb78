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
	"path"

	"github.com/actiasdev/actias/pkg/bundle"
)

// fileIndex gives O(1) lookups of a bundle's files by exact relative path
// and by base file name, backing require/dofile/getfile (spec.md §4.2).
type fileIndex struct {
	byFilePath map[string]bundle.File
	byFileName map[string]bundle.File
}

func newFileIndex(b *bundle.Bundle) *fileIndex {
	idx := &fileIndex{
		byFilePath: make(map[string]bundle.File, len(b.Files)),
		byFileName: make(map[string]bundle.File, len(b.Files)),
	}
	for _, f := range b.Files {
		idx.byFilePath[f.FilePath] = f
		if _, exists := idx.byFileName[f.FileName]; !exists {
			idx.byFileName[f.FileName] = f
		}
	}
	return idx
}

func (idx *fileIndex) byPath(p string) (bundle.File, bool) {
	f, ok := idx.byFilePath[path.Clean(p)]
	return f, ok
}

func (idx *fileIndex) byName(n string) (bundle.File, bool) {
	f, ok := idx.byFileName[n]
	return f, ok
}
