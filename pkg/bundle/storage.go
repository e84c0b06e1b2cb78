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

// CompressedFile is a File with its content in the at-rest lz4 wire
// format, as kept in the script service's files table.
type CompressedFile struct {
	FileName string
	FilePath string
	Content  []byte
}

// Compress converts a Bundle into its at-rest representation.
func Compress(b *Bundle) ([]CompressedFile, error) {
	out := make([]CompressedFile, 0, len(b.Files))
	for _, f := range b.Files {
		c, err := compress(f.Content)
		if err != nil {
			return nil, err
		}
		out = append(out, CompressedFile{FileName: f.FileName, FilePath: f.FilePath, Content: c})
	}
	return out, nil
}

// Decompress reverses Compress, reconstituting a worker-ready Bundle.
func Decompress(entryPoint string, files []CompressedFile) (*Bundle, error) {
	out := make([]File, 0, len(files))
	for _, f := range files {
		raw, err := decompress(f.Content)
		if err != nil {
			return nil, err
		}
		out = append(out, File{FileName: f.FileName, FilePath: f.FilePath, Content: raw})
	}
	return &Bundle{EntryPoint: entryPoint, Files: out}, nil
}
