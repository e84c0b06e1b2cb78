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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchGlob(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		path    string
		want    bool
	}{
		{"exact path", "index.lua", "index.lua", true},
		{"single star within a segment", "*.lua", "index.lua", true},
		{"single star does not cross segments", "*.lua", "lib/helpers.lua", false},
		{"doublestar spans zero segments", "**/*.lua", "index.lua", true},
		{"doublestar spans one segment", "**/*.lua", "lib/helpers.lua", true},
		{"doublestar spans many segments", "**/*.lua", "a/b/c/d.lua", true},
		{"doublestar prefix", "node_modules/**", "node_modules/x.lua", true},
		{"doublestar prefix is anchored", "node_modules/**", "src/node_modules/x.lua", false},
		{"doublestar mid-pattern", "src/**/test/*.lua", "src/a/b/test/x.lua", true},
		{"extension mismatch", "**/*.lua", "notes.txt", false},
		{"trailing doublestar needs no remainder", "src/**", "src", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := matchGlob(tt.pattern, tt.path)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got, "pattern %q against %q", tt.pattern, tt.path)
		})
	}
}
