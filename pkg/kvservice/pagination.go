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
	"encoding/base64"

	"github.com/actiasdev/actias/pkg/apperr"
)

// tokenCodec is the no-pad base64 encoding spec.md's ListPairs design note
// prescribes for the opaque continuation token: "if the underlying store
// is replaced, the token may be replaced with any opaque byte string of
// the new store." gocql's own PageState() bytes are the payload; this
// package never interprets them.
var tokenCodec = base64.RawURLEncoding

// encodeToken wraps a gocql page state as an opaque token string. A nil
// or empty state (the scan is exhausted) encodes to "".
func encodeToken(pageState []byte) string {
	if len(pageState) == 0 {
		return ""
	}
	return tokenCodec.EncodeToString(pageState)
}

// decodeToken reverses encodeToken. An empty token decodes to a nil page
// state, meaning "start from the beginning".
func decodeToken(token string) ([]byte, error) {
	if token == "" {
		return nil, nil
	}
	b, err := tokenCodec.DecodeString(token)
	if err != nil {
		return nil, apperr.NewValidationError("malformed continuation token")
	}
	return b, nil
}
