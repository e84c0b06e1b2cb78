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

// Package rpccodec registers a grpc encoding.Codec that marshals the
// script-service and KV-service wire messages as JSON instead of protobuf
// wire format. The two services' messages are plain Go structs (see
// pkg/scriptservice/proto and pkg/kvservice/proto) rather than
// protoc-generated types — see DESIGN.md for why. The rest of the gRPC
// stack (streaming, interceptors, status codes, keepalive) is the real
// google.golang.org/grpc transport, unchanged from the teacher's usage.
package rpccodec

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/encoding"
)

// Name is the content-subtype this codec is registered under. Clients must
// dial with grpc.CallContentSubtype(Name) (done once, in each service's
// client constructor) to use it instead of the default proto codec.
const Name = "json"

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("rpccodec: marshal: %w", err)
	}
	return b, nil
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("rpccodec: unmarshal: %w", err)
	}
	return nil
}

func (jsonCodec) Name() string { return Name }
