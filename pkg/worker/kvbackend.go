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
	"context"

	"github.com/actiasdev/actias/pkg/apperr"
	"github.com/actiasdev/actias/pkg/kvservice/proto"
	"github.com/actiasdev/actias/pkg/worker/sandbox"
)

// grpcKVBackend adapts the KV service gRPC client onto sandbox.KVBackend
// for a single project, scoping every call with that project's ID.
type grpcKVBackend struct {
	client    proto.KVServiceClient
	projectID string
}

// NewKVBackendFactory builds a KVBackendFactory bound to client, for
// wiring into worker.Config.
func NewKVBackendFactory(client proto.KVServiceClient) KVBackendFactory {
	return func(projectID string) sandbox.KVBackend {
		return &grpcKVBackend{client: client, projectID: projectID}
	}
}

func (b *grpcKVBackend) Get(ctx context.Context, namespace, key string) (string, string, bool, error) {
	p, err := b.client.GetPair(ctx, &proto.PairRequest{ProjectID: b.projectID, Namespace: namespace, Key: key})
	if err != nil {
		if appErrKind(err) == apperr.KindNotFound {
			return "", "", false, nil
		}
		return "", "", false, err
	}
	return p.Value, p.Type, true, nil
}

func (b *grpcKVBackend) Set(ctx context.Context, namespace, key, value, typ string, ttlSeconds int64) error {
	pair := &proto.Pair{ProjectID: b.projectID, Namespace: namespace, Key: key, Value: value, Type: typ}
	if ttlSeconds > 0 {
		pair.TTL = &ttlSeconds
	}
	_, err := b.client.SetPairs(ctx, &proto.SetPairsRequest{Pairs: []*proto.Pair{pair}})
	return err
}

func (b *grpcKVBackend) SetBatch(ctx context.Context, namespace string, pairs map[string]struct {
	Value string
	Type  string
}) error {
	req := &proto.SetPairsRequest{Pairs: make([]*proto.Pair, 0, len(pairs))}
	for key, pv := range pairs {
		req.Pairs = append(req.Pairs, &proto.Pair{
			ProjectID: b.projectID,
			Namespace: namespace,
			Key:       key,
			Value:     pv.Value,
			Type:      pv.Type,
		})
	}
	_, err := b.client.SetPairs(ctx, req)
	return err
}

func (b *grpcKVBackend) Delete(ctx context.Context, namespace string, keys []string) error {
	req := &proto.DeletePairsRequest{Pairs: make([]*proto.PairRequest, 0, len(keys))}
	for _, key := range keys {
		req.Pairs = append(req.Pairs, &proto.PairRequest{ProjectID: b.projectID, Namespace: namespace, Key: key})
	}
	_, err := b.client.DeletePairs(ctx, req)
	return err
}
