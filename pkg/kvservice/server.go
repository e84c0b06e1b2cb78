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
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/actiasdev/actias/pkg/apperr"
	"github.com/actiasdev/actias/pkg/kvservice/proto"
	"github.com/actiasdev/actias/pkg/rpccodec"
)

// Server adapts Service onto the generated-style KVServiceServer
// interface.
type Server struct {
	svc *Service
}

var _ proto.KVServiceServer = (*Server)(nil)

func NewServer(svc *Service) *Server {
	return &Server{svc: svc}
}

func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if ae, ok := apperr.Of(err); ok {
		return status.Error(ae.GRPCCode(), ae.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

func (s *Server) GetPair(ctx context.Context, req *proto.PairRequest) (*proto.Pair, error) {
	p, err := s.svc.GetPair(ctx, req)
	return p, toStatus(err)
}

func (s *Server) SetPairs(ctx context.Context, req *proto.SetPairsRequest) (*proto.Empty, error) {
	err := s.svc.SetPairs(ctx, req.Pairs)
	return &proto.Empty{}, toStatus(err)
}

func (s *Server) DeletePairs(ctx context.Context, req *proto.DeletePairsRequest) (*proto.Empty, error) {
	err := s.svc.DeletePairs(ctx, req.Pairs)
	return &proto.Empty{}, toStatus(err)
}

func (s *Server) ListPairs(ctx context.Context, req *proto.ListPairsRequest) (*proto.ListPairsResponse, error) {
	resp, err := s.svc.ListPairs(ctx, req)
	return resp, toStatus(err)
}

func (s *Server) ListNamespaces(ctx context.Context, req *proto.ListNamespacesRequest) (*proto.ListNamespacesResponse, error) {
	resp, err := s.svc.ListNamespaces(ctx, req.ProjectID)
	return resp, toStatus(err)
}

func (s *Server) DeleteNamespace(ctx context.Context, req *proto.DeleteNamespaceRequest) (*proto.Empty, error) {
	err := s.svc.DeleteNamespace(ctx, req.ProjectID, req.Namespace)
	return &proto.Empty{}, toStatus(err)
}

func (s *Server) DeleteProject(ctx context.Context, req *proto.DeleteProjectRequest) (*proto.Empty, error) {
	err := s.svc.DeleteProject(ctx, req.ProjectID)
	return &proto.Empty{}, toStatus(err)
}

// DialClient dials target and returns a ready-to-use KVServiceClient
// using the json codec (pkg/rpccodec) instead of protobuf wire format.
func DialClient(target string, opts ...grpc.DialOption) (proto.KVServiceClient, *grpc.ClientConn, error) {
	opts = append(opts, grpc.WithDefaultCallOptions(grpc.CallContentSubtype(rpccodec.Name)))
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, nil, apperr.Wrap(err, apperr.KindCommunication, "dial kv service")
	}
	return proto.NewKVServiceClient(conn), conn, nil
}
