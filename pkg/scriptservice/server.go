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

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/actiasdev/actias/pkg/apperr"
	"github.com/actiasdev/actias/pkg/rpccodec"
	"github.com/actiasdev/actias/pkg/scriptservice/proto"
)

// Server adapts Service onto the generated-style ScriptServiceServer
// interface, translating *apperr.Error into gRPC status codes at the
// boundary (spec.md §7's error table).
type Server struct {
	svc *Service
}

var _ proto.ScriptServiceServer = (*Server)(nil)

func NewServer(svc *Service) *Server {
	return &Server{svc: svc}
}

// toStatus converts any error into a *status.Status, preserving the
// *apperr.Error's Kind-derived gRPC code when one is present.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if ae, ok := apperr.Of(err); ok {
		return status.Error(ae.GRPCCode(), ae.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

func (s *Server) CreateScript(ctx context.Context, req *proto.CreateScriptRequest) (*proto.Script, error) {
	sc, err := s.svc.CreateScript(ctx, req.ProjectID, req.PublicIdentifier)
	return sc, toStatus(err)
}

func (s *Server) QueryScript(ctx context.Context, req *proto.QueryScriptRequest) (*proto.Script, error) {
	sc, err := s.svc.QueryScript(ctx, req.ID, req.PublicIdentifier)
	return sc, toStatus(err)
}

func (s *Server) DeleteScript(ctx context.Context, req *proto.DeleteScriptRequest) (*proto.Empty, error) {
	err := s.svc.DeleteScript(ctx, req.ID)
	return &proto.Empty{}, toStatus(err)
}

func (s *Server) DeleteProject(ctx context.Context, req *proto.DeleteProjectRequest) (*proto.Empty, error) {
	err := s.svc.DeleteProject(ctx, req.ProjectID)
	return &proto.Empty{}, toStatus(err)
}

func (s *Server) CreateRevision(ctx context.Context, req *proto.CreateRevisionRequest) (*proto.Revision, error) {
	rev, err := s.svc.CreateRevision(ctx, req.ScriptID, req.ScriptConfigJSON, req.Bundle)
	return rev, toStatus(err)
}

func (s *Server) GetRevision(ctx context.Context, req *proto.GetRevisionRequest) (*proto.Revision, error) {
	rev, err := s.svc.GetRevision(ctx, req.ID, req.WithBundle)
	return rev, toStatus(err)
}

func (s *Server) ListRevisions(ctx context.Context, req *proto.ListRevisionsRequest) (*proto.ListRevisionsResponse, error) {
	resp, err := s.svc.ListRevisions(ctx, req.ScriptID, req.Page, req.PageSize)
	return resp, toStatus(err)
}

func (s *Server) DeleteRevision(ctx context.Context, req *proto.DeleteRevisionRequest) (*proto.DeleteRevisionResponse, error) {
	resp, err := s.svc.DeleteRevision(ctx, req.RevisionID)
	return resp, toStatus(err)
}

func (s *Server) SetScriptRevision(ctx context.Context, req *proto.SetScriptRevisionRequest) (*proto.SetScriptRevisionResponse, error) {
	resp, err := s.svc.SetScriptRevision(ctx, req.ScriptID, req.RevisionID)
	return resp, toStatus(err)
}

func (s *Server) GetSessionRevision(ctx context.Context, req *proto.SessionRevisionRequest) (*proto.Revision, error) {
	rev, err := s.svc.SessionRevision(ctx, req.ScriptID, req.SessionID)
	return rev, toStatus(err)
}

func (s *Server) PutSessionRevision(ctx context.Context, req *proto.PutSessionRevisionRequest) (*proto.PutSessionRevisionResponse, error) {
	rev := &proto.Revision{ScriptID: req.ScriptID, ScriptConfig: req.ScriptConfigJSON, Bundle: req.Bundle}
	if req.Bundle != nil {
		rev.EntryPoint = req.Bundle.EntryPoint
	}
	sessionID, err := s.svc.PutSessionRevision(ctx, req.ScriptID, rev)
	if err != nil {
		return nil, toStatus(err)
	}
	return &proto.PutSessionRevisionResponse{SessionID: sessionID}, nil
}

// DialClient dials target and returns a ready-to-use ScriptServiceClient
// using the json codec (pkg/rpccodec) instead of protobuf wire format.
func DialClient(target string, opts ...grpc.DialOption) (proto.ScriptServiceClient, *grpc.ClientConn, error) {
	opts = append(opts, grpc.WithDefaultCallOptions(grpc.CallContentSubtype(rpccodec.Name)))
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, nil, apperr.Wrap(err, apperr.KindCommunication, "dial script service")
	}
	return proto.NewScriptServiceClient(conn), conn, nil
}
