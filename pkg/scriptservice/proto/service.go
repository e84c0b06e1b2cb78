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

package proto

import (
	"context"

	"google.golang.org/grpc"
)

const scriptServiceName = "actias.scriptservice.v1.ScriptService"

// ScriptServiceServer is the server-side interface for spec.md §4.3's
// operations. It is implemented by pkg/scriptservice.Server.
type ScriptServiceServer interface {
	CreateScript(context.Context, *CreateScriptRequest) (*Script, error)
	QueryScript(context.Context, *QueryScriptRequest) (*Script, error)
	DeleteScript(context.Context, *DeleteScriptRequest) (*Empty, error)
	DeleteProject(context.Context, *DeleteProjectRequest) (*Empty, error)
	CreateRevision(context.Context, *CreateRevisionRequest) (*Revision, error)
	GetRevision(context.Context, *GetRevisionRequest) (*Revision, error)
	ListRevisions(context.Context, *ListRevisionsRequest) (*ListRevisionsResponse, error)
	DeleteRevision(context.Context, *DeleteRevisionRequest) (*DeleteRevisionResponse, error)
	SetScriptRevision(context.Context, *SetScriptRevisionRequest) (*SetScriptRevisionResponse, error)
	GetSessionRevision(context.Context, *SessionRevisionRequest) (*Revision, error)
	PutSessionRevision(context.Context, *PutSessionRevisionRequest) (*PutSessionRevisionResponse, error)
}

// RegisterScriptServiceServer registers srv on s, mirroring the generated
// RegisterXxxServer helper protoc-gen-go-grpc would emit.
func RegisterScriptServiceServer(s grpc.ServiceRegistrar, srv ScriptServiceServer) {
	s.RegisterService(&scriptServiceServiceDesc, srv)
}

func scriptServiceCreateScriptHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CreateScriptRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ScriptServiceServer).CreateScript(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + scriptServiceName + "/CreateScript"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ScriptServiceServer).CreateScript(ctx, req.(*CreateScriptRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func scriptServiceQueryScriptHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(QueryScriptRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ScriptServiceServer).QueryScript(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + scriptServiceName + "/QueryScript"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ScriptServiceServer).QueryScript(ctx, req.(*QueryScriptRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func scriptServiceDeleteScriptHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(DeleteScriptRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ScriptServiceServer).DeleteScript(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + scriptServiceName + "/DeleteScript"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ScriptServiceServer).DeleteScript(ctx, req.(*DeleteScriptRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func scriptServiceDeleteProjectHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(DeleteProjectRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ScriptServiceServer).DeleteProject(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + scriptServiceName + "/DeleteProject"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ScriptServiceServer).DeleteProject(ctx, req.(*DeleteProjectRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func scriptServiceCreateRevisionHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CreateRevisionRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ScriptServiceServer).CreateRevision(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + scriptServiceName + "/CreateRevision"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ScriptServiceServer).CreateRevision(ctx, req.(*CreateRevisionRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func scriptServiceGetRevisionHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetRevisionRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ScriptServiceServer).GetRevision(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + scriptServiceName + "/GetRevision"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ScriptServiceServer).GetRevision(ctx, req.(*GetRevisionRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func scriptServiceListRevisionsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListRevisionsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ScriptServiceServer).ListRevisions(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + scriptServiceName + "/ListRevisions"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ScriptServiceServer).ListRevisions(ctx, req.(*ListRevisionsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func scriptServiceDeleteRevisionHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(DeleteRevisionRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ScriptServiceServer).DeleteRevision(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + scriptServiceName + "/DeleteRevision"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ScriptServiceServer).DeleteRevision(ctx, req.(*DeleteRevisionRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func scriptServiceSetScriptRevisionHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(SetScriptRevisionRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ScriptServiceServer).SetScriptRevision(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + scriptServiceName + "/SetScriptRevision"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ScriptServiceServer).SetScriptRevision(ctx, req.(*SetScriptRevisionRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func scriptServiceGetSessionRevisionHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(SessionRevisionRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ScriptServiceServer).GetSessionRevision(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + scriptServiceName + "/GetSessionRevision"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ScriptServiceServer).GetSessionRevision(ctx, req.(*SessionRevisionRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func scriptServicePutSessionRevisionHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(PutSessionRevisionRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ScriptServiceServer).PutSessionRevision(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + scriptServiceName + "/PutSessionRevision"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ScriptServiceServer).PutSessionRevision(ctx, req.(*PutSessionRevisionRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var scriptServiceServiceDesc = grpc.ServiceDesc{
	ServiceName: scriptServiceName,
	HandlerType: (*ScriptServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateScript", Handler: scriptServiceCreateScriptHandler},
		{MethodName: "QueryScript", Handler: scriptServiceQueryScriptHandler},
		{MethodName: "DeleteScript", Handler: scriptServiceDeleteScriptHandler},
		{MethodName: "DeleteProject", Handler: scriptServiceDeleteProjectHandler},
		{MethodName: "CreateRevision", Handler: scriptServiceCreateRevisionHandler},
		{MethodName: "GetRevision", Handler: scriptServiceGetRevisionHandler},
		{MethodName: "ListRevisions", Handler: scriptServiceListRevisionsHandler},
		{MethodName: "DeleteRevision", Handler: scriptServiceDeleteRevisionHandler},
		{MethodName: "SetScriptRevision", Handler: scriptServiceSetScriptRevisionHandler},
		{MethodName: "GetSessionRevision", Handler: scriptServiceGetSessionRevisionHandler},
		{MethodName: "PutSessionRevision", Handler: scriptServicePutSessionRevisionHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "actias/scriptservice/v1/scriptservice.proto",
}

// ScriptServiceClient is the client-side interface, mirroring the generated
// XxxClient protoc-gen-go-grpc would emit.
type ScriptServiceClient interface {
	CreateScript(ctx context.Context, in *CreateScriptRequest, opts ...grpc.CallOption) (*Script, error)
	QueryScript(ctx context.Context, in *QueryScriptRequest, opts ...grpc.CallOption) (*Script, error)
	DeleteScript(ctx context.Context, in *DeleteScriptRequest, opts ...grpc.CallOption) (*Empty, error)
	DeleteProject(ctx context.Context, in *DeleteProjectRequest, opts ...grpc.CallOption) (*Empty, error)
	CreateRevision(ctx context.Context, in *CreateRevisionRequest, opts ...grpc.CallOption) (*Revision, error)
	GetRevision(ctx context.Context, in *GetRevisionRequest, opts ...grpc.CallOption) (*Revision, error)
	ListRevisions(ctx context.Context, in *ListRevisionsRequest, opts ...grpc.CallOption) (*ListRevisionsResponse, error)
	DeleteRevision(ctx context.Context, in *DeleteRevisionRequest, opts ...grpc.CallOption) (*DeleteRevisionResponse, error)
	SetScriptRevision(ctx context.Context, in *SetScriptRevisionRequest, opts ...grpc.CallOption) (*SetScriptRevisionResponse, error)
	GetSessionRevision(ctx context.Context, in *SessionRevisionRequest, opts ...grpc.CallOption) (*Revision, error)
	PutSessionRevision(ctx context.Context, in *PutSessionRevisionRequest, opts ...grpc.CallOption) (*PutSessionRevisionResponse, error)
}

type scriptServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewScriptServiceClient wraps a dialed connection (see
// pkg/scriptservice.DialClient, which sets the json call content-subtype).
func NewScriptServiceClient(cc grpc.ClientConnInterface) ScriptServiceClient {
	return &scriptServiceClient{cc}
}

func (c *scriptServiceClient) CreateScript(ctx context.Context, in *CreateScriptRequest, opts ...grpc.CallOption) (*Script, error) {
	out := new(Script)
	if err := c.cc.Invoke(ctx, "/"+scriptServiceName+"/CreateScript", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *scriptServiceClient) QueryScript(ctx context.Context, in *QueryScriptRequest, opts ...grpc.CallOption) (*Script, error) {
	out := new(Script)
	if err := c.cc.Invoke(ctx, "/"+scriptServiceName+"/QueryScript", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *scriptServiceClient) DeleteScript(ctx context.Context, in *DeleteScriptRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, "/"+scriptServiceName+"/DeleteScript", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *scriptServiceClient) DeleteProject(ctx context.Context, in *DeleteProjectRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, "/"+scriptServiceName+"/DeleteProject", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *scriptServiceClient) CreateRevision(ctx context.Context, in *CreateRevisionRequest, opts ...grpc.CallOption) (*Revision, error) {
	out := new(Revision)
	if err := c.cc.Invoke(ctx, "/"+scriptServiceName+"/CreateRevision", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *scriptServiceClient) GetRevision(ctx context.Context, in *GetRevisionRequest, opts ...grpc.CallOption) (*Revision, error) {
	out := new(Revision)
	if err := c.cc.Invoke(ctx, "/"+scriptServiceName+"/GetRevision", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *scriptServiceClient) ListRevisions(ctx context.Context, in *ListRevisionsRequest, opts ...grpc.CallOption) (*ListRevisionsResponse, error) {
	out := new(ListRevisionsResponse)
	if err := c.cc.Invoke(ctx, "/"+scriptServiceName+"/ListRevisions", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *scriptServiceClient) DeleteRevision(ctx context.Context, in *DeleteRevisionRequest, opts ...grpc.CallOption) (*DeleteRevisionResponse, error) {
	out := new(DeleteRevisionResponse)
	if err := c.cc.Invoke(ctx, "/"+scriptServiceName+"/DeleteRevision", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *scriptServiceClient) SetScriptRevision(ctx context.Context, in *SetScriptRevisionRequest, opts ...grpc.CallOption) (*SetScriptRevisionResponse, error) {
	out := new(SetScriptRevisionResponse)
	if err := c.cc.Invoke(ctx, "/"+scriptServiceName+"/SetScriptRevision", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *scriptServiceClient) GetSessionRevision(ctx context.Context, in *SessionRevisionRequest, opts ...grpc.CallOption) (*Revision, error) {
	out := new(Revision)
	if err := c.cc.Invoke(ctx, "/"+scriptServiceName+"/GetSessionRevision", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *scriptServiceClient) PutSessionRevision(ctx context.Context, in *PutSessionRevisionRequest, opts ...grpc.CallOption) (*PutSessionRevisionResponse, error) {
	out := new(PutSessionRevisionResponse)
	if err := c.cc.Invoke(ctx, "/"+scriptServiceName+"/PutSessionRevision", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
