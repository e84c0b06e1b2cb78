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

const kvServiceName = "actias.kvservice.v1.KVService"

// KVServiceServer is the server-side interface for spec.md §4.4's
// operations. It is implemented by pkg/kvservice.Server.
type KVServiceServer interface {
	GetPair(context.Context, *PairRequest) (*Pair, error)
	SetPairs(context.Context, *SetPairsRequest) (*Empty, error)
	DeletePairs(context.Context, *DeletePairsRequest) (*Empty, error)
	ListPairs(context.Context, *ListPairsRequest) (*ListPairsResponse, error)
	ListNamespaces(context.Context, *ListNamespacesRequest) (*ListNamespacesResponse, error)
	DeleteNamespace(context.Context, *DeleteNamespaceRequest) (*Empty, error)
	DeleteProject(context.Context, *DeleteProjectRequest) (*Empty, error)
}

// RegisterKVServiceServer registers srv on s, mirroring the generated
// RegisterXxxServer helper protoc-gen-go-grpc would emit.
func RegisterKVServiceServer(s grpc.ServiceRegistrar, srv KVServiceServer) {
	s.RegisterService(&kvServiceServiceDesc, srv)
}

func kvServiceGetPairHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(PairRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(KVServiceServer).GetPair(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + kvServiceName + "/GetPair"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(KVServiceServer).GetPair(ctx, req.(*PairRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func kvServiceSetPairsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(SetPairsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(KVServiceServer).SetPairs(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + kvServiceName + "/SetPairs"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(KVServiceServer).SetPairs(ctx, req.(*SetPairsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func kvServiceDeletePairsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(DeletePairsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(KVServiceServer).DeletePairs(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + kvServiceName + "/DeletePairs"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(KVServiceServer).DeletePairs(ctx, req.(*DeletePairsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func kvServiceListPairsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListPairsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(KVServiceServer).ListPairs(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + kvServiceName + "/ListPairs"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(KVServiceServer).ListPairs(ctx, req.(*ListPairsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func kvServiceListNamespacesHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListNamespacesRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(KVServiceServer).ListNamespaces(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + kvServiceName + "/ListNamespaces"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(KVServiceServer).ListNamespaces(ctx, req.(*ListNamespacesRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func kvServiceDeleteNamespaceHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(DeleteNamespaceRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(KVServiceServer).DeleteNamespace(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + kvServiceName + "/DeleteNamespace"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(KVServiceServer).DeleteNamespace(ctx, req.(*DeleteNamespaceRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func kvServiceDeleteProjectHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(DeleteProjectRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(KVServiceServer).DeleteProject(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + kvServiceName + "/DeleteProject"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(KVServiceServer).DeleteProject(ctx, req.(*DeleteProjectRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var kvServiceServiceDesc = grpc.ServiceDesc{
	ServiceName: kvServiceName,
	HandlerType: (*KVServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetPair", Handler: kvServiceGetPairHandler},
		{MethodName: "SetPairs", Handler: kvServiceSetPairsHandler},
		{MethodName: "DeletePairs", Handler: kvServiceDeletePairsHandler},
		{MethodName: "ListPairs", Handler: kvServiceListPairsHandler},
		{MethodName: "ListNamespaces", Handler: kvServiceListNamespacesHandler},
		{MethodName: "DeleteNamespace", Handler: kvServiceDeleteNamespaceHandler},
		{MethodName: "DeleteProject", Handler: kvServiceDeleteProjectHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "actias/kvservice/v1/kvservice.proto",
}

// KVServiceClient is the client-side interface, mirroring the generated
// XxxClient protoc-gen-go-grpc would emit.
type KVServiceClient interface {
	GetPair(ctx context.Context, in *PairRequest, opts ...grpc.CallOption) (*Pair, error)
	SetPairs(ctx context.Context, in *SetPairsRequest, opts ...grpc.CallOption) (*Empty, error)
	DeletePairs(ctx context.Context, in *DeletePairsRequest, opts ...grpc.CallOption) (*Empty, error)
	ListPairs(ctx context.Context, in *ListPairsRequest, opts ...grpc.CallOption) (*ListPairsResponse, error)
	ListNamespaces(ctx context.Context, in *ListNamespacesRequest, opts ...grpc.CallOption) (*ListNamespacesResponse, error)
	DeleteNamespace(ctx context.Context, in *DeleteNamespaceRequest, opts ...grpc.CallOption) (*Empty, error)
	DeleteProject(ctx context.Context, in *DeleteProjectRequest, opts ...grpc.CallOption) (*Empty, error)
}

type kvServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewKVServiceClient wraps a dialed connection (see
// pkg/kvservice.DialClient, which sets the json call content-subtype).
func NewKVServiceClient(cc grpc.ClientConnInterface) KVServiceClient {
	return &kvServiceClient{cc}
}

func (c *kvServiceClient) GetPair(ctx context.Context, in *PairRequest, opts ...grpc.CallOption) (*Pair, error) {
	out := new(Pair)
	if err := c.cc.Invoke(ctx, "/"+kvServiceName+"/GetPair", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *kvServiceClient) SetPairs(ctx context.Context, in *SetPairsRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, "/"+kvServiceName+"/SetPairs", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *kvServiceClient) DeletePairs(ctx context.Context, in *DeletePairsRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, "/"+kvServiceName+"/DeletePairs", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *kvServiceClient) ListPairs(ctx context.Context, in *ListPairsRequest, opts ...grpc.CallOption) (*ListPairsResponse, error) {
	out := new(ListPairsResponse)
	if err := c.cc.Invoke(ctx, "/"+kvServiceName+"/ListPairs", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *kvServiceClient) ListNamespaces(ctx context.Context, in *ListNamespacesRequest, opts ...grpc.CallOption) (*ListNamespacesResponse, error) {
	out := new(ListNamespacesResponse)
	if err := c.cc.Invoke(ctx, "/"+kvServiceName+"/ListNamespaces", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *kvServiceClient) DeleteNamespace(ctx context.Context, in *DeleteNamespaceRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, "/"+kvServiceName+"/DeleteNamespace", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *kvServiceClient) DeleteProject(ctx context.Context, in *DeleteProjectRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, "/"+kvServiceName+"/DeleteProject", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
