// Package keepsakev1 describes the keepsake.v1.Keepsake gRPC service.
// Requests and responses are google.protobuf.Struct values carrying the same
// JSON documents as the HTTP API.
package keepsakev1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "keepsake.v1.Keepsake"

// Method names.
const (
	MethodRegister         = "Register"
	MethodLogin            = "Login"
	MethodValidateSession  = "ValidateSession"
	MethodLogout           = "Logout"
	MethodListQuotes       = "ListQuotes"
	MethodAddQuote         = "AddQuote"
	MethodRemoveQuote      = "RemoveQuote"
	MethodListExperiences  = "ListExperiences"
	MethodAddExperience    = "AddExperience"
	MethodRemoveExperience = "RemoveExperience"
	MethodEditExperience   = "EditExperience"
)

// FullMethod returns the wire name of method, e.g. /keepsake.v1.Keepsake/Login.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// KeepsakeServer is the server API for the Keepsake service.
type KeepsakeServer interface {
	Register(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ValidateSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Logout(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListQuotes(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AddQuote(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RemoveQuote(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListExperiences(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AddExperience(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RemoveExperience(context.Context, *structpb.Struct) (*structpb.Struct, error)
	EditExperience(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type call func(srv KeepsakeServer, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)

func unary(method string, fn call) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return fn(srv.(KeepsakeServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: FullMethod(method),
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return fn(srv.(KeepsakeServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc is the grpc.ServiceDesc for the Keepsake service.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*KeepsakeServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodRegister, KeepsakeServer.Register),
		unary(MethodLogin, KeepsakeServer.Login),
		unary(MethodValidateSession, KeepsakeServer.ValidateSession),
		unary(MethodLogout, KeepsakeServer.Logout),
		unary(MethodListQuotes, KeepsakeServer.ListQuotes),
		unary(MethodAddQuote, KeepsakeServer.AddQuote),
		unary(MethodRemoveQuote, KeepsakeServer.RemoveQuote),
		unary(MethodListExperiences, KeepsakeServer.ListExperiences),
		unary(MethodAddExperience, KeepsakeServer.AddExperience),
		unary(MethodRemoveExperience, KeepsakeServer.RemoveExperience),
		unary(MethodEditExperience, KeepsakeServer.EditExperience),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "keepsake/v1/keepsake.proto",
}

func RegisterKeepsakeServer(s grpc.ServiceRegistrar, srv KeepsakeServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// KeepsakeClient calls Keepsake methods by name.
type KeepsakeClient struct {
	cc grpc.ClientConnInterface
}

func NewKeepsakeClient(cc grpc.ClientConnInterface) *KeepsakeClient {
	return &KeepsakeClient{cc: cc}
}

func (c *KeepsakeClient) Call(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
