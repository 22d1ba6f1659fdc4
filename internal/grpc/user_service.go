package grpcserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// UserServiceName is the fully qualified gRPC service name.
const UserServiceName = "dbfrontend.v1.UserService"

const (
	UserService_CreateUser_FullMethodName  = "/" + UserServiceName + "/CreateUser"
	UserService_GetUser_FullMethodName     = "/" + UserServiceName + "/GetUser"
	UserService_SearchUsers_FullMethodName = "/" + UserServiceName + "/SearchUsers"
	UserService_UpdateUser_FullMethodName  = "/" + UserServiceName + "/UpdateUser"
	UserService_DeleteUser_FullMethodName  = "/" + UserServiceName + "/DeleteUser"
)

// UserServiceServer is the server API for the user service. Requests and
// responses are well-known protobuf types so no generated code is needed.
type UserServiceServer interface {
	CreateUser(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetUser(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SearchUsers(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateUser(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	DeleteUser(context.Context, *structpb.Struct) (*emptypb.Empty, error)
}

// RegisterUserServiceServer registers srv on s.
func RegisterUserServiceServer(s grpc.ServiceRegistrar, srv UserServiceServer) {
	s.RegisterService(&UserService_ServiceDesc, srv)
}

func unaryHandler[Resp any](fullMethod string, call func(UserServiceServer, context.Context, *structpb.Struct) (Resp, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(UserServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(UserServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// UserService_ServiceDesc is the grpc.ServiceDesc for the user service.
var UserService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: UserServiceName,
	HandlerType: (*UserServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateUser", Handler: unaryHandler(UserService_CreateUser_FullMethodName, UserServiceServer.CreateUser)},
		{MethodName: "GetUser", Handler: unaryHandler(UserService_GetUser_FullMethodName, UserServiceServer.GetUser)},
		{MethodName: "SearchUsers", Handler: unaryHandler(UserService_SearchUsers_FullMethodName, UserServiceServer.SearchUsers)},
		{MethodName: "UpdateUser", Handler: unaryHandler(UserService_UpdateUser_FullMethodName, UserServiceServer.UpdateUser)},
		{MethodName: "DeleteUser", Handler: unaryHandler(UserService_DeleteUser_FullMethodName, UserServiceServer.DeleteUser)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "dbfrontend/v1/user.proto",
}

// UserServiceClient is a thin client over a connection.
type UserServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewUserServiceClient returns a client for the user service on cc.
func NewUserServiceClient(cc grpc.ClientConnInterface) *UserServiceClient {
	return &UserServiceClient{cc: cc}
}

func (c *UserServiceClient) CreateUser(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, UserService_CreateUser_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *UserServiceClient) GetUser(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, UserService_GetUser_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *UserServiceClient) SearchUsers(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, UserService_SearchUsers_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *UserServiceClient) UpdateUser(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, UserService_UpdateUser_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *UserServiceClient) DeleteUser(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, UserService_DeleteUser_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
