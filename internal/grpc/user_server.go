package grpcserver

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"dbfrontend/internal/auth"
	"dbfrontend/internal/errs"
	"dbfrontend/models"
	"dbfrontend/repository"
)

// UserServer implements UserServiceServer on top of a UserStore.
type UserServer struct {
	Users  repository.UserStore
	Logger *slog.Logger
}

var _ UserServiceServer = (*UserServer)(nil)

func (s *UserServer) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// fail converts err to a status, logging server-side failures.
func (s *UserServer) fail(method string, err error) error {
	switch errs.KindOf(err) {
	case errs.KindInvalidInput, errs.KindNotFound:
	default:
		s.logger().Warn("user service call failed", "method", method, "error", err)
	}
	return toStatus(err)
}

// CreateUser inserts a user and returns it.
func (s *UserServer) CreateUser(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if _, err := auth.RequireWriter(ctx); err != nil {
		return nil, err
	}
	u, err := s.Users.CreateUser(ctx, stringField(req, "username"), stringField(req, "email"))
	if err != nil {
		return nil, s.fail("CreateUser", err)
	}
	return userStruct(u)
}

func (s *UserServer) GetUser(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if _, err := auth.RequireReader(ctx); err != nil {
		return nil, err
	}
	id, err := idField(req)
	if err != nil {
		return nil, err
	}
	u, err := s.Users.GetUserByID(ctx, id)
	if err != nil {
		return nil, s.fail("GetUser", err)
	}
	return userStruct(u)
}

// SearchUsers returns {users: [...]}, newest first.
func (s *UserServer) SearchUsers(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if _, err := auth.RequireReader(ctx); err != nil {
		return nil, err
	}
	limit, err := intField(req, "limit")
	if err != nil {
		return nil, err
	}
	users, err := s.Users.SearchUsers(ctx, stringField(req, "term"), limit)
	if err != nil {
		return nil, s.fail("SearchUsers", err)
	}
	list := make([]any, 0, len(users))
	for _, u := range users {
		list = append(list, userMap(u))
	}
	out, err := structpb.NewStruct(map[string]any{"users": list})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode users: %v", err)
	}
	return out, nil
}

func (s *UserServer) UpdateUser(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	if _, err := auth.RequireWriter(ctx); err != nil {
		return nil, err
	}
	id, err := idField(req)
	if err != nil {
		return nil, err
	}
	if err := s.Users.UpdateUser(ctx, id, stringField(req, "username"), stringField(req, "email")); err != nil {
		return nil, s.fail("UpdateUser", err)
	}
	return &emptypb.Empty{}, nil
}

func (s *UserServer) DeleteUser(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	if _, err := auth.RequireWriter(ctx); err != nil {
		return nil, err
	}
	id, err := idField(req)
	if err != nil {
		return nil, err
	}
	if err := s.Users.DeleteUser(ctx, id); err != nil {
		return nil, s.fail("DeleteUser", err)
	}
	return &emptypb.Empty{}, nil
}

func stringField(req *structpb.Struct, name string) string {
	return req.GetFields()[name].GetStringValue()
}

// intField reads an integral number or a decimal string. Missing fields read as 0.
func intField(req *structpb.Struct, name string) (int, error) {
	n, err := int64Field(req, name)
	if err != nil {
		return 0, err
	}
	if n > math.MaxInt32 || n < math.MinInt32 {
		return 0, status.Errorf(codes.InvalidArgument, "%s is out of range", name)
	}
	return int(n), nil
}

func idField(req *structpb.Struct) (int64, error) {
	if _, ok := req.GetFields()["id"]; !ok {
		return 0, status.Error(codes.InvalidArgument, "id is required")
	}
	return int64Field(req, "id")
}

func int64Field(req *structpb.Struct, name string) (int64, error) {
	v, ok := req.GetFields()[name]
	if !ok {
		return 0, nil
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		n := k.NumberValue
		if n != math.Trunc(n) || math.Abs(n) > 1<<53 {
			return 0, status.Errorf(codes.InvalidArgument, "%s must be an integer", name)
		}
		return int64(n), nil
	case *structpb.Value_StringValue:
		n, err := strconv.ParseInt(strings.TrimSpace(k.StringValue), 10, 64)
		if err != nil {
			return 0, status.Errorf(codes.InvalidArgument, "%s must be an integer", name)
		}
		return n, nil
	default:
		return 0, status.Errorf(codes.InvalidArgument, "%s must be an integer", name)
	}
}

func userMap(u *models.User) map[string]any {
	return map[string]any{
		"id":         strconv.FormatInt(u.ID, 10),
		"username":   u.Username,
		"email":      u.Email,
		"created_at": u.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func userStruct(u *models.User) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(userMap(u))
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode user: %v", err)
	}
	return out, nil
}
