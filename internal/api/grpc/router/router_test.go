package router

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dtroode/keepsake-server/internal/api/endpoint"
	grpcctx "github.com/dtroode/keepsake-server/internal/api/grpc/context"
	"github.com/dtroode/keepsake-server/internal/api/grpc/keepsakev1"
	"github.com/dtroode/keepsake-server/internal/mocks"
	"github.com/dtroode/keepsake-server/internal/repository/memory"
	"github.com/dtroode/keepsake-server/internal/service"
	"github.com/dtroode/keepsake-server/internal/testutil"
	"github.com/dtroode/keepsake-server/internal/token"
)

func TestRouter_Register(t *testing.T) {
	t.Parallel()

	ctxMgr := mocks.NewContextManager(t)
	lg := testutil.MakeNoopLogger()

	s := New(nil, ctxMgr, lg).Register()
	require.NotNil(t, s)
	assert.Contains(t, s.GetServiceInfo(), keepsakev1.ServiceName)
}

func newClient(t *testing.T) *keepsakev1.KeepsakeClient {
	t.Helper()

	lg := testutil.MakeNoopLogger()
	store := memory.NewUserRepository()
	endpoints := endpoint.New(
		service.NewAccount(store, token.NewSession(), lg),
		service.NewLists(store, lg),
		lg,
	)
	s := New(endpoints, grpcctx.NewManager(), lg).Register()

	ln := bufconn.Listen(1 << 20)
	go func() { _ = s.Serve(ln) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return ln.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return keepsakev1.NewKeepsakeClient(conn)
}

func call(t *testing.T, ctx context.Context, c *keepsakev1.KeepsakeClient, method string, in map[string]any) map[string]any {
	t.Helper()
	req, err := structpb.NewStruct(in)
	require.NoError(t, err)
	out, err := c.Call(ctx, method, req)
	require.NoError(t, err)
	return out.AsMap()
}

func TestKeepsake_EndToEnd(t *testing.T) {
	t.Parallel()

	c := newClient(t)
	ctx := context.Background()

	resp := call(t, ctx, c, keepsakev1.MethodRegister, map[string]any{"username": "alice", "password": "pw"})
	require.Equal(t, float64(0), resp["code"])
	tok := resp["data"].(map[string]any)["account"].(string)
	assert.Regexp(t, `^[A-Za-z0-9]{10}$`, tok)

	resp = call(t, ctx, c, keepsakev1.MethodRegister, map[string]any{"username": "alice", "password": "x"})
	assert.Equal(t, float64(1), resp["code"])

	resp = call(t, ctx, c, keepsakev1.MethodLogin, map[string]any{"username": "alice", "password": "x"})
	assert.Equal(t, float64(2), resp["code"])

	for _, id := range []string{"a", "b"} {
		resp = call(t, ctx, c, keepsakev1.MethodAddQuote, map[string]any{
			"session": tok,
			"quote":   map[string]any{"id": id, "text": "t", "author": "x"},
		})
		assert.Equal(t, float64(0), resp["code"])
	}

	// session carried in authorization metadata
	authed := metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+tok)
	resp = call(t, authed, c, keepsakev1.MethodListQuotes, map[string]any{})
	quotes := resp["data"].(map[string]any)["quotes"].([]any)
	require.Len(t, quotes, 2)
	assert.Equal(t, "b", quotes[0].(map[string]any)["id"])
	assert.Equal(t, "a", quotes[1].(map[string]any)["id"])

	resp = call(t, authed, c, keepsakev1.MethodLogout, map[string]any{})
	assert.Equal(t, float64(0), resp["code"])

	resp = call(t, ctx, c, keepsakev1.MethodValidateSession, map[string]any{"session": tok})
	assert.Equal(t, float64(1), resp["code"])
	assert.Equal(t, "Session not registered", resp["data"].(map[string]any)["reason"])
}

func TestKeepsake_UnknownMethod(t *testing.T) {
	t.Parallel()

	c := newClient(t)
	_, err := c.Call(context.Background(), "Nope", &structpb.Struct{})
	assert.Equal(t, codes.Unimplemented, status.Code(err))
}
