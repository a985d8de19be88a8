package middleware

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/metadata"

	"github.com/dtroode/keepsake-server/internal/mocks"
	"github.com/dtroode/keepsake-server/internal/testutil"
)

type ctxKey struct{}

func TestAuthenticate_AuthFunc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		mdAuthHeader string
		wantSession  string
		expectSetCtx bool
	}{
		{
			name: "missing authorization header",
		},
		{
			name:         "wrong scheme",
			mdAuthHeader: "Basic Zm9vOmJhcg==",
		},
		{
			name:         "bearer token",
			mdAuthHeader: "Bearer AbCdEf1234",
			wantSession:  "AbCdEf1234",
			expectSetCtx: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cm := mocks.NewContextManager(t)
			marked := context.WithValue(context.Background(), ctxKey{}, "marked")
			if tt.expectSetCtx {
				cm.On("SetSessionToContext", mock.Anything, tt.wantSession).Return(marked)
			}
			m := NewAuthenticate(cm, testutil.MakeNoopLogger())

			ctx := context.Background()
			if tt.mdAuthHeader != "" {
				ctx = metadata.NewIncomingContext(ctx, metadata.Pairs("authorization", tt.mdAuthHeader))
			}

			newCtx, err := m.AuthFunc(ctx)
			require.NoError(t, err)
			require.NotNil(t, newCtx)
			if tt.expectSetCtx {
				assert.Equal(t, "marked", newCtx.Value(ctxKey{}))
			} else {
				assert.Equal(t, ctx, newCtx)
			}
		})
	}
}
