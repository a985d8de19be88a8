//go:build integration

package mongodb_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dtroode/keepsake-server/internal/model"
	repo "github.com/dtroode/keepsake-server/internal/repository/mongodb"
	"github.com/dtroode/keepsake-server/internal/repository/storetest"
)

var uri string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForListeningPort("27017/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "27017")
	if err != nil {
		panic(err)
	}
	uri = fmt.Sprintf("mongodb://%s:%s", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func TestUserRepository(t *testing.T) {
	storetest.Run(t, func(t *testing.T) model.UserStore {
		ctx := context.Background()
		conn, err := repo.NewConnection(ctx, repo.Options{
			URI:        uri,
			Database:   "keepsake_test",
			Collection: "users_" + uuid.NewString(),
		})
		require.NoError(t, err)
		t.Cleanup(func() { _ = conn.Close(context.Background()) })

		return repo.NewUserRepository(conn)
	})
}
