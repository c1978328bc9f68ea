package database

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func TestConnectRedisEmptyURLDisablesClient(t *testing.T) {
	client, err := ConnectRedis(context.Background(), "")
	require.NoError(t, err)
	require.Nil(t, client)
}

func TestConnectRedisPingsServer(t *testing.T) {
	mini := miniredis.RunT(t)

	client, err := ConnectRedis(context.Background(), "redis://"+mini.Addr())
	require.NoError(t, err)
	require.NotNil(t, client)
	require.NoError(t, client.Close())
}

func TestConnectRedisRejectsBadURL(t *testing.T) {
	_, err := ConnectRedis(context.Background(), "://nope")
	require.Error(t, err)
}

func TestConnectNATSEmptyURL(t *testing.T) {
	conn, err := ConnectNATS("", "socrates-echo")
	require.NoError(t, err)
	require.Nil(t, conn)
}
