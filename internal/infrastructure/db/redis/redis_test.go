package redis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientOptions_HostPort(t *testing.T) {
	opts, err := clientOptions(Config{Addr: "cache:6379", Password: "pw", DB: 2})
	require.NoError(t, err)

	assert.Equal(t, "cache:6379", opts.Addr)
	assert.Equal(t, "pw", opts.Password)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, "s2cr", opts.ClientName)
	assert.Equal(t, defaultTimeout, opts.DialTimeout)
	assert.Equal(t, defaultTimeout, opts.ReadTimeout)
}

func TestClientOptions_URL(t *testing.T) {
	opts, err := clientOptions(Config{Addr: "redis://:secret@cache:6380/3", Timeout: time.Second})
	require.NoError(t, err)

	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 3, opts.DB)
	assert.Equal(t, time.Second, opts.WriteTimeout)
}

func TestClientOptions_ExplicitFieldsWinOverURL(t *testing.T) {
	opts, err := clientOptions(Config{Addr: "redis://:secret@cache:6380/3", Password: "override", DB: 5})
	require.NoError(t, err)
	assert.Equal(t, "override", opts.Password)
	assert.Equal(t, 5, opts.DB)
}

func TestClientOptions_BadURL(t *testing.T) {
	_, err := clientOptions(Config{Addr: "http://cache:6379"})
	assert.ErrorContains(t, err, "redis url")
}
