package redisx

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/John-Robertt/nftcsv/internal/config"
)

func TestNew_Validation(t *testing.T) {
	_, err := New(Options{Key: "k"})
	assert.Error(t, err)

	_, err = New(Options{Addr: "127.0.0.1:6379"})
	assert.Error(t, err)

	_, err = New(Options{Addr: "127.0.0.1:6379", Key: "k", TTL: -time.Second})
	assert.Error(t, err)
}

func TestNew_DefaultTimeout(t *testing.T) {
	p, err := New(Options{Addr: "127.0.0.1:6379", Key: " cache:genesis_nfts "})
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, "cache:genesis_nfts", p.Key())
	assert.Equal(t, config.DefaultRedisTimeout, p.timeout)
}

func TestFromConfig_Disabled(t *testing.T) {
	p, err := FromConfig(config.RedisSettings{})
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestPublish_Unreachable(t *testing.T) {
	// 端口 1 上不应有 redis；连接失败必须以错误返回，而不是静默成功。
	p, err := New(Options{Addr: "127.0.0.1:1", Key: "k", Timeout: 500 * time.Millisecond})
	require.NoError(t, err)
	defer p.Close()

	err = p.Publish(context.Background(), []byte("[]"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `key="k"`)
}
