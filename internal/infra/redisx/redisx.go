package redisx

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/John-Robertt/nftcsv/internal/config"
)

// Options 描述发布目标。
type Options struct {
	Addr     string
	Password string
	DB       int
	Key      string
	TTL      time.Duration // 0 表示不过期
	Timeout  time.Duration
}

// Publisher 把转换结果整体写入一个 Redis key，供前端 API 直接读取缓存。
type Publisher struct {
	rdb     *redis.Client
	key     string
	ttl     time.Duration
	timeout time.Duration
}

func New(opts Options) (*Publisher, error) {
	addr := strings.TrimSpace(opts.Addr)
	key := strings.TrimSpace(opts.Key)
	if addr == "" {
		return nil, errors.New("redis addr 不能为空")
	}
	if key == "" {
		return nil, errors.New("redis key 不能为空")
	}
	if opts.TTL < 0 {
		return nil, fmt.Errorf("redis ttl 不能为负数：%s", opts.TTL)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = config.DefaultRedisTimeout
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
		MaxRetries:   1,
	})
	return &Publisher{rdb: rdb, key: key, ttl: opts.TTL, timeout: timeout}, nil
}

// FromConfig 按生效配置创建 Publisher；未启用时返回 (nil, nil)。
func FromConfig(rs config.RedisSettings) (*Publisher, error) {
	if !rs.Enabled() {
		return nil, nil
	}
	return New(Options{
		Addr:     rs.Addr,
		Password: rs.Password,
		DB:       rs.DB,
		Key:      rs.Key,
		TTL:      rs.TTL,
		Timeout:  rs.Timeout,
	})
}

func (p *Publisher) Key() string { return p.key }

// Publish 执行 SET key doc [EX ttl]。
func (p *Publisher) Publish(ctx context.Context, doc []byte) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.rdb.Set(ctx, p.key, doc, p.ttl).Err(); err != nil {
		return fmt.Errorf("发布到 redis 失败（key=%q）：%w", p.key, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.rdb.Close()
}
