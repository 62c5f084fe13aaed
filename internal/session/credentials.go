package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/campushire/talent-market/backend/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisCredentialCache 把凭证缓存在 redis 中，模拟浏览器的短期和长期存储：
// 短期 key 带过期时间，长期 key 不带。外部服务可能把凭证拆散存在多个 key 下，
// 所以清除时按前缀扫描删除，而不是删固定的某个 key
type RedisCredentialCache struct {
	rdb       *redis.Client
	prefix    string
	shortTTL  time.Duration
	opTimeout time.Duration
}

func NewRedisCredentialCache(rdb *redis.Client, prefix string, shortTTL, opTimeout time.Duration) *RedisCredentialCache {
	return &RedisCredentialCache{
		rdb:       rdb,
		prefix:    prefix,
		shortTTL:  shortTTL,
		opTimeout: opTimeout,
	}
}

func (c *RedisCredentialCache) Write(ctx context.Context, identity *domain.User, token string) error {
	ctx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	identityData, err := json.Marshal(identity)
	if err != nil {
		return err
	}

	// 短期存储：访问令牌
	if err := c.rdb.Set(ctx, c.prefix+"access_token", token, c.shortTTL).Err(); err != nil {
		return err
	}
	// 长期存储：身份信息
	if err := c.rdb.Set(ctx, c.prefix+"identity", identityData, 0).Err(); err != nil {
		return err
	}

	return nil
}

func (c *RedisCredentialCache) CurrentSession(ctx context.Context) (*domain.User, string, error) {
	token, err := c.rdb.Get(ctx, c.prefix+"access_token").Result()
	if err != nil {
		if err == redis.Nil {
			// 没有缓存的凭证，按未登录处理
			return nil, "", nil
		}
		return nil, "", err
	}

	identityData, err := c.rdb.Get(ctx, c.prefix+"identity").Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, "", nil
		}
		return nil, "", err
	}

	identity := &domain.User{}
	if err := json.Unmarshal(identityData, identity); err != nil {
		return nil, "", err
	}

	return identity, token, nil
}

func (c *RedisCredentialCache) SignOut(ctx context.Context) error {
	return c.Purge(ctx)
}

// Purge 按前缀扫描并删除所有凭证相关的 key
func (c *RedisCredentialCache) Purge(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	iter := c.rdb.Scan(ctx, 0, c.prefix+"*", 0).Iterator()
	keys := make([]string, 0)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}

	if len(keys) == 0 {
		return nil
	}

	return c.rdb.Del(ctx, keys...).Err()
}
