package cache

import (
	"context"
	"encoding/json"
	"time"
)

// GetOrLoadJSON 以 JSON 形式读穿缓存；缓存内容无法解码时删除并回源一次
func GetOrLoadJSON[T any](
	c *Cache,
	ctx context.Context,
	key string,
	ttl time.Duration,
	load func(ctx context.Context) (*T, error),
) (*T, error) {
	if c == nil {
		return load(ctx)
	}
	fetch := func() ([]byte, error) {
		return c.GetOrLoad(ctx, key, ttl, func(ctx context.Context) ([]byte, error) {
			v, e := load(ctx)
			if e != nil {
				return nil, e
			}
			return json.Marshal(v)
		})
	}
	b, err := fetch()
	if err != nil {
		return nil, err
	}
	out, err := decode[T](b)
	if err == nil {
		return out, nil
	}
	// 旧版本结构或脏数据
	_ = c.Delete(ctx, key)
	if b, err = fetch(); err != nil {
		return nil, err
	}
	return decode[T](b)
}

func decode[T any](b []byte) (*T, error) {
	if string(b) == "null" {
		return nil, nil
	}
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
