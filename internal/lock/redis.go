package lock

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// Release só apaga a chave se o token ainda for o nosso (lock não expirado
// e retomado por outra requisição).
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("DEL", KEYS[1])
end
return 0
`

type RedisLocker struct {
	client *redis.Client
}

func NewRedis(addr, password string, db int) *RedisLocker {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisLocker{client: client}
}

func (l *RedisLocker) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}

func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, err
	}

	if !ok {
		// Ocupado: espera curta e mais uma tentativa antes de desistir
		const retries = 20
		for i := 0; i < retries; i++ {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(50 * time.Millisecond):
			}

			ok, err = l.client.SetNX(ctx, key, token, ttl).Result()
			if err != nil {
				return nil, err
			}
			if ok {
				break
			}
		}
		if !ok {
			return nil, ErrLockBusy
		}
	}

	release := func() {
		l.client.Eval(context.Background(), releaseScript, []string{key}, token)
	}
	return release, nil
}
