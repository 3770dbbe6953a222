package rdx

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Conn is nil when REDIS_ADDR is unset; every caller checks for that.
var Conn *redis.Client

// Connect dials Redis and pings it. An empty addr leaves Conn nil.
func Connect(ctx context.Context, addr string) error {
	if addr == "" {
		log.Println("[rdx] REDIS_ADDR not set; running without Redis")
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return err
	}
	Conn = client
	log.Printf("[rdx] connected to %s", addr)
	return nil
}

func Close() {
	if Conn != nil {
		Conn.Close()
	}
}

// releaseScript deletes the key only if we still own it.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Lock is a SET NX PX lease. It lets several replicas share one purge
// schedule without running deletes side by side.
type Lock struct {
	client *redis.Client
}

func NewLock(client *redis.Client) *Lock {
	return &Lock{client: client}
}

// Acquire returns ok=false without error when someone else holds key.
func (l *Lock) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	if l == nil || l.client == nil {
		return nil, false, errors.New("rdx: lock has no client")
	}
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	release := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
			log.Printf("[rdx] release %s: %v", key, err)
		}
	}
	return release, true, nil
}
