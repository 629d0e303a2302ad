package redis

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"
)

func TestKeyReserver_Reserve(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" || testing.Short() {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	client, err := Connect(ctx, Config{Addr: addr})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	kr := NewKeyReserver(client)
	key := fmt.Sprintf("uploads/%d-test.txt", time.Now().UnixNano())

	ok, err := kr.Reserve(ctx, key)
	if err != nil || !ok {
		t.Fatalf("first reserve: ok=%v err=%v", ok, err)
	}
	ok, err = kr.Reserve(ctx, key)
	if err != nil || ok {
		t.Fatalf("second reserve should fail: ok=%v err=%v", ok, err)
	}
	if err := kr.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
}
