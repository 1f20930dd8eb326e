package redis

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNew_InvalidURL(t *testing.T) {
	if _, err := New("http://localhost:6379", Options{}); err == nil {
		t.Error("Expected error for non-redis scheme")
	}
}

func TestNew_AppliesTimeouts(t *testing.T) {
	r, err := New("redis://localhost:6379/3", Options{ReadTimeout: time.Second, WriteTimeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	defer r.Close()

	opts := r.client.Options()
	if opts.DB != 3 {
		t.Errorf("Expected db 3, got %d", opts.DB)
	}
	if opts.ReadTimeout != time.Second || opts.WriteTimeout != 2*time.Second {
		t.Errorf("Unexpected timeouts: %v / %v", opts.ReadTimeout, opts.WriteTimeout)
	}
}

func TestRedis_UnreachableServer(t *testing.T) {
	// Port 1 on loopback refuses connections.
	r, err := New("redis://127.0.0.1:1/0", Options{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	defer r.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := r.Ping(ctx); err == nil {
		t.Error("Expected ping error")
	}
	_, err = r.GetBytes(ctx, "k")
	if err == nil || errors.Is(err, Nil) {
		t.Errorf("Expected connection error, got %v", err)
	}
}
