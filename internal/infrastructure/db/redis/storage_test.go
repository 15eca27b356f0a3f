package redis

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// fakeServer speaks enough RESP2 for GET, SET and DEL.
type fakeServer struct {
	mu   sync.Mutex
	data map[string]string
	ttls map[string]string
}

func startFakeServer(t *testing.T) (*fakeServer, string) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { _ = ln.Close() })

	srv := &fakeServer{data: map[string]string{}, ttls: map[string]string{}}
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go srv.serve(conn)
		}
	}()
	return srv, ln.Addr().String()
}

func (f *fakeServer) serve(conn net.Conn) {
	defer conn.Close()
	r := bufio.NewReader(conn)
	for {
		args, err := readCommand(r)
		if err != nil {
			return
		}
		if _, err := io.WriteString(conn, f.reply(args)); err != nil {
			return
		}
	}
}

func (f *fakeServer) reply(args []string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch strings.ToUpper(args[0]) {
	case "PING":
		return "+PONG\r\n"
	case "CLIENT":
		return "+OK\r\n"
	case "GET":
		v, ok := f.data[args[1]]
		if !ok {
			return "$-1\r\n"
		}
		return fmt.Sprintf("$%d\r\n%s\r\n", len(v), v)
	case "SET":
		f.data[args[1]] = args[2]
		if len(args) >= 5 {
			f.ttls[args[1]] = strings.ToLower(args[3]) + " " + args[4]
		}
		return "+OK\r\n"
	case "DEL":
		n := 0
		for _, k := range args[1:] {
			if _, ok := f.data[k]; ok {
				delete(f.data, k)
				n++
			}
		}
		return fmt.Sprintf(":%d\r\n", n)
	default:
		return "-ERR unknown command '" + args[0] + "'\r\n"
	}
}

func readCommand(r *bufio.Reader) ([]string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return nil, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "*")))
	if err != nil || n < 1 {
		return nil, fmt.Errorf("bad command header %q", line)
	}
	args := make([]string, 0, n)
	for i := 0; i < n; i++ {
		head, err := r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		size, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(head, "$")))
		if err != nil {
			return nil, fmt.Errorf("bad bulk header %q", head)
		}
		buf := make([]byte, size+2)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		args = append(args, string(buf[:size]))
	}
	return args, nil
}

func newTestStore(t *testing.T, ttl time.Duration) (*SessionStore, *fakeServer) {
	t.Helper()
	srv, addr := startFakeServer(t)
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionStore(client, ttl), srv
}

func TestScope_KeyFormat(t *testing.T) {
	scope := NewSessionStore(nil, 0).Scope("0b9f6c1e")
	if got := scope.key("token"); got != "portal:0b9f6c1e:token" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestNewSessionStore_DefaultTTL(t *testing.T) {
	if s := NewSessionStore(nil, 0); s.ttl != DefaultTTL {
		t.Fatalf("expected default ttl, got %v", s.ttl)
	}
	if s := NewSessionStore(nil, time.Hour); s.ttl != time.Hour {
		t.Fatalf("expected configured ttl, got %v", s.ttl)
	}
}

func TestScope_GetMiss(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)

	v, ok, err := store.Scope("sid-1").Get(context.Background(), "token")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok || v != "" {
		t.Fatalf("expected a miss, got %q ok=%v", v, ok)
	}
}

func TestScope_SetGetDelete(t *testing.T) {
	store, srv := newTestStore(t, time.Hour)
	ctx := context.Background()
	a, b := store.Scope("sid-a"), store.Scope("sid-b")

	if err := a.Set(ctx, "token", "tok-1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, ok, err := a.Get(ctx, "token"); err != nil || !ok || v != "tok-1" {
		t.Fatalf("expected tok-1, got %q ok=%v err=%v", v, ok, err)
	}
	if _, ok, _ := b.Get(ctx, "token"); ok {
		t.Fatalf("scopes must not share keys")
	}
	srv.mu.Lock()
	ttl := srv.ttls["portal:sid-a:token"]
	srv.mu.Unlock()
	if ttl != "ex 3600" {
		t.Fatalf("expected key to expire after an hour, got %q", ttl)
	}

	if err := a.Delete(ctx, "token"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, err := a.Get(ctx, "token"); err != nil || ok {
		t.Fatalf("expected key gone, ok=%v err=%v", ok, err)
	}
	if err := a.Delete(ctx, "token"); err != nil {
		t.Fatalf("deleting a missing key should succeed: %v", err)
	}
}

func TestScope_ServerError(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 200 * time.Millisecond})
	t.Cleanup(func() { _ = client.Close() })
	scope := NewSessionStore(client, 0).Scope("sid-1")

	if _, _, err := scope.Get(context.Background(), "token"); err == nil || !strings.Contains(err.Error(), "redis get token") {
		t.Fatalf("expected wrapped get error, got %v", err)
	}
}
