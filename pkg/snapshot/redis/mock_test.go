package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// mockClient keeps hashes in memory and implements only the commands the
// store issues. Any other call panics through the nil embedded client.
type mockClient struct {
	redis.UniversalClient

	mu     sync.Mutex
	hashes map[string]map[string]string
	ttls   map[string]time.Duration
	calls  []string

	hsetErr    error
	hgetallErr error
	delErr     error
	expireErr  error
}

func newMockClient() *mockClient {
	return &mockClient{
		hashes: make(map[string]map[string]string),
		ttls:   make(map[string]time.Duration),
	}
}

func (m *mockClient) record(call string) {
	m.calls = append(m.calls, call)
}

// TxPipelined applies the queued commands all or nothing.
func (m *mockClient) TxPipelined(ctx context.Context, fn func(redis.Pipeliner) error) ([]redis.Cmder, error) {
	pipe := &mockPipeline{client: m}
	if err := fn(pipe); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cmds := make([]redis.Cmder, 0, len(pipe.queued))
	for _, q := range pipe.queued {
		m.record(q.call)
		cmds = append(cmds, q.cmd)
	}

	for _, q := range pipe.queued {
		if err := q.err(); err != nil {
			for _, c := range cmds {
				c.SetErr(err)
			}
			return cmds, err
		}
	}
	for _, q := range pipe.queued {
		q.apply()
	}
	return cmds, nil
}

func (m *mockClient) HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("HGetAll " + key)

	cmd := redis.NewMapStringStringCmd(ctx)
	if m.hgetallErr != nil {
		cmd.SetErr(m.hgetallErr)
		return cmd
	}

	out := make(map[string]string, len(m.hashes[key]))
	for k, v := range m.hashes[key] {
		out[k] = v
	}
	cmd.SetVal(out)
	return cmd
}

func (m *mockClient) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record(fmt.Sprintf("Del %v", keys))

	cmd := redis.NewIntCmd(ctx)
	if m.delErr != nil {
		cmd.SetErr(m.delErr)
		return cmd
	}

	var n int64
	for _, key := range keys {
		if _, ok := m.hashes[key]; ok {
			delete(m.hashes, key)
			delete(m.ttls, key)
			n++
		}
	}
	cmd.SetVal(n)
	return cmd
}

type queuedCmd struct {
	call  string
	cmd   redis.Cmder
	err   func() error
	apply func()
}

// mockPipeline queues commands until the owning client executes them.
type mockPipeline struct {
	redis.Pipeliner

	client *mockClient
	queued []queuedCmd
}

func (p *mockPipeline) HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	m := p.client
	p.queued = append(p.queued, queuedCmd{
		call: "HSet " + key,
		cmd:  cmd,
		err:  func() error { return m.hsetErr },
		apply: func() {
			h, ok := m.hashes[key]
			if !ok {
				h = make(map[string]string)
				m.hashes[key] = h
			}
			var added int64
			for i := 0; i+1 < len(values); i += 2 {
				field := fmt.Sprint(values[i])
				if _, exists := h[field]; !exists {
					added++
				}
				h[field] = fmt.Sprint(values[i+1])
			}
			cmd.SetVal(added)
		},
	})
	return cmd
}

func (p *mockPipeline) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	cmd := redis.NewBoolCmd(ctx)
	m := p.client
	p.queued = append(p.queued, queuedCmd{
		call: "Expire " + key,
		cmd:  cmd,
		err:  func() error { return m.expireErr },
		apply: func() {
			_, ok := m.hashes[key]
			if ok {
				m.ttls[key] = expiration
			}
			cmd.SetVal(ok)
		},
	})
	return cmd
}
