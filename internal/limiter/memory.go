package limiter

import (
	"context"
	"sync"
	"time"
)

type attempt struct {
	fails        int
	blockedUntil time.Time
	updatedAt    time.Time
}

// Memory is an in-process Limiter with the same window semantics as PG.
type Memory struct {
	mu     sync.Mutex
	policy Policy
	state  map[string]*attempt
	now    func() time.Time
}

func NewMemory(p Policy) *Memory {
	return &Memory{policy: p, state: map[string]*attempt{}, now: time.Now}
}

func key(email string, ipHash []byte) string { return email + "\x00" + string(ipHash) }

func (m *Memory) Allow(_ context.Context, email string, ipHash []byte) (bool, time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.state[key(email, ipHash)]
	if !ok {
		return true, 0, nil
	}
	if now := m.now(); a.blockedUntil.After(now) {
		return false, a.blockedUntil.Sub(now), nil
	}
	return true, 0, nil
}

func (m *Memory) Success(_ context.Context, email string, ipHash []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.state, key(email, ipHash))
	return nil
}

func (m *Memory) Failure(_ context.Context, email string, ipHash []byte) (bool, time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	k := key(email, ipHash)
	a, ok := m.state[k]
	if !ok {
		a = &attempt{}
		m.state[k] = a
	}
	if now.Sub(a.updatedAt) > m.policy.Window {
		a.fails = 0
	}
	a.fails++
	a.updatedAt = now

	if a.fails >= m.policy.MaxFails {
		a.blockedUntil = now.Add(m.policy.BlockFor)
		return true, m.policy.BlockFor, nil
	}
	return false, 0, nil
}
