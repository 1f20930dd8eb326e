package biz

import (
	"context"
	"errors"
	"sync"
	"time"
)

type fakeClassifier struct {
	mu     sync.Mutex
	calls  int
	scores map[string]any
	err    error
	// release, when set, blocks Classify until closed. started receives once per call.
	release chan struct{}
	started chan struct{}
}

func (f *fakeClassifier) Classify(ctx context.Context, kind Kind, payload Payload) (map[string]any, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]any, len(f.scores))
	for k, v := range f.scores {
		out[k] = v
	}
	return out, nil
}

func (f *fakeClassifier) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeLedger struct {
	mu        sync.Mutex
	rows      []*Verdict
	insertErr error
	readErr   error
	reads     int
	// countRelease, when set, blocks Count until closed. countStarted receives once per call.
	countRelease chan struct{}
	countStarted chan struct{}
}

func (f *fakeLedger) Insert(ctx context.Context, subject string, flagged bool, categories map[string]any) (*Verdict, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	v := &Verdict{
		ID:         int64(len(f.rows) + 1),
		Subject:    subject,
		Flagged:    flagged,
		Categories: categories,
		CreatedAt:  time.Now().UTC(),
	}
	f.rows = append(f.rows, v)
	cp := *v
	return &cp, nil
}

func (f *fakeLedger) GetByID(ctx context.Context, id int64) (*Verdict, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	if f.readErr != nil {
		return nil, f.readErr
	}
	for _, v := range f.rows {
		if v.ID == id {
			cp := *v
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeLedger) Count(ctx context.Context) (int64, error) {
	if f.countStarted != nil {
		f.countStarted <- struct{}{}
	}
	if f.countRelease != nil {
		select {
		case <-f.countRelease:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	if f.readErr != nil {
		return 0, f.readErr
	}
	return int64(len(f.rows)), nil
}

func (f *fakeLedger) CountFlagged(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return 0, f.readErr
	}
	var n int64
	for _, v := range f.rows {
		if v.Flagged {
			n++
		}
	}
	return n, nil
}

func (f *fakeLedger) ScanCategories(ctx context.Context, fn func(map[string]any) error) error {
	f.mu.Lock()
	rows := append([]*Verdict(nil), f.rows...)
	err := f.readErr
	f.mu.Unlock()
	if err != nil {
		return err
	}
	for _, v := range rows {
		if err := fn(v.Categories); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeLedger) Ping(ctx context.Context) error { return f.readErr }

func (f *fakeLedger) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

func (f *fakeLedger) Reads() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads
}

type fakeCache struct {
	mu       sync.Mutex
	items    map[string][]byte
	ttls     map[string]time.Duration
	deleted  []string
	setFails bool
	down     bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{items: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (f *fakeCache) Get(ctx context.Context, key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return nil, false
	}
	v, ok := f.items[key]
	return v, ok
}

func (f *fakeCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down || f.setFails {
		return false
	}
	f.items[key] = value
	f.ttls[key] = ttl
	return true
}

func (f *fakeCache) Delete(ctx context.Context, key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return
	}
	delete(f.items, key)
	f.deleted = append(f.deleted, key)
}

func (f *fakeCache) Ping(ctx context.Context) error {
	if f.down {
		return errors.New("cache down")
	}
	return nil
}

func (f *fakeCache) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

func (f *fakeCache) Deleted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

func (f *fakeCache) Has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.items[key]
	return ok
}
