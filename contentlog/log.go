// Package contentlog keeps the local history of QR code contents, newest first.
package contentlog

import "sync"

// Log is an ordered list of contents persisted under a single key of a Store.
type Log struct {
	store Store
	key   string
	mu    sync.Mutex
}

func New(store Store, key string) *Log {
	return &Log{
		store: store,
		key:   key,
	}
}

// Append inserts content at the head of the log.
func (l *Log) Append(content string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	contents, err := l.store.Get(l.key)
	if err != nil {
		return err
	}
	updated := make([]string, 0, len(contents)+1)
	updated = append(updated, content)
	updated = append(updated, contents...)
	return l.store.Set(l.key, updated)
}

// List returns the contents, newest first. An empty log yields an empty slice.
func (l *Log) List() ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	contents, err := l.store.Get(l.key)
	if err != nil {
		return nil, err
	}
	return append(make([]string, 0, len(contents)), contents...), nil
}

// Remove deletes the first entry equal to content. It reports whether an entry was removed.
func (l *Log) Remove(content string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	contents, err := l.store.Get(l.key)
	if err != nil {
		return false, err
	}
	for i, c := range contents {
		if c != content {
			continue
		}
		updated := make([]string, 0, len(contents)-1)
		updated = append(updated, contents[:i]...)
		updated = append(updated, contents[i+1:]...)
		return true, l.store.Set(l.key, updated)
	}
	return false, nil
}

// Clear removes every entry.
func (l *Log) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.Delete(l.key)
}
