package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"pos-inventory/internal/events"
	"pos-inventory/internal/storage"
)

var (
	pngHeader  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
	errStorage = errors.New("disk full")
)

func pngUpload(name string) *storage.Upload {
	return &storage.Upload{Filename: name, Size: int64(len(pngHeader)), Content: bytes.NewReader(pngHeader)}
}

// recordingMedia keeps stored references in memory and logs every call in order
type recordingMedia struct {
	mu        sync.Mutex
	next      int
	stored    map[string][]byte
	calls     []string
	failStore bool
}

func newRecordingMedia() *recordingMedia {
	return &recordingMedia{stored: make(map[string][]byte)}
}

func (m *recordingMedia) Store(ctx context.Context, namespace string, upload *storage.Upload) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failStore {
		m.calls = append(m.calls, "store:error")
		return "", errStorage
	}
	data, err := io.ReadAll(upload.Content)
	if err != nil {
		return "", err
	}
	m.next++
	ref := fmt.Sprintf("%s/%d.png", namespace, m.next)
	m.stored[ref] = data
	m.calls = append(m.calls, "store:"+ref)
	return ref, nil
}

func (m *recordingMedia) Delete(ctx context.Context, ref string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, "delete:"+ref)
	delete(m.stored, ref)
	return nil
}

func (m *recordingMedia) has(ref string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.stored[ref]
	return ok
}

func (m *recordingMedia) callLog() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// recordingPublisher captures published order events
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.OrderEvent
	err    error
}

func (p *recordingPublisher) PublishOrder(ctx context.Context, event events.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func integer(v int64) *Integer { i := Integer(v); return &i }

func boolPtr(v bool) *bool { return &v }

func strPtr(v string) *string { return &v }
