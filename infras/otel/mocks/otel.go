// Package mocks provides an in-memory otel.Otel for tests.
package mocks

import (
	"context"
	"sync"

	"etm/infras/otel"
)

// Recorder keeps the names of opened spans and every traced error.
type Recorder struct {
	mu     sync.Mutex
	spans  []string
	errors []error
}

// NewOtel returns a Recorder that exports nothing.
func NewOtel() *Recorder {
	return &Recorder{}
}

func (r *Recorder) NewScope(ctx context.Context, _, spanName string) (context.Context, otel.Scope) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.spans = append(r.spans, spanName)

	return ctx, &scope{recorder: r}
}

func (r *Recorder) Shutdown(context.Context) error {
	return nil
}

// Spans lists span names in the order they were opened.
func (r *Recorder) Spans() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.spans...)
}

// Errors lists every error passed to TraceError or a non-nil TraceIfError.
func (r *Recorder) Errors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]error(nil), r.errors...)
}

type scope struct {
	recorder *Recorder
}

func (s *scope) AddEvent(string) {}

func (s *scope) End() {}

func (s *scope) SetAttribute(string, any) {}

func (s *scope) SetAttributes(map[string]any) {}

func (s *scope) TraceError(err error) {
	if err == nil {
		return
	}

	s.recorder.mu.Lock()
	defer s.recorder.mu.Unlock()

	s.recorder.errors = append(s.recorder.errors, err)
}

func (s *scope) TraceIfError(err error) {
	s.TraceError(err)
}
