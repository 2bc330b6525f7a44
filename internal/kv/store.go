package kv

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Store is an in-memory key-value state machine, applied strictly in
// commit order by the replication goroutine (I8): it needs no locking of
// its own for that path, only for the concurrent local reads exposed to
// front-end goroutines by Get.
type Store struct {
	mu     sync.RWMutex
	data   map[string]string
	tracer oteltrace.Tracer
}

// NewStore creates an empty KV store.
func NewStore(tracer oteltrace.Tracer) *Store {
	return &Store{
		data:   make(map[string]string),
		tracer: tracer,
	}
}

// Get returns the current value for key, if present. Safe to call from any
// goroutine.
func (s *Store) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.data[key]
	return val, ok
}

// Apply executes a decoded argv against the store and returns the reply
// payload for the originating request. Only the replication goroutine ever
// calls Apply; see I8.
func (s *Store) Apply(ctx context.Context, argv [][]byte) ([]byte, error) {
	name := commandName(argv)
	_, span := s.tracer.Start(ctx, "kv.store.Apply", oteltrace.WithAttributes(
		attribute.String("kv.command", name),
		attribute.Int("kv.argc", len(argv)),
	))
	defer span.End()

	var (
		reply []byte
		err   error
	)
	switch {
	case len(argv) == 0:
		err = &ErrUnknownCommand{Name: ""}
	case isCommand(argv[0], cmdGet):
		reply, err = s.applyGet(argv)
	case isCommand(argv[0], cmdSet):
		reply, err = s.applySet(argv)
	case isCommand(argv[0], cmdDel):
		reply, err = s.applyDel(argv)
	default:
		err = &ErrUnknownCommand{Name: name}
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}
	return reply, nil
}

func (s *Store) applyGet(argv [][]byte) ([]byte, error) {
	if len(argv) != 2 {
		return nil, &ErrWrongArity{Name: "GET"}
	}
	s.mu.RLock()
	val, ok := s.data[string(argv[1])]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return []byte(val), nil
}

func (s *Store) applySet(argv [][]byte) ([]byte, error) {
	if len(argv) != 3 {
		return nil, &ErrWrongArity{Name: "SET"}
	}
	s.mu.Lock()
	s.data[string(argv[1])] = string(argv[2])
	s.mu.Unlock()
	return []byte("OK"), nil
}

func (s *Store) applyDel(argv [][]byte) ([]byte, error) {
	if len(argv) != 2 {
		return nil, &ErrWrongArity{Name: "DEL"}
	}
	s.mu.Lock()
	_, existed := s.data[string(argv[1])]
	delete(s.data, string(argv[1]))
	s.mu.Unlock()
	if existed {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}
