package kv

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/trace/noop"
)

func newTestStore() *Store {
	return NewStore(noop.NewTracerProvider().Tracer("kv-test"))
}

func TestStore_SetThenGet(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	ctx := context.Background()

	if _, err := s.Apply(ctx, argv("SET", "k", "v")); err != nil {
		t.Fatalf("Apply(SET) error = %v", err)
	}

	val, ok := s.Get("k")
	if !ok || val != "v" {
		t.Fatalf("Get(k) = (%q, %v), want (\"v\", true)", val, ok)
	}
}

func TestStore_ApplySet_ReturnsOK(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	reply, err := s.Apply(context.Background(), argv("SET", "k", "v"))
	if err != nil {
		t.Fatalf("Apply(SET) error = %v", err)
	}
	if string(reply) != "OK" {
		t.Fatalf("reply = %q, want OK", reply)
	}
}

func TestStore_ApplyGet_MissingKeyReturnsNilReply(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	reply, err := s.Apply(context.Background(), argv("GET", "missing"))
	if err != nil {
		t.Fatalf("Apply(GET) error = %v", err)
	}
	if reply != nil {
		t.Fatalf("reply = %q, want nil", reply)
	}
}

func TestStore_ApplyDel_ReportsWhetherKeyExisted(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	ctx := context.Background()

	if _, err := s.Apply(ctx, argv("SET", "k", "v")); err != nil {
		t.Fatalf("Apply(SET) error = %v", err)
	}

	reply, err := s.Apply(ctx, argv("DEL", "k"))
	if err != nil {
		t.Fatalf("Apply(DEL) error = %v", err)
	}
	if string(reply) != "1" {
		t.Fatalf("reply = %q, want 1", reply)
	}

	reply, err = s.Apply(ctx, argv("DEL", "k"))
	if err != nil {
		t.Fatalf("Apply(DEL) error = %v", err)
	}
	if string(reply) != "0" {
		t.Fatalf("reply = %q, want 0", reply)
	}

	if _, ok := s.Get("k"); ok {
		t.Fatalf("Get(k) ok = true after delete")
	}
}

func TestStore_Apply_UnknownCommandReturnsError(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	_, err := s.Apply(context.Background(), argv("INCR", "k"))
	if err == nil {
		t.Fatalf("expected error for unknown command")
	}
	var unknown *ErrUnknownCommand
	if !asUnknownCommand(err, &unknown) {
		t.Fatalf("error = %v, want *ErrUnknownCommand", err)
	}
}

func TestStore_Apply_WrongArityReturnsError(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	_, err := s.Apply(context.Background(), argv("SET", "k"))
	if err == nil {
		t.Fatalf("expected error for wrong arity")
	}
}

func argv(parts ...string) [][]byte {
	out := make([][]byte, len(parts))
	for i, p := range parts {
		out[i] = []byte(p)
	}
	return out
}

func asUnknownCommand(err error, target **ErrUnknownCommand) bool {
	e, ok := err.(*ErrUnknownCommand)
	if !ok {
		return false
	}
	*target = e
	return true
}
