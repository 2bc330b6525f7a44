package raftnode

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncodeDecodeCommand_RoundTrip(t *testing.T) {
	t.Parallel()

	cases := [][][]byte{
		nil,
		{[]byte("SET")},
		{[]byte("SET"), []byte("k"), []byte("v")},
		{[]byte("SET"), {}, []byte("binary\x00\x01")},
	}

	for _, argv := range cases {
		encoded := EncodeCommand(argv)
		decoded, err := DecodeCommand(encoded)
		if err != nil {
			t.Fatalf("DecodeCommand() error = %v for argv=%v", err, argv)
		}
		if len(decoded) != len(argv) {
			t.Fatalf("decoded len = %d, want %d", len(decoded), len(argv))
		}
		for i := range argv {
			if !bytes.Equal(decoded[i], argv[i]) {
				t.Fatalf("decoded[%d] = %q, want %q", i, decoded[i], argv[i])
			}
		}
	}
}

func TestDecodeCommand_TruncatedArgcFails(t *testing.T) {
	t.Parallel()

	_, err := DecodeCommand([]byte{1, 2, 3})
	if !errors.Is(err, ErrTruncatedCommand) {
		t.Fatalf("error = %v, want ErrTruncatedCommand", err)
	}
}

func TestDecodeCommand_TruncatedPayloadFails(t *testing.T) {
	t.Parallel()

	full := EncodeCommand([][]byte{[]byte("hello world")})
	_, err := DecodeCommand(full[:len(full)-3])
	if !errors.Is(err, ErrTruncatedCommand) {
		t.Fatalf("error = %v, want ErrTruncatedCommand", err)
	}
}

func TestDecodeCommand_EmptyMiddleElementPreserved(t *testing.T) {
	t.Parallel()

	argv := [][]byte{[]byte("SET"), {}, []byte("binary\x00\x01")}
	decoded, err := DecodeCommand(EncodeCommand(argv))
	if err != nil {
		t.Fatalf("DecodeCommand() error = %v", err)
	}
	if len(decoded) != 3 || len(decoded[1]) != 0 {
		t.Fatalf("decoded = %v, want empty middle element preserved", decoded)
	}
}
