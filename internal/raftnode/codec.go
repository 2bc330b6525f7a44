// Package raftnode is the coordinator: the single replication goroutine
// that owns an internal/raft.Engine, an internal/raftlog.Log, and a set of
// peer links, and the request queue every other goroutine must go through
// to reach them.
package raftnode

import (
	"encoding/binary"
	"errors"
	"fmt"
	"unsafe"
)

// ErrTruncatedCommand is returned by DecodeCommand when the buffer ends
// before a declared length says it should.
var ErrTruncatedCommand = errors.New("raftnode: truncated command buffer")

func init() {
	var x uint16 = 1
	if *(*byte)(unsafe.Pointer(&x)) != 1 {
		panic("raftnode: codec requires a little-endian host")
	}
}

// EncodeCommand serializes argv as:
//
//	u64 argc
//	repeat argc times: u64 len; bytes[len]
//
// little-endian throughout. It cannot fail except on allocation.
func EncodeCommand(argv [][]byte) []byte {
	size := 8
	for _, arg := range argv {
		size += 8 + len(arg)
	}

	buf := make([]byte, size)
	binary.LittleEndian.PutUint64(buf, uint64(len(argv)))
	offset := 8
	for _, arg := range argv {
		binary.LittleEndian.PutUint64(buf[offset:], uint64(len(arg)))
		offset += 8
		offset += copy(buf[offset:], arg)
	}
	return buf
}

// EncodeCfgChange serializes a membership-change payload: u32 id, u32 port,
// u64 host length, host bytes. It travels inside a log entry's Data for
// ADD_NODE / ADD_NONVOTING_NODE / REMOVE_NODE entries.
func EncodeCfgChange(c CfgChange) []byte {
	buf := make([]byte, 4+4+8+len(c.Host))
	binary.LittleEndian.PutUint32(buf[0:], c.ID)
	binary.LittleEndian.PutUint32(buf[4:], c.Port)
	binary.LittleEndian.PutUint64(buf[8:], uint64(len(c.Host)))
	copy(buf[16:], c.Host)
	return buf
}

// DecodeCfgChange is the inverse of EncodeCfgChange.
func DecodeCfgChange(buf []byte) (CfgChange, error) {
	if len(buf) < 16 {
		return CfgChange{}, fmt.Errorf("%w: cfg change header", ErrTruncatedCommand)
	}
	id := binary.LittleEndian.Uint32(buf[0:])
	port := binary.LittleEndian.Uint32(buf[4:])
	hostLen := binary.LittleEndian.Uint64(buf[8:])
	if uint64(16)+hostLen > uint64(len(buf)) {
		return CfgChange{}, fmt.Errorf("%w: cfg change host", ErrTruncatedCommand)
	}
	host := string(buf[16 : 16+hostLen])
	return CfgChange{ID: id, Host: host, Port: port}, nil
}

// DecodeCommand parses the wire form produced by EncodeCommand. It fails if
// the buffer is shorter than the declared argc/length fields require.
func DecodeCommand(buf []byte) ([][]byte, error) {
	if len(buf) < 8 {
		return nil, fmt.Errorf("%w: missing argc", ErrTruncatedCommand)
	}
	argc := binary.LittleEndian.Uint64(buf)
	offset := 8

	argv := make([][]byte, 0, argc)
	for i := uint64(0); i < argc; i++ {
		if offset+8 > len(buf) {
			return nil, fmt.Errorf("%w: missing length for arg %d", ErrTruncatedCommand, i)
		}
		n := binary.LittleEndian.Uint64(buf[offset:])
		offset += 8
		if uint64(offset)+n > uint64(len(buf)) {
			return nil, fmt.Errorf("%w: arg %d declares %d bytes past end of buffer", ErrTruncatedCommand, i, n)
		}
		arg := make([]byte, n)
		copy(arg, buf[offset:offset+int(n)])
		offset += int(n)
		argv = append(argv, arg)
	}
	return argv, nil
}
