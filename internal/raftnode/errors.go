package raftnode

import "errors"

// ErrNoLeader is returned to a REDISCOMMAND-style request when no leader is
// currently known.
var ErrNoLeader = errors.New("raftnode: no known leader")

// ErrLeaderRedirect is returned alongside Reply.Redirect when this node
// knows of a leader but isn't it.
var ErrLeaderRedirect = errors.New("raftnode: leader is elsewhere")

// ErrShutdown is returned to every request submitted after this node has
// been removed from the cluster by a committed RemoveNode entry targeting
// itself. Requests already waiting at that moment are not answered with it.
var ErrShutdown = errors.New("raftnode: node shut down")

// ErrUnknownPeer is returned when a config-change request or peer reply
// names a node id that isn't a registered peer.
var ErrUnknownPeer = errors.New("raftnode: unknown peer id")
