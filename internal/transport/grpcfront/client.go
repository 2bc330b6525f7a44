package grpcfront

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"google.golang.org/grpc"

	clusterpb "github.com/lrudenko/raftkv/pkg/proto/clusterv1"
)

// ErrNoLeader is returned by ClusterClient when no node in the known
// cluster accepted a write — either no leader is elected yet, or every
// redirect led back to a node this client cannot reach.
var ErrNoLeader = errors.New("grpcfront: no leader found in cluster")

// Client is a thin wrapper around the generated ClusterServiceClient for a
// single node.
type Client struct {
	conn   *grpc.ClientConn
	client clusterpb.ClusterServiceClient
}

// Dial connects to a cluster-facing gRPC server at target.
func Dial(target string, opts ...grpc.DialOption) (*Client, error) {
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("grpcfront client: dial %s: %w", target, err)
	}
	return &Client{conn: conn, client: clusterpb.NewClusterServiceClient(conn)}, nil
}

// Close closes the underlying gRPC connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Execute submits a command to this node.
func (c *Client) Execute(ctx context.Context, argv [][]byte) (*clusterpb.ExecuteResponse, error) {
	return c.client.Execute(ctx, &clusterpb.ExecuteRequest{Argv: argv})
}

// Info fetches this node's status document.
func (c *Client) Info(ctx context.Context) (*clusterpb.InfoResponse, error) {
	return c.client.Info(ctx, &clusterpb.InfoRequest{})
}

// CfgChangeAddNode proposes adding a member to the cluster this node belongs
// to.
func (c *Client) CfgChangeAddNode(ctx context.Context, id uint32, host string, port uint32) (*clusterpb.CfgChangeResponse, error) {
	return c.client.CfgChangeAddNode(ctx, &clusterpb.CfgChangeAddNodeRequest{Id: id, Host: host, Port: port})
}

// CfgChangeRemoveNode proposes removing a member from the cluster this node
// belongs to.
func (c *Client) CfgChangeRemoveNode(ctx context.Context, id uint32) (*clusterpb.CfgChangeResponse, error) {
	return c.client.CfgChangeRemoveNode(ctx, &clusterpb.CfgChangeRemoveNodeRequest{Id: id})
}

// ClusterClient follows LEADERIS redirects to find the current leader,
// dialing newly discovered addresses lazily and remembering the last
// address that accepted a write.
type ClusterClient struct {
	dialOpts []grpc.DialOption

	mu      sync.Mutex
	clients map[string]*Client
	leader  string // "" means unknown
}

// NewClusterClient returns a ClusterClient seeded with one or more known
// node addresses.
func NewClusterClient(seedAddrs []string, opts ...grpc.DialOption) (*ClusterClient, error) {
	if len(seedAddrs) == 0 {
		return nil, fmt.Errorf("grpcfront cluster client: no addresses provided")
	}
	cc := &ClusterClient{dialOpts: opts, clients: make(map[string]*Client, len(seedAddrs))}
	for _, addr := range seedAddrs {
		if _, err := cc.clientFor(addr); err != nil {
			cc.Close()
			return nil, err
		}
	}
	return cc, nil
}

// Close closes every dialed connection.
func (c *ClusterClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var errs []error
	for _, client := range c.clients {
		if err := client.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *ClusterClient) clientFor(addr string) (*Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if client, ok := c.clients[addr]; ok {
		return client, nil
	}
	client, err := Dial(addr, c.dialOpts...)
	if err != nil {
		return nil, err
	}
	c.clients[addr] = client
	return client, nil
}

func (c *ClusterClient) knownAddrs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	addrs := make([]string, 0, len(c.clients))
	for addr := range c.clients {
		addrs = append(addrs, addr)
	}
	return addrs
}

func (c *ClusterClient) leaderHint() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.leader
}

func (c *ClusterClient) setLeaderHint(addr string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.leader = addr
}

// Execute submits argv to the cluster, following LEADERIS redirects until a
// node accepts the write or every known node has been tried.
func (c *ClusterClient) Execute(ctx context.Context, argv [][]byte) ([]byte, error) {
	tried := make(map[string]bool)

	addr := c.leaderHint()
	for {
		if addr == "" {
			addr = c.pickUntried(tried)
		}
		if addr == "" {
			return nil, ErrNoLeader
		}
		tried[addr] = true

		client, err := c.clientFor(addr)
		if err != nil {
			addr = ""
			continue
		}
		resp, err := client.Execute(ctx, argv)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			addr = ""
			continue
		}
		switch {
		case resp.Error != "":
			return nil, errors.New(resp.Error)
		case resp.NoLeader:
			addr = ""
			continue
		case resp.Redirect != "":
			addr = resp.Redirect
			continue
		default:
			c.setLeaderHint(addr)
			return resp.Data, nil
		}
	}
}

// Info fetches the status document from the first reachable known node.
// Unlike Execute, it does not need the leader and never follows redirects.
func (c *ClusterClient) Info(ctx context.Context) (*clusterpb.InfoResponse, error) {
	var lastErr error
	for _, addr := range c.knownAddrs() {
		client, err := c.clientFor(addr)
		if err != nil {
			lastErr = err
			continue
		}
		resp, err := client.Info(ctx)
		if err != nil {
			lastErr = err
			continue
		}
		return resp, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("grpcfront cluster client: no reachable nodes")
	}
	return nil, lastErr
}

func (c *ClusterClient) pickUntried(tried map[string]bool) string {
	for _, addr := range c.knownAddrs() {
		if !tried[addr] {
			return addr
		}
	}
	return ""
}
