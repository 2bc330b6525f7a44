// Package main implements the CLI client for the raftkv cluster.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/lrudenko/raftkv/internal/transport/grpcfront"
)

const usage = `Usage:
  client [--addr host:port[,host:port,...]] get <key>
  client [--addr host:port[,host:port,...]] set <key> <value>
  client [--addr host:port[,host:port,...]] del <key>
  client [--addr host:port[,host:port,...]] info
  client [--addr host:port[,host:port,...]] addnode <id> <host> <port>
  client [--addr host:port[,host:port,...]] removenode <id>
  client [--addr host:port[,host:port,...]] watch

get/set/del are submitted through Execute and follow LEADERIS redirects
automatically. info asks the first node that answers; watch polls every
--addr node and shows one row per node; addnode
and removenode are addressed to a single node (the first --addr entry).

Flags:
  --addr     Comma-separated gRPC addresses, leader discovered automatically
  --timeout  Request timeout (default 5s)
`

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "127.0.0.1:9091", "comma-separated cluster gRPC addresses")
	timeout := flag.Duration("timeout", 5*time.Second, "request timeout")
	flag.Usage = func() { _, _ = fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		return fmt.Errorf("subcommand required: get | set | del | info | addnode | removenode | watch")
	}

	addrs := splitAddrs(*addr)
	if len(addrs) == 0 {
		return fmt.Errorf("no addresses provided")
	}

	switch args[0] {
	case "get":
		if len(args) != 2 {
			return fmt.Errorf("usage: get <key>")
		}
		return withClusterClient(addrs, *timeout, func(ctx context.Context, c *grpcfront.ClusterClient) error {
			return cmdGet(ctx, c, args[1])
		})

	case "set":
		if len(args) != 3 {
			return fmt.Errorf("usage: set <key> <value>")
		}
		return withClusterClient(addrs, *timeout, func(ctx context.Context, c *grpcfront.ClusterClient) error {
			return cmdSet(ctx, c, args[1], args[2])
		})

	case "del":
		if len(args) != 2 {
			return fmt.Errorf("usage: del <key>")
		}
		return withClusterClient(addrs, *timeout, func(ctx context.Context, c *grpcfront.ClusterClient) error {
			return cmdDel(ctx, c, args[1])
		})

	case "info":
		if len(args) != 1 {
			return fmt.Errorf("usage: info")
		}
		return withClusterClient(addrs, *timeout, cmdInfo)

	case "addnode":
		if len(args) != 4 {
			return fmt.Errorf("usage: addnode <id> <host> <port>")
		}
		return withNodeClient(addrs[0], *timeout, func(ctx context.Context, c *grpcfront.Client) error {
			return cmdAddNode(ctx, c, args[1], args[2], args[3])
		})

	case "removenode":
		if len(args) != 2 {
			return fmt.Errorf("usage: removenode <id>")
		}
		return withNodeClient(addrs[0], *timeout, func(ctx context.Context, c *grpcfront.Client) error {
			return cmdRemoveNode(ctx, c, args[1])
		})

	case "watch":
		if len(args) != 1 {
			return fmt.Errorf("usage: watch")
		}
		return cmdWatch(addrs, *timeout)

	default:
		flag.Usage()
		return fmt.Errorf("unknown subcommand %q", args[0])
	}
}

func withClusterClient(addrs []string, timeout time.Duration, fn func(context.Context, *grpcfront.ClusterClient) error) error {
	c, err := grpcfront.NewClusterClient(addrs, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return fn(ctx, c)
}

func withNodeClient(addr string, timeout time.Duration, fn func(context.Context, *grpcfront.Client) error) error {
	c, err := grpcfront.Dial(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return fn(ctx, c)
}

func cmdGet(ctx context.Context, c *grpcfront.ClusterClient, key string) error {
	data, err := c.Execute(ctx, [][]byte{[]byte("GET"), []byte(key)})
	if errors.Is(err, grpcfront.ErrNoLeader) {
		return fmt.Errorf("no leader available, cluster may be degraded")
	}
	if err != nil {
		return err
	}
	if data == nil {
		fmt.Printf("(not found) %s\n", key)
		return nil
	}
	fmt.Printf("%s = %s\n", key, data)
	return nil
}

func cmdSet(ctx context.Context, c *grpcfront.ClusterClient, key, value string) error {
	_, err := c.Execute(ctx, [][]byte{[]byte("SET"), []byte(key), []byte(value)})
	if errors.Is(err, grpcfront.ErrNoLeader) {
		return fmt.Errorf("no leader available, cluster may be degraded")
	}
	if err != nil {
		return err
	}
	fmt.Println("OK")
	return nil
}

func cmdDel(ctx context.Context, c *grpcfront.ClusterClient, key string) error {
	_, err := c.Execute(ctx, [][]byte{[]byte("DEL"), []byte(key)})
	if errors.Is(err, grpcfront.ErrNoLeader) {
		return fmt.Errorf("no leader available, cluster may be degraded")
	}
	if err != nil {
		return err
	}
	fmt.Println("OK")
	return nil
}

func cmdInfo(ctx context.Context, c *grpcfront.ClusterClient) error {
	resp, err := c.Info(ctx)
	if err != nil {
		return err
	}
	fmt.Println(resp.Status)
	return nil
}

func cmdAddNode(ctx context.Context, c *grpcfront.Client, idRaw, host, portRaw string) error {
	id, err := strconv.ParseUint(idRaw, 10, 32)
	if err != nil {
		return fmt.Errorf("invalid node id %q: %w", idRaw, err)
	}
	port, err := strconv.ParseUint(portRaw, 10, 32)
	if err != nil {
		return fmt.Errorf("invalid port %q: %w", portRaw, err)
	}
	resp, err := c.CfgChangeAddNode(ctx, uint32(id), host, uint32(port))
	if err != nil {
		return err
	}
	if !resp.Ok {
		return fmt.Errorf("addnode rejected: %s", resp.Error)
	}
	fmt.Println("OK")
	return nil
}

func cmdRemoveNode(ctx context.Context, c *grpcfront.Client, idRaw string) error {
	id, err := strconv.ParseUint(idRaw, 10, 32)
	if err != nil {
		return fmt.Errorf("invalid node id %q: %w", idRaw, err)
	}
	resp, err := c.CfgChangeRemoveNode(ctx, uint32(id))
	if err != nil {
		return err
	}
	if !resp.Ok {
		return fmt.Errorf("removenode rejected: %s", resp.Error)
	}
	fmt.Println("OK")
	return nil
}

func splitAddrs(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
