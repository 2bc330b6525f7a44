package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config contains runtime settings for a node process.
type Config struct {
	NodeID  uint32
	Address string

	// Init starts a brand-new single-node cluster. Join and Init are
	// mutually exclusive.
	Init bool
	// Join names the address of an existing cluster member to contact for
	// a CfgChangeAddNode request. Empty means this node is either
	// bootstrapping (Init) or reopening an existing log.
	Join string

	LogPath  string
	LogLevel string

	// PeerAddrs holds the id=host:port entries parsed from APP_PEERS. They
	// are validated at load time but not handed to the coordinator, which
	// rebuilds a reopened node's peer table from the membership entries in
	// its own log.
	PeerAddrs map[uint32]string

	MetricsAddr string
	PprofAddr   string

	TracingEnabled     bool
	TracingEndpoint    string
	TracingServiceName string
}

// DefaultConfig returns a local-development configuration for node 1.
func DefaultConfig() Config {
	return Config{
		NodeID:   1,
		Address:  "127.0.0.1:9091",
		Init:     true,
		LogPath:  "./var/raftnode-log-1.json",
		LogLevel: "info",
	}
}

// LoadConfigFromEnv loads config from environment variables.
//
// Supported vars:
// - APP_NODE_ID (required, uint32)
// - APP_ADDRESS (required, host:port this node's peer transport listens on)
// - APP_INIT (bool, bootstraps a brand-new single-node cluster)
// - APP_JOIN (address of an existing member to ask for a CfgChangeAddNode)
// - APP_LOG_PATH (defaults to raftnode-log-<node_id>.json in the working dir)
// - APP_LOG_LEVEL (debug|info|warn|error)
// - APP_PEERS (comma-separated "id=host:port" entries)
// - APP_METRICS_ADDR (Prometheus /metrics listen addr, empty disables)
// - APP_PPROF_ADDR (net/http/pprof listen addr, empty disables)
// - APP_TRACING_ENABLED (bool)
// - APP_TRACING_ENDPOINT (OTLP/gRPC collector endpoint)
// - APP_TRACING_SERVICE_NAME (defaults to "raftkv-node")
func LoadConfigFromEnv() (Config, error) {
	cfg := Config{LogLevel: "info", TracingServiceName: "raftkv-node"}

	idRaw := strings.TrimSpace(os.Getenv("APP_NODE_ID"))
	if idRaw == "" {
		return Config{}, fmt.Errorf("app: APP_NODE_ID is required")
	}
	id, err := strconv.ParseUint(idRaw, 10, 32)
	if err != nil {
		return Config{}, fmt.Errorf("app: invalid APP_NODE_ID %q: %w", idRaw, err)
	}
	cfg.NodeID = uint32(id)

	cfg.Address = strings.TrimSpace(os.Getenv("APP_ADDRESS"))

	if v := strings.TrimSpace(os.Getenv("APP_INIT")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("app: invalid APP_INIT %q: %w", v, err)
		}
		cfg.Init = b
	}
	cfg.Join = strings.TrimSpace(os.Getenv("APP_JOIN"))

	if v := strings.TrimSpace(os.Getenv("APP_LOG_PATH")); v != "" {
		cfg.LogPath = v
	} else {
		cfg.LogPath = fmt.Sprintf("raftnode-log-%d.json", cfg.NodeID)
	}

	if v := strings.TrimSpace(os.Getenv("APP_LOG_LEVEL")); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}

	if v := strings.TrimSpace(os.Getenv("APP_PEERS")); v != "" {
		peers, err := parsePeerAddrs(v)
		if err != nil {
			return Config{}, err
		}
		cfg.PeerAddrs = peers
	}

	cfg.MetricsAddr = strings.TrimSpace(os.Getenv("APP_METRICS_ADDR"))
	cfg.PprofAddr = strings.TrimSpace(os.Getenv("APP_PPROF_ADDR"))

	if v := strings.TrimSpace(os.Getenv("APP_TRACING_ENABLED")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("app: invalid APP_TRACING_ENABLED %q: %w", v, err)
		}
		cfg.TracingEnabled = b
	}
	cfg.TracingEndpoint = strings.TrimSpace(os.Getenv("APP_TRACING_ENDPOINT"))
	if v := strings.TrimSpace(os.Getenv("APP_TRACING_SERVICE_NAME")); v != "" {
		cfg.TracingServiceName = v
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that required settings are present and mutually
// consistent.
func (c Config) Validate() error {
	if c.NodeID == 0 {
		return fmt.Errorf("app: node id must be nonzero")
	}
	if strings.TrimSpace(c.Address) == "" {
		return fmt.Errorf("app: address is required")
	}
	if c.Init && c.Join != "" {
		return fmt.Errorf("app: init and join are mutually exclusive")
	}
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("app: unsupported log level %q", c.LogLevel)
	}
	if strings.TrimSpace(c.LogPath) == "" {
		return fmt.Errorf("app: log path is required")
	}
	return nil
}

// parsePeerAddrs parses a comma-separated "id=host:port" list into a
// node ID -> address map.
func parsePeerAddrs(raw string) (map[uint32]string, error) {
	out := make(map[uint32]string)
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		left, right, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, fmt.Errorf("app: invalid peer entry %q, want id=host:port", entry)
		}
		id, err := strconv.ParseUint(strings.TrimSpace(left), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("app: invalid peer id in %q: %w", entry, err)
		}
		addr := strings.TrimSpace(right)
		if addr == "" {
			return nil, fmt.Errorf("app: invalid peer entry %q, empty address", entry)
		}
		out[uint32(id)] = addr
	}
	return out, nil
}
