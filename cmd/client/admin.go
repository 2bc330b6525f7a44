// Package main – watch subcommand: live monitoring table rendered with bubbletea + lipgloss.
package main

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	clusterpb "github.com/lrudenko/raftkv/pkg/proto/clusterv1"
)

const watchRefreshInterval = 500 * time.Millisecond

type watchConn struct {
	addr   string
	conn   *grpc.ClientConn
	client clusterpb.ClusterServiceClient
}

type watchRow struct {
	addr     string
	nodeID   string
	role     string
	leaderID string
	term     int64
	commit   int64
	applied  int64
	logLen   int64
	peers    string
	err      string
}

type tickMsg time.Time

type rowsMsg struct {
	rows []watchRow
	ts   time.Time
}

type watchStyles struct {
	dotHealthy lipgloss.Style
	dotLeader  lipgloss.Style
	dotUnavail lipgloss.Style
	addr       lipgloss.Style
	roleLeader lipgloss.Style
	roleCand   lipgloss.Style
	roleFollow lipgloss.Style
	leaderSelf lipgloss.Style
	leaderNone lipgloss.Style
	termVal    lipgloss.Style
	metric     lipgloss.Style
	header     lipgloss.Style
	appHeader  lipgloss.Style
	tsStyle    lipgloss.Style
	footer     lipgloss.Style
	errStyle   lipgloss.Style
}

var wstyles = buildWatchStyles()

func buildWatchStyles() watchStyles {
	return watchStyles{
		dotHealthy: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
		dotLeader:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
		dotUnavail: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
		addr:       lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color("6")),
		roleLeader: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
		roleCand:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3")),
		roleFollow: lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		leaderSelf: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		leaderNone: lipgloss.NewStyle().Faint(true),
		termVal:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3")),
		metric:     lipgloss.NewStyle().Faint(true),
		header:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7")).Background(lipgloss.Color("8")),
		appHeader:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
		tsStyle:    lipgloss.NewStyle().Faint(true),
		footer:     lipgloss.NewStyle().Faint(true),
		errStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	}
}

func cmdWatch(addrs []string, timeout time.Duration) error {
	conns, err := openWatchConns(addrs)
	if err != nil {
		return err
	}
	defer func() {
		for _, c := range conns {
			_ = c.conn.Close()
		}
	}()

	p := tea.NewProgram(newWatchModel(conns, timeout), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func openWatchConns(addrs []string) ([]watchConn, error) {
	conns := make([]watchConn, 0, len(addrs))
	for _, addr := range addrs {
		conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			for _, c := range conns {
				_ = c.conn.Close()
			}
			return nil, fmt.Errorf("dial %s: %w", addr, err)
		}
		conns = append(conns, watchConn{addr: addr, conn: conn, client: clusterpb.NewClusterServiceClient(conn)})
	}
	return conns, nil
}

func pollWatchRows(ctx context.Context, conns []watchConn, timeout time.Duration) ([]watchRow, time.Time) {
	rows := make([]watchRow, len(conns))
	var wg sync.WaitGroup
	wg.Add(len(conns))

	for i, c := range conns {
		go func(i int, c watchConn) {
			defer wg.Done()
			row := watchRow{addr: c.addr}

			reqCtx, cancel := context.WithTimeout(ctx, timeout)
			resp, err := c.client.Info(reqCtx, &clusterpb.InfoRequest{})
			cancel()
			if err != nil {
				row.err = err.Error()
				rows[i] = row
				return
			}

			row.nodeID = fmt.Sprintf("%d", resp.NodeId)
			row.role = strings.ToLower(resp.Role)
			if resp.LeaderId != 0 {
				row.leaderID = fmt.Sprintf("%d", resp.LeaderId)
			}
			row.term = resp.CurrentTerm
			row.commit = resp.CommitIndex
			row.applied = resp.LastAppliedIndex
			row.logLen = resp.LogEntries
			row.peers = formatWatchPeers(resp.Peers)
			rows[i] = row
		}(i, c)
	}

	wg.Wait()

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].nodeID == rows[j].nodeID {
			return rows[i].addr < rows[j].addr
		}
		if rows[i].nodeID == "" {
			return false
		}
		if rows[j].nodeID == "" {
			return true
		}
		return rows[i].nodeID < rows[j].nodeID
	})

	return rows, time.Now()
}

func formatWatchPeers(peers []*clusterpb.InfoPeer) string {
	if len(peers) == 0 {
		return ""
	}
	items := make([]string, 0, len(peers))
	for _, p := range peers {
		if p == nil {
			continue
		}
		items = append(items, fmt.Sprintf("%d:%s", p.Id, p.State))
	}
	sort.Strings(items)
	return strings.Join(items, ",")
}

type watchModel struct {
	rows    []watchRow
	ts      time.Time
	conns   []watchConn
	timeout time.Duration
	width   int
	height  int
}

func newWatchModel(conns []watchConn, timeout time.Duration) watchModel {
	return watchModel{conns: conns, timeout: timeout, width: 100, height: 30}
}

func (m watchModel) Init() tea.Cmd {
	return m.pollCmd()
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		return m, m.pollCmd()

	case rowsMsg:
		m.rows = msg.rows
		m.ts = msg.ts
		tickFn := func(t time.Time) tea.Msg { return tickMsg(t) }
		return m, tea.Tick(watchRefreshInterval, tickFn)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m watchModel) View() string {
	contentWidth := m.width - 2
	if contentWidth <= 0 {
		contentWidth = 80
	}

	var b strings.Builder
	b.WriteString("  ")
	b.WriteString(wstyles.appHeader.Render("raftkv cluster watch"))
	b.WriteString("  ")
	b.WriteString(wstyles.tsStyle.Render(m.ts.Format(time.RFC3339)))
	b.WriteString("\n\n")

	header := fmt.Sprintf("%-2s %-22s %-5s %-8s %-7s %6s %6s %6s %6s  %s",
		"ST", "ADDR", "NODE", "ROLE", "LEADER", "TERM", "CMT", "APL", "LOG", "PEERS")
	b.WriteString(wstyles.header.Width(contentWidth).MaxWidth(contentWidth).Render(header))
	b.WriteString("\n")

	for _, r := range m.rows {
		b.WriteString(renderWatchRow(r))
		b.WriteString("\n")
	}

	b.WriteString("\n  ")
	b.WriteString(wstyles.footer.Render("Ctrl+C to exit"))
	return b.String()
}

func renderWatchRow(r watchRow) string {
	if r.err != "" {
		return fmt.Sprintf("%s %-22s %s",
			wstyles.dotUnavail.Render("●"), r.addr, wstyles.errStyle.Render(oneLineErrString(r.err)))
	}

	dot := wstyles.dotHealthy.Render("●")
	if r.role == "leader" {
		dot = wstyles.dotLeader.Render("●")
	}

	var roleCell string
	switch r.role {
	case "leader":
		roleCell = wstyles.roleLeader.Render(fmt.Sprintf("%-8s", r.role))
	case "candidate":
		roleCell = wstyles.roleCand.Render(fmt.Sprintf("%-8s", r.role))
	default:
		roleCell = wstyles.roleFollow.Render(fmt.Sprintf("%-8s", r.role))
	}

	leaderCell := wstyles.leaderNone.Render(fmt.Sprintf("%-7s", "-"))
	if r.leaderID != "" {
		leaderCell = wstyles.leaderSelf.Render(fmt.Sprintf("%-7s", r.leaderID))
	}

	return fmt.Sprintf("%s %-22s %-5s %s %s %s %s %s %s  %s",
		dot,
		r.addr,
		r.nodeID,
		roleCell,
		leaderCell,
		wstyles.termVal.Render(fmt.Sprintf("%6d", r.term)),
		wstyles.metric.Render(fmt.Sprintf("%6d", r.commit)),
		wstyles.metric.Render(fmt.Sprintf("%6d", r.applied)),
		wstyles.metric.Render(fmt.Sprintf("%6d", r.logLen)),
		wstyles.metric.Render(r.peers),
	)
}

func (m watchModel) pollCmd() tea.Cmd {
	conns := m.conns
	timeout := m.timeout
	return func() tea.Msg {
		rows, ts := pollWatchRows(context.Background(), conns, timeout)
		return rowsMsg{rows: rows, ts: ts}
	}
}

func oneLineErrString(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "\n", " ")
}
