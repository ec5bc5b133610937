package views

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/ramborogers/netninja/scanner"
)

// TableView renders a scrollable table inside a pane
type TableView struct {
	styles      *Styles
	width       int
	height      int
	columns     []table.Column
	rows        []table.Row
	tableOffset int
	focused     bool
	empty       string
	err         string
}

func newTableView(styles *Styles, empty string, columns ...table.Column) *TableView {
	return &TableView{
		styles:  styles,
		columns: columns,
		empty:   empty,
	}
}

// NewPortsView creates the open ports table
func NewPortsView(styles *Styles) *TableView {
	return newTableView(styles, "No listening ports detected",
		table.Column{Title: "Proto", Width: 6},
		table.Column{Title: "Port", Width: 7},
		table.Column{Title: "State", Width: 10},
	)
}

// NewPeersView creates the network peers table
func NewPeersView(styles *Styles) *TableView {
	return newTableView(styles, "No active network peers detected",
		table.Column{Title: "IP Address", Width: 16},
		table.Column{Title: "MAC Address", Width: 17},
		table.Column{Title: "Device", Width: 15},
		table.Column{Title: "State", Width: 9},
	)
}

// SetDimensions updates the view dimensions
func (v *TableView) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// SetFocused toggles the selected row highlight
func (v *TableView) SetFocused(focused bool) {
	v.focused = focused
}

// SetError shows err instead of the table
func (v *TableView) SetError(err string) {
	v.err = err
}

// SetPorts fills the table with port entries sorted by port
func (v *TableView) SetPorts(ports []scanner.PortEntry) {
	sorted := append([]scanner.PortEntry(nil), ports...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Port < sorted[j].Port
	})
	rows := make([]table.Row, 0, len(sorted))
	for _, p := range sorted {
		rows = append(rows, table.Row{p.Protocol, strconv.Itoa(int(p.Port)), p.State})
	}
	v.setRows(rows)
}

// SetPeers fills the table with peers sorted by IP
func (v *TableView) SetPeers(peers []scanner.NetworkPeer) {
	sorted := append([]scanner.NetworkPeer(nil), peers...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return compareIPs(sorted[i].IPAddress, sorted[j].IPAddress)
	})
	rows := make([]table.Row, 0, len(sorted))
	for _, p := range sorted {
		mac := p.MACAddress
		if mac == "" {
			mac = "N/A"
		}
		device := p.DeviceType
		if p.Hostname != "" {
			device = truncate(p.Hostname, 15)
		}
		rows = append(rows, table.Row{p.IPAddress, mac, device, p.State})
	}
	v.setRows(rows)
}

func (v *TableView) setRows(rows []table.Row) {
	v.rows = rows
	v.err = ""
	v.tableOffset = min(v.tableOffset, max(0, len(rows)-1))
}

// ScrollUp moves the view one row up
func (v *TableView) ScrollUp() {
	if v.tableOffset > 0 {
		v.tableOffset--
	}
}

// ScrollDown moves the view one row down
func (v *TableView) ScrollDown() {
	if v.tableOffset < len(v.rows)-1 {
		v.tableOffset++
	}
}

// Render generates the view
func (v *TableView) Render() string {
	if v.err != "" {
		return v.styles.Warn.Render("Error: " + v.err)
	}
	if len(v.rows) == 0 {
		return v.styles.Muted.Render(v.empty)
	}

	// Header takes two lines, scroll indicators take up to two more
	visibleRows := max(1, v.height-4)
	start := min(v.tableOffset, len(v.rows)-1)
	end := min(start+visibleRows, len(v.rows))

	tableStyle := table.Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Align(lipgloss.Left),
		Selected: lipgloss.NewStyle().
			Foreground(secondaryColor).
			Align(lipgloss.Left),
		Cell: lipgloss.NewStyle().
			Foreground(secondaryColor).
			Align(lipgloss.Left),
	}
	if v.focused {
		tableStyle.Selected = lipgloss.NewStyle().
			Background(primaryColor).
			Foreground(lipgloss.Color("#000000")).
			Bold(true)
	}

	t := table.New(
		table.WithColumns(v.columns),
		table.WithRows(v.rows[start:end]),
		table.WithFocused(v.focused),
		table.WithHeight(end-start),
		table.WithStyles(tableStyle),
	)

	tableView := t.View()
	if start > 0 {
		tableView = v.styles.KeyStyle.Render("▲") + "\n" + tableView
	}
	if end < len(v.rows) {
		tableView += "\n" + v.styles.KeyStyle.Render(fmt.Sprintf("▼ %d more", len(v.rows)-end))
	}
	return tableView
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}

// compareIPs orders dotted IPv4 addresses numerically and everything else
// lexically after them
func compareIPs(a, b string) bool {
	aOctets := strings.Split(a, ".")
	bOctets := strings.Split(b, ".")
	if len(aOctets) != 4 || len(bOctets) != 4 {
		if len(aOctets) == 4 {
			return true
		}
		if len(bOctets) == 4 {
			return false
		}
		return a < b
	}

	for i := 0; i < 4; i++ {
		aNum, _ := strconv.Atoi(aOctets[i])
		bNum, _ := strconv.Atoi(bOctets[i])
		if aNum != bNum {
			return aNum < bNum
		}
	}
	return false
}
