package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

// monitorScript builds a six-pane tmux session of watch commands
const monitorScript = `#!/bin/bash
# NetNinja Monitoring Dashboard Launcher

SESSION_NAME="netninja-monitor"

if ! command -v tmux &> /dev/null; then
    echo "Error: tmux is not installed. Please install it first:"
    echo "  sudo apt-get install tmux"
    exit 1
fi

tmux kill-session -t "$SESSION_NAME" 2>/dev/null

tmux new-session -d -s "$SESSION_NAME"
tmux rename-window -t "$SESSION_NAME:0" "NetNinja Monitor"

tmux split-window -h -t "$SESSION_NAME"
tmux select-pane -t "$SESSION_NAME:0.0"
tmux split-window -v -t "$SESSION_NAME:0.0"
tmux split-window -v -t "$SESSION_NAME:0.1"
tmux select-pane -t "$SESSION_NAME:0.3"
tmux split-window -v -t "$SESSION_NAME:0.3"
tmux split-window -v -t "$SESSION_NAME:0.4"
tmux select-layout -t "$SESSION_NAME" tiled

tmux send-keys -t "$SESSION_NAME:0.0" 'clear && watch -n 2 "ip addr show | grep -E \"^[0-9]|inet \" | head -20"' C-m
tmux send-keys -t "$SESSION_NAME:0.1" 'clear && if command -v iftop &> /dev/null; then sudo iftop -t -s 2 2>/dev/null || echo "Run with sudo for iftop"; else watch -n 2 "cat /proc/net/dev"; fi' C-m
tmux send-keys -t "$SESSION_NAME:0.2" 'clear && watch -n 5 "echo \"=== Recent Auth Logs ===\" && journalctl -u ssh -n 10 --no-pager 2>/dev/null | tail -5 || tail -10 /var/log/auth.log 2>/dev/null || echo \"No auth logs accessible\""' C-m
tmux send-keys -t "$SESSION_NAME:0.3" 'clear && watch -n 5 "echo \"=== VPN Status ===\" && ip addr show | grep -E \"tun|tap|wg\" -A2 || echo \"No VPN interface detected\""' C-m
tmux send-keys -t "$SESSION_NAME:0.4" 'clear && watch -n 5 "echo \"=== Listening Ports ===\" && ss -tuln | head -20"' C-m
tmux send-keys -t "$SESSION_NAME:0.5" 'clear && watch -n 10 "echo \"=== Network Neighbors ===\" && ip neigh show | head -15"' C-m

echo "Starting NetNinja Monitoring Dashboard..."
echo "Press Ctrl+B then D to detach from the session"
sleep 1
tmux attach-session -t "$SESSION_NAME"
`

// writeMonitorScript writes the tmux launcher to path with mode 0755
func writeMonitorScript(path string) error {
	if err := os.WriteFile(path, []byte(monitorScript), 0o755); err != nil {
		return fmt.Errorf("failed to create monitor script: %w", err)
	}
	// WriteFile keeps the mode of an existing file
	if err := os.Chmod(path, 0o755); err != nil {
		return fmt.Errorf("failed to make monitor script executable: %w", err)
	}
	return nil
}

// launchTmux writes the launcher script and runs it attached to the terminal
func launchTmux(ctx context.Context, path string) error {
	fmt.Println("Launching NetNinja Monitoring Dashboard...")
	if err := writeMonitorScript(path); err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, "bash", path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to launch monitoring dashboard: %w", err)
	}
	return nil
}
