package security

import (
	"context"
	"strings"

	"github.com/ramborogers/netninja/scanner"
	"github.com/rs/zerolog/log"
)

// FirewallActive is a best-effort check of host firewall state.
//
// When `ufw status` runs at all, its output decides. Otherwise a zero exit
// from `iptables -L -n` is taken as active. Both unavailable means inactive.
func FirewallActive(ctx context.Context, runner scanner.Runner) bool {
	res, err := runner.Run(ctx, "ufw", "status")
	if err == nil {
		return strings.Contains(res.Stdout, "Status: active")
	}
	log.Debug().Err(err).Msg("ufw unavailable, falling back to iptables")

	res, err = runner.Run(ctx, "iptables", "-L", "-n")
	if err == nil {
		return res.Success()
	}
	log.Debug().Err(err).Msg("iptables unavailable")
	return false
}
