package scanner

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

const defaultPortState = "LISTEN"

// ParsePorts parses `ss -tuln` output into port entries.
//
// The first line is a header. Rows with fewer than five fields, or whose
// local address does not end in a 16-bit port, are dropped.
func ParsePorts(output string) []PortEntry {
	var ports []PortEntry
	for i, line := range strings.Split(output, "\n") {
		if i == 0 {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 5 {
			continue
		}

		local := fields[4]
		portStr := local[strings.LastIndex(local, ":")+1:]
		port, err := strconv.ParseUint(portStr, 10, 16)
		if err != nil {
			log.Trace().Str("line", line).Msg("skipping port row with unparsable port")
			continue
		}

		state := defaultPortState
		if len(fields) > 5 {
			state = fields[1]
		}

		ports = append(ports, PortEntry{
			Protocol: fields[0],
			Port:     uint16(port),
			State:    state,
		})
	}
	return ports
}
