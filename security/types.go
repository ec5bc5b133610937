package security

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Severity is an alert priority tier. Higher values are more severe.
type Severity int

// Severities in ascending order
const (
	Info Severity = iota + 1
	Low
	Medium
	High
	Critical
)

var severityNames = map[Severity]string{
	Critical: "CRITICAL",
	High:     "HIGH",
	Medium:   "MEDIUM",
	Low:      "LOW",
	Info:     "INFO",
}

// Severities lists every severity from most to least severe
var Severities = []Severity{Critical, High, Medium, Low, Info}

func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// Valid reports whether s is one of the five defined severities
func (s Severity) Valid() bool {
	_, ok := severityNames[s]
	return ok
}

// ParseSeverity converts a severity name, case-insensitively
func ParseSeverity(name string) (Severity, error) {
	for sev, n := range severityNames {
		if strings.EqualFold(n, name) {
			return sev, nil
		}
	}
	return 0, fmt.Errorf("unknown severity %q", name)
}

// MarshalJSON encodes the severity by name. Undefined severities are an error.
func (s Severity) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid severity %d", int(s))
	}
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a severity name
func (s *Severity) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	sev, err := ParseSeverity(name)
	if err != nil {
		return err
	}
	*s = sev
	return nil
}

// Category classifies what kind of event raised an alert
type Category string

// Alert categories
const (
	FailedLogin       Category = "FailedLogin"
	PortScan          Category = "PortScan"
	UnusualTraffic    Category = "UnusualTraffic"
	FirewallBlock     Category = "FirewallBlock"
	SuspiciousProcess Category = "SuspiciousProcess"
	SystemChange      Category = "SystemChange"
)

// Alert is a single classified security event. Timestamp is the capture
// time, not the time of the underlying log event.
type Alert struct {
	Timestamp time.Time `json:"timestamp"`
	Severity  Severity  `json:"severity"`
	Category  Category  `json:"category"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
}

// Pass names one of the classifier scan passes
type Pass string

// Scan passes in execution order
const (
	PassFailedLogin      Pass = "failed-login"
	PassConnectionVolume Pass = "connection-volume"
	PassFirewallLog      Pass = "firewall-log"
)

// PassResult is the outcome of one scan pass: either the alerts it found,
// possibly none, or the reason its source was unavailable.
type PassResult struct {
	Pass   Pass    `json:"pass"`
	Alerts []Alert `json:"alerts"`
	Err    error   `json:"-"`
}

// Ok builds a successful pass result
func Ok(pass Pass, alerts []Alert) PassResult {
	return PassResult{Pass: pass, Alerts: alerts}
}

// Unavailable builds a pass result for a source that could not be read
func Unavailable(pass Pass, err error) PassResult {
	return PassResult{Pass: pass, Err: err}
}

// Available reports whether the pass ran against its source
func (r PassResult) Available() bool {
	return r.Err == nil
}

// Clock returns the current time
type Clock func() time.Time
