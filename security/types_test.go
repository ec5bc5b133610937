package security

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverityOrdering(t *testing.T) {
	assert.Less(t, Info, Low)
	assert.Less(t, Low, Medium)
	assert.Less(t, Medium, High)
	assert.Less(t, High, Critical)

	for i := 1; i < len(Severities); i++ {
		assert.Greater(t, Severities[i-1], Severities[i])
	}
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "CRITICAL", Critical.String())
	assert.Equal(t, "HIGH", High.String())
	assert.Equal(t, "MEDIUM", Medium.String())
	assert.Equal(t, "LOW", Low.String())
	assert.Equal(t, "INFO", Info.String())
	assert.Equal(t, "UNKNOWN", Severity(0).String())
	assert.False(t, Severity(9).Valid())
}

func TestParseSeverity(t *testing.T) {
	sev, err := ParseSeverity("high")
	require.NoError(t, err)
	assert.Equal(t, High, sev)

	_, err = ParseSeverity("urgent")
	assert.Error(t, err)
}

func TestAlertJSONUsesSeverityName(t *testing.T) {
	data, err := json.Marshal(Alert{Severity: Critical, Category: PortScan, Message: "m"})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"severity":"CRITICAL"`)
	assert.NotContains(t, string(data), "details")
}

func TestAlertJSONRejectsUndefinedSeverity(t *testing.T) {
	for _, sev := range []Severity{0, Critical + 1} {
		_, err := json.Marshal(Alert{Severity: sev, Category: PortScan, Message: "m"})
		assert.ErrorContains(t, err, "invalid severity", int(sev))
	}
}

func TestPassResult(t *testing.T) {
	ok := Ok(PassFailedLogin, nil)
	assert.True(t, ok.Available())
	assert.Empty(t, ok.Alerts)

	down := Unavailable(PassFirewallLog, errors.New("dmesg: read kernel buffer failed"))
	assert.False(t, down.Available())
	assert.Equal(t, PassFirewallLog, down.Pass)
}
