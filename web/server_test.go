package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/ramborogers/netninja/report"
	"github.com/ramborogers/netninja/scanner"
	"github.com/ramborogers/netninja/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCollector struct {
	mu     sync.Mutex
	report *report.Report
	err    error
	calls  int
}

func (f *fakeCollector) Collect(ctx context.Context) (*report.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.report, f.err
}

func testReport() *report.Report {
	return &report.Report{
		ID:          uuid.New(),
		CollectedAt: time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC),
		VPN:         scanner.VpnStatus{Connected: true, Interface: "wg0", Type: scanner.VPNTypeWireGuard},
		Ports:       []scanner.PortEntry{{Protocol: "tcp", Port: 22, State: "LISTEN"}},
		Peers:       []scanner.NetworkPeer{{IPAddress: "192.168.1.1", State: scanner.PeerReachable}},
		Security: report.SecuritySection{
			FirewallActive: true,
			Passes:         []report.PassStatus{{Pass: security.PassFailedLogin, Available: true}},
			Alerts: []security.Alert{
				{Severity: security.High, Category: security.UnusualTraffic, Message: "High connection count from 203.0.113.5: 60 connections"},
			},
		},
	}
}

func newTestServer(t *testing.T, token string, c Collector) (*Server, *httptest.Server) {
	t.Helper()
	s := NewServer(Options{AuthToken: token}, c)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func get(t *testing.T, url string, header http.Header) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	for k, values := range header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestHealthNeedsNoToken(t *testing.T) {
	_, ts := newTestServer(t, "secret", &fakeCollector{})

	resp, body := get(t, ts.URL+"/health", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"healthy"}`, body)
}

func TestAuthRequired(t *testing.T) {
	s, ts := newTestServer(t, "secret", &fakeCollector{report: testReport()})
	s.CollectOnce(context.Background())

	resp, _ := get(t, ts.URL+"/api/status", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = get(t, ts.URL+"/api/status?auth=wrong", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = get(t, ts.URL+"/api/status?auth=secret", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = get(t, ts.URL+"/api/status", http.Header{authHeader: {"secret"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = get(t, ts.URL+"/metrics", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestStatusBeforeFirstReport(t *testing.T) {
	_, ts := newTestServer(t, "", &fakeCollector{})

	resp, _ := get(t, ts.URL+"/api/status", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	resp, _ = get(t, ts.URL+"/api/security", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestStatusReturnsLatestReport(t *testing.T) {
	want := testReport()
	s, ts := newTestServer(t, "", &fakeCollector{report: want})
	s.CollectOnce(context.Background())

	resp, body := get(t, ts.URL+"/api/status", nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	var got report.Report
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Ports, got.Ports)
	assert.Equal(t, "wg0", got.VPN.Interface)
	require.Len(t, got.Security.Alerts, 1)
	assert.Equal(t, security.High, got.Security.Alerts[0].Severity)
}

func TestSecurityEndpoint(t *testing.T) {
	s, ts := newTestServer(t, "", &fakeCollector{report: testReport()})
	s.CollectOnce(context.Background())

	resp, body := get(t, ts.URL+"/api/security", nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got struct {
		Summary  string                 `json:"summary"`
		Security report.SecuritySection `json:"security"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	assert.Equal(t, "Firewall: Active\nAlerts - Critical: 0, High: 1, Medium: 0", got.Summary)
	assert.True(t, got.Security.FirewallActive)
}

func TestMetrics(t *testing.T) {
	s, ts := newTestServer(t, "", &fakeCollector{report: testReport()})
	s.CollectOnce(context.Background())

	resp, body := get(t, ts.URL+"/metrics", nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	for _, want := range []string{
		`netninja_alerts{severity="HIGH"} 1`,
		`netninja_alerts{severity="CRITICAL"} 0`,
		`netninja_listening_ports 1`,
		`netninja_peers{state="REACHABLE"} 1`,
		`netninja_vpn_connected{interface="wg0",type="WireGuard"} 1`,
		`netninja_firewall_active 1`,
		`netninja_security_pass_available{pass="failed-login"} 1`,
		`netninja_report_collections_total{result="ok"} 1`,
		`netninja_report_timestamp_seconds`,
	} {
		assert.Contains(t, body, want)
	}
}

func TestCollectOnceFailureKeepsPreviousReport(t *testing.T) {
	c := &fakeCollector{report: testReport()}
	s, ts := newTestServer(t, "", c)
	s.CollectOnce(context.Background())
	first := s.Latest()

	c.mu.Lock()
	c.report, c.err = nil, errors.New("collection failed")
	c.mu.Unlock()
	s.CollectOnce(context.Background())

	assert.Same(t, first, s.Latest())
	ok, failed := s.collectionCounts()
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, failed)

	_, body := get(t, ts.URL+"/metrics", nil)
	assert.Contains(t, body, `netninja_report_collections_total{result="error"} 1`)
}

func TestSubscribersReceiveReports(t *testing.T) {
	want := testReport()
	s := NewServer(Options{}, &fakeCollector{report: want})
	var got []*report.Report
	s.Subscribe(func(r *report.Report) { got = append(got, r) })

	s.CollectOnce(context.Background())

	require.Len(t, got, 1)
	assert.Same(t, want, got[0])
}

func TestWebSocketStream(t *testing.T) {
	s, ts := newTestServer(t, "secret", &fakeCollector{report: testReport()})
	s.CollectOnce(context.Background())
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?auth=secret"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var msg struct {
		Type   string        `json:"type"`
		Report report.Report `json:"report"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "report", msg.Type)
	assert.Equal(t, "wg0", msg.Report.VPN.Interface)

	assert.Eventually(t, func() bool {
		s.clientsMutex.RLock()
		defer s.clientsMutex.RUnlock()
		return len(s.clients) == 1
	}, 2*time.Second, 10*time.Millisecond)

	s.CollectOnce(context.Background())
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "report", msg.Type)
}

func TestWebSocketRejectsForeignOrigin(t *testing.T) {
	_, ts := newTestServer(t, "", &fakeCollector{})
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"

	_, resp, err := websocket.DefaultDialer.Dial(wsURL, http.Header{"Origin": {"http://evil.example"}})

	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestCORS(t *testing.T) {
	s := NewServer(Options{AllowedOrigins: []string{"http://localhost:3000"}}, &fakeCollector{})
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, _ := get(t, ts.URL+"/health", http.Header{"Origin": {"http://localhost:3000"}})

	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestRunStopsOnCancel(t *testing.T) {
	c := &fakeCollector{report: testReport()}
	s := NewServer(Options{Addr: "127.0.0.1:0", Interval: time.Hour}, c)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	assert.Eventually(t, func() bool { return s.Latest() != nil }, 2*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
