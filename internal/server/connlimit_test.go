package server

import (
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/lawnchairsociety/dungeongen/internal/config"
)

// limiterStep is one acquire or release against a ConnLimiter.
type limiterStep struct {
	ip      string
	release bool
	want    bool // TryAcquire result; ignored for releases
}

func runLimiterSteps(t *testing.T, limiter *ConnLimiter, steps []limiterStep) {
	t.Helper()

	for i, step := range steps {
		if step.release {
			limiter.Release(step.ip)
			continue
		}
		if got := limiter.TryAcquire(step.ip); got != step.want {
			t.Errorf("step %d: TryAcquire(%s) = %v, want %v", i, step.ip, got, step.want)
		}
	}
}

func TestConnLimiterScenarios(t *testing.T) {
	tests := []struct {
		name      string
		limits    config.ConnectionsConfig
		steps     []limiterStep
		wantTotal int
		wantIPs   int
	}{
		{
			name:   "per-ip cap from the default config",
			limits: config.DefaultConfig().Server.Connections,
			steps: []limiterStep{
				{ip: "203.0.113.7", want: true},
				{ip: "203.0.113.7", want: true},
				{ip: "203.0.113.7", want: true},
				{ip: "203.0.113.7", want: false},
				{ip: "198.51.100.2", want: true},
				{ip: "203.0.113.7", release: true},
				{ip: "203.0.113.7", want: true},
			},
			wantTotal: 4,
			wantIPs:   2,
		},
		{
			name:   "total cap across clients",
			limits: config.ConnectionsConfig{MaxPerIP: 10, MaxTotal: 2},
			steps: []limiterStep{
				{ip: "10.0.0.1", want: true},
				{ip: "10.0.0.2", want: true},
				{ip: "10.0.0.3", want: false},
				{ip: "10.0.0.1", release: true},
				{ip: "10.0.0.3", want: true},
			},
			wantTotal: 2,
			wantIPs:   2,
		},
		{
			name:   "zero limits are unlimited",
			limits: config.ConnectionsConfig{},
			steps: []limiterStep{
				{ip: "10.0.0.1", want: true},
				{ip: "10.0.0.1", want: true},
				{ip: "10.0.0.1", want: true},
				{ip: "10.0.0.1", want: true},
			},
			wantTotal: 4,
			wantIPs:   1,
		},
		{
			name:   "releasing an unknown ip frees nothing",
			limits: config.ConnectionsConfig{MaxPerIP: 1, MaxTotal: 1},
			steps: []limiterStep{
				{ip: "10.0.0.9", release: true},
				{ip: "10.0.0.1", want: true},
				{ip: "10.0.0.9", release: true},
				{ip: "10.0.0.2", want: false},
			},
			wantTotal: 1,
			wantIPs:   1,
		},
		{
			name:   "last release forgets the ip",
			limits: config.ConnectionsConfig{MaxPerIP: 2, MaxTotal: 5},
			steps: []limiterStep{
				{ip: "10.0.0.1", want: true},
				{ip: "10.0.0.2", want: true},
				{ip: "10.0.0.1", release: true},
			},
			wantTotal: 1,
			wantIPs:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter := NewConnLimiter(tt.limits)
			runLimiterSteps(t, limiter, tt.steps)

			total, ips := limiter.Stats()
			if total != tt.wantTotal || ips != tt.wantIPs {
				t.Errorf("Stats() = %d, %d; want %d, %d", total, ips, tt.wantTotal, tt.wantIPs)
			}
		})
	}
}

func TestConnLimiterConcurrentSessions(t *testing.T) {
	limiter := NewConnLimiter(config.ConnectionsConfig{MaxPerIP: 5, MaxTotal: 20})

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		acquired = make(map[string]int)
	)
	for i := 0; i < 100; i++ {
		ip := []string{"10.0.0.1", "10.0.0.2", "10.0.0.3", "10.0.0.4", "10.0.0.5", "10.0.0.6"}[i%6]
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.TryAcquire(ip) {
				mu.Lock()
				acquired[ip]++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	sum := 0
	for ip, n := range acquired {
		if n > 5 {
			t.Errorf("%s holds %d sessions, cap is 5", ip, n)
		}
		if got := limiter.IPCount(ip); got != n {
			t.Errorf("IPCount(%s) = %d, want %d", ip, got, n)
		}
		sum += n
	}
	if total, _ := limiter.Stats(); total != sum || total > 20 {
		t.Errorf("Stats() total = %d, acquired %d, cap 20", total, sum)
	}

	for ip, n := range acquired {
		for ; n > 0; n-- {
			limiter.Release(ip)
		}
	}
	if total, ips := limiter.Stats(); total != 0 || ips != 0 {
		t.Errorf("after releasing everything Stats() = %d, %d", total, ips)
	}
}

// TestStreamLimitUsesForwardedFor checks that clients behind one proxy get
// separate per-IP budgets on /ws.
func TestStreamLimitUsesForwardedFor(t *testing.T) {
	cfg := testConfig()
	cfg.Server.Connections.MaxPerIP = 1
	s, ts := newTestServer(t, cfg)

	alice := http.Header{"X-Forwarded-For": []string{"203.0.113.10, 10.0.0.1"}}
	bob := http.Header{"X-Forwarded-For": []string{"203.0.113.20"}}

	dialWS(t, ts, alice)
	dialWS(t, ts, bob)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, alice)
	if err == nil {
		t.Fatal("second stream for the same forwarded client succeeded")
	}
	if resp == nil || resp.StatusCode != http.StatusTooManyRequests {
		t.Errorf("response = %v, want 429", resp)
	}

	if got := s.connLimiter.IPCount("203.0.113.10"); got != 1 {
		t.Errorf("IPCount(203.0.113.10) = %d, want 1", got)
	}
	if total, ips := s.connLimiter.Stats(); total != 2 || ips != 2 {
		t.Errorf("Stats() = %d, %d; want 2, 2", total, ips)
	}
}

func TestExtractIP(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"192.168.1.1:12345", "192.168.1.1"},
		{"[::1]:12345", "::1"},
		{"[2001:db8::7]:443", "2001:db8::7"},
		{"localhost:8080", "localhost"},
		{"192.168.1.1", "192.168.1.1"},
	}

	for _, tt := range tests {
		if got := extractIP(tt.input); got != tt.want {
			t.Errorf("extractIP(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestGetRealIP(t *testing.T) {
	tests := []struct {
		name       string
		xff        string
		xri        string
		remoteAddr string
		want       string
	}{
		{"forwarded chain uses first hop", "203.0.113.50, 70.41.3.18", "", "10.0.0.1:12345", "203.0.113.50"},
		{"forwarded wins over real ip", "203.0.113.50", "198.51.100.25", "10.0.0.1:12345", "203.0.113.50"},
		{"blank first hop falls through", " , 70.41.3.18", "198.51.100.25", "10.0.0.1:12345", "198.51.100.25"},
		{"real ip", "", " 198.51.100.25 ", "10.0.0.1:12345", "198.51.100.25"},
		{"socket address", "", "", "192.168.1.100:54321", "192.168.1.100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &http.Request{RemoteAddr: tt.remoteAddr, Header: make(http.Header)}
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}

			if got := getRealIP(req); got != tt.want {
				t.Errorf("getRealIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
