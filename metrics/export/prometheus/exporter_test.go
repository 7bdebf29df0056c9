package prometheus

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	kapici "github.com/kapici-dev/kapici"
)

type fakeSource struct {
	snapshot kapici.MetricsSnapshot
	dropped  uint64
}

func (f fakeSource) Metrics() kapici.MetricsSnapshot { return f.snapshot }
func (f fakeSource) AuditDropped() uint64            { return f.dropped }

func TestRenderEmptyWhenMetricsDisabled(t *testing.T) {
	exp := NewExporterFromSource(fakeSource{
		snapshot: kapici.MetricsSnapshot{
			Counters:   map[kapici.MetricID]uint64{},
			Histograms: map[kapici.MetricID][]uint64{},
		},
	})

	if got := exp.Render(); got != "" {
		t.Fatalf("expected empty exposition for disabled metrics, got:\n%s", got)
	}
}

func TestRenderCountersAndHistogram(t *testing.T) {
	exp := NewExporterFromSource(fakeSource{
		snapshot: kapici.MetricsSnapshot{
			Counters: map[kapici.MetricID]uint64{
				kapici.MetricLoginSuccess: 7,
				kapici.MetricLoginFailure: 3,
			},
			Histograms: map[kapici.MetricID][]uint64{
				kapici.MetricVerifyLatency: {4, 2, 0, 0, 0, 0, 0, 1},
			},
		},
		dropped: 2,
	})

	out := exp.Render()

	for _, want := range []string{
		"# TYPE kapici_login_success_total counter",
		"kapici_login_success_total 7",
		"kapici_login_failure_total 3",
		"# TYPE kapici_verify_latency_seconds histogram",
		`kapici_verify_latency_seconds_bucket{le="0.005"} 4`,
		`kapici_verify_latency_seconds_bucket{le="0.01"} 6`,
		`kapici_verify_latency_seconds_bucket{le="+Inf"} 7`,
		"kapici_verify_latency_seconds_count 7",
		"kapici_audit_dropped_total 2",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("exposition missing %q:\n%s", want, out)
		}
	}
}

func TestRenderFromEngine(t *testing.T) {
	cfg := kapici.DefaultConfig()
	cfg.Admin.Username = "admin"
	cfg.Admin.Password = "correct-horse-battery"
	cfg.JWT.Secret = []byte("0123456789abcdef0123456789abcdef")
	cfg.Metrics.Enabled = true

	engine, err := kapici.New().WithConfig(cfg).Build()
	if err != nil {
		t.Fatalf("build engine: %v", err)
	}
	t.Cleanup(engine.Close)

	if _, err := engine.Login(kapici.WithClientKey(context.Background(), "1.2.3.4"), "admin", "correct-horse-battery"); err != nil {
		t.Fatalf("login: %v", err)
	}

	out := NewExporter(engine).Render()
	if !strings.Contains(out, "kapici_login_success_total 1") {
		t.Fatalf("exposition missing engine counter:\n%s", out)
	}
}

func TestHandlerContentType(t *testing.T) {
	exp := NewExporterFromSource(fakeSource{dropped: 1})

	rec := httptest.NewRecorder()
	exp.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/plain") {
		t.Fatalf("content type = %q, want text/plain exposition", got)
	}
	if !strings.Contains(rec.Body.String(), "kapici_audit_dropped_total 1") {
		t.Fatalf("body = %q", rec.Body.String())
	}
}
