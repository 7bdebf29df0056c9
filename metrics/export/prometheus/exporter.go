package prometheus

import (
	"net/http"
	"strconv"
	"strings"

	kapici "github.com/kapici-dev/kapici"
)

type metricsSource interface {
	Metrics() kapici.MetricsSnapshot
	AuditDropped() uint64
}

type counterDef struct {
	id   kapici.MetricID
	name string
	help string
}

var counterDefs = []counterDef{
	{kapici.MetricLoginSuccess, "kapici_login_success_total", "Successful admin logins."},
	{kapici.MetricLoginFailure, "kapici_login_failure_total", "Logins rejected for a credential mismatch."},
	{kapici.MetricLoginRateLimited, "kapici_login_rate_limited_total", "Logins rejected by the attempt tracker."},
	{kapici.MetricLoginMissingCredentials, "kapici_login_missing_credentials_total", "Logins with an empty username or password."},
	{kapici.MetricTokenIssued, "kapici_token_issued_total", "Minted admin tokens."},
	{kapici.MetricVerifySuccess, "kapici_verify_success_total", "Verifications that accepted the token."},
	{kapici.MetricVerifyMissingToken, "kapici_verify_missing_token_total", "Verifications with no token supplied."},
	{kapici.MetricVerifyInvalid, "kapici_verify_invalid_total", "Tokens rejected for signature or expiry."},
	{kapici.MetricVerifyWrongRole, "kapici_verify_wrong_role_total", "Tokens rejected for a non-admin role."},
	{kapici.MetricVerifyRevoked, "kapici_verify_revoked_total", "Tokens rejected by the revocation denylist."},
	{kapici.MetricTokenRevoked, "kapici_token_revoked_total", "Explicit token revocations."},
}

const (
	latencyMetricName = "kapici_verify_latency_seconds"
	latencyMetricHelp = "Verify latency histogram."
	bucketCount       = 8
)

// Upper bounds of the engine's latency buckets, in seconds.
var bucketBounds = []string{
	"0.005", "0.01", "0.025", "0.05", "0.1", "0.25", "0.5", "+Inf",
}

// Exporter renders engine metrics in Prometheus text exposition format.
type Exporter struct {
	source metricsSource
}

// NewExporter creates an exporter reading from the given [kapici.Engine].
func NewExporter(engine *kapici.Engine) *Exporter {
	return &Exporter{source: engine}
}

// NewExporterFromSource creates an exporter from a custom snapshot
// source. Useful for tests and aggregation.
func NewExporterFromSource(source metricsSource) *Exporter {
	return &Exporter{source: source}
}

// Handler returns an http.Handler serving the rendered metrics.
func (e *Exporter) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		_, _ = w.Write([]byte(e.Render()))
	})
}

// Render produces the text exposition for the current snapshot. Metrics
// collection disabled on the engine yields an empty exposition.
func (e *Exporter) Render() string {
	if e == nil || e.source == nil {
		return ""
	}

	snapshot := e.source.Metrics()
	dropped := e.source.AuditDropped()
	if len(snapshot.Counters) == 0 && len(snapshot.Histograms) == 0 && dropped == 0 {
		return ""
	}

	var b strings.Builder
	b.Grow(4096)

	for _, def := range counterDefs {
		writeCounter(&b, def.name, def.help, snapshot.Counters[def.id])
	}

	if buckets, ok := snapshot.Histograms[kapici.MetricVerifyLatency]; ok {
		writeHistogram(&b, latencyMetricName, latencyMetricHelp, cumulative(buckets))
	}

	writeCounter(&b, "kapici_audit_dropped_total", "Audit events dropped under dispatcher backpressure.", dropped)

	return b.String()
}

func writeCounter(b *strings.Builder, name, help string, value uint64) {
	b.WriteString("# HELP ")
	b.WriteString(name)
	b.WriteByte(' ')
	b.WriteString(help)
	b.WriteByte('\n')
	b.WriteString("# TYPE ")
	b.WriteString(name)
	b.WriteString(" counter\n")
	b.WriteString(name)
	b.WriteByte(' ')
	b.WriteString(strconv.FormatUint(value, 10))
	b.WriteByte('\n')
}

func writeHistogram(b *strings.Builder, name, help string, buckets [bucketCount]uint64) {
	b.WriteString("# HELP ")
	b.WriteString(name)
	b.WriteByte(' ')
	b.WriteString(help)
	b.WriteByte('\n')
	b.WriteString("# TYPE ")
	b.WriteString(name)
	b.WriteString(" histogram\n")

	for i, le := range bucketBounds {
		b.WriteString(name)
		b.WriteString("_bucket{le=\"")
		b.WriteString(le)
		b.WriteString("\"} ")
		b.WriteString(strconv.FormatUint(buckets[i], 10))
		b.WriteByte('\n')
	}

	b.WriteString(name)
	b.WriteString("_count ")
	b.WriteString(strconv.FormatUint(buckets[bucketCount-1], 10))
	b.WriteByte('\n')

	// The engine snapshot carries no sum; keep the field stable at zero.
	b.WriteString(name)
	b.WriteString("_sum 0\n")
}

// cumulative converts per-bucket counts into the running totals the
// exposition format requires.
func cumulative(raw []uint64) [bucketCount]uint64 {
	var out [bucketCount]uint64
	var running uint64
	for i := 0; i < bucketCount; i++ {
		if i < len(raw) {
			running += raw[i]
		}
		out[i] = running
	}
	return out
}
