package observability

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/signalsfoundry/rfcalc/internal/logging"
	"go.opentelemetry.io/otel"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestUnaryInterceptorRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewRPCCollector(reg)
	if err != nil {
		t.Fatalf("NewRPCCollector: %v", err)
	}

	interceptor := collector.UnaryServerInterceptor()
	info := &grpc.UnaryServerInfo{FullMethod: "/rfcalc.v1.Calculator/VSWR"}
	_, err = interceptor(context.Background(), struct{}{}, info, func(ctx context.Context, req any) (any, error) {
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("interceptor handler returned error: %v", err)
	}

	if got := testutil.ToFloat64(collector.Requests.WithLabelValues("Calculator", "VSWR", "OK")); got != 1 {
		t.Fatalf("rfcalc_rpc_requests_total = %v, want 1", got)
	}
	if count := histogramSampleCount(t, reg, "rfcalc_rpc_duration_seconds", map[string]string{
		"service": "Calculator",
		"method":  "VSWR",
	}); count != 1 {
		t.Fatalf("rfcalc_rpc_duration_seconds sample_count = %d, want 1", count)
	}
}

func TestUnaryInterceptorRecordsErrorCode(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewRPCCollector(reg)
	if err != nil {
		t.Fatalf("NewRPCCollector: %v", err)
	}

	interceptor := collector.UnaryServerInterceptor()
	info := &grpc.UnaryServerInfo{FullMethod: "/rfcalc.v1.Calculator/Wavelength"}
	_, _ = interceptor(context.Background(), struct{}{}, info, func(ctx context.Context, req any) (any, error) {
		return nil, status.Error(codes.InvalidArgument, "boom")
	})

	if got := testutil.ToFloat64(collector.Requests.WithLabelValues("Calculator", "Wavelength", "InvalidArgument")); got != 1 {
		t.Fatalf("rfcalc_rpc_requests_total error label = %v, want 1", got)
	}
}

func TestCollectorsShareRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewFormulaCollector(reg)
	if err != nil {
		t.Fatalf("NewFormulaCollector: %v", err)
	}
	second, err := NewFormulaCollector(reg)
	if err != nil {
		t.Fatalf("second NewFormulaCollector: %v", err)
	}

	first.ObserveEvaluation("vswr", OutcomeOK, time.Microsecond)
	second.ObserveEvaluation("vswr", OutcomeOK, time.Microsecond)
	if got := testutil.ToFloat64(first.Evaluations.WithLabelValues("vswr", OutcomeOK)); got != 2 {
		t.Fatalf("rfcalc_evaluations_total = %v, want 2", got)
	}
}

func TestFormulaCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewFormulaCollector(reg)
	if err != nil {
		t.Fatalf("NewFormulaCollector: %v", err)
	}

	c.ObserveEvaluation("radar_max_range", OutcomeOK, 2*time.Microsecond)
	c.ObserveEvaluation("radar_max_range", OutcomeDomainError, time.Microsecond)
	c.SetLastRadarRange(54584)

	if got := testutil.ToFloat64(c.Evaluations.WithLabelValues("radar_max_range", OutcomeDomainError)); got != 1 {
		t.Fatalf("domain_error count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.LastRadarRange); got != 54584 {
		t.Fatalf("rfcalc_last_radar_range_meters = %v, want 54584", got)
	}
	if count := histogramSampleCount(t, c.Gatherer(), "rfcalc_evaluation_duration_seconds", map[string]string{
		"formula": "radar_max_range",
	}); count != 2 {
		t.Fatalf("rfcalc_evaluation_duration_seconds sample_count = %d, want 2", count)
	}

	var nilCollector *FormulaCollector
	nilCollector.ObserveEvaluation("noop", OutcomeOK, 0)
	nilCollector.SetLastRadarRange(1)
}

func TestMetricsHandlerExposesSeries(t *testing.T) {
	reg := prometheus.NewRegistry()
	rpc, err := NewRPCCollector(reg)
	if err != nil {
		t.Fatalf("NewRPCCollector: %v", err)
	}
	formulas, err := NewFormulaCollector(reg)
	if err != nil {
		t.Fatalf("NewFormulaCollector: %v", err)
	}
	rpc.Requests.WithLabelValues("Calculator", "VSWR", "OK").Inc()
	rpc.Durations.WithLabelValues("Calculator", "VSWR").Observe(0.001)
	formulas.ObserveEvaluation("vswr", OutcomeOK, time.Microsecond)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	rpc.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	for _, metric := range []string{
		"rfcalc_rpc_requests_total",
		"rfcalc_rpc_duration_seconds",
		"rfcalc_evaluations_total",
		"rfcalc_evaluation_duration_seconds",
	} {
		if !strings.Contains(body, metric) {
			t.Fatalf("expected %q in /metrics output", metric)
		}
	}
}

func TestSplitMethod(t *testing.T) {
	tests := []struct {
		in, service, method string
	}{
		{"/rfcalc.v1.Calculator/VSWR", "Calculator", "VSWR"},
		{"Calculator/Reflection", "Calculator", "Reflection"},
		{"", "unknown", "unknown"},
		{"/only", "unknown", "unknown"},
		{"/pkg.Svc/", "Svc", "unknown"},
	}
	for _, tc := range tests {
		service, method := SplitMethod(tc.in)
		if service != tc.service || method != tc.method {
			t.Errorf("SplitMethod(%q) = (%q, %q), want (%q, %q)", tc.in, service, method, tc.service, tc.method)
		}
	}
}

func TestInitTracingStdout(t *testing.T) {
	var buf bytes.Buffer
	ctx := context.Background()
	shutdown, err := InitTracing(ctx, TracingConfig{
		Enabled:     true,
		ServiceName: "rfcalc-test",
		Exporter:    "stdout",
		SampleRatio: 1,
		Writer:      &buf,
	}, logging.Noop())
	if err != nil {
		t.Fatalf("InitTracing: %v", err)
	}

	_, span := otel.Tracer("test").Start(ctx, "rf.vswr")
	span.End()
	if err := shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if !strings.Contains(buf.String(), "rf.vswr") {
		t.Fatalf("exported spans missing rf.vswr: %s", buf.String())
	}

	if _, err := InitTracing(ctx, TracingConfig{Enabled: false}, nil); err != nil {
		t.Fatalf("InitTracing disabled: %v", err)
	}
}

func TestInitTracingRejectsUnknownExporter(t *testing.T) {
	_, err := InitTracing(context.Background(), TracingConfig{Enabled: true, Exporter: "zipkin"}, nil)
	if err == nil {
		t.Fatalf("expected error for unsupported exporter")
	}
}

func histogramSampleCount(t *testing.T, gatherer prometheus.Gatherer, name string, labels map[string]string) uint64 {
	t.Helper()

	metrics, err := gatherer.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range metrics {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.Metric {
			if matchLabels(m.GetLabel(), labels) && m.GetHistogram() != nil {
				return m.GetHistogram().GetSampleCount()
			}
		}
	}
	return 0
}

func matchLabels(got []*dto.LabelPair, want map[string]string) bool {
	matched := 0
	for _, lp := range got {
		if val, ok := want[lp.GetName()]; ok && val == lp.GetValue() {
			matched++
		}
	}
	return matched == len(want)
}

func TestTracingConfigFrom(t *testing.T) {
	env := map[string]string{
		"RFCALC_TRACING_ENABLED":      "TRUE",
		"RFCALC_TRACING_EXPORTER":     "OTLP",
		"RFCALC_TRACING_SAMPLE_RATIO": "0.25",
		"RFCALC_OTLP_ENDPOINT":        "collector:4317",
	}
	cfg := tracingConfigFrom(func(k string) string { return env[k] })
	if !cfg.Enabled || cfg.Exporter != ExporterOTLP || cfg.SampleRatio != 0.25 || cfg.Endpoint != "collector:4317" {
		t.Fatalf("tracingConfigFrom = %+v", cfg)
	}
	if cfg.ServiceName != "rfcalc" {
		t.Fatalf("ServiceName = %q, want rfcalc", cfg.ServiceName)
	}

	env = map[string]string{"RFCALC_TRACING_SAMPLE_RATIO": "7"}
	cfg = tracingConfigFrom(func(k string) string { return env[k] })
	if cfg.Enabled || cfg.SampleRatio != 1 || cfg.Exporter != ExporterStdout {
		t.Fatalf("defaults = %+v", cfg)
	}
}
