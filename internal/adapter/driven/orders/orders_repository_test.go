package orders

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/diillson/order-cohort-analytics-go/internal/domain/entity"
	"github.com/diillson/order-cohort-analytics-go/internal/shared/types"
)

const sampleLines = `{"customer_id":"C1","order_created_at":"2024-01-05 10:00:00","order_total_amount":50.0,"is_target":true,"active":1}
{"customer_id":"C2","order_created_at":"2024-02-01T08:30:00","order_total_amount":10.5,"is_target":"sim","active":false}
{"customer_id":"C3","order_created_at":"2024-03-10","order_total_amount":99.9,"is_target":0,"active":"true"}
`

func gzipBytes(t *testing.T, data string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write([]byte(data)); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestLoadOrders_HTTPGzipSource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(gzipBytes(t, sampleLines))
	}))
	defer server.Close()

	repo := NewOrderRepository()
	result, err := repo.LoadOrders(context.Background(), entity.LoadOptions{
		SourceURL: server.URL,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Events) != 3 {
		t.Fatalf("got %d events, want 3", len(result.Events))
	}
	if result.LinesRead != 3 {
		t.Errorf("lines_read = %d, want 3", result.LinesRead)
	}
	if result.IngestionDate != time.Now().UTC().Format("2006-01-02") {
		t.Errorf("ingestion_date = %q, want today", result.IngestionDate)
	}

	first := result.Events[0]
	if first.CustomerID != "C1" || first.OrderTotalAmount != 50.0 {
		t.Errorf("first event = %+v", first)
	}
	if !first.IsTarget || !first.Active {
		t.Errorf("first event flags = (%t, %t), want (true, true)", first.IsTarget, first.Active)
	}
	// "sim" e false normalizados no carregamento.
	if !result.Events[1].IsTarget || result.Events[1].Active {
		t.Errorf("second event flags = (%t, %t), want (true, false)",
			result.Events[1].IsTarget, result.Events[1].Active)
	}
}

func TestLoadOrders_AllowlistFilter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, sampleLines)
	}))
	defer server.Close()

	repo := NewOrderRepository()
	result, err := repo.LoadOrders(context.Background(), entity.LoadOptions{
		SourceURL:   server.URL,
		CustomerIDs: map[string]struct{}{"C2": {}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Events) != 1 {
		t.Fatalf("got %d events, want 1", len(result.Events))
	}
	if result.Events[0].CustomerID != "C2" {
		t.Errorf("customer = %s, want C2", result.Events[0].CustomerID)
	}
	if result.LinesRead != 3 {
		t.Errorf("lines_read = %d, want 3", result.LinesRead)
	}
}

func TestLoadOrders_MaxSampleStopsEarly(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, sampleLines)
	}))
	defer server.Close()

	repo := NewOrderRepository()
	result, err := repo.LoadOrders(context.Background(), entity.LoadOptions{
		SourceURL: server.URL,
		MaxSample: 2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Events) != 2 {
		t.Fatalf("got %d events, want 2", len(result.Events))
	}
	if result.LinesRead != 2 {
		t.Errorf("lines_read = %d, want 2 (reading stops at the cap)", result.LinesRead)
	}
}

func TestLoadOrders_OnOrderCallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, sampleLines)
	}))
	defer server.Close()

	calls := 0
	repo := NewOrderRepository()
	result, err := repo.LoadOrders(context.Background(), entity.LoadOptions{
		SourceURL:   server.URL,
		CustomerIDs: map[string]struct{}{"C1": {}, "C3": {}},
		OnOrder:     func() { calls++ },
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// O callback dispara por pedido coletado, não por linha lida.
	if calls != len(result.Events) {
		t.Errorf("callback fired %d times for %d collected events", calls, len(result.Events))
	}
	if calls != 2 {
		t.Errorf("callback fired %d times, want 2 (filtered rows do not count)", calls)
	}
}

func TestLoadOrders_SkipsMalformedLines(t *testing.T) {
	data := `not json at all
{"customer_id":"C1","order_created_at":"2024-01-05 10:00:00","order_total_amount":50.0,"is_target":true,"active":true}

{broken`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, data)
	}))
	defer server.Close()

	repo := NewOrderRepository()
	result, err := repo.LoadOrders(context.Background(), entity.LoadOptions{
		SourceURL: server.URL,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Events) != 1 {
		t.Fatalf("got %d events, want 1", len(result.Events))
	}
	if result.LinesSkipped != 3 {
		t.Errorf("lines_skipped = %d, want 3", result.LinesSkipped)
	}
}

func TestLoadOrders_MissingRequiredField(t *testing.T) {
	data := `{"customer_id":"C1","order_created_at":"2024-01-05 10:00:00","order_total_amount":50.0,"is_target":true,"active":true}
{"customer_id":"C2","order_created_at":"2024-01-06 10:00:00","is_target":true,"active":true}
`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, data)
	}))
	defer server.Close()

	repo := NewOrderRepository()
	_, err := repo.LoadOrders(context.Background(), entity.LoadOptions{
		SourceURL: server.URL,
	})

	var missing *types.MissingFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("got %v, want MissingFieldError", err)
	}
	if missing.Field != "order_total_amount" || missing.Line != 2 {
		t.Errorf("missing field = (%s, line %d), want (order_total_amount, line 2)", missing.Field, missing.Line)
	}
}

func TestLoadOrders_NullTimestampAccepted(t *testing.T) {
	data := `{"customer_id":"C1","order_created_at":"","order_total_amount":50.0,"is_target":true,"active":true}
`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, data)
	}))
	defer server.Close()

	repo := NewOrderRepository()
	result, err := repo.LoadOrders(context.Background(), entity.LoadOptions{
		SourceURL: server.URL,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Events) != 1 {
		t.Fatalf("got %d events, want 1", len(result.Events))
	}
	if !result.Events[0].OrderCreatedAt.IsZero() {
		t.Errorf("order_created_at = %v, want zero time", result.Events[0].OrderCreatedAt)
	}
}

func TestLoadOrders_LocalFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.json.gz")
	if err := os.WriteFile(path, gzipBytes(t, sampleLines), 0o644); err != nil {
		t.Fatal(err)
	}

	repo := NewOrderRepository()
	result, err := repo.LoadOrders(context.Background(), entity.LoadOptions{
		SourceURL: path,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Events) != 3 {
		t.Fatalf("got %d events, want 3", len(result.Events))
	}
}

func TestLoadOrders_HTTPErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	repo := NewOrderRepository()
	if _, err := repo.LoadOrders(context.Background(), entity.LoadOptions{SourceURL: server.URL}); err == nil {
		t.Fatal("expected error on HTTP 404, got nil")
	}
}

func TestParseFlag(t *testing.T) {
	tests := []struct {
		raw     string
		want    bool
		wantErr bool
	}{
		{`true`, true, false},
		{`false`, false, false},
		{`1`, true, false},
		{`0`, false, false},
		{`2.5`, true, false},
		{`"true"`, true, false},
		{`"Sim"`, true, false},
		{`"nao"`, false, false},
		{`"não"`, false, false},
		{`"n"`, false, false},
		{`""`, false, false},
		{`"talvez"`, false, true},
		{`null`, false, false},
		{`[1]`, false, true},
	}
	for _, tt := range tests {
		got, err := parseFlag(json.RawMessage(tt.raw))
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseFlag(%s): expected error, got %t", tt.raw, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseFlag(%s): unexpected error: %v", tt.raw, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseFlag(%s) = %t, want %t", tt.raw, got, tt.want)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		value string
		want  time.Time
	}{
		{"2024-06-15T10:30:45Z", time.Date(2024, 6, 15, 10, 30, 45, 0, time.UTC)},
		{"2024-06-15 10:30:45", time.Date(2024, 6, 15, 10, 30, 45, 0, time.UTC)},
		{"2024-06-15T10:30:45", time.Date(2024, 6, 15, 10, 30, 45, 0, time.UTC)},
		{"2024-06-15", time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := parseTimestamp(tt.value)
		if err != nil {
			t.Errorf("parseTimestamp(%q): unexpected error: %v", tt.value, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("parseTimestamp(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}

	if _, err := parseTimestamp("15/06/2024"); err == nil {
		t.Error("expected error for unsupported layout")
	}
}

func TestMaybeGunzip(t *testing.T) {
	plain := "hello world"

	rd, err := maybeGunzip(strings.NewReader(plain))
	if err != nil {
		t.Fatalf("plain stream: %v", err)
	}
	if got, _ := io.ReadAll(rd); string(got) != plain {
		t.Errorf("plain stream = %q, want %q", got, plain)
	}

	rd, err = maybeGunzip(bytes.NewReader(gzipBytes(t, plain)))
	if err != nil {
		t.Fatalf("gzip stream: %v", err)
	}
	if got, _ := io.ReadAll(rd); string(got) != plain {
		t.Errorf("gzip stream = %q, want %q", got, plain)
	}
}
