package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/go-gota/gota/series"
	"github.com/google/go-cmp/cmp"
)

func TestCellString(t *testing.T) {
	tests := []struct {
		in   interface{}
		want string
	}{
		{nil, "NaN"},
		{[]byte("250000.00"), "250000.00"},
		{"Centro", "Centro"},
		{int64(3), "3"},
		{40.4168, "40.4168"},
		{true, "true"},
		{time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC), "2024-05-01 10:30:00"},
	}
	for _, tt := range tests {
		if got := cellString(tt.in); got != tt.want {
			t.Errorf("cellString(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFrameFromValues(t *testing.T) {
	columns := []string{"buy_price", "n_rooms", "neighborhood"}
	values := [][]interface{}{
		{[]byte("150000.50"), int64(2), "Centro"},
		{nil, int64(3), "Retiro"},
		{[]byte("320000"), nil, nil},
	}

	df, err := FrameFromValues(columns, values)
	if err != nil {
		t.Fatalf("FrameFromValues: %v", err)
	}
	if diff := cmp.Diff(columns, df.Names()); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	if df.Col("buy_price").Type() != series.Float || df.Col("n_rooms").Type() != series.Int {
		t.Errorf("unexpected types %s %s", df.Col("buy_price").Type(), df.Col("n_rooms").Type())
	}
	if !df.Col("buy_price").Elem(1).IsNA() || !df.Col("n_rooms").Elem(2).IsNA() {
		t.Error("NULL should load as NA")
	}
}

func TestFrameFromValuesEmpty(t *testing.T) {
	if _, err := FrameFromValues([]string{"buy_price"}, nil); err == nil {
		t.Error("expected error for empty result")
	}
}

// TestLoad roda apenas com um banco disponível em REPORT_TEST_PG_DSN
func TestLoad(t *testing.T) {
	dsn := os.Getenv("REPORT_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("REPORT_TEST_PG_DSN não definido")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	loader, err := NewLoader(ctx, dsn)
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}
	defer loader.Close()

	df, err := loader.Load(ctx, "SELECT 150000.0 AS buy_price, 2 AS n_rooms UNION ALL SELECT NULL, 3")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if df.Nrow() != 2 || !df.Col("buy_price").Elem(1).IsNA() {
		t.Errorf("unexpected frame:\n%v", df)
	}
}
