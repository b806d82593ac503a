package utils

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/google/go-cmp/cmp"
)

func sampleFrame() dataframe.DataFrame {
	return dataframe.New(
		series.New([]float64{100000, math.NaN(), 250000.5}, series.Float, "buy_price"),
		series.New([]int{2, 3, 3}, series.Int, "n_rooms"),
		series.New([]string{"Centro", "Retiro", "Centro"}, series.String, "neighborhood"),
	)
}

func TestHasColumns(t *testing.T) {
	df := sampleFrame()
	if !HasColumn(df, "buy_price") {
		t.Error("buy_price should exist")
	}
	if HasColumns(df, "buy_price", "latitude") {
		t.Error("latitude should not exist")
	}
}

func TestColumnMissing(t *testing.T) {
	_, err := Column(sampleFrame(), "sq_mt_built")
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("got %v, want ErrMissingColumn", err)
	}
}

func TestFloatValuesDropsNA(t *testing.T) {
	got := FloatValues(sampleFrame().Col("buy_price"))
	want := []float64{100000, 250000.5}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FloatValues mismatch (-want +got):\n%s", diff)
	}
	if !math.IsNaN(FloatAt(sampleFrame().Col("buy_price"), 1)) {
		t.Error("FloatAt should return NaN for NA")
	}
}

func TestIsNumeric(t *testing.T) {
	df := sampleFrame()
	if !IsNumeric(df.Col("n_rooms")) || !IsNumeric(df.Col("buy_price")) {
		t.Error("numeric columns not detected")
	}
	if IsNumeric(df.Col("neighborhood")) {
		t.Error("string column reported as numeric")
	}
}

func TestFormatValue(t *testing.T) {
	df := sampleFrame()
	tests := []struct {
		e    series.Element
		want string
	}{
		{df.Col("buy_price").Elem(0), "100000.0"},
		{df.Col("buy_price").Elem(1), "nan"},
		{df.Col("buy_price").Elem(2), "250000.5"},
		{df.Col("n_rooms").Elem(0), "2.0"},
		{df.Col("neighborhood").Elem(0), "Centro"},
	}
	for _, tt := range tests {
		if got := FormatValue(tt.e); got != tt.want {
			t.Errorf("FormatValue = %q, want %q", got, tt.want)
		}
	}
}
