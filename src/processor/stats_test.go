package processor

import (
	"math"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/google/go-cmp/cmp"
)

func TestDescribe(t *testing.T) {
	df := dataframe.New(
		series.New([]float64{100, 200, 300, nan}, series.Float, ColBuyPrice),
		series.New([]string{"a", "b", "a", "NaN"}, series.String, "neighborhood"),
		series.New([]float64{42, nan, nan, nan}, series.Float, "single"),
	)
	got := Describe(df)

	want := Statistics{
		ColBuyPrice: {
			"count": 3,
			"mean":  200.0,
			"std":   100.0,
			"min":   100.0,
			"25%":   150.0,
			"50%":   200.0,
			"75%":   250.0,
			"max":   300.0,
		},
		"neighborhood": {
			"count":  3,
			"unique": 2,
			"top":    "a",
			"freq":   2,
		},
		"single": {
			"count": 1,
			"mean":  42.0,
			"min":   42.0,
			"25%":   42.0,
			"50%":   42.0,
			"75%":   42.0,
			"max":   42.0,
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Describe mismatch (-want +got):\n%s", diff)
	}
}

func TestDescribeTopTie(t *testing.T) {
	df := dataframe.New(
		series.New([]string{"Retiro", "Centro", "Centro", "Retiro"}, series.String, "neighborhood"),
	)
	if top := Describe(df)["neighborhood"]["top"]; top != "Retiro" {
		t.Errorf("top = %v, want first seen value", top)
	}
}

func TestQuantile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	tests := []struct {
		p    float64
		want float64
	}{
		{0, 1},
		{0.25, 1.75},
		{0.5, 2.5},
		{0.75, 3.25},
		{1, 4},
	}
	for _, tt := range tests {
		if got := quantile(sorted, tt.p); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("quantile(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestCorrelationMatrix(t *testing.T) {
	df := dataframe.New(
		series.New([]float64{1, 2, 3, nan}, series.Float, "a"),
		series.New([]float64{2, 4, 6, 8}, series.Float, "b"),
		series.New([]float64{3, 2, 1, 0}, series.Float, "c"),
		series.New([]string{"x", "y", "z", "w"}, series.String, "label"),
	)
	names := numericColumns(df)
	if diff := cmp.Diff([]string{"a", "b", "c"}, names); diff != "" {
		t.Fatalf("numericColumns mismatch (-want +got):\n%s", diff)
	}

	m := correlationMatrix(df, names)
	want := [][]float64{
		{1, 1, -1},
		{1, 1, -1},
		{-1, -1, 1},
	}
	for i := range want {
		for j := range want[i] {
			if math.Abs(m[i][j]-want[i][j]) > 1e-9 {
				t.Errorf("m[%d][%d] = %v, want %v", i, j, m[i][j], want[i][j])
			}
		}
	}
}

func TestHistogramBins(t *testing.T) {
	if got := histogramBins([]float64{5}); got != 1 {
		t.Errorf("single value: got %d bins", got)
	}
	if got := histogramBins([]float64{3, 3, 3}); got != 1 {
		t.Errorf("constant values: got %d bins", got)
	}
	// 8 valores: Sturges = 4
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	if got := histogramBins(values); got < 4 {
		t.Errorf("got %d bins, want at least 4", got)
	}
}
