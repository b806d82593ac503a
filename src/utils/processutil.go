package utils

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// ErrMissingColumn indica que uma coluna obrigatória não existe no DataFrame
var ErrMissingColumn = errors.New("coluna obrigatória ausente")

func Contains[T comparable](slice []T, item T) bool {
	for _, v := range slice {
		if v == item {
			return true
		}
	}
	return false
}

// HasColumn verifica se o DataFrame tem a coluna
func HasColumn(df dataframe.DataFrame, name string) bool {
	return Contains(df.Names(), name)
}

// HasColumns verifica todas as colunas de uma vez
func HasColumns(df dataframe.DataFrame, names ...string) bool {
	for _, n := range names {
		if !HasColumn(df, n) {
			return false
		}
	}
	return true
}

// Column devolve a série ou um erro que embrulha ErrMissingColumn
func Column(df dataframe.DataFrame, name string) (series.Series, error) {
	if !HasColumn(df, name) {
		return series.Series{}, fmt.Errorf("%w: %s", ErrMissingColumn, name)
	}
	s := df.Col(name)
	if s.Err != nil {
		return series.Series{}, s.Err
	}
	return s, nil
}

// IsNumeric diz se a série é float ou int
func IsNumeric(s series.Series) bool {
	return s.Type() == series.Float || s.Type() == series.Int
}

// FloatValues devolve os valores numéricos da série descartando NA
func FloatValues(s series.Series) []float64 {
	values := make([]float64, 0, s.Len())
	for i := 0; i < s.Len(); i++ {
		e := s.Elem(i)
		if e.IsNA() {
			continue
		}
		f := e.Float()
		if math.IsNaN(f) {
			continue
		}
		values = append(values, f)
	}
	return values
}

// FloatAt lê a linha i como float; NA vira NaN
func FloatAt(s series.Series, i int) float64 {
	e := s.Elem(i)
	if e.IsNA() {
		return math.NaN()
	}
	return e.Float()
}

// FormatValue formata um valor para os popups do mapa: float sempre com
// parte decimal e NA como "nan"
func FormatValue(e series.Element) string {
	if e.IsNA() {
		return "nan"
	}
	if e.Type() == series.String || e.Type() == series.Bool {
		return e.String()
	}
	f := e.Float()
	if math.IsNaN(f) {
		return "nan"
	}
	if math.IsInf(f, 0) {
		if f > 0 {
			return "inf"
		}
		return "-inf"
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if f == math.Trunc(f) {
		s += ".0"
	}
	return s
}
