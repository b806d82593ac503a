package processor

import (
	"math"
	"sort"

	"RealEstateReport/src/utils"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// StatOrder é a ordem das linhas do describe
var StatOrder = []string{"count", "unique", "top", "freq", "mean", "std", "min", "25%", "50%", "75%", "max"}

// Describe calcula estatísticas descritivas de todas as colunas.
// Colunas numéricas recebem count/mean/std/min/quartis/max; as demais
// count/unique/top/freq. Valores NA são ignorados e estatísticas sem
// valor definido são omitidas.
func Describe(df dataframe.DataFrame) Statistics {
	stats := make(Statistics, df.Ncol())
	for _, name := range df.Names() {
		s := df.Col(name)
		if utils.IsNumeric(s) {
			stats[name] = describeNumeric(s)
		} else {
			stats[name] = describeCategorical(s)
		}
	}
	return stats
}

func describeNumeric(s series.Series) map[string]interface{} {
	values := utils.FloatValues(s)
	out := map[string]interface{}{"count": len(values)}
	if len(values) == 0 {
		return out
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	out["mean"] = stat.Mean(values, nil)
	if len(values) > 1 {
		out["std"] = stat.StdDev(values, nil)
	}
	out["min"] = floats.Min(values)
	out["25%"] = quantile(sorted, 0.25)
	out["50%"] = quantile(sorted, 0.5)
	out["75%"] = quantile(sorted, 0.75)
	out["max"] = floats.Max(values)
	return out
}

func describeCategorical(s series.Series) map[string]interface{} {
	counts := make(map[string]int)
	var order []string
	total := 0
	for i := 0; i < s.Len(); i++ {
		e := s.Elem(i)
		if e.IsNA() {
			continue
		}
		v := e.String()
		if _, ok := counts[v]; !ok {
			order = append(order, v)
		}
		counts[v]++
		total++
	}

	out := map[string]interface{}{"count": total}
	if total == 0 {
		return out
	}

	top, freq := "", 0
	for _, v := range order {
		if counts[v] > freq {
			top, freq = v, counts[v]
		}
	}
	out["unique"] = len(counts)
	out["top"] = top
	out["freq"] = freq
	return out
}

// quantile interpola linearmente entre as posições vizinhas, (n-1)*p.
// stat.Quantile do gonum só oferece Empirical e LinInterp (tipo 4), que
// não batem com os quartis esperados no relatório.
func quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := p * float64(len(sorted)-1)
	lo := math.Floor(pos)
	hi := math.Ceil(pos)
	frac := pos - lo
	return sorted[int(lo)] + (sorted[int(hi)]-sorted[int(lo)])*frac
}

// numericColumns devolve os nomes das colunas numéricas na ordem do DataFrame
func numericColumns(df dataframe.DataFrame) []string {
	var names []string
	for _, name := range df.Names() {
		if utils.IsNumeric(df.Col(name)) {
			names = append(names, name)
		}
	}
	return names
}

// correlationMatrix calcula Pearson par a par usando apenas as linhas em
// que as duas colunas têm valor
func correlationMatrix(df dataframe.DataFrame, names []string) [][]float64 {
	cols := make([][]float64, len(names))
	for i, name := range names {
		s := df.Col(name)
		col := make([]float64, s.Len())
		for r := range col {
			col[r] = utils.FloatAt(s, r)
		}
		cols[i] = col
	}

	m := make([][]float64, len(names))
	for i := range m {
		m[i] = make([]float64, len(names))
	}
	for i := range names {
		for j := i; j < len(names); j++ {
			c := pairwiseCorrelation(cols[i], cols[j])
			m[i][j] = c
			m[j][i] = c
		}
	}
	return m
}

func pairwiseCorrelation(a, b []float64) float64 {
	x := make([]float64, 0, len(a))
	y := make([]float64, 0, len(b))
	for i := range a {
		if math.IsNaN(a[i]) || math.IsNaN(b[i]) {
			continue
		}
		x = append(x, a[i])
		y = append(y, b[i])
	}
	if len(x) < 2 {
		return math.NaN()
	}
	return stat.Correlation(x, y, nil)
}
