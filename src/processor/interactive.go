package processor

import (
	"fmt"
	"math"
	"os"

	"RealEstateReport/src/utils"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/floats"
)

const (
	LabelPriceArea  = "Gráfico de Dispersão: Preço x Área Construída x Quartos"
	LabelUsefulArea = "Gráfico de Dispersão: Área Útil x Área Construída x Quartos"

	FilePriceArea  = "interactive_price_area_rooms.html"
	FileUsefulArea = "interactive_useful_built_rooms.html"

	// diâmetro máximo do marcador em pixels
	maxMarkerSize = 20
)

// viridis em 10 passos
var viridis = []string{
	"#440154", "#482878", "#3e4989", "#31688e", "#26828e",
	"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725",
}

// scatterSpec descreve um gráfico de dispersão interativo
type scatterSpec struct {
	label, file, title string
	x, y, size         string
	xName, yName       string
}

var scatterSpecs = []scatterSpec{
	{
		label: LabelPriceArea, file: FilePriceArea,
		title: "Gráfico de Dispersão 'Preço x Área Construída x Quartos'",
		x:     ColBuilt, y: ColBuyPrice, size: ColRooms,
		xName: "Área Construída (m²)", yName: "Preço de Compra",
	},
	{
		label: LabelUsefulArea, file: FileUsefulArea,
		title: "Gráfico de Dispersão 'Área Útil x Área Construída x Quartos'",
		x:     ColUseful, y: ColBuilt, size: ColRooms,
		xName: "Área Útil (m²)", yName: "Área Construída (m²)",
	},
}

// GenerateInteractivePlots grava os gráficos de dispersão HTML cujas
// colunas existem no DataFrame. Gráficos sem colunas são ignorados.
func (p *DataProcessor) GenerateInteractivePlots(df dataframe.DataFrame) (Graphs, error) {
	graphs := make(Graphs)
	for _, spec := range scatterSpecs {
		if !utils.HasColumns(df, spec.x, spec.y, spec.size) {
			p.logger.Debug("gráfico ignorado, colunas ausentes: " + spec.label)
			continue
		}
		if err := p.ensureOutputDir(); err != nil {
			return nil, fmt.Errorf("falha ao criar diretório %s: %w", p.OutputDir, err)
		}

		path := p.path(spec.file)
		if err := renderScatter(df, spec, path); err != nil {
			return nil, fmt.Errorf("gráfico %q: %w", spec.label, err)
		}
		graphs[spec.label] = path
		p.logger.Info("gráfico interativo gerado: " + path)
	}
	return graphs, nil
}

// scatterPoints monta os pontos (x, y, tamanho) ignorando linhas com NA
func scatterPoints(df dataframe.DataFrame, spec scatterSpec) []opts.ScatterData {
	xs, ys, sizes := df.Col(spec.x), df.Col(spec.y), df.Col(spec.size)

	type point struct{ x, y, s float64 }
	var points []point
	for i := 0; i < xs.Len(); i++ {
		pt := point{utils.FloatAt(xs, i), utils.FloatAt(ys, i), utils.FloatAt(sizes, i)}
		if math.IsNaN(pt.x) || math.IsNaN(pt.y) || math.IsNaN(pt.s) {
			continue
		}
		points = append(points, pt)
	}

	maxSize := 0.0
	if vals := utils.FloatValues(sizes); len(vals) > 0 {
		maxSize = floats.Max(vals)
	}

	data := make([]opts.ScatterData, 0, len(points))
	for _, pt := range points {
		data = append(data, opts.ScatterData{
			Value:      []interface{}{pt.x, pt.y, pt.s},
			SymbolSize: markerSize(pt.s, maxSize),
		})
	}
	return data
}

// markerSize usa escala por área: o diâmetro cresce com a raiz do valor
func markerSize(v, largest float64) int {
	if largest <= 0 || v <= 0 {
		return 1
	}
	d := int(math.Round(maxMarkerSize * math.Sqrt(v/largest)))
	if d < 1 {
		return 1
	}
	return d
}

// yRange devolve os limites da escala de cor
func yRange(data []opts.ScatterData) (float32, float32) {
	if len(data) == 0 {
		return 0, 1
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, d := range data {
		y := d.Value.([]interface{})[1].(float64)
		lo = math.Min(lo, y)
		hi = math.Max(hi, y)
	}
	return float32(lo), float32(hi)
}

func renderScatter(df dataframe.DataFrame, spec scatterSpec, path string) error {
	data := scatterPoints(df, spec)
	lo, hi := yRange(data)

	tooltip := fmt.Sprintf(
		"function (p) { return '%s: ' + p.value[0] + '<br/>%s: ' + p.value[1] + '<br/>Quartos: ' + p.value[2]; }",
		spec.xName, spec.yName)

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: spec.label,
			Width:     "1000px",
			Height:    "600px",
		}),
		charts.WithTitleOpts(opts.Title{Title: spec.title}),
		charts.WithXAxisOpts(opts.XAxis{Name: spec.xName, Type: "value", Scale: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: spec.yName, Type: "value", Scale: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:      opts.Bool(true),
			Trigger:   "item",
			Formatter: opts.FuncOpts(tooltip),
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Type:       "continuous",
			Calculable: opts.Bool(true),
			Show:       opts.Bool(true),
			Min:        lo,
			Max:        hi,
			Dimension:  "1",
			InRange:    &opts.VisualMapInRange{Color: viridis},
		}),
	)
	scatter.AddSeries(spec.yName, data)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return scatter.Render(f)
}
