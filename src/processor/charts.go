package processor

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"sort"
	"strconv"

	"RealEstateReport/src/utils"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/wcharczuk/go-chart/v2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Rótulos e arquivos dos gráficos estáticos
const (
	LabelPriceHist   = "Distribuição do Preço de Compra"
	LabelBuiltHist   = "Distribuição da Área Construída"
	LabelRoomsBar    = "Distribuição do Número de Quartos"
	LabelRoomsPie    = "Distribuição do Número de Quartos (Pizza)"
	LabelPriceBox    = "Boxplot do Preço de Compra por Número de Quartos"
	LabelCorrHeatmap = "Mapa de Calor das Correlações"

	FilePriceHist   = "dist_price.png"
	FileBuiltHist   = "dist_sq_mt_built.png"
	FileRoomsBar    = "room_distribution.png"
	FileRoomsPie    = "room_distribution_pie.png"
	FilePriceBox    = "price_boxplot.png"
	FileCorrHeatmap = "correlation_heatmap.png"
)

// tamanho padrão das figuras, 6.4x4.8 polegadas
var (
	figWidth  = 6.4 * vg.Inch
	figHeight = 4.8 * vg.Inch
)

// staticChart descreve um gráfico estático fixo
type staticChart struct {
	label  string
	file   string
	render func(df dataframe.DataFrame, path string) error
}

// ProcessData calcula as estatísticas descritivas e gera os seis gráficos
// estáticos. Uma coluna obrigatória ausente interrompe a chamada; arquivos
// gravados antes do erro permanecem no disco.
func (p *DataProcessor) ProcessData(df dataframe.DataFrame) (Statistics, Graphs, error) {
	stats := Describe(df)

	if err := p.ensureOutputDir(); err != nil {
		return nil, nil, fmt.Errorf("falha ao criar diretório %s: %w", p.OutputDir, err)
	}

	charts := []staticChart{
		{LabelPriceHist, FilePriceHist, func(df dataframe.DataFrame, path string) error {
			return renderHistogram(df, ColBuyPrice, "Preço de Compra", LabelPriceHist, path)
		}},
		{LabelBuiltHist, FileBuiltHist, func(df dataframe.DataFrame, path string) error {
			return renderHistogram(df, ColBuilt, "Área Construída (m²)", LabelBuiltHist, path)
		}},
		{LabelRoomsBar, FileRoomsBar, renderRoomsBar},
		{LabelRoomsPie, FileRoomsPie, renderRoomsPie},
		{LabelPriceBox, FilePriceBox, renderPriceBoxplot},
		{LabelCorrHeatmap, FileCorrHeatmap, renderCorrelationHeatmap},
	}

	graphs := make(Graphs, len(charts))
	for _, c := range charts {
		path := p.path(c.file)
		if err := c.render(df, path); err != nil {
			return nil, nil, fmt.Errorf("gráfico %q: %w", c.label, err)
		}
		graphs[c.label] = path
		p.logger.Info("gráfico gerado: " + path)
	}
	return stats, graphs, nil
}

func renderHistogram(df dataframe.DataFrame, column, xLabel, title, path string) error {
	s, err := utils.Column(df, column)
	if err != nil {
		return err
	}
	values := utils.FloatValues(s)
	if len(values) == 0 {
		return fmt.Errorf("coluna %s sem valores válidos", column)
	}

	h, err := plotter.NewHist(plotter.Values(values), histogramBins(values))
	if err != nil {
		return err
	}
	h.FillColor = color.RGBA{R: 76, G: 114, B: 176, A: 255}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = "Count"
	p.Add(h)
	return p.Save(figWidth, figHeight, path)
}

// histogramBins escolhe o maior número de bins entre Sturges e
// Freedman-Diaconis
func histogramBins(values []float64) int {
	n := len(values)
	if n < 2 {
		return 1
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	span := sorted[n-1] - sorted[0]
	if span == 0 {
		return 1
	}

	sturges := int(math.Ceil(math.Log2(float64(n)))) + 1
	bins := sturges
	iqr := quantile(sorted, 0.75) - quantile(sorted, 0.25)
	if iqr > 0 {
		width := 2 * iqr * math.Pow(float64(n), -1.0/3.0)
		if fd := int(math.Ceil(span / width)); fd > bins {
			bins = fd
		}
	}
	return bins
}

// roomCount é a contagem de um valor de n_rooms
type roomCount struct {
	label string
	value float64
	count int
}

// roomValueCounts conta os valores de n_rooms em ordem decrescente de
// contagem; empates mantêm a ordem de aparição
func roomValueCounts(df dataframe.DataFrame) ([]roomCount, error) {
	s, err := utils.Column(df, ColRooms)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	var counts []roomCount
	for i := 0; i < s.Len(); i++ {
		e := s.Elem(i)
		if e.IsNA() {
			continue
		}
		label := categoryLabel(e)
		if pos, ok := index[label]; ok {
			counts[pos].count++
			continue
		}
		index[label] = len(counts)
		counts = append(counts, roomCount{label: label, value: e.Float(), count: 1})
	}
	if len(counts) == 0 {
		return nil, fmt.Errorf("coluna %s sem valores válidos", ColRooms)
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].count > counts[j].count
	})
	return counts, nil
}

func categoryLabel(e series.Element) string {
	if e.Type() == series.Int {
		if v, err := e.Int(); err == nil {
			return strconv.Itoa(v)
		}
	}
	return utils.FormatValue(e)
}

func renderRoomsBar(df dataframe.DataFrame, path string) error {
	counts, err := roomValueCounts(df)
	if err != nil {
		return err
	}

	values := make(plotter.Values, len(counts))
	labels := make([]string, len(counts))
	for i, c := range counts {
		values[i] = float64(c.count)
		labels[i] = c.label
	}

	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return err
	}
	bars.Color = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	bars.LineStyle.Width = vg.Length(0)

	p := plot.New()
	p.Title.Text = "Distribuição do Número de Quartos"
	p.X.Label.Text = "Número de Quartos"
	p.Y.Label.Text = "Contagem"
	p.Add(bars)
	p.NominalX(labels...)
	return p.Save(figWidth, figHeight, path)
}

func renderRoomsPie(df dataframe.DataFrame, path string) error {
	counts, err := roomValueCounts(df)
	if err != nil {
		return err
	}

	total := 0
	for _, c := range counts {
		total += c.count
	}
	values := make([]chart.Value, len(counts))
	for i, c := range counts {
		pct := 100 * float64(c.count) / float64(total)
		values[i] = chart.Value{
			Label: fmt.Sprintf("%s (%.1f%%)", c.label, pct),
			Value: float64(c.count),
		}
	}

	pie := chart.PieChart{
		Title:  "Distribuição do Número de Quartos",
		Width:  640,
		Height: 480,
		Values: values,
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return pie.Render(chart.PNG, f)
}

func renderPriceBoxplot(df dataframe.DataFrame, path string) error {
	rooms, err := utils.Column(df, ColRooms)
	if err != nil {
		return err
	}
	prices, err := utils.Column(df, ColBuyPrice)
	if err != nil {
		return err
	}

	groups := make(map[float64]plotter.Values)
	labels := make(map[float64]string)
	for i := 0; i < rooms.Len(); i++ {
		r := rooms.Elem(i)
		price := utils.FloatAt(prices, i)
		if r.IsNA() || math.IsNaN(price) {
			continue
		}
		key := r.Float()
		groups[key] = append(groups[key], price)
		labels[key] = categoryLabel(r)
	}
	if len(groups) == 0 {
		return fmt.Errorf("sem pares válidos de %s e %s", ColRooms, ColBuyPrice)
	}

	keys := make([]float64, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Float64s(keys)

	p := plot.New()
	p.Title.Text = "Boxplot do Preço de Compra por Número de Quartos"
	p.X.Label.Text = "Número de Quartos"
	p.Y.Label.Text = "Preço de Compra"

	names := make([]string, len(keys))
	for i, k := range keys {
		box, err := plotter.NewBoxPlot(vg.Points(20), float64(i), groups[k])
		if err != nil {
			return err
		}
		p.Add(box)
		names[i] = labels[k]
	}
	p.NominalX(names...)
	return p.Save(figWidth, figHeight, path)
}

// corrGrid adapta a matriz de correlação para plotter.GridXYZ; a primeira
// variável fica no topo como no heatmap tradicional
type corrGrid struct {
	m [][]float64
}

func (g corrGrid) Dims() (c, r int)   { return len(g.m), len(g.m) }
func (g corrGrid) Z(c, r int) float64 { return g.m[len(g.m)-1-r][c] }
func (g corrGrid) X(c int) float64    { return float64(c) }
func (g corrGrid) Y(r int) float64    { return float64(r) }

func renderCorrelationHeatmap(df dataframe.DataFrame, path string) error {
	names := numericColumns(df)
	if len(names) == 0 {
		return fmt.Errorf("nenhuma coluna numérica para correlação")
	}
	m := correlationMatrix(df, names)

	cmap := moreland.SmoothBlueRed()
	cmap.SetMin(-1)
	cmap.SetMax(1)

	pal := cmap.Palette(255)
	heat := plotter.NewHeatMap(corrGrid{m: m}, pal)
	heat.Min, heat.Max = -1, 1
	heat.NaN = color.White
	// erro de arredondamento pode passar de ±1
	colors := pal.Colors()
	heat.Underflow, heat.Overflow = colors[0], colors[len(colors)-1]

	p := plot.New()
	p.Title.Text = "Mapa de Calor das Correlações"
	p.Add(heat)

	var xys plotter.XYs
	var texts []string
	n := len(names)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if math.IsNaN(m[i][j]) {
				continue
			}
			xys = append(xys, plotter.XY{X: float64(j), Y: float64(n - 1 - i)})
			texts = append(texts, fmt.Sprintf("%.2f", m[i][j]))
		}
	}
	if len(xys) > 0 {
		labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
		if err != nil {
			return err
		}
		for i := range labels.TextStyle {
			labels.TextStyle[i].XAlign = draw.XCenter
			labels.TextStyle[i].YAlign = draw.YCenter
		}
		p.Add(labels)
	}

	yNames := make([]string, n)
	for i, name := range names {
		yNames[n-1-i] = name
	}
	p.NominalX(names...)
	p.NominalY(yNames...)
	return p.Save(10*vg.Inch, 8*vg.Inch, path)
}
