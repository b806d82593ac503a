// data.go
package processor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"RealEstateReport/src/config"
	"RealEstateReport/src/storage"
	"RealEstateReport/src/utils"

	"github.com/go-gota/gota/dataframe"
)

// Colunas usadas pelos gráficos
const (
	ColBuyPrice  = "buy_price"
	ColBuilt     = "sq_mt_built"
	ColUseful    = "sq_mt_useful"
	ColRooms     = "n_rooms"
	ColLatitude  = "latitude"
	ColLongitude = "longitude"
)

// ErrMissingColumn é repassado para quem chama com errors.Is
var ErrMissingColumn = utils.ErrMissingColumn

// Statistics mapeia coluna -> estatística -> valor
type Statistics map[string]map[string]interface{}

// Graphs mapeia o rótulo do gráfico ao caminho do arquivo gerado
type Graphs map[string]string

// Report reúne o resultado de uma execução completa
type Report struct {
	Stats      Statistics
	Graphs     Graphs
	MapPath    string
	MapMessage string // preenchido quando o mapa não pôde ser gerado
}

// DataProcessor gera estatísticas e gráficos de um DataFrame
type DataProcessor struct {
	OutputDir     string
	StatsWorkbook string
	MapZoom       int
	TileURL       string
	logger        *storage.Logger
}

// NewDataProcessor cria um processador gravando em outputDir; logger pode ser nil
func NewDataProcessor(outputDir string, logger *storage.Logger) *DataProcessor {
	if outputDir == "" {
		outputDir = config.DefaultOutputDir
	}
	return &DataProcessor{
		OutputDir: outputDir,
		MapZoom:   config.DefaultMapZoom,
		TileURL:   defaultTileURL,
		logger:    logger,
	}
}

// NewFromConfig cria o processador a partir da configuração carregada
func NewFromConfig(cfg *config.Config, logger *storage.Logger) *DataProcessor {
	p := NewDataProcessor(cfg.OutputDir, logger)
	p.StatsWorkbook = cfg.StatsWorkbook
	if cfg.Map.ZoomStart > 0 {
		p.MapZoom = cfg.Map.ZoomStart
	}
	if cfg.Map.TileURL != "" {
		p.TileURL = cfg.Map.TileURL
	}
	return p
}

// Run executa os três geradores em sequência
func (p *DataProcessor) Run(df dataframe.DataFrame) (*Report, error) {
	if df.Err != nil {
		return nil, fmt.Errorf("dataframe inválido: %w", df.Err)
	}

	stats, graphs, err := p.ProcessData(df)
	if err != nil {
		return nil, err
	}
	report := &Report{Stats: stats, Graphs: graphs}

	mapPath, err := p.GenerateMap(df)
	switch {
	case err == nil:
		report.MapPath = mapPath
		report.Graphs[LabelMap] = mapPath
	case errors.Is(err, ErrNoLocationColumns), errors.Is(err, ErrNoValidLocations):
		report.MapMessage = err.Error()
		p.logger.Warning(err.Error())
	default:
		return nil, err
	}

	interactive, err := p.GenerateInteractivePlots(df)
	if err != nil {
		return nil, err
	}
	for label, path := range interactive {
		report.Graphs[label] = path
	}

	if p.StatsWorkbook != "" {
		if err := SaveStatsToExcel(stats, p.StatsWorkbook); err != nil {
			return nil, err
		}
		p.logger.Info("estatísticas exportadas para " + p.StatsWorkbook)
	}

	p.logger.Info(fmt.Sprintf("relatório concluído: %d gráficos em %s", len(report.Graphs), p.OutputDir))
	return report, nil
}

// ensureOutputDir cria o diretório de saída se necessário
func (p *DataProcessor) ensureOutputDir() error {
	if info, err := os.Stat(p.OutputDir); err == nil {
		if info.IsDir() {
			return nil
		}
		return fmt.Errorf("%s existe mas não é um diretório", p.OutputDir)
	}
	return os.MkdirAll(p.OutputDir, 0755)
}

func (p *DataProcessor) path(name string) string {
	return filepath.Join(p.OutputDir, name)
}
