package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sort"
	"sync"
	"syscall"

	"RealEstateReport/src/config"
	"RealEstateReport/src/datasource/file"
	"RealEstateReport/src/datasource/postgres"
	"RealEstateReport/src/processor"
	"RealEstateReport/src/storage"

	"github.com/go-gota/gota/dataframe"
	"github.com/spf13/cobra"
)

var rootFlags struct {
	configPath string
	dataset    string
	output     string
	sheet      string
	logAddr    string
}

var rootCmd = &cobra.Command{
	Use:   "realestate-report",
	Short: "Estatísticas e gráficos de um conjunto de dados de imóveis",
	Long: "Lê um conjunto de dados de imóveis (CSV, XLSX ou PostgreSQL) e gera\n" +
		"estatísticas descritivas, gráficos estáticos, um mapa e gráficos interativos.",
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&rootFlags.configPath, "config", "", "arquivo de configuração (json ou yaml)")
	f.StringVar(&rootFlags.dataset, "dataset", "", "arquivo csv ou xlsx com os imóveis")
	f.StringVar(&rootFlags.output, "output", "", "diretório dos gráficos (padrão "+config.DefaultOutputDir+")")
	f.StringVar(&rootFlags.sheet, "sheet", "", "aba da planilha xlsx")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(reopenLogCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app junta configuração, logger e processador de uma execução da CLI
type app struct {
	cfg       *config.Config
	logger    *storage.Logger
	processor *processor.DataProcessor

	// uma geração por vez no diretório de saída
	mu sync.Mutex
}

// loadApp lê a configuração, aplica as flags e abre o log
func loadApp() (*app, error) {
	cfg, err := config.LoadConfig(rootFlags.configPath)
	if err != nil {
		return nil, err
	}
	applyFlags(cfg)

	logger, err := storage.NewLogger(cfg.LogName, cfg.LogMaxSize)
	if err != nil {
		return nil, fmt.Errorf("falha ao iniciar o log: %w", err)
	}
	return newApp(cfg, logger), nil
}

func newApp(cfg *config.Config, logger *storage.Logger) *app {
	return &app{
		cfg:       cfg,
		logger:    logger,
		processor: processor.NewFromConfig(cfg, logger),
	}
}

// applyFlags sobrepõe à configuração as flags informadas
func applyFlags(cfg *config.Config) {
	if rootFlags.dataset != "" {
		cfg.Dataset.Path = rootFlags.dataset
	}
	if rootFlags.output != "" {
		cfg.OutputDir = rootFlags.output
	}
	if rootFlags.sheet != "" {
		cfg.Dataset.SheetName = rootFlags.sheet
	}
}

func (a *app) close() {
	if err := a.logger.Close(); err != nil {
		log.Println("falha ao fechar o log:", err)
	}
}

// loadDataset usa o PostgreSQL quando há DSN e consulta configurados,
// senão o arquivo do conjunto de dados
func (a *app) loadDataset(ctx context.Context) (dataframe.DataFrame, error) {
	pg := a.cfg.Postgres
	if pg.DSN != "" && pg.Query != "" {
		loader, err := postgres.NewLoader(ctx, pg.DSN)
		if err != nil {
			return dataframe.DataFrame{}, err
		}
		defer loader.Close()
		return loader.Load(ctx, pg.Query)
	}

	ds := a.cfg.Dataset
	if ds.Path == "" {
		return dataframe.DataFrame{}, errors.New("nenhum conjunto de dados informado (--dataset ou REPORT_DATASET)")
	}
	return file.ReadDataset(ds.Path, file.Options{
		Delimiter: ds.Delimiter,
		Encoding:  ds.Encoding,
		SheetName: ds.SheetName,
		HeaderRow: ds.HeaderRow,
	})
}

// generate carrega os dados e executa o relatório completo
func (a *app) generate(ctx context.Context) (*processor.Report, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.logger.CheckRotate(); err != nil {
		a.logger.Warning("falha ao rotacionar o log: " + err.Error())
	}

	df, err := a.loadDataset(ctx)
	if err != nil {
		a.logger.Error("falha ao carregar dados: " + err.Error())
		return nil, err
	}
	a.logger.Info(fmt.Sprintf("conjunto de dados carregado: %d linhas, %d colunas", df.Nrow(), df.Ncol()))

	report, err := a.processor.Run(df)
	if err != nil {
		a.logger.Error("falha ao gerar relatório: " + err.Error())
		return nil, err
	}
	return report, nil
}

// printReport escreve o resumo do relatório
func printReport(w io.Writer, r *processor.Report) {
	columns := make([]string, 0, len(r.Stats))
	for name := range r.Stats {
		columns = append(columns, name)
	}
	sort.Strings(columns)

	fmt.Fprintln(w, "Estatísticas:")
	for _, name := range columns {
		fmt.Fprintf(w, "  %s:", name)
		for _, stat := range processor.StatOrder {
			if v, ok := r.Stats[name][stat]; ok {
				fmt.Fprintf(w, " %s=%v", stat, v)
			}
		}
		fmt.Fprintln(w)
	}

	labels := make([]string, 0, len(r.Graphs))
	for label := range r.Graphs {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	fmt.Fprintln(w, "Gráficos:")
	for _, label := range labels {
		fmt.Fprintf(w, "  %s: %s\n", label, r.Graphs[label])
	}
	if r.MapMessage != "" {
		fmt.Fprintln(w, r.MapMessage)
	}
}

// handleReopen reabre o arquivo de log a cada SIGHUP, para uso com logrotate
func handleReopen(ctx context.Context, logger *storage.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGHUP)

	go func() {
		defer signal.Stop(sigChan)
		for {
			select {
			case <-ctx.Done():
				return
			case <-sigChan:
				if err := logger.Reopen(); err != nil {
					log.Println("falha ao reabrir o log:", err)
					continue
				}
				logger.Info("arquivo de log reaberto")
			}
		}
	}()
}
