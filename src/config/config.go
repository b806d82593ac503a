package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Valores usados quando o arquivo de configuração não define o campo
const (
	DefaultOutputDir     = "static/graphs"
	DefaultLogName       = "app.log"
	DefaultLogMaxSize    = "10 * 1024 * 1024"
	DefaultMapZoom       = 12
	DefaultCheckInterval = Duration(time.Hour)
)

// Config define a estrutura de configuração do gerador de relatórios
type Config struct {
	OutputDir     string `json:"output_dir" yaml:"output_dir"`         // diretório dos gráficos
	StatsWorkbook string `json:"stats_workbook" yaml:"stats_workbook"` // xlsx com as estatísticas; vazio desativa a exportação
	LogName       string `json:"log_name" yaml:"log_name"`
	LogMaxSize    string `json:"log_max_size" yaml:"log_max_size"`

	Dataset struct {
		Path      string `json:"path" yaml:"path"`             // arquivo csv ou xlsx
		SheetName string `json:"sheet_name" yaml:"sheet_name"` // só xlsx
		HeaderRow int    `json:"header_row" yaml:"header_row"` // só xlsx, a partir de 0
		Delimiter string `json:"delimiter" yaml:"delimiter"`   // só csv
		Encoding  string `json:"encoding" yaml:"encoding"`     // utf-8, latin1, windows-1252, gbk
	} `json:"dataset" yaml:"dataset"`

	Postgres struct {
		DSN   string `json:"dsn" yaml:"dsn"`
		Query string `json:"query" yaml:"query"`
	} `json:"postgres" yaml:"postgres"`

	Map struct {
		ZoomStart int    `json:"zoom_start" yaml:"zoom_start"`
		TileURL   string `json:"tile_url" yaml:"tile_url"`
	} `json:"map" yaml:"map"`

	Schedule struct {
		CheckInterval Duration `json:"check_interval" yaml:"check_interval"` // intervalo do modo schedule
	} `json:"schedule" yaml:"schedule"`
}

var (
	once     sync.Once
	instance *Config
	loadErr  error
)

// LoadConfig carrega a configuração uma única vez e devolve sempre a mesma instância
func LoadConfig(path string) (*Config, error) {
	once.Do(func() {
		instance, loadErr = loadConfig(path)
	})
	return instance, loadErr
}

func loadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] .env não encontrado, usando variáveis do sistema")
	}

	cfg := &Config{}
	if path != "" {
		data, err := readFile(path)
		if err != nil {
			return nil, fmt.Errorf("falha ao ler configuração: %w", err)
		}
		if err := parseConfig(data, filepath.Ext(path), cfg); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func readFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("não foi possível ler %s: %w", filePath, err)
	}
	return data, nil
}

// parseConfig escolhe YAML ou JSON pela extensão
func parseConfig(data []byte, ext string, cfg *Config) error {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("falha ao interpretar YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("falha ao interpretar JSON: %w", err)
		}
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("REPORT_DATASET"); v != "" {
		c.Dataset.Path = v
	}
	if v := os.Getenv("REPORT_OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv("REPORT_PG_DSN"); v != "" {
		c.Postgres.DSN = v
	}
	if v := os.Getenv("REPORT_LOG_NAME"); v != "" {
		c.LogName = v
	}
}

func (c *Config) applyDefaults() {
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if c.LogName == "" {
		c.LogName = DefaultLogName
	}
	if c.LogMaxSize == "" {
		c.LogMaxSize = DefaultLogMaxSize
	}
	if c.Map.ZoomStart <= 0 {
		c.Map.ZoomStart = DefaultMapZoom
	}
	if c.Schedule.CheckInterval <= 0 {
		c.Schedule.CheckInterval = DefaultCheckInterval
	}
	if c.Dataset.Delimiter == "" {
		c.Dataset.Delimiter = ","
	}
}

// Duration é um wrapper de time.Duration
// para aceitar "5m0s" em JSON e YAML
type Duration time.Duration

// UnmarshalJSON implementa json.Unmarshaler
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return d.set(s)
}

// MarshalJSON implementa json.Marshaler
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalYAML implementa yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return d.set(s)
}

func (d *Duration) set(s string) error {
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// String é usado na expressão cron, por exemplo "@every 1h0m0s"
func (d Duration) String() string {
	return time.Duration(d).String()
}
