// loader.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"RealEstateReport/src/datasource/file"

	"github.com/go-gota/gota/dataframe"
	_ "github.com/lib/pq"
)

const (
	pingAttempts = 5
	pingDelay    = 2 * time.Second
)

// Loader carrega conjuntos de dados a partir de consultas no PostgreSQL
type Loader struct {
	db *sql.DB
}

// NewLoader abre a conexão e espera o banco responder
func NewLoader(ctx context.Context, dsn string) (*Loader, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < pingAttempts; i++ {
		if err = db.PingContext(ctx); err == nil {
			break
		}
		select {
		case <-ctx.Done():
			db.Close()
			return nil, ctx.Err()
		case <-time.After(pingDelay):
		}
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: ping falhou após %d tentativas: %w", pingAttempts, err)
	}
	return &Loader{db: db}, nil
}

// NewLoaderFromDB usa uma conexão já aberta
func NewLoaderFromDB(db *sql.DB) *Loader {
	return &Loader{db: db}
}

func (l *Loader) Close() error {
	return l.db.Close()
}

// Load executa a consulta e devolve o resultado como DataFrame.
// NULL vira valor ausente e os tipos são detectados pelo gota.
func (l *Loader) Load(ctx context.Context, query string) (dataframe.DataFrame, error) {
	rows, err := l.db.QueryContext(ctx, query)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("postgres: consulta: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("postgres: colunas: %w", err)
	}

	var values [][]interface{}
	for rows.Next() {
		row := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range row {
			ptrs[i] = &row[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("postgres: scan: %w", err)
		}
		values = append(values, row)
	}
	if err := rows.Err(); err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("postgres: leitura: %w", err)
	}

	return FrameFromValues(columns, values)
}

// FrameFromValues monta o DataFrame a partir das linhas lidas do banco
func FrameFromValues(columns []string, values [][]interface{}) (dataframe.DataFrame, error) {
	if len(values) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("postgres: consulta sem linhas")
	}

	records := make([][]string, 0, len(values)+1)
	records = append(records, columns)
	for _, row := range values {
		record := make([]string, len(columns))
		for i := range record {
			if i < len(row) {
				record[i] = cellString(row[i])
			}
		}
		records = append(records, record)
	}

	df := dataframe.LoadRecords(records,
		dataframe.NaNValues(file.NaNValues),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
	)
	if df.Err != nil {
		return df, fmt.Errorf("postgres: %w", df.Err)
	}
	return df, nil
}

// cellString converte um valor do driver para texto; NULL vira "NaN"
func cellString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "NaN"
	case []byte:
		return string(x)
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprint(x)
	}
}
