package processor

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/xuri/excelize/v2"
)

// StatsSheet é a aba da planilha de estatísticas
const StatsSheet = "Estatísticas"

// SaveStatsToExcel grava as estatísticas em uma planilha XLSX: a primeira
// linha traz as colunas do conjunto de dados e a primeira coluna os nomes
// das estatísticas na ordem do describe. Células sem valor ficam vazias.
func SaveStatsToExcel(stats Statistics, path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("falha ao criar diretório %s: %w", dir, err)
		}
	}

	columns := make([]string, 0, len(stats))
	for name := range stats {
		columns = append(columns, name)
	}
	sort.Strings(columns)
	rows := statRows(stats)

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", StatsSheet); err != nil {
		return err
	}

	for c, name := range columns {
		cell, _ := excelize.CoordinatesToCellName(c+2, 1)
		if err := f.SetCellValue(StatsSheet, cell, name); err != nil {
			return err
		}
	}
	for r, stat := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetCellValue(StatsSheet, cell, stat); err != nil {
			return err
		}
		for c, name := range columns {
			v, ok := stats[name][stat]
			if !ok {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+2, r+2)
			if err := f.SetCellValue(StatsSheet, cell, v); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("falha ao salvar planilha %s: %w", path, err)
	}
	return nil
}

// statRows devolve as estatísticas presentes em alguma coluna, na ordem do describe
func statRows(stats Statistics) []string {
	var rows []string
	for _, stat := range StatOrder {
		for _, values := range stats {
			if _, ok := values[stat]; ok {
				rows = append(rows, stat)
				break
			}
		}
	}
	return rows
}
