package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gota/gota/series"
	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

const sampleCSV = `buy_price,sq_mt_built,n_rooms,neighborhood
150000,60.5,2,Centro
,85,3,Retiro
320000,NA,,Salamanca
`

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadCSV(t *testing.T) {
	path := writeFile(t, "houses.csv", []byte(sampleCSV))

	df, err := ReadCSV(path, Options{})
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if df.Nrow() != 3 || df.Ncol() != 4 {
		t.Fatalf("got %dx%d, want 3x4", df.Nrow(), df.Ncol())
	}

	types := map[string]series.Type{}
	for _, name := range df.Names() {
		types[name] = df.Col(name).Type()
	}
	want := map[string]series.Type{
		"buy_price":    series.Int,
		"sq_mt_built":  series.Float,
		"n_rooms":      series.Int,
		"neighborhood": series.String,
	}
	if diff := cmp.Diff(want, types); diff != "" {
		t.Errorf("types mismatch (-want +got):\n%s", diff)
	}

	if !df.Col("buy_price").Elem(1).IsNA() {
		t.Error("empty cell should be NA")
	}
	if !df.Col("sq_mt_built").Elem(2).IsNA() {
		t.Error("NA cell should be NA")
	}
	if !df.Col("n_rooms").Elem(2).IsNA() {
		t.Error("empty int cell should be NA")
	}
}

func TestReadCSVDelimiterAndEncoding(t *testing.T) {
	text := "bairro;buy_price\nChamberí;100000\nTetuán;200000\n"
	data, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(text))
	if err != nil {
		t.Fatal(err)
	}
	path := writeFile(t, "latin1.csv", data)

	df, err := ReadCSV(path, Options{Delimiter: ";", Encoding: "latin1"})
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	got := df.Col("bairro").Records()
	if diff := cmp.Diff([]string{"Chamberí", "Tetuán"}, got); diff != "" {
		t.Errorf("decoded values mismatch (-want +got):\n%s", diff)
	}
}

func TestReadCSVInvalidOptions(t *testing.T) {
	path := writeFile(t, "houses.csv", []byte(sampleCSV))

	if _, err := ReadCSV(path, Options{Encoding: "ebcdic"}); err == nil {
		t.Error("expected error for unknown encoding")
	}
	if _, err := ReadCSV(path, Options{Delimiter: ";;"}); err == nil {
		t.Error("expected error for multi-character delimiter")
	}
	if _, err := ReadCSV(filepath.Join(t.TempDir(), "missing.csv"), Options{}); err == nil {
		t.Error("expected error for missing file")
	}
}

// writeXLSX grava uma planilha com uma linha de título antes do cabeçalho
func writeXLSX(t *testing.T, sheet string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			t.Fatal(err)
		}
	}

	rows := [][]interface{}{
		{"Relatório de imóveis"},
		{"buy_price", "sq_mt_built", "n_rooms", "latitude"},
		{150000, 60.5, 2, 40.41},
		{nil, 85, 3, nil},
		{320000, 110, 4, 40.43},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}

	path := filepath.Join(t.TempDir(), "houses.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadXLSX(t *testing.T) {
	path := writeXLSX(t, "Imoveis")

	df, err := ReadXLSX(path, "Imoveis", 1)
	if err != nil {
		t.Fatalf("ReadXLSX: %v", err)
	}
	if diff := cmp.Diff([]string{"buy_price", "sq_mt_built", "n_rooms", "latitude"}, df.Names()); diff != "" {
		t.Fatalf("header mismatch (-want +got):\n%s", diff)
	}
	if df.Nrow() != 3 {
		t.Fatalf("got %d rows, want 3", df.Nrow())
	}
	if df.Col("sq_mt_built").Type() != series.Float {
		t.Errorf("sq_mt_built type = %s, want float", df.Col("sq_mt_built").Type())
	}
	if !df.Col("buy_price").Elem(1).IsNA() || !df.Col("latitude").Elem(1).IsNA() {
		t.Error("empty cells should be NA")
	}
}

func TestReadXLSXErrors(t *testing.T) {
	path := writeXLSX(t, "Imoveis")

	if _, err := ReadXLSX(path, "Outra", 1); err == nil {
		t.Error("expected error for missing sheet")
	}
	if _, err := ReadXLSX(path, "", 50); err == nil {
		t.Error("expected error for header row out of range")
	}
}

func TestReadDataset(t *testing.T) {
	csvPath := writeFile(t, "houses.CSV", []byte(sampleCSV))
	if df, err := ReadDataset(csvPath, Options{}); err != nil || df.Nrow() != 3 {
		t.Errorf("csv dispatch: rows=%d err=%v", df.Nrow(), err)
	}

	xlsxPath := writeXLSX(t, "Sheet1")
	if df, err := ReadDataset(xlsxPath, Options{HeaderRow: 1}); err != nil || df.Nrow() != 3 {
		t.Errorf("xlsx dispatch: rows=%d err=%v", df.Nrow(), err)
	}

	_, err := ReadDataset(writeFile(t, "houses.parquet", nil), Options{})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("got %v, want ErrUnsupportedFormat", err)
	}
}

func TestFileMonitor(t *testing.T) {
	path := writeFile(t, "houses.csv", []byte(sampleCSV))

	monitor, err := NewFileMonitor(path)
	if err != nil {
		t.Fatalf("NewFileMonitor: %v", err)
	}
	defer monitor.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	changed := make(chan string, 1)
	go monitor.Watch(ctx, func(name string) {
		select {
		case changed <- name:
		default:
		}
	})

	// outro arquivo no mesmo diretório não dispara
	if err := os.WriteFile(filepath.Join(filepath.Dir(path), "other.csv"), []byte("x\n1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(sampleCSV+"99000,40,1,Centro\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case name := <-changed:
		if filepath.Base(name) != "houses.csv" {
			t.Errorf("handler called with %s", name)
		}
	case <-ctx.Done():
		t.Fatal("no change notification")
	}
}
