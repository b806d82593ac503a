// reader.go
package file

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/go-gota/gota/dataframe"
	"github.com/tealeg/xlsx"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

// ErrUnsupportedFormat é retornado para extensões sem leitor
var ErrUnsupportedFormat = errors.New("formato de arquivo não suportado")

// NaNValues são os textos tratados como ausentes na leitura
var NaNValues = []string{"", "NA", "NaN", "nan", "<nil>", "None"}

// Options controla a leitura de um conjunto de dados
type Options struct {
	Delimiter string // apenas CSV, padrão ","
	Encoding  string // utf-8, latin1, windows-1252 ou gbk
	SheetName string // apenas XLSX, vazio usa a primeira aba
	HeaderRow int    // apenas XLSX, índice (base 0) da linha de títulos
}

// ReadDataset lê o arquivo escolhendo o leitor pela extensão
func ReadDataset(path string, opts Options) (dataframe.DataFrame, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return ReadCSV(path, opts)
	case ".xlsx":
		return ReadXLSX(path, opts.SheetName, opts.HeaderRow)
	default:
		return dataframe.DataFrame{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// ReadCSV lê um CSV com delimitador e codificação configuráveis.
// Células vazias e marcadores como NA/NaN viram valores ausentes.
func ReadCSV(path string, opts Options) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("falha ao abrir %s: %w", path, err)
	}
	defer f.Close()

	r, err := decodeReader(f, opts.Encoding)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	delimiter := ','
	if opts.Delimiter != "" {
		d, size := utf8.DecodeRuneInString(opts.Delimiter)
		if size != len(opts.Delimiter) {
			return dataframe.DataFrame{}, fmt.Errorf("delimitador inválido: %q", opts.Delimiter)
		}
		delimiter = d
	}

	df := dataframe.ReadCSV(r,
		dataframe.WithDelimiter(delimiter),
		dataframe.NaNValues(NaNValues),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
	)
	if df.Err != nil {
		return df, fmt.Errorf("falha ao ler CSV %s: %w", path, df.Err)
	}
	return df, nil
}

// decodeReader converte o conteúdo para UTF-8
func decodeReader(r io.Reader, name string) (io.Reader, error) {
	var enc encoding.Encoding
	switch strings.ToLower(strings.ReplaceAll(name, "_", "-")) {
	case "", "utf-8", "utf8":
		return r, nil
	case "latin1", "latin-1", "iso-8859-1":
		enc = charmap.ISO8859_1
	case "windows-1252", "cp1252":
		enc = charmap.Windows1252
	case "gbk", "gb2312":
		enc = simplifiedchinese.GBK
	default:
		return nil, fmt.Errorf("codificação não suportada: %s", name)
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}

// ReadXLSX lê uma aba da planilha. A linha headerRow traz os títulos e as
// seguintes os dados; os tipos são detectados pelo gota.
func ReadXLSX(filePath, sheetName string, headerRow int) (dataframe.DataFrame, error) {
	xlFile, err := xlsx.OpenFile(filePath)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("falha ao abrir xlsx %s: %w", filePath, err)
	}
	if len(xlFile.Sheets) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("planilha %s sem abas", filePath)
	}

	sheet := xlFile.Sheets[0]
	if sheetName != "" {
		var ok bool
		if sheet, ok = xlFile.Sheet[sheetName]; !ok {
			return dataframe.DataFrame{}, fmt.Errorf("aba %q não encontrada em %s", sheetName, filePath)
		}
	}

	records, err := sheetRecords(sheet, headerRow)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("%s: %w", filePath, err)
	}

	df := dataframe.LoadRecords(records,
		dataframe.NaNValues(NaNValues),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
	)
	if df.Err != nil {
		return df, fmt.Errorf("falha ao carregar %s: %w", filePath, df.Err)
	}
	return df, nil
}

// sheetRecords converte a aba em linhas de texto com largura igual à do
// cabeçalho; linhas totalmente vazias são descartadas
func sheetRecords(sheet *xlsx.Sheet, headerRow int) ([][]string, error) {
	if headerRow < 0 || headerRow >= len(sheet.Rows) {
		return nil, fmt.Errorf("linha de títulos %d fora da aba %q", headerRow, sheet.Name)
	}

	var headers []string
	for _, cell := range sheet.Rows[headerRow].Cells {
		headers = append(headers, strings.TrimSpace(cell.Value))
	}
	for len(headers) > 0 && headers[len(headers)-1] == "" {
		headers = headers[:len(headers)-1]
	}
	if len(headers) == 0 {
		return nil, fmt.Errorf("linha de títulos %d vazia", headerRow)
	}

	records := [][]string{headers}
	for _, row := range sheet.Rows[headerRow+1:] {
		if row == nil {
			continue
		}
		record := make([]string, len(headers))
		empty := true
		for i, cell := range row.Cells {
			if i >= len(headers) {
				break
			}
			record[i] = cell.Value
			if cell.Value != "" {
				empty = false
			}
		}
		if !empty {
			records = append(records, record)
		}
	}
	return records, nil
}
