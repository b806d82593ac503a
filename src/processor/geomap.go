package processor

import (
	"errors"
	"fmt"
	"html/template"
	"math"
	"os"

	"RealEstateReport/src/utils"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/stat"
)

const (
	LabelMap = "Mapa de Localização"
	FileMap  = "map.html"

	defaultTileURL = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
)

// Condições recuperáveis do mapa; a mensagem é exibida ao usuário
var (
	ErrNoLocationColumns = errors.New("Dados de localização (latitude e longitude) não encontrados no conjunto de dados.")
	ErrNoValidLocations  = errors.New("Não há dados válidos de localização para gerar o mapa.")
)

type mapMarker struct {
	Lat   float64
	Lon   float64
	Popup string
}

type mapPage struct {
	Title     string
	CenterLat float64
	CenterLon float64
	Zoom      int
	TileURL   string
	Markers   []mapMarker
}

var mapTemplate = template.Must(template.New("map").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8" />
<title>{{.Title}}</title>
<meta name="viewport" content="width=device-width, initial-scale=1.0" />
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css" />
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>html, body, #map { width: 100%; height: 100%; margin: 0; padding: 0; }</style>
</head>
<body>
<div id="map"></div>
<script>
var map = L.map("map").setView([{{.CenterLat}}, {{.CenterLon}}], {{.Zoom}});
L.tileLayer({{.TileURL}}, {
  maxZoom: 19,
  attribution: "&copy; OpenStreetMap contributors"
}).addTo(map);
{{- range .Markers}}
L.marker([{{.Lat}}, {{.Lon}}]).bindPopup({{.Popup}}).addTo(map);
{{- end}}
</script>
</body>
</html>
`))

// GenerateMap grava um mapa HTML com um marcador por imóvel com coordenadas.
//
// Retorno:
//   - caminho do arquivo gerado, ou
//   - ErrNoLocationColumns / ErrNoValidLocations quando não há o que mapear
func (p *DataProcessor) GenerateMap(df dataframe.DataFrame) (string, error) {
	if !utils.HasColumns(df, ColLatitude, ColLongitude) {
		return "", ErrNoLocationColumns
	}

	lat, lon := df.Col(ColLatitude), df.Col(ColLongitude)
	var rows []int
	for i := 0; i < lat.Len(); i++ {
		if math.IsNaN(utils.FloatAt(lat, i)) || math.IsNaN(utils.FloatAt(lon, i)) {
			continue
		}
		rows = append(rows, i)
	}
	if len(rows) == 0 {
		return "", ErrNoValidLocations
	}

	price, err := utils.Column(df, ColBuyPrice)
	if err != nil {
		return "", err
	}
	rooms, err := utils.Column(df, ColRooms)
	if err != nil {
		return "", err
	}

	page := mapPage{
		Title:   LabelMap,
		Zoom:    p.MapZoom,
		TileURL: p.TileURL,
		Markers: make([]mapMarker, 0, len(rows)),
	}
	lats := make([]float64, len(rows))
	lons := make([]float64, len(rows))
	for k, i := range rows {
		lats[k] = utils.FloatAt(lat, i)
		lons[k] = utils.FloatAt(lon, i)
		page.Markers = append(page.Markers, mapMarker{
			Lat: lats[k],
			Lon: lons[k],
			Popup: fmt.Sprintf("Preço: R$ %s, Quartos: %s",
				utils.FormatValue(price.Elem(i)), utils.FormatValue(rooms.Elem(i))),
		})
	}
	page.CenterLat = stat.Mean(lats, nil)
	page.CenterLon = stat.Mean(lons, nil)

	if err := p.ensureOutputDir(); err != nil {
		return "", fmt.Errorf("falha ao criar diretório %s: %w", p.OutputDir, err)
	}
	path := p.path(FileMap)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("falha ao criar mapa: %w", err)
	}
	defer f.Close()

	if err := mapTemplate.Execute(f, page); err != nil {
		return "", fmt.Errorf("falha ao renderizar mapa: %w", err)
	}
	p.logger.Info(fmt.Sprintf("mapa gerado com %d marcadores: %s", len(page.Markers), path))
	return path, nil
}
