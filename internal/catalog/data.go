package catalog

import (
	"fmt"

	"github.com/couchcryptid/bewara-landslide-service/internal/domain"
)

// MonitoredLocation is the fixed coordinate whose weather drives the
// rainfall input: central Cireunghas.
var MonitoredLocation = domain.Coordinate{Lat: -6.9485, Lon: 107.0203}

// Hazard zone rings are surveyed latitude-first.
var defaultZones = []domain.HazardZone{
	{
		ID: 1, Name: "Zona Merah 1", Level: domain.ZoneHigh, Color: "#ef4444",
		Polygon: []domain.Coordinate{
			{Lat: -7.1123, Lon: 107.5845},
			{Lat: -7.1156, Lon: 107.5923},
			{Lat: -7.1223, Lon: 107.5890},
			{Lat: -7.1190, Lon: 107.5812},
		},
	},
	{
		ID: 2, Name: "Zona Kuning 1", Level: domain.ZoneMedium, Color: "#f59e0b",
		Polygon: []domain.Coordinate{
			{Lat: -7.1256, Lon: 107.5912},
			{Lat: -7.1289, Lon: 107.6001},
			{Lat: -7.1356, Lon: 107.5968},
			{Lat: -7.1323, Lon: 107.5879},
		},
	},
	{
		ID: 3, Name: "Zona Hijau 1", Level: domain.ZoneLow, Color: "#10b981",
		Polygon: []domain.Coordinate{
			{Lat: -7.1089, Lon: 107.6023},
			{Lat: -7.1122, Lon: 107.6112},
			{Lat: -7.1189, Lon: 107.6079},
			{Lat: -7.1156, Lon: 107.5990},
		},
	},
}

var defaultPoints = []domain.PointHazard{
	{
		Name:        "Kampung Cimerak (Tegal Panjang)",
		Location:    domain.Coordinate{Lat: -6.9380, Lon: 107.0120},
		Risk:        "Sangat Tinggi",
		Description: "Riwayat longsor fatal 2015. Area lereng pemukiman.",
	},
	{
		Name:        "Desa Bencoy",
		Location:    domain.Coordinate{Lat: -6.9580, Lon: 107.0320},
		Risk:        "Sangat Tinggi",
		Description: "Lokasi longsor 2023. Rekomendasi relokasi BNPB.",
	},
	{
		Name:        "Bukit Rasamala (Kp. Lio)",
		Location:    domain.Coordinate{Lat: -6.9480, Lon: 107.0180},
		Risk:        "Tinggi",
		Description: "Dekat kantor kecamatan. Potensi timbun jalan desa.",
	},
	{
		Name:        "Area SDN Lio",
		Location:    domain.Coordinate{Lat: -6.9415034393770805, Lon: 107.00656038638542},
		Risk:        "Tinggi",
		Description: "Beberapa bangunan sekolah berada di lereng yang rawan longsor.",
	},
}

// Boundary rings were drawn in geojson.io and are kept in their GeoJSON
// [lon, lat] form here; lonLatRing converts them on declaration.
var defaultBoundaries = []domain.BoundaryRegion{
	{
		Name: "Area Batas 1",
		Polygons: [][]domain.Coordinate{lonLatRing([][]float64{
			{106.98607800695726, -6.927193555008131},
			{106.98607800695726, -6.927194727244014},
			{106.98607852382747, -6.927194727244014},
			{106.98607852382747, -6.927193555008131},
			{106.98607800695726, -6.927193555008131},
		})},
	},
	{
		Name: "Area Batas 2",
		Polygons: [][]domain.Coordinate{lonLatRing([][]float64{
			{106.98369889261016, -6.9232937059588835},
			{106.98369889261016, -6.923293721891881},
			{106.98369890817435, -6.923293721891881},
			{106.98369890817435, -6.9232937059588835},
			{106.98369889261016, -6.9232937059588835},
		})},
	},
	{
		Name: "Wilayah Utama Cireunghas",
		Polygons: [][]domain.Coordinate{lonLatRing([][]float64{
			{106.9813571754006, -6.921505385699874},
			{106.9813571754006, -6.9750868281512055},
			{107.04898901122448, -6.9750868281512055},
			{107.04898901122448, -6.921505385699874},
			{106.9813571754006, -6.921505385699874},
		})},
	},
}

var defaultView = MapView{
	Center: domain.Coordinate{Lat: -6.9450, Lon: 107.0150},
	Zoom:   13,
}

var defaultPrediction = PredictionArea{
	Center:       MonitoredLocation,
	RadiusMeters: 800,
	Title:        "Layer GeoAI: Prediksi Risiko",
	Note:         "Probabilitas Longsor: 85%",
}

// Default returns the compiled-in Cireunghas catalog.
func Default() *Catalog {
	c, err := New(defaultZones, defaultPoints, defaultBoundaries, defaultView, defaultPrediction)
	if err != nil {
		panic(fmt.Sprintf("catalog: compiled-in data is invalid: %v", err))
	}
	return c
}

func lonLatRing(positions [][]float64) []domain.Coordinate {
	ring, err := ringFromPositions(positions)
	if err != nil {
		panic(fmt.Sprintf("catalog: %v", err))
	}
	return ring
}
