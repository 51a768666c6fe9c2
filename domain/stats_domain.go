package domain

import (
	"errors"
)

var (
	MessageSuccessGetStatistics = "batch statistics computed successfully"
	MessageNoImagesForBatch     = "no images for this batch"

	MessageFailedGetStatistics = "failed to compute batch statistics"
	MessageFailedClassifier    = "failed to classify batch images"

	ErrClassifierUnavailable = errors.New("classifier unavailable")
	ErrClassifierResponse    = errors.New("invalid classifier response")
)

// Fixed class taxonomy produced by the classifier.
const (
	ClassInmadura   = "inmadura"
	ClassPocoMadura = "pocoMadura"
	ClassMadura     = "madura"
	ClassBuenEstado = "buenEstado"
	ClassMalEstado  = "malEstado"

	MaxThumbnailsPerClass = 5
	MetricNotAvailable    = "N/A"
)

var (
	RipenessClasses  = []string{ClassInmadura, ClassPocoMadura, ClassMadura}
	ConditionClasses = []string{ClassBuenEstado, ClassMalEstado}
)

func IsKnownClass(name string) bool {
	switch name {
	case ClassInmadura, ClassPocoMadura, ClassMadura, ClassBuenEstado, ClassMalEstado:
		return true
	}
	return false
}

type (
	// Prediction is a single detection returned by the classifier.
	Prediction struct {
		ClassName       string   `json:"class_name"`
		Confidence      float64  `json:"confidence"`
		CropBase64      string   `json:"crop_base64"`
		CalibreRelativo *float64 `json:"calibre_relativo,omitempty"`
	}

	// ClassificationResult is the classifier output for one image. Every
	// scalar is optional: nil means the classifier did not compute it.
	ClassificationResult struct {
		Filename                  string             `json:"filename"`
		ColorStats                map[string]int     `json:"color_stats"`
		EstadoStats               map[string]int     `json:"estado_stats"`
		PorcentajeDefectos        *float64           `json:"estado_porcentaje_defectos"`
		PorcentajeFueraCalibre    *float64           `json:"estado_porcentaje_fuera_calibre"`
		CalibreMedioPorClase      map[string]float64 `json:"estado_calibre_medio_por_clase"`
		DesviacionCalibrePorClase map[string]float64 `json:"estado_desviacion_calibre_por_clase"`
		IndiceColorMedio          *float64           `json:"color_indice_color_medio"`
		DesviacionColor           *float64           `json:"color_desviacion_color"`
		Predictions               []Prediction       `json:"predictions"`
	}

	ClassTotals struct {
		Inmadura   int `json:"inmadura"`
		PocoMadura int `json:"pocoMadura"`
		Madura     int `json:"madura"`
		BuenEstado int `json:"buenEstado"`
		MalEstado  int `json:"malEstado"`
	}

	// MetricSummary holds each continuous metric as its mean formatted to
	// three decimals, or "N/A" when no image reported it.
	MetricSummary struct {
		CalibreMedio           string `json:"calibre_medio"`
		DesviacionCalibre      string `json:"desviacion_calibre"`
		PorcentajeDefectos     string `json:"porcentaje_defectos"`
		PorcentajeFueraCalibre string `json:"porcentaje_fuera_calibre"`
		IndiceColorMedio       string `json:"indice_color_medio"`
		DesviacionColor        string `json:"desviacion_color"`
	}

	Thumbnail struct {
		CropBase64      string   `json:"crop_base64"`
		Confidence      string   `json:"confidence"`
		CalibreRelativo *float64 `json:"calibre_relativo,omitempty"`
	}

	ChartDataset struct {
		Label string    `json:"label"`
		Data  []float64 `json:"data"`
	}

	Chart struct {
		Type     string         `json:"type"`
		Title    string         `json:"title"`
		Labels   []string       `json:"labels"`
		Datasets []ChartDataset `json:"datasets"`
	}

	StatisticsCharts struct {
		Metrics               Chart  `json:"metrics"`
		RipenessDistribution  Chart  `json:"ripeness_distribution"`
		ConditionDistribution Chart  `json:"condition_distribution"`
		Evolution             *Chart `json:"evolution,omitempty"`
	}

	BatchStatistics struct {
		Totals     ClassTotals            `json:"totals"`
		Metrics    MetricSummary          `json:"metrics"`
		Thumbnails map[string][]Thumbnail `json:"thumbnails"`
		Charts     StatisticsCharts       `json:"charts"`
	}

	BatchStatisticsResponse struct {
		BatchID    string           `json:"lote_id"`
		ImageCount int              `json:"image_count"`
		NoImages   bool             `json:"no_images"`
		Message    string           `json:"message,omitempty"`
		Statistics *BatchStatistics `json:"statistics,omitempty"`
	}
)
