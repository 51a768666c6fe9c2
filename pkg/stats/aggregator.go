package stats

import (
	"Lote-Tracker/domain"
	"fmt"
	"slices"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/stat"
)

// series collects the continuous metrics of a batch. Each slice only grows
// for images that actually reported the metric.
type series struct {
	calibreMedio           []float64
	desviacionCalibre      []float64
	porcentajeDefectos     []float64
	porcentajeFueraCalibre []float64
	indiceColorMedio       []float64
	desviacionColor        []float64
}

// Aggregate folds the per-image classifier results into batch statistics.
// It is a pure function of its input.
func Aggregate(results []domain.ClassificationResult) domain.BatchStatistics {
	var (
		totals     domain.ClassTotals
		s          series
		thumbnails = newThumbnailBuckets()
	)

	for _, result := range results {
		addCounts(&totals, result.ColorStats)
		addCounts(&totals, result.EstadoStats)

		appendMapMean(&s.calibreMedio, result.CalibreMedioPorClase)
		appendMapMean(&s.desviacionCalibre, result.DesviacionCalibrePorClase)
		appendPresent(&s.porcentajeDefectos, result.PorcentajeDefectos)
		appendPresent(&s.porcentajeFueraCalibre, result.PorcentajeFueraCalibre)
		appendPresent(&s.indiceColorMedio, result.IndiceColorMedio)
		appendPresent(&s.desviacionColor, result.DesviacionColor)

		for _, pred := range result.Predictions {
			addThumbnail(thumbnails, pred)
		}
	}

	return domain.BatchStatistics{
		Totals: totals,
		Metrics: domain.MetricSummary{
			CalibreMedio:           FormatMean(s.calibreMedio),
			DesviacionCalibre:      FormatMean(s.desviacionCalibre),
			PorcentajeDefectos:     FormatMean(s.porcentajeDefectos),
			PorcentajeFueraCalibre: FormatMean(s.porcentajeFueraCalibre),
			IndiceColorMedio:       FormatMean(s.indiceColorMedio),
			DesviacionColor:        FormatMean(s.desviacionColor),
		},
		Thumbnails: thumbnails,
		Charts:     buildCharts(totals, s),
	}
}

// FormatMean renders the arithmetic mean with three decimals, or "N/A" for
// an empty series.
func FormatMean(values []float64) string {
	if len(values) == 0 {
		return domain.MetricNotAvailable
	}
	return strconv.FormatFloat(stat.Mean(values, nil), 'f', 3, 64)
}

func addCounts(totals *domain.ClassTotals, counts map[string]int) {
	for class, n := range counts {
		switch class {
		case domain.ClassInmadura:
			totals.Inmadura += n
		case domain.ClassPocoMadura:
			totals.PocoMadura += n
		case domain.ClassMadura:
			totals.Madura += n
		case domain.ClassBuenEstado:
			totals.BuenEstado += n
		case domain.ClassMalEstado:
			totals.MalEstado += n
		}
	}
}

func appendPresent(dst *[]float64, v *float64) {
	if v != nil {
		*dst = append(*dst, *v)
	}
}

// appendMapMean appends the mean of the per-class values; an absent or empty
// map contributes nothing.
func appendMapMean(dst *[]float64, perClass map[string]float64) {
	if len(perClass) == 0 {
		return
	}
	values := make([]float64, 0, len(perClass))
	classes := make([]string, 0, len(perClass))
	for class := range perClass {
		classes = append(classes, class)
	}
	sort.Strings(classes)
	for _, class := range classes {
		values = append(values, perClass[class])
	}
	*dst = append(*dst, stat.Mean(values, nil))
}

func newThumbnailBuckets() map[string][]domain.Thumbnail {
	buckets := make(map[string][]domain.Thumbnail, len(domain.RipenessClasses)+len(domain.ConditionClasses))
	for _, class := range domain.RipenessClasses {
		buckets[class] = []domain.Thumbnail{}
	}
	for _, class := range domain.ConditionClasses {
		buckets[class] = []domain.Thumbnail{}
	}
	return buckets
}

func addThumbnail(buckets map[string][]domain.Thumbnail, pred domain.Prediction) {
	if pred.CropBase64 == "" || !domain.IsKnownClass(pred.ClassName) {
		return
	}
	if len(buckets[pred.ClassName]) >= domain.MaxThumbnailsPerClass {
		return
	}
	buckets[pred.ClassName] = append(buckets[pred.ClassName], domain.Thumbnail{
		CropBase64:      pred.CropBase64,
		Confidence:      fmt.Sprintf("%.1f%%", pred.Confidence*100),
		CalibreRelativo: pred.CalibreRelativo,
	})
}

func buildCharts(totals domain.ClassTotals, s series) domain.StatisticsCharts {
	charts := domain.StatisticsCharts{
		Metrics: domain.Chart{
			Type:   "bar",
			Title:  "Métricas promedio del lote",
			Labels: []string{"% Defectos", "% Fuera calibre", "Calibre medio", "Índice color"},
			Datasets: []domain.ChartDataset{{
				Label: "Valor promedio",
				Data: []float64{
					chartValue(s.porcentajeDefectos),
					chartValue(s.porcentajeFueraCalibre),
					chartValue(s.calibreMedio),
					chartValue(s.indiceColorMedio),
				},
			}},
		},
		RipenessDistribution: domain.Chart{
			Type:   "pie",
			Title:  "Distribución de madurez",
			Labels: []string{"Inmadura", "Poco madura", "Madura"},
			Datasets: []domain.ChartDataset{{
				Label: "Distribución de madurez de frutas",
				Data:  []float64{float64(totals.Inmadura), float64(totals.PocoMadura), float64(totals.Madura)},
			}},
		},
		ConditionDistribution: domain.Chart{
			Type:   "pie",
			Title:  "Distribución de estados",
			Labels: []string{"Buen Estado", "Mal Estado"},
			Datasets: []domain.ChartDataset{{
				Label: "Distribución de estado de frutas",
				Data:  []float64{float64(totals.BuenEstado), float64(totals.MalEstado)},
			}},
		},
	}

	// The per-image line only makes sense when both series line up image by image.
	if len(s.calibreMedio) > 1 && len(s.indiceColorMedio) == len(s.calibreMedio) {
		labels := make([]string, len(s.calibreMedio))
		for i := range labels {
			labels[i] = fmt.Sprintf("Img %d", i+1)
		}
		charts.Evolution = &domain.Chart{
			Type:   "line",
			Title:  "Evolución de calibre y color por imagen",
			Labels: labels,
			Datasets: []domain.ChartDataset{
				{Label: "Calibre medio", Data: slices.Clone(s.calibreMedio)},
				{Label: "Índice color medio", Data: slices.Clone(s.indiceColorMedio)},
			},
		}
	}

	return charts
}

// chartValue is the displayed mean as a number, 0 when not available.
func chartValue(values []float64) float64 {
	v, err := strconv.ParseFloat(FormatMean(values), 64)
	if err != nil {
		return 0
	}
	return v
}
