// Package stops classifies time gaps in a track into long pauses and short
// traffic-light-like stops.
package stops

import (
	"sort"
	"time"

	"github.com/flybeeper/track-analyzer/internal/geo"
	"github.com/flybeeper/track-analyzer/internal/models"
	"github.com/flybeeper/track-analyzer/pkg/utils"
)

// Config пороги сегментации остановок
type Config struct {
	PauseThreshold   time.Duration `json:"pause_threshold"`   // разрыв больше порога - пауза
	TrafficStopMin   time.Duration `json:"traffic_stop_min"`  // нижняя граница короткой остановки (включительно)
	TrafficStopMax   time.Duration `json:"traffic_stop_max"`  // верхняя граница (включительно)
	StopDistance     float64       `json:"stop_distance_m"`   // смещение меньше порога - стоим на месте
	MergeDistance    float64       `json:"merge_distance_m"`  // радиус объединения коротких остановок
	GeohashPrecision int           `json:"geohash_precision"` // точность geohash для меток событий
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() *Config {
	return &Config{
		PauseThreshold:   3 * time.Minute,
		TrafficStopMin:   10 * time.Second,
		TrafficStopMax:   2 * time.Minute,
		StopDistance:     15,
		MergeDistance:    20,
		GeohashPrecision: 8,
	}
}

// Result результат сегментации
type Result struct {
	Pauses          []models.StopEvent `json:"pauses"`
	TrafficStops    []models.StopEvent `json:"traffic_stops"` // после объединения
	RawTrafficStops int                `json:"raw_traffic_stops"`
}

// PauseTime суммарная длительность пауз в секундах
func (r *Result) PauseTime() float64 {
	return totalDuration(r.Pauses)
}

// TrafficStopTime суммарная длительность объединенных коротких остановок в секундах
func (r *Result) TrafficStopTime() float64 {
	return totalDuration(r.TrafficStops)
}

// All возвращает паузы и остановки, упорядоченные по индексу точки
func (r *Result) All() []models.StopEvent {
	all := make([]models.StopEvent, 0, len(r.Pauses)+len(r.TrafficStops))
	all = append(all, r.Pauses...)
	all = append(all, r.TrafficStops...)
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].PointIndex < all[j].PointIndex
	})
	return all
}

func totalDuration(events []models.StopEvent) float64 {
	total := 0.0
	for _, e := range events {
		total += e.Duration
	}
	return total
}

// Detector выполняет сегментацию остановок
type Detector struct {
	config *Config
	logger *utils.Logger
}

// NewDetector создает детектор остановок
func NewDetector(config *Config, logger *utils.Logger) *Detector {
	return &Detector{
		config: config,
		logger: logger,
	}
}

// Detect проходит по соседним точкам слева направо. Каждый разрыв попадает не
// больше чем в одну категорию: проверка паузы идет первой.
func (d *Detector) Detect(points []models.TrackPoint) *Result {
	result := &Result{
		Pauses:       []models.StopEvent{},
		TrafficStops: []models.StopEvent{},
	}
	if len(points) < 2 {
		return result
	}

	var trafficStops []models.StopEvent

	for i := 1; i < len(points); i++ {
		prev, curr := points[i-1], points[i]
		gap := curr.Timestamp.Sub(prev.Timestamp)

		if gap > d.config.PauseThreshold {
			result.Pauses = append(result.Pauses, d.newEvent(models.StopKindPause, i, prev, curr, gap))
			continue
		}

		if gap >= d.config.TrafficStopMin && gap <= d.config.TrafficStopMax {
			distance := geo.Distance(prev.Position, curr.Position)
			if distance < d.config.StopDistance {
				trafficStops = append(trafficStops, d.newEvent(models.StopKindTrafficStop, i, prev, curr, gap))
			}
		}
	}

	result.RawTrafficStops = len(trafficStops)
	result.TrafficStops = Merge(trafficStops, d.config.MergeDistance)

	d.logger.WithField("points_count", len(points)).
		WithField("pauses", len(result.Pauses)).
		WithField("traffic_stops_raw", result.RawTrafficStops).
		WithField("traffic_stops", len(result.TrafficStops)).
		Debug("Stop segmentation completed")

	return result
}

func (d *Detector) newEvent(kind models.StopKind, index int, prev, curr models.TrackPoint, gap time.Duration) models.StopEvent {
	return models.StopEvent{
		Location:   curr.Position,
		Geohash:    curr.Position.Geohash(d.config.GeohashPrecision),
		Duration:   gap.Seconds(),
		Kind:       kind,
		PointIndex: index,
		StartedAt:  prev.Timestamp,
		Merged:     1,
	}
}

// Merge объединяет события в порядке обнаружения: событие добавляется к первому
// кластеру, чей центр ближе radius метров (длительности суммируются), иначе
// начинает новый кластер. Центр кластера - положение его первого события.
func Merge(events []models.StopEvent, radius float64) []models.StopEvent {
	clusters := make([]models.StopEvent, 0, len(events))
	index := geo.NewClusterIndex(radius, geo.DefaultClusterPrecision)

	for _, event := range events {
		if id := index.Nearest(event.Location); id >= 0 {
			clusters[id].Duration += event.Duration
			clusters[id].Merged += max(event.Merged, 1)
			continue
		}

		if event.Merged == 0 {
			event.Merged = 1
		}
		index.Add(event.Location)
		clusters = append(clusters, event)
	}

	return clusters
}
