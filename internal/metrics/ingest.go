package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// IngestFilesTotal количество разобранных файлов по формату и результату
	IngestFilesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "track_ingest_files_total",
		Help: "Number of parsed track files by format and status",
	}, []string{"format", "status"}) // status: success, error

	// IngestPointsTotal количество принятых точек
	IngestPointsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "track_ingest_points_total",
		Help: "Number of accepted track points",
	}, []string{"format"})

	// IngestDroppedPoints количество отброшенных точек по причине
	IngestDroppedPoints = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "track_ingest_dropped_points_total",
		Help: "Number of dropped track points by reason",
	}, []string{"reason"}) // no_time, invalid_coordinates, not_a_point
)
