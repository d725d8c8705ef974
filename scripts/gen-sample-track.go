package main

import (
	"flag"
	"log"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/tkrajina/gpxgo/gpx"
)

// Конфигурация генерируемого трека
type TrackConfig struct {
	Name         string
	Duration     time.Duration
	Interval     time.Duration
	RandomSeed   int64
	StartLat     float64
	StartLon     float64
	CruiseSpeed  float64 // км/ч
	TrafficStops int     // Количество остановок на светофорах
	PauseAfter   time.Duration
	PauseLength  time.Duration
	SpikeEvery   int // Каждая N-я точка смещается (выброс GPS), 0 - без выбросов
}

// RideSimulator симулирует поездку по городу
type RideSimulator struct {
	config  *TrackConfig
	rand    *rand.Rand
	lat     float64
	lon     float64
	ele     float64
	speed   float64 // км/ч
	heading float64 // радианы
}

func main() {
	// Параметры командной строки
	var (
		output      = flag.String("out", "sample.gpx", "Output GPX file")
		name        = flag.String("name", "Sample ride", "Track name")
		duration    = flag.Duration("duration", 30*time.Minute, "Ride duration")
		interval    = flag.Duration("interval", time.Second, "Sampling interval")
		seed        = flag.Int64("seed", time.Now().UnixNano(), "Random seed")
		lat         = flag.Float64("lat", -6.2, "Start latitude")
		lon         = flag.Float64("lon", 106.8166, "Start longitude")
		speed       = flag.Float64("speed", 40.0, "Cruise speed km/h")
		stops       = flag.Int("stops", 4, "Traffic stops")
		pauseAfter  = flag.Duration("pause-after", 15*time.Minute, "Start of the long pause (0 = none)")
		pauseLength = flag.Duration("pause", 5*time.Minute, "Long pause length")
		spikeEvery  = flag.Int("spike-every", 200, "Inject a GPS spike every N points (0 = none)")
	)
	flag.Parse()

	cfg := &TrackConfig{
		Name:         *name,
		Duration:     *duration,
		Interval:     *interval,
		RandomSeed:   *seed,
		StartLat:     *lat,
		StartLon:     *lon,
		CruiseSpeed:  *speed,
		TrafficStops: *stops,
		PauseAfter:   *pauseAfter,
		PauseLength:  *pauseLength,
		SpikeEvery:   *spikeEvery,
	}

	sim := NewRideSimulator(cfg)
	doc := sim.Generate(time.Now().UTC().Truncate(time.Second))

	data, err := doc.ToXml(gpx.ToXmlParams{Version: "1.1", Indent: true})
	if err != nil {
		log.Fatalf("Failed to encode GPX: %v", err)
	}
	if err := os.WriteFile(*output, data, 0o644); err != nil {
		log.Fatalf("Failed to write %s: %v", *output, err)
	}

	log.Printf("Wrote %d points to %s (seed %d)", doc.GetTrackPointsNo(), *output, cfg.RandomSeed)
}

// NewRideSimulator создает симулятор
func NewRideSimulator(cfg *TrackConfig) *RideSimulator {
	r := rand.New(rand.NewSource(cfg.RandomSeed))
	return &RideSimulator{
		config:  cfg,
		rand:    r,
		lat:     cfg.StartLat,
		lon:     cfg.StartLon,
		ele:     20 + r.Float64()*30,
		heading: r.Float64() * 2 * math.Pi,
	}
}

// Generate строит GPX документ с одним треком
func (s *RideSimulator) Generate(start time.Time) *gpx.GPX {
	steps := int(s.config.Duration / s.config.Interval)

	// Моменты остановок на светофорах распределяем равномерно
	stopAt := make(map[int]time.Duration)
	for i := 1; i <= s.config.TrafficStops; i++ {
		stopAt[steps*i/(s.config.TrafficStops+1)] = time.Duration(15+s.rand.Intn(90)) * time.Second
	}
	pauseStep := -1
	if s.config.PauseAfter > 0 {
		pauseStep = int(s.config.PauseAfter / s.config.Interval)
	}

	seg := gpx.GPXTrackSegment{}
	now := start
	for i := 0; i < steps; i++ {
		switch {
		case i == pauseStep:
			now = now.Add(s.config.PauseLength)
			s.speed = 0
		case stopAt[i] > 0:
			now = now.Add(stopAt[i])
			s.speed = 0
		default:
			now = now.Add(s.config.Interval)
			s.move()
		}

		lat, lon := s.lat, s.lon
		if s.config.SpikeEvery > 0 && i > 0 && i%s.config.SpikeEvery == 0 {
			lat += (s.rand.Float64() - 0.5) * 0.002 // ~100 м
			lon += (s.rand.Float64() - 0.5) * 0.002
		}

		seg.Points = append(seg.Points, gpx.GPXPoint{
			Point: gpx.Point{
				Latitude:  lat,
				Longitude: lon,
				Elevation: *gpx.NewNullableFloat64(math.Round(s.ele*10) / 10),
			},
			Timestamp: now,
		})
	}

	return &gpx.GPX{
		Version: "1.1",
		Creator: "track-analyzer gen-sample-track",
		Name:    s.config.Name,
		Tracks: []gpx.GPXTrack{{
			Name:     s.config.Name,
			Segments: []gpx.GPXTrackSegment{seg},
		}},
	}
}

// move сдвигает позицию на один интервал с плавным изменением скорости и курса
func (s *RideSimulator) move() {
	target := s.config.CruiseSpeed * (0.8 + s.rand.Float64()*0.4)
	s.speed += math.Max(-5, math.Min(5, target-s.speed)) // не больше 5 км/ч за шаг
	s.heading += (s.rand.Float64() - 0.5) * 0.1
	s.ele += (s.rand.Float64() - 0.5) * 0.5

	meters := s.speed / 3.6 * s.config.Interval.Seconds()
	s.lat += meters * math.Cos(s.heading) / 111195
	s.lon += meters * math.Sin(s.heading) / (111195 * math.Cos(s.lat*math.Pi/180))
}
