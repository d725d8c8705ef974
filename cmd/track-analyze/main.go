package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/flybeeper/track-analyzer/internal/analysis"
	"github.com/flybeeper/track-analyzer/internal/config"
	"github.com/flybeeper/track-analyzer/internal/ingest"
	"github.com/flybeeper/track-analyzer/internal/models"
	"github.com/flybeeper/track-analyzer/pkg/utils"
)

func main() {
	var (
		output   = flag.String("format", "text", "Output format: json or text")
		workers  = flag.Int("workers", 4, "Parallel analyses")
		level    = flag.Int("level", 0, "Filter chain level 1-3 (0 = from environment)")
		logLevel = flag.String("log-level", "warn", "Log level")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] track.gpx [track.geojson ...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	logger := utils.NewLogger(*logLevel, "text")
	utils.SetDefaultLogger(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load config")
	}
	if *level != 0 {
		cfg.Analysis.FilterLevel = *level
		if err := cfg.Validate(); err != nil {
			logger.WithError(err).Fatal("Invalid filter level")
		}
	}

	parser := ingest.NewParser(logger)
	tracks := make([]*models.Track, 0, flag.NArg())
	for _, path := range flag.Args() {
		track, err := parser.ParseFile(path)
		if err != nil {
			logger.WithError(err).WithField("file", path).Fatal("Failed to read track")
		}
		tracks = append(tracks, track)
	}

	analyzer := analysis.NewAnalyzer(cfg.Analysis.AnalyzerConfig(), logger)
	results, err := analyzer.AnalyzeBatch(context.Background(), tracks, *workers)
	if err != nil {
		logger.WithError(err).Fatal("Analysis failed")
	}

	switch *output {
	case "json":
		err = writeJSON(os.Stdout, results)
	case "text":
		for i, r := range results {
			if i > 0 {
				fmt.Fprintln(os.Stdout)
			}
			writeText(os.Stdout, r)
		}
	default:
		logger.WithField("format", *output).Fatal("Unknown output format")
	}
	if err != nil {
		logger.WithError(err).Fatal("Failed to write output")
	}
}

func writeJSON(w io.Writer, results []*analysis.Result) error {
	reports := make([]*analysis.Report, len(results))
	for i, r := range results {
		reports[i] = analysis.NewReport(r)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if len(reports) == 1 {
		return enc.Encode(reports[0])
	}
	return enc.Encode(reports)
}

func writeText(w io.Writer, r *analysis.Result) {
	s := r.Summary

	fmt.Fprintf(w, "Track:          %s (%d points)\n", r.Name, r.PointsCount)
	if r.PointsCount < 2 {
		fmt.Fprintln(w, "Not enough points for analysis")
		return
	}
	fmt.Fprintf(w, "Start:          %s\n", s.StartTime.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(w, "Finish:         %s\n", s.EndTime.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(w, "Total time:     %s\n", analysis.FormatDuration(s.TotalTime))
	fmt.Fprintf(w, "Moving time:    %s\n", analysis.FormatDuration(s.MovingTime))
	fmt.Fprintf(w, "Distance:       %.2f km\n", s.TotalDistanceKm)
	fmt.Fprintf(w, "Average speed:  %s\n", formatSpeed(s.AverageSpeed))
	fmt.Fprintf(w, "Top speed:      %.1f km/h\n", s.TopSpeed)
	fmt.Fprintf(w, "Min speed:      %.1f km/h\n", s.MinSpeed)
	if s.HasElevation {
		fmt.Fprintf(w, "Elevation:      %.1f m (ascent %.1f m)\n", s.TotalElevationGain, s.TotalAscent)
	}
	fmt.Fprintf(w, "Peak accel:     %.2f g\n", s.GForce.PeakAccelG)
	fmt.Fprintf(w, "Peak braking:   %.2f g\n", s.GForce.PeakDecelG)

	for _, stop := range r.Stops {
		label := "Pause"
		if stop.Kind == models.StopKindTrafficStop {
			label = "Traffic stop"
		}
		fmt.Fprintf(w, "  %-13s %s at %.5f,%.5f\n", label+":", analysis.FormatDuration(stop.Duration),
			stop.Location.Latitude, stop.Location.Longitude)
	}

	if len(r.Diagnostics) > 0 {
		kinds := make(map[models.DiagnosticKind]int)
		for _, d := range r.Diagnostics {
			kinds[d.Kind]++
		}
		parts := make([]string, 0, len(kinds))
		for kind, n := range kinds {
			parts = append(parts, fmt.Sprintf("%s=%d", kind, n))
		}
		sort.Strings(parts)
		fmt.Fprintf(w, "Diagnostics:    %s\n", strings.Join(parts, " "))
	}
}

func formatSpeed(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return fmt.Sprintf("%.1f km/h", v)
}
