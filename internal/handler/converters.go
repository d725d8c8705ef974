package handler

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/flybeeper/track-analyzer/internal/analysis"
)

const protobufContentType = "application/x-protobuf"

func wantsProtobuf(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), protobufContentType)
}

// toStruct конвертирует JSON-представление ответа в google.protobuf.Struct
func toStruct(v interface{}) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("response is not a JSON object: %w", err)
	}

	return structpb.NewStruct(fields)
}

func marshalProtobuf(v interface{}) ([]byte, error) {
	st, err := toStruct(v)
	if err != nil {
		return nil, err
	}
	return proto.Marshal(st)
}

// configToJSON плоское представление порогов анализа
func configToJSON(cfg *analysis.Config) map[string]interface{} {
	return map[string]interface{}{
		"filter": map[string]interface{}{
			"level":              cfg.Filter.Level,
			"mad_multiplier":     cfg.Filter.MADMultiplier,
			"max_accel_mps2":     cfg.Filter.MaxAccel,
			"loose_max_accel":    cfg.Filter.LooseMaxAccel,
			"max_decel_mps2":     cfg.Filter.MaxDecel,
			"max_jump_kmh":       cfg.Filter.MaxJump,
			"stop_snap_kmh":      cfg.Filter.StopThreshold,
			"window_size":        cfg.Filter.WindowSize,
			"preserve_delta_kmh": cfg.Filter.PreserveDelta,
			"preserve_below_kmh": cfg.Filter.PreserveBelow,
		},
		"stops": map[string]interface{}{
			"pause_threshold_s":  cfg.Stops.PauseThreshold.Seconds(),
			"traffic_stop_min_s": cfg.Stops.TrafficStopMin.Seconds(),
			"traffic_stop_max_s": cfg.Stops.TrafficStopMax.Seconds(),
			"stop_distance_m":    cfg.Stops.StopDistance,
			"merge_distance_m":   cfg.Stops.MergeDistance,
		},
		"gforce": map[string]interface{}{
			"gravity":     cfg.GForce.Gravity,
			"max_accel_g": cfg.GForce.MaxAccelG,
			"min_decel_g": cfg.GForce.MinDecelG,
		},
	}
}
