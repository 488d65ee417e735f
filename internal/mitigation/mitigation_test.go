package mitigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathwatch-data/hallway.report/internal/detect"
)

func hazard(class, category string, conf float64) detect.Detection {
	return detect.Detection{
		ClassName:       class,
		SafetyCategory:  category,
		Confidence:      conf,
		PotentialHazard: true,
	}
}

func types(strategies []Strategy) []string {
	out := make([]string, len(strategies))
	for i, s := range strategies {
		out[i] = s.Type
	}
	return out
}

func TestSynthesizeVehicleBucket(t *testing.T) {
	got := Synthesize([]detect.Detection{hazard("car", "vehicle", 0.5)}, false, false)

	require.Len(t, got, 1)
	s := got[0]
	assert.Equal(t, "vehicle_parking_violation", s.Type)
	assert.Equal(t, "critical", s.Severity)
	assert.Equal(t, "immediate", s.Urgency)
	assert.Equal(t, "Detected 1 vehicle(s): car (conf: 0.50)", s.Description)
	assert.NotEmpty(t, s.Compliance)
}

func TestSynthesizeOneRecordPerNonEmptyBucket(t *testing.T) {
	detections := []detect.Detection{
		hazard("car", "vehicle", 0.9),
		hazard("truck", "vehicle", 0.8),
		hazard("chair", "furniture", 0.7),
		hazard("backpack", "personal", 0.6),
		hazard("box", "container", 0.5),
		hazard("bottle", "obstacle", 0.4),
		hazard("computer monitor", "equipment", 0.4),
		hazard("person", "person", 0.9),
		hazard("sculpture", "other", 0.5),
	}

	got := Synthesize(detections, false, false)
	assert.Equal(t, []string{
		"vehicle_parking_violation",
		"furniture_obstruction",
		"personal_belongings_management",
		"container_storage_violation",
		"trip_hazard_elimination",
		"equipment_placement_violation",
		"personnel_safety_training",
		"unclassified_hazard_review",
	}, types(got))

	// Two vehicles collapse into the single vehicle record.
	assert.Contains(t, got[0].Description, "Detected 2 vehicle(s)")
}

func TestSynthesizeIgnoresNonHazards(t *testing.T) {
	benign := detect.Detection{ClassName: "car", SafetyCategory: "vehicle", Confidence: 0.9, PotentialHazard: false}
	got := Synthesize([]detect.Detection{benign}, false, false)

	assert.Equal(t, []string{"preventive_maintenance"}, types(got))
}

func TestSynthesizeFlagRecords(t *testing.T) {
	t.Run("parking flag", func(t *testing.T) {
		got := Synthesize(nil, true, false)
		assert.Equal(t, []string{"ai_detected_parking_violation"}, types(got))
		assert.Equal(t, "critical", got[0].Severity)
	})

	t.Run("waste flag", func(t *testing.T) {
		got := Synthesize(nil, false, true)
		assert.Equal(t, []string{"ai_detected_waste_debris"}, types(got))
	})

	t.Run("flags follow buckets", func(t *testing.T) {
		got := Synthesize([]detect.Detection{hazard("car", "vehicle", 0.5)}, true, true)
		assert.Equal(t, []string{
			"vehicle_parking_violation",
			"ai_detected_parking_violation",
			"ai_detected_waste_debris",
		}, types(got))
	})
}

func TestSynthesizeFallbackIsExclusive(t *testing.T) {
	t.Run("empty run", func(t *testing.T) {
		got := Synthesize(nil, false, false)
		assert.Equal(t, []string{"preventive_maintenance"}, types(got))
	})

	t.Run("never alongside buckets", func(t *testing.T) {
		got := Synthesize([]detect.Detection{hazard("ladder", "obstacle", 0.5)}, false, false)
		for _, s := range got {
			assert.NotEqual(t, "preventive_maintenance", s.Type)
		}
	})
}

func TestBucketFor(t *testing.T) {
	tests := []struct {
		class    string
		category string
		want     string
	}{
		{"car", "vehicle", bucketVehicles},
		{"bicycle", "", bucketVehicles},
		{"person", "person", bucketPeople},
		{"dining table", "", bucketFurniture},
		{"suitcase", "", bucketPersonalItems},
		{"storage box", "", bucketContainers},
		{"water bottle", "", bucketTripHazards},
		{"printer", "", bucketEquipment},
		{"ladder", "", bucketOther},
	}
	for _, tt := range tests {
		d := detect.Detection{ClassName: tt.class, SafetyCategory: tt.category}
		if got := bucketFor(d); got != tt.want {
			t.Errorf("bucketFor(%q/%q) = %q, want %q", tt.class, tt.category, got, tt.want)
		}
	}
}
