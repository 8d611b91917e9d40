package athlete

import "testing"

func TestNewDetectionFrame_ChampionshipCompliance(t *testing.T) {
	cases := []struct {
		name      string
		latencyMs float64
		want      bool
	}{
		{"well under budget", 10, true},
		{"exactly at budget", 33, true},
		{"just over budget", 33.1, false},
		{"far over budget", 100, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			frame := NewDetectionFrame(0, "worker-0", "baseball", nil, tc.latencyMs)
			if frame.ChampionshipCompliant != tc.want {
				t.Errorf("latency %v: ChampionshipCompliant = %v, want %v", tc.latencyMs, frame.ChampionshipCompliant, tc.want)
			}
		})
	}
}

func TestNewDetectionFrame_FieldsPreserved(t *testing.T) {
	dets := []Detection{{Class: "person", ClassID: 0, Confidence: 0.9, BBox: BBox{0, 0, 10, 10}}}
	frame := NewDetectionFrame(12345, "worker-2", "football", dets, 15)

	if frame.TimestampMs != 12345 {
		t.Errorf("TimestampMs = %d", frame.TimestampMs)
	}
	if frame.WorkerID != "worker-2" {
		t.Errorf("WorkerID = %q", frame.WorkerID)
	}
	if frame.Sport != "football" {
		t.Errorf("Sport = %q", frame.Sport)
	}
	if len(frame.Detections) != 1 {
		t.Errorf("expected 1 detection, got %d", len(frame.Detections))
	}
}

func TestBand(t *testing.T) {
	cases := []struct {
		score float64
		want  ReadinessStatus
	}{
		{90, ReadinessReady},
		{75, ReadinessReady},
		{74.9, ReadinessMonitor},
		{50, ReadinessMonitor},
		{49.9, ReadinessCaution},
		{0, ReadinessCaution},
	}

	for _, tc := range cases {
		if got := Band(tc.score); got != tc.want {
			t.Errorf("Band(%v) = %v, want %v", tc.score, got, tc.want)
		}
	}
}
