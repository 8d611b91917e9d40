package athlete

// BBox is an axis-aligned bounding box in pixel coordinates: [x1, y1, x2, y2].
type BBox [4]float64

// Detection is a single object found in a frame.
type Detection struct {
	Class      string
	ClassID    int
	Confidence float64
	BBox       BBox
}

// DetectionFrame is one vision worker's output for a single frame (§3.4).
// ChampionshipCompliant must equal LatencyMs <= 33.
type DetectionFrame struct {
	TimestampMs          int64
	WorkerID             string
	Sport                string
	Detections           []Detection
	LatencyMs            float64
	ChampionshipCompliant bool
}

// NewDetectionFrame stamps ChampionshipCompliant from latency so callers
// can't construct an inconsistent frame.
func NewDetectionFrame(timestampMs int64, workerID, sport string, detections []Detection, latencyMs float64) DetectionFrame {
	return DetectionFrame{
		TimestampMs:           timestampMs,
		WorkerID:              workerID,
		Sport:                 sport,
		Detections:            detections,
		LatencyMs:             latencyMs,
		ChampionshipCompliant: latencyMs <= 33,
	}
}
