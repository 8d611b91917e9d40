package athlete

import "time"

// ReadinessStatus bands a team's readiness score (§3.3).
type ReadinessStatus string

const (
	ReadinessReady   ReadinessStatus = "ready"
	ReadinessMonitor ReadinessStatus = "monitor"
	ReadinessCaution ReadinessStatus = "caution"
)

// Band classifies a readiness score per the declared thresholds:
// ready >= 75, monitor in [50, 75), caution < 50.
func Band(score float64) ReadinessStatus {
	switch {
	case score >= 75:
		return ReadinessReady
	case score >= 50:
		return ReadinessMonitor
	default:
		return ReadinessCaution
	}
}

// Readiness is one team's rollup for a given run.
type Readiness struct {
	TeamID         string
	League         string
	ReadinessScore float64
	Status         ReadinessStatus
	PlayersCount   int
	StarsCount     int
	ComputedAt     time.Time
}
