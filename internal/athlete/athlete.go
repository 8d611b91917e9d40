// Package athlete defines the canonical athlete and team records every
// provider-specific payload is normalized into, and the HAV-F score
// structure stamped onto each athlete by the scoring engine.
package athlete

import "time"

// Metric is a sport-namespaced performance number, e.g. "mlb.avg" or
// "nfl.rushing_yards". Namespacing keeps the shared Stats container
// type-safe without one struct field per sport.
type Metric string

// Stats holds the season performance numbers the normalizer selected for
// a given sport, keyed by Metric.
type Stats struct {
	Season       string
	Performances map[Metric]float64
}

// Projections carries forward-looking numbers in the same shape as
// Stats, tagged with the model that produced them.
type Projections struct {
	Season       string
	Performances map[Metric]float64
	Model        string
}

// Bio holds biographical fields. Every field is optional; a nil pointer
// (or an empty string for the string fields) means the provider never
// supplied it.
type Bio struct {
	DOB        *time.Time
	Birthplace string
	HeightCM   *Centimeters
	WeightKG   *Kilograms
	Handedness string
	ClassYear  string
	College    string
}

// NILProfile carries Name-Image-Likeness commercial metrics. All fields
// are optional; absent fields are nil, never zero.
type NILProfile struct {
	ValuationUSD          *float64
	EngagementRate        *float64
	FollowersTotal        *int64
	DealsLast90d          *int
	DealValue90dUSD       *float64
	SearchIndex           *float64
	LocalPopularityIndex  *float64
}

// IsEmpty reports whether every field of the profile is absent — the
// "all-null nil_profile" case the HAV-F engine treats as a present-but-
// uninformative structure (§4.5 NIL Trust default).
func (p *NILProfile) IsEmpty() bool {
	if p == nil {
		return true
	}
	return p.ValuationUSD == nil && p.EngagementRate == nil && p.FollowersTotal == nil &&
		p.DealsLast90d == nil && p.DealValue90dUSD == nil && p.SearchIndex == nil &&
		p.LocalPopularityIndex == nil
}

// Biometrics carries real-time physiological readings. All fields are
// optional.
type Biometrics struct {
	HRVRMSSDMs     *float64
	ReactionMs     *float64
	GSRMicrosiemens *float64
	SleepHours     *float64
}

// IsEmpty reports whether every biometric field is absent.
func (b *Biometrics) IsEmpty() bool {
	if b == nil {
		return true
	}
	return b.HRVRMSSDMs == nil && b.ReactionMs == nil && b.GSRMicrosiemens == nil && b.SleepHours == nil
}

// HavF is the three-part composite score. A nil field is the
// distinguished absent sentinel (I5) — never 0, never omitted silently.
type HavF struct {
	ChampionReadiness *float64
	CognitiveLeverage *float64
	NILTrustScore     *float64
	CompositeScore    *float64
	LastComputedAt    time.Time
}

// InjuryStatus carries the athlete's current medical standing.
type InjuryStatus struct {
	CurrentStatus string
	Since         *time.Time
	Notes         string
}

// Recruiting carries HS/NCAA recruiting-service ratings.
type Recruiting struct {
	Stars         *int
	NationalRank  *int
	PositionRank  *int
}

// Meta carries provenance required on every persisted record (§6.5):
// an ordered, non-empty Sources list and a monotonic UpdatedAt.
type Meta struct {
	Sources     []string
	UpdatedAt   time.Time
	ExternalIDs map[string]string
}

// Athlete is the canonical record every provider payload is normalized
// into (§3.1). player_id format: <LEAGUE>-<TEAM_CODE>-<8-char hash>.
type Athlete struct {
	PlayerID     string
	Name         string
	Sport        string
	League       string
	TeamID       string
	Position     string
	JerseyNumber string

	Bio         *Bio
	Stats       *Stats
	Projections *Projections
	NILProfile  *NILProfile
	Biometrics  *Biometrics

	HavF HavF

	InjuryStatus *InjuryStatus
	Recruiting   *Recruiting

	Meta Meta
}
