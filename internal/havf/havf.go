// Package havf computes the HAV-F composite score: champion readiness,
// cognitive leverage, and NIL trust, each clamped to [0, 100], combined
// into a weighted composite. Every function here is a pure function of
// its Athlete input plus an injected Clock for LastComputedAt — no
// wall-clock reads, no PRNG, no iteration-order dependency, so that two
// runs over identical input produce bit-identical scores (§4.5,
// Testable Property 3).
package havf

import (
	"math"
	"time"

	"github.com/blazeintel/havf-core/internal/athlete"
	"github.com/blazeintel/havf-core/internal/clock"
)

// clamp rounds x to one decimal place and bounds it to [0, 100].
func clamp(x float64) float64 {
	if x < 0 {
		x = 0
	}
	if x > 100 {
		x = 100
	}
	return math.Round(x*10) / 10
}

func ptr(v float64) *float64 { return &v }

// Compute returns the athlete's HavF scores; the caller stores the
// result on the record. Inputs are read, never mutated.
func Compute(a *athlete.Athlete, c clock.Clock) athlete.HavF {
	now := c.Now()
	champion := computeChampionReadiness(a, now)
	cognitive := computeCognitiveLeverage(a)
	nilTrust := computeNILTrust(a)

	result := athlete.HavF{
		ChampionReadiness: champion,
		CognitiveLeverage: cognitive,
		NILTrustScore:     nilTrust,
		LastComputedAt:    now,
	}

	if champion != nil && cognitive != nil && nilTrust != nil {
		composite := 0.40*(*champion) + 0.35*(*cognitive) + 0.25*(*nilTrust)
		result.CompositeScore = ptr(clamp(composite))
	}

	return result
}

// computeChampionReadiness implements score = 0.5*performance +
// 0.4*physical + 0.1*trajectory. Always populated when the athlete's
// sport is known (an empty Sport is the only absent case; every
// ingestion agent sets Sport, so in practice this never returns nil).
func computeChampionReadiness(a *athlete.Athlete, now time.Time) *float64 {
	if a.Sport == "" {
		return nil
	}

	perf := performanceScore(a)
	phys := physicalScore(a.Biometrics)
	traj := trajectoryScore(a.Bio, now)

	return ptr(clamp(0.5*perf + 0.4*phys + 0.1*traj))
}

func performanceScore(a *athlete.Athlete) float64 {
	if a.Stats == nil || len(a.Stats.Performances) == 0 {
		return 50.0
	}

	perfs := a.Stats.Performances
	switch a.Sport {
	case "MLB":
		war := perfs["mlb.war"]
		wpa := perfs["mlb.wpa"]
		return clamp(30*war + 200*wpa + 30)
	case "NFL":
		epa := perfs["nfl.epa"]
		return clamp(50 + 2*epa)
	case "NCAA-FB", "HS-FB":
		yards := perfs["football.total_yards"]
		tds := perfs["football.total_tds"]
		return clamp(yards/100 + 5*tds)
	default:
		return 50.0
	}
}

func physicalScore(b *athlete.Biometrics) float64 {
	if b.IsEmpty() {
		return 50.0
	}

	var scores []float64
	if b.HRVRMSSDMs != nil {
		scores = append(scores, clamp((*b.HRVRMSSDMs-20)*1.25))
	}
	if b.ReactionMs != nil {
		scores = append(scores, clamp(100-(*b.ReactionMs-150)*0.5))
	}
	if b.GSRMicrosiemens != nil {
		scores = append(scores, clamp(100-(*b.GSRMicrosiemens-2)*10))
	}
	if b.SleepHours != nil {
		if *b.SleepHours >= 7 && *b.SleepHours <= 9 {
			scores = append(scores, 100.0)
		} else {
			scores = append(scores, clamp(100-20*math.Abs(8-*b.SleepHours)))
		}
	}

	if len(scores) == 0 {
		return 50.0
	}
	return mean(scores)
}

func trajectoryScore(bio *athlete.Bio, now time.Time) float64 {
	if bio == nil || bio.DOB == nil {
		return 50.0
	}

	age := ageInYears(*bio.DOB, now)

	switch {
	case age >= 24 && age <= 28:
		return 90
	case age >= 20 && age < 24:
		return 70 + (age-20)*5
	case age > 28 && age <= 35:
		return 90 - (age-28)*5
	default:
		return 50
	}
}

// computeCognitiveLeverage implements score = 0.6*neural_efficiency +
// 0.4*composure. A missing Biometrics structure gets the 25.0 sentinel
// (low confidence, not "no data"); a present Biometrics struct with
// every field null returns nil, since there's nothing to score at all.
func computeCognitiveLeverage(a *athlete.Athlete) *float64 {
	if a.Biometrics == nil {
		return ptr(25.0)
	}

	neural, neuralHasData := neuralEfficiency(a.Biometrics)
	composure, composureHasData := composureScore(a.Biometrics)
	if !neuralHasData && !composureHasData {
		return nil
	}

	return ptr(clamp(0.6*neural + 0.4*composure))
}

func neuralEfficiency(b *athlete.Biometrics) (score float64, hasData bool) {
	if b.ReactionMs == nil {
		return 50.0, false
	}
	return clamp(100 - (*b.ReactionMs - 150)), true
}

func composureScore(b *athlete.Biometrics) (score float64, hasData bool) {
	var scores []float64
	if b.HRVRMSSDMs != nil {
		scores = append(scores, clamp((*b.HRVRMSSDMs-20)*1.25))
		hasData = true
	}
	if b.GSRMicrosiemens != nil {
		scores = append(scores, clamp(100-(*b.GSRMicrosiemens-2)*10))
		hasData = true
	}
	if len(scores) == 0 {
		return 50.0, hasData
	}
	return mean(scores), hasData
}

// computeNILTrust implements score = 0.6*authenticity + 0.25*velocity +
// 0.15*salience, defaulting to 15.0 when nil_profile is absent or every
// field within it is null.
func computeNILTrust(a *athlete.Athlete) *float64 {
	if a.NILProfile.IsEmpty() {
		return ptr(15.0)
	}

	authenticity := authenticityScore(a.NILProfile)
	velocity := velocityScore(a.NILProfile)
	salience := salienceScore(a.NILProfile)

	return ptr(clamp(0.6*authenticity + 0.25*velocity + 0.15*salience))
}

func authenticityScore(p *athlete.NILProfile) float64 {
	if p.EngagementRate == nil {
		return 50.0
	}
	return clamp(*p.EngagementRate * 2000)
}

func velocityScore(p *athlete.NILProfile) float64 {
	var scores []float64
	if p.DealsLast90d != nil {
		scores = append(scores, clamp(float64(*p.DealsLast90d)*10))
	}
	if p.DealValue90dUSD != nil {
		scores = append(scores, clamp(*p.DealValue90dUSD/1000))
	}
	if len(scores) == 0 {
		return 50.0
	}
	return mean(scores)
}

func salienceScore(p *athlete.NILProfile) float64 {
	var scores []float64
	if p.SearchIndex != nil {
		scores = append(scores, clamp(*p.SearchIndex))
	}
	if p.LocalPopularityIndex != nil {
		scores = append(scores, clamp(*p.LocalPopularityIndex))
	}
	if len(scores) == 0 {
		return 50.0
	}
	return mean(scores)
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func ageInYears(dob, now time.Time) float64 {
	return now.Sub(dob).Hours() / 24 / 365.25
}
