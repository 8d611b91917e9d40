package normalize

import (
	"time"

	"github.com/blazeintel/havf-core/internal/athlete"
)

// NFLRosterPayload is the shape of one team's NFL roster, as returned by
// either the live provider or its fixture twin.
type NFLRosterPayload struct {
	TeamID   string           `json:"team_id"`
	TeamCode string           `json:"team_code"`
	WinPct   float64          `json:"win_pct"`
	Players  []NFLPlayerPayload `json:"players"`
}

// NFLPlayerPayload is a single roster entry plus the skill-position EPA
// figure HAV-F's NFL branch consumes, alongside the full skill-stat line
// the canonical record carries regardless of whether HAV-F reads it.
type NFLPlayerPayload struct {
	PlayerID        string   `json:"player_id"`
	FullName        string   `json:"full_name"`
	Position        string   `json:"position"`
	BirthDate       string   `json:"birth_date"`
	HeightRaw       string   `json:"height"`
	WeightLb        float64  `json:"weight_lb"`
	College         string   `json:"college"`
	EPA             float64  `json:"epa"`
	RushingYards    float64  `json:"rushing_yards"`
	RushingTDs      float64  `json:"rushing_tds"`
	ReceivingYards  float64  `json:"receiving_yards"`
	ReceivingTDs    float64  `json:"receiving_tds"`
	PassingYards    float64  `json:"passing_yards"`
	PassingTDs      float64  `json:"passing_tds"`
	CompletionPct   float64  `json:"completion_pct"`
	ReactionMs      *float64 `json:"reaction_ms,omitempty"`
	GSRMicrosiemens *float64 `json:"gsr_microsiemens,omitempty"`
	NILValuationUSD *float64 `json:"nil_valuation_usd,omitempty"`
}

// NormalizeNFL maps one team's NFL roster payload into canonical athletes.
func NormalizeNFL(payload NFLRosterPayload, now time.Time) Result {
	var result Result
	result.WinPct = &payload.WinPct

	for i, p := range payload.Players {
		if !requiredFieldsPresent(p.FullName, "NFL", payload.TeamID, p.Position) {
			result.Errors = append(result.Errors, Error{
				RecordIndex: i, Reason: ReasonMissingRequired,
				Detail: "full_name, team_id, or position missing",
			})
			continue
		}

		a := athlete.Athlete{
			PlayerID: PlayerID("NFL", payload.TeamCode, p.PlayerID),
			Name:     p.FullName,
			Sport:    "NFL",
			League:   "NFL",
			TeamID:   payload.TeamID,
			Position: p.Position,
			Bio: &athlete.Bio{
				College: p.College,
			},
			Stats: &athlete.Stats{
				Season: currentSeason(now),
				Performances: map[athlete.Metric]float64{
					"nfl.epa":             p.EPA,
					"nfl.rushing_yards":   p.RushingYards,
					"nfl.rushing_tds":     p.RushingTDs,
					"nfl.receiving_yards": p.ReceivingYards,
					"nfl.receiving_tds":   p.ReceivingTDs,
					"nfl.passing_yards":   p.PassingYards,
					"nfl.passing_tds":     p.PassingTDs,
					"nfl.completion_pct":  p.CompletionPct,
				},
			},
			NILProfile: &athlete.NILProfile{},
			Meta:       newMeta([]string{"nfl-provider"}, now, map[string]string{"provider_player_id": p.PlayerID}),
		}

		if p.BirthDate != "" {
			if dob, err := time.Parse("2006-01-02", p.BirthDate); err == nil {
				a.Bio.DOB = &dob
			}
		}
		if p.HeightRaw != "" {
			if cm, err := athlete.FeetInchesToCM(p.HeightRaw); err == nil {
				a.Bio.HeightCM = &cm
			} else {
				result.Errors = append(result.Errors, Error{RecordIndex: i, Reason: ReasonBadEncoding, Detail: err.Error()})
			}
		}
		if p.WeightLb > 0 {
			kg := athlete.PoundsToKG(p.WeightLb)
			a.Bio.WeightKG = &kg
		}
		if p.ReactionMs != nil || p.GSRMicrosiemens != nil {
			a.Biometrics = &athlete.Biometrics{
				ReactionMs:      p.ReactionMs,
				GSRMicrosiemens: p.GSRMicrosiemens,
			}
		}
		if p.NILValuationUSD != nil {
			a.NILProfile.ValuationUSD = p.NILValuationUSD
		}

		result.Athletes = append(result.Athletes, a)
	}

	return result
}
