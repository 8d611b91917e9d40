package normalize

import (
	"time"

	"github.com/blazeintel/havf-core/internal/athlete"
)

// HSRosterPayload is one high school program's football roster. HS shares
// the NCAA-FB performance formula (sport tag "HS-FB") since the HAV-F
// branch is keyed on total yards/TDs regardless of level of play.
type HSRosterPayload struct {
	TeamID   string            `json:"team_id"`
	TeamCode string            `json:"team_code"`
	Players  []HSPlayerPayload `json:"players"`
}

type HSPlayerPayload struct {
	PlayerID     string  `json:"player_id"`
	FullName     string  `json:"full_name"`
	Position     string  `json:"position"`
	ClassYear    string  `json:"class_year"`
	BirthDate    string  `json:"birth_date"`
	HeightRaw    string  `json:"height"`
	WeightLb     float64 `json:"weight_lb"`
	TotalYards   float64 `json:"total_yards"`
	TotalTDs     float64 `json:"total_tds"`
	Stars        *int    `json:"stars,omitempty"`
	PositionRank *int    `json:"position_rank,omitempty"`
}

// NormalizeHS maps one program's HS football roster into canonical athletes.
func NormalizeHS(payload HSRosterPayload, now time.Time) Result {
	var result Result

	for i, p := range payload.Players {
		if !requiredFieldsPresent(p.FullName, "HS-FB", payload.TeamID, p.Position) {
			result.Errors = append(result.Errors, Error{
				RecordIndex: i, Reason: ReasonMissingRequired,
				Detail: "full_name, team_id, or position missing",
			})
			continue
		}

		a := athlete.Athlete{
			PlayerID: PlayerID("HS", payload.TeamCode, p.PlayerID),
			Name:     p.FullName,
			Sport:    "HS-FB",
			League:   "HS",
			TeamID:   payload.TeamID,
			Position: p.Position,
			Bio: &athlete.Bio{
				ClassYear: p.ClassYear,
			},
			Stats: &athlete.Stats{
				Season: currentSeason(now),
				Performances: map[athlete.Metric]float64{
					"football.total_yards": p.TotalYards,
					"football.total_tds":   p.TotalTDs,
				},
			},
			Recruiting: &athlete.Recruiting{
				Stars:        p.Stars,
				PositionRank: p.PositionRank,
			},
			NILProfile: &athlete.NILProfile{},
			Meta:       newMeta([]string{"hs-recruiting-provider"}, now, map[string]string{"provider_player_id": p.PlayerID}),
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

		result.Athletes = append(result.Athletes, a)
	}

	return result
}
