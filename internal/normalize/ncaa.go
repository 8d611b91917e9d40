package normalize

import (
	"time"

	"github.com/blazeintel/havf-core/internal/athlete"
)

// NCAARosterPayload is one program's NCAA football roster.
type NCAARosterPayload struct {
	TeamID   string              `json:"team_id"`
	TeamCode string              `json:"team_code"`
	WinPct   float64             `json:"win_pct"`
	Players  []NCAAPlayerPayload `json:"players"`
}

// NCAAPlayerPayload carries both on-field production and recruiting-service
// ratings, since NCAA HAV-F readiness and recruiting trajectory both draw
// from this one payload.
type NCAAPlayerPayload struct {
	PlayerID        string   `json:"player_id"`
	FullName        string   `json:"full_name"`
	Position        string   `json:"position"`
	ClassYear       string   `json:"class_year"`
	BirthDate       string   `json:"birth_date"`
	HeightRaw       string   `json:"height"`
	WeightLb        float64  `json:"weight_lb"`
	TotalYards      float64  `json:"total_yards"`
	TotalTDs        float64  `json:"total_tds"`
	RushingYards    float64  `json:"rushing_yards"`
	RushingTDs      float64  `json:"rushing_tds"`
	ReceivingYards  float64  `json:"receiving_yards"`
	ReceivingTDs    float64  `json:"receiving_tds"`
	PassingYards    float64  `json:"passing_yards"`
	PassingTDs      float64  `json:"passing_tds"`
	CompletionPct   float64  `json:"completion_pct"`
	PasserRating    float64  `json:"passer_rating"`
	Stars           *int     `json:"stars,omitempty"`
	NationalRank    *int     `json:"national_rank,omitempty"`
	NILValuationUSD *float64 `json:"nil_valuation_usd,omitempty"`
	NILFollowers    *int64   `json:"nil_followers,omitempty"`
	SearchIndex     *float64 `json:"search_index,omitempty"`
}

// NormalizeNCAA maps one program's NCAA football roster into canonical
// athletes, sport tag "NCAA-FB" matching the HAV-F performance branch.
func NormalizeNCAA(payload NCAARosterPayload, now time.Time) Result {
	var result Result
	result.WinPct = &payload.WinPct

	for i, p := range payload.Players {
		if !requiredFieldsPresent(p.FullName, "NCAA-FB", payload.TeamID, p.Position) {
			result.Errors = append(result.Errors, Error{
				RecordIndex: i, Reason: ReasonMissingRequired,
				Detail: "full_name, team_id, or position missing",
			})
			continue
		}

		a := athlete.Athlete{
			PlayerID: PlayerID("NCAA", payload.TeamCode, p.PlayerID),
			Name:     p.FullName,
			Sport:    "NCAA-FB",
			League:   "NCAA",
			TeamID:   payload.TeamID,
			Position: p.Position,
			Bio: &athlete.Bio{
				ClassYear: p.ClassYear,
			},
			Stats: &athlete.Stats{
				Season: currentSeason(now),
				Performances: map[athlete.Metric]float64{
					"football.total_yards":      p.TotalYards,
					"football.total_tds":        p.TotalTDs,
					"football.rushing_yards":    p.RushingYards,
					"football.rushing_tds":      p.RushingTDs,
					"football.receiving_yards":  p.ReceivingYards,
					"football.receiving_tds":    p.ReceivingTDs,
					"football.passing_yards":    p.PassingYards,
					"football.passing_tds":      p.PassingTDs,
					"football.completion_pct":   p.CompletionPct,
					"football.passer_rating":    p.PasserRating,
				},
			},
			Recruiting: &athlete.Recruiting{
				Stars:        p.Stars,
				NationalRank: p.NationalRank,
			},
			NILProfile: &athlete.NILProfile{
				ValuationUSD:   p.NILValuationUSD,
				FollowersTotal: p.NILFollowers,
				SearchIndex:    p.SearchIndex,
			},
			Meta: newMeta([]string{"ncaa-provider"}, now, map[string]string{"provider_player_id": p.PlayerID}),
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
