package normalize

import (
	"time"

	"github.com/blazeintel/havf-core/internal/athlete"
)

// NBARosterPayload is one team's NBA roster.
type NBARosterPayload struct {
	TeamID   string             `json:"team_id"`
	TeamCode string             `json:"team_code"`
	WinPct   float64            `json:"win_pct"`
	Players  []NBAPlayerPayload `json:"players"`
}

// NBAPlayerPayload carries the box-score production line; HAV-F has no
// dedicated NBA performance branch yet, so performanceScore falls back to
// the documented 50.0 default and physical/trajectory still apply.
type NBAPlayerPayload struct {
	PlayerID          string   `json:"player_id"`
	FullName          string   `json:"full_name"`
	Position          string   `json:"position"`
	BirthDate         string   `json:"birth_date"`
	HeightRaw         string   `json:"height"`
	WeightLb          float64  `json:"weight_lb"`
	PointsPerGame     float64  `json:"points_per_game"`
	ReboundsPerGame   float64  `json:"rebounds_per_game"`
	AssistsPerGame    float64  `json:"assists_per_game"`
	FieldGoalPct      float64  `json:"field_goal_pct"`
	ThreePointPct     float64  `json:"three_point_pct"`
	FreeThrowPct      float64  `json:"free_throw_pct"`
	MinutesPerGame    float64  `json:"minutes_per_game"`
	GamesPlayed       float64  `json:"games_played"`
	SleepHours        *float64 `json:"sleep_hours,omitempty"`
	ReactionMs        *float64 `json:"reaction_ms,omitempty"`
}

// NormalizeNBA maps one team's NBA roster into canonical athletes.
func NormalizeNBA(payload NBARosterPayload, now time.Time) Result {
	var result Result
	result.WinPct = &payload.WinPct

	for i, p := range payload.Players {
		if !requiredFieldsPresent(p.FullName, "NBA", payload.TeamID, p.Position) {
			result.Errors = append(result.Errors, Error{
				RecordIndex: i, Reason: ReasonMissingRequired,
				Detail: "full_name, team_id, or position missing",
			})
			continue
		}

		a := athlete.Athlete{
			PlayerID: PlayerID("NBA", payload.TeamCode, p.PlayerID),
			Name:     p.FullName,
			Sport:    "NBA",
			League:   "NBA",
			TeamID:   payload.TeamID,
			Position: p.Position,
			Bio:      &athlete.Bio{},
			Stats: &athlete.Stats{
				Season: currentSeason(now),
				Performances: map[athlete.Metric]float64{
					"nba.points_per_game":   p.PointsPerGame,
					"nba.rebounds_per_game": p.ReboundsPerGame,
					"nba.assists_per_game":  p.AssistsPerGame,
					"nba.field_goal_pct":    p.FieldGoalPct,
					"nba.three_point_pct":   p.ThreePointPct,
					"nba.free_throw_pct":    p.FreeThrowPct,
					"nba.minutes_per_game":  p.MinutesPerGame,
					"nba.games_played":      p.GamesPlayed,
				},
			},
			NILProfile: &athlete.NILProfile{},
			Meta:       newMeta([]string{"nba-provider"}, now, map[string]string{"provider_player_id": p.PlayerID}),
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
		if p.SleepHours != nil || p.ReactionMs != nil {
			a.Biometrics = &athlete.Biometrics{
				SleepHours: p.SleepHours,
				ReactionMs: p.ReactionMs,
			}
		}

		result.Athletes = append(result.Athletes, a)
	}

	return result
}
