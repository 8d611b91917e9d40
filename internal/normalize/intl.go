package normalize

import (
	"time"

	"github.com/blazeintel/havf-core/internal/athlete"
)

// InternationalRosterPayload covers international prospects tracked
// outside the US league structures (NPB/KBO baseball, international
// basketball academies). Sport carries the originating discipline so
// HAV-F can route MLB-shaped performance through the same branch when
// applicable, falling back to the unmodeled-sport default otherwise.
type InternationalRosterPayload struct {
	TeamID   string                         `json:"team_id"`
	TeamCode string                         `json:"team_code"`
	Players  []InternationalPlayerPayload `json:"players"`
}

type InternationalPlayerPayload struct {
	PlayerID    string   `json:"player_id"`
	FullName    string   `json:"full_name"`
	Sport       string   `json:"sport"`
	Position    string   `json:"position"`
	Birthplace  string   `json:"birthplace"`
	BirthDate   string   `json:"birth_date"`
	HeightRaw   string   `json:"height"`
	WeightLb    float64  `json:"weight_lb"`
	WAR         *float64 `json:"war,omitempty"`
	WPA         *float64 `json:"wpa,omitempty"`
	ThrowMPH    *float64 `json:"throw_mph,omitempty"`
}

// NormalizeInternational maps one club's international prospect payload
// into canonical athletes.
func NormalizeInternational(payload InternationalRosterPayload, now time.Time) Result {
	var result Result

	for i, p := range payload.Players {
		sport := p.Sport
		if sport == "" {
			sport = "INTL"
		}

		if !requiredFieldsPresent(p.FullName, sport, payload.TeamID, p.Position) {
			result.Errors = append(result.Errors, Error{
				RecordIndex: i, Reason: ReasonMissingRequired,
				Detail: "full_name, team_id, or position missing",
			})
			continue
		}

		a := athlete.Athlete{
			PlayerID: PlayerID("INTL", payload.TeamCode, p.PlayerID),
			Name:     p.FullName,
			Sport:    sport,
			League:   "INTL",
			TeamID:   payload.TeamID,
			Position: p.Position,
			Bio: &athlete.Bio{
				Birthplace: p.Birthplace,
			},
			NILProfile: &athlete.NILProfile{},
			Meta:       newMeta([]string{"international-scouting-provider"}, now, map[string]string{"provider_player_id": p.PlayerID}),
		}

		if sport == "MLB" && (p.WAR != nil || p.WPA != nil) {
			performances := map[athlete.Metric]float64{}
			if p.WAR != nil {
				performances["mlb.war"] = *p.WAR
			}
			if p.WPA != nil {
				performances["mlb.wpa"] = *p.WPA
			}
			a.Stats = &athlete.Stats{Season: currentSeason(now), Performances: performances}
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
