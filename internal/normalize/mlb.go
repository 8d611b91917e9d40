package normalize

import (
	"strconv"
	"time"

	"github.com/blazeintel/havf-core/internal/athlete"
	"github.com/blazeintel/havf-core/internal/providers/mlbapi"
)

// MLBRosterPayload is the shape both the live MLB Stats API client and the
// MLB fixture produce: a team's roster plus the per-player performance
// figures the people/stats endpoints return across several calls, folded
// into one envelope so the agent only has to normalize once.
type MLBRosterPayload struct {
	TeamID   string             `json:"team_id"`
	TeamCode string             `json:"team_code"`
	WinPct   float64            `json:"win_pct"`
	Players  []MLBPlayerPayload `json:"players"`
}

// MLBPlayerPayload embeds the stats-API person shape and adds the derived
// performance figures (war, wpa) the hitting/pitching splits endpoints
// would otherwise require a second fetch to assemble, plus the canonical
// hitting and pitching lines a two-way or pitching-only roster entry may
// carry. Hitting and pitching fields are pointers because a pure pitcher
// has no meaningful batting line and vice versa.
type MLBPlayerPayload struct {
	mlbapi.MLBPerson
	WAR             float64  `json:"war"`
	WPA             float64  `json:"wpa"`
	AVG             *float64 `json:"avg,omitempty"`
	OBP             *float64 `json:"obp,omitempty"`
	SLG             *float64 `json:"slg,omitempty"`
	OPS             *float64 `json:"ops,omitempty"`
	HR              *float64 `json:"hr,omitempty"`
	RBI             *float64 `json:"rbi,omitempty"`
	SB              *float64 `json:"sb,omitempty"`
	ERA             *float64 `json:"era,omitempty"`
	WHIP            *float64 `json:"whip,omitempty"`
	K9              *float64 `json:"k9,omitempty"`
	BB9             *float64 `json:"bb9,omitempty"`
	HRVRMSSDMs      *float64 `json:"hrv_rmssd_ms,omitempty"`
	ReactionMs      *float64 `json:"reaction_ms,omitempty"`
	NILValuationUSD *float64 `json:"nil_valuation_usd,omitempty"`
	NILEngagement   *float64 `json:"nil_engagement_rate,omitempty"`
}

// NormalizeMLB maps one team's MLB roster payload into canonical athletes.
func NormalizeMLB(payload MLBRosterPayload, now time.Time) Result {
	var result Result
	result.WinPct = &payload.WinPct

	for i, p := range payload.Players {
		name := p.FullName
		position := ""
		if p.PrimaryPosition != nil {
			position = p.PrimaryPosition.Abbreviation
		}

		if !requiredFieldsPresent(name, "MLB", payload.TeamID, position) {
			result.Errors = append(result.Errors, Error{
				RecordIndex: i, Reason: ReasonMissingRequired,
				Detail: "name, team_id, or position missing",
			})
			continue
		}

		a := athlete.Athlete{
			PlayerID: PlayerID("MLB", payload.TeamCode, strconv.Itoa(p.ID)),
			Name:     name,
			Sport:    "MLB",
			League:   "MLB",
			TeamID:   payload.TeamID,
			Position: position,
			Bio: &athlete.Bio{
				Birthplace: p.BirthCity,
			},
			Stats: &athlete.Stats{
				Season: currentSeason(now),
				Performances: mergePerformances(
					map[athlete.Metric]float64{"mlb.war": p.WAR, "mlb.wpa": p.WPA},
					map[athlete.Metric]*float64{
						"mlb.avg":  p.AVG,
						"mlb.obp":  p.OBP,
						"mlb.slg":  p.SLG,
						"mlb.ops":  p.OPS,
						"mlb.hr":   p.HR,
						"mlb.rbi":  p.RBI,
						"mlb.sb":   p.SB,
						"mlb.era":  p.ERA,
						"mlb.whip": p.WHIP,
						"mlb.k9":   p.K9,
						"mlb.bb9":  p.BB9,
					},
				),
			},
			Meta: newMeta([]string{"mlb-stats-api"}, now, map[string]string{"mlb_person_id": strconv.Itoa(p.ID)}),
		}

		if p.BirthDate != "" {
			if dob, err := time.Parse("2006-01-02", p.BirthDate); err == nil {
				a.Bio.DOB = &dob
			}
		}
		if p.Height != "" {
			if cm, err := athlete.FeetInchesToCM(p.Height); err == nil {
				a.Bio.HeightCM = &cm
			}
		}
		if p.Weight > 0 {
			kg := athlete.PoundsToKG(float64(p.Weight))
			a.Bio.WeightKG = &kg
		}
		if p.BatSide != nil {
			a.Bio.Handedness = p.BatSide.Code
		}

		if p.HRVRMSSDMs != nil || p.ReactionMs != nil {
			a.Biometrics = &athlete.Biometrics{
				HRVRMSSDMs: p.HRVRMSSDMs,
				ReactionMs: p.ReactionMs,
			}
		}

		if p.NILValuationUSD != nil || p.NILEngagement != nil {
			a.NILProfile = &athlete.NILProfile{
				ValuationUSD:   p.NILValuationUSD,
				EngagementRate: p.NILEngagement,
			}
		} else {
			a.NILProfile = &athlete.NILProfile{}
		}

		result.Athletes = append(result.Athletes, a)
	}

	return result
}

func currentSeason(now time.Time) string {
	return now.Format("2006")
}
