package normalize

import (
	"time"

	"github.com/blazeintel/havf-core/internal/athlete"
)

// NILMarketPayload covers athletes tracked for their commercial NIL
// footprint independent of box-score production — non-revenue-sport
// college athletes with active deal flow, for example. Sport is carried
// through so the HAV-F champion-readiness branch still has somewhere to
// fall (its documented default of 50.0 for an unmodeled sport).
type NILMarketPayload struct {
	TeamID   string                  `json:"team_id"`
	TeamCode string                  `json:"team_code"`
	Players  []NILMarketPlayerPayload `json:"players"`
}

type NILMarketPlayerPayload struct {
	PlayerID             string   `json:"player_id"`
	FullName             string   `json:"full_name"`
	Sport                string   `json:"sport"`
	Position             string   `json:"position"`
	ClassYear            string   `json:"class_year"`
	ValuationUSD         *float64 `json:"valuation_usd,omitempty"`
	EngagementRate       *float64 `json:"engagement_rate,omitempty"`
	FollowersTotal        *int64   `json:"followers_total,omitempty"`
	DealsLast90d         *int     `json:"deals_last_90d,omitempty"`
	DealValue90dUSD      *float64 `json:"deal_value_90d_usd,omitempty"`
	SearchIndex          *float64 `json:"search_index,omitempty"`
	LocalPopularityIndex *float64 `json:"local_popularity_index,omitempty"`
}

// NormalizeNILMarket maps one program's NIL market payload into canonical
// athletes carrying only NIL trust inputs — Stats/Biometrics are absent,
// so HAV-F's champion readiness and cognitive leverage fall to their
// documented defaults while NIL trust is fully populated.
func NormalizeNILMarket(payload NILMarketPayload, now time.Time) Result {
	var result Result

	for i, p := range payload.Players {
		sport := p.Sport
		if sport == "" {
			sport = "NIL"
		}

		if !requiredFieldsPresent(p.FullName, sport, payload.TeamID, p.Position) {
			result.Errors = append(result.Errors, Error{
				RecordIndex: i, Reason: ReasonMissingRequired,
				Detail: "full_name, team_id, or position missing",
			})
			continue
		}

		a := athlete.Athlete{
			PlayerID: PlayerID("NIL", payload.TeamCode, p.PlayerID),
			Name:     p.FullName,
			Sport:    sport,
			League:   "NIL",
			TeamID:   payload.TeamID,
			Position: p.Position,
			Bio: &athlete.Bio{
				ClassYear: p.ClassYear,
			},
			NILProfile: &athlete.NILProfile{
				ValuationUSD:         p.ValuationUSD,
				EngagementRate:       p.EngagementRate,
				FollowersTotal:       p.FollowersTotal,
				DealsLast90d:         p.DealsLast90d,
				DealValue90dUSD:      p.DealValue90dUSD,
				SearchIndex:          p.SearchIndex,
				LocalPopularityIndex: p.LocalPopularityIndex,
			},
			Meta: newMeta([]string{"nil-market-provider"}, now, map[string]string{"provider_player_id": p.PlayerID}),
		}

		result.Athletes = append(result.Athletes, a)
	}

	return result
}
