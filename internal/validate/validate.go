// Package validate checks persisted athlete records against the schema
// contract every downstream consumer relies on (§6.5): player_id
// uniqueness, HAV-F numeric bounds, meta.updated_at presence, and
// meta.sources being an ordered non-empty list. The orchestrator runs
// this as its validation stage unless --skip-tests is given.
package validate

import (
	"fmt"

	"github.com/blazeintel/havf-core/internal/athlete"
)

// Error is one schema-contract violation found in a player record.
type Error struct {
	PlayerID string
	Detail   string
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.PlayerID, e.Detail)
}

// Players checks a batch of athlete records for schema-contract
// violations. seen carries player_id -> true across calls so uniqueness
// can be checked across every league in one orchestrator run; callers
// that only need per-league uniqueness should pass a fresh map.
func Players(players []athlete.Athlete, seen map[string]bool) []Error {
	var errs []Error

	for _, p := range players {
		if p.PlayerID == "" {
			errs = append(errs, Error{PlayerID: "<empty>", Detail: "missing player_id"})
			continue
		}
		if seen[p.PlayerID] {
			errs = append(errs, Error{PlayerID: p.PlayerID, Detail: "duplicate player_id"})
		}
		seen[p.PlayerID] = true

		if p.Meta.UpdatedAt.IsZero() {
			errs = append(errs, Error{PlayerID: p.PlayerID, Detail: "meta.updated_at is zero"})
		}
		if len(p.Meta.Sources) == 0 {
			errs = append(errs, Error{PlayerID: p.PlayerID, Detail: "meta.sources is empty"})
		}

		errs = append(errs, boundsErrors(p)...)
	}

	return errs
}

func boundsErrors(p athlete.Athlete) []Error {
	var errs []Error
	check := func(name string, v *float64) {
		if v == nil {
			return
		}
		if *v < 0 || *v > 100 {
			errs = append(errs, Error{PlayerID: p.PlayerID, Detail: fmt.Sprintf("%s out of [0,100]: %v", name, *v)})
		}
	}
	check("champion_readiness", p.HavF.ChampionReadiness)
	check("cognitive_leverage", p.HavF.CognitiveLeverage)
	check("nil_trust", p.HavF.NILTrustScore)
	check("composite_score", p.HavF.CompositeScore)
	return errs
}
