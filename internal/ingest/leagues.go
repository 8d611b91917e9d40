package ingest

import (
	"encoding/json"
	"time"

	"github.com/blazeintel/havf-core/internal/normalize"
)

// Each NormalizeXxxPayload function below adapts TeamPayload's generic
// signature to one league's specific raw-JSON shape and Normalize<League>
// call. A malformed payload produces a single ReasonBadEncoding error and
// zero athletes rather than failing the agent (§7 Fetch vs Normalize
// error boundary: a bad body is a normalize-time concern, not a fetch
// failure).

func NormalizeMLBPayload(raw []byte, teamID, teamCode string, now time.Time) normalize.Result {
	var payload normalize.MLBRosterPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return malformed(err)
	}
	payload.TeamID, payload.TeamCode = teamID, teamCode
	return normalize.NormalizeMLB(payload, now)
}

func NormalizeNFLPayload(raw []byte, teamID, teamCode string, now time.Time) normalize.Result {
	var payload normalize.NFLRosterPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return malformed(err)
	}
	payload.TeamID, payload.TeamCode = teamID, teamCode
	return normalize.NormalizeNFL(payload, now)
}

func NormalizeNCAAPayload(raw []byte, teamID, teamCode string, now time.Time) normalize.Result {
	var payload normalize.NCAARosterPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return malformed(err)
	}
	payload.TeamID, payload.TeamCode = teamID, teamCode
	return normalize.NormalizeNCAA(payload, now)
}

func NormalizeNBAPayload(raw []byte, teamID, teamCode string, now time.Time) normalize.Result {
	var payload normalize.NBARosterPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return malformed(err)
	}
	payload.TeamID, payload.TeamCode = teamID, teamCode
	return normalize.NormalizeNBA(payload, now)
}

func NormalizeHSPayload(raw []byte, teamID, teamCode string, now time.Time) normalize.Result {
	var payload normalize.HSRosterPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return malformed(err)
	}
	payload.TeamID, payload.TeamCode = teamID, teamCode
	return normalize.NormalizeHS(payload, now)
}

func NormalizeNILPayload(raw []byte, teamID, teamCode string, now time.Time) normalize.Result {
	var payload normalize.NILMarketPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return malformed(err)
	}
	payload.TeamID, payload.TeamCode = teamID, teamCode
	return normalize.NormalizeNILMarket(payload, now)
}

func NormalizeIntlPayload(raw []byte, teamID, teamCode string, now time.Time) normalize.Result {
	var payload normalize.InternationalRosterPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return malformed(err)
	}
	payload.TeamID, payload.TeamCode = teamID, teamCode
	return normalize.NormalizeInternational(payload, now)
}

func malformed(err error) normalize.Result {
	return normalize.Result{
		Errors: []normalize.Error{{RecordIndex: -1, Reason: normalize.ReasonBadEncoding, Detail: err.Error()}},
	}
}
