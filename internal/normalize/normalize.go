// Package normalize absorbs every provider-shape divergence (§4.4) so
// downstream components see only the canonical athlete.Athlete record.
// One file per league family defines that league's raw payload shape
// and its Normalize function; this file holds the shared machinery:
// player_id derivation, unit parsing entry points, and the error
// taxonomy reported (never propagated) per record.
package normalize

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/blazeintel/havf-core/internal/athlete"
)

// ErrorReason names why a single record was dropped or a field of it
// could not be parsed (§4.4).
type ErrorReason string

const (
	ReasonMissingRequired ErrorReason = "missing_required"
	ReasonBadEncoding     ErrorReason = "bad_encoding"
	ReasonUnknownSport    ErrorReason = "unknown_sport"
)

// Error reports one problem with a record: either the record was
// dropped, or (for a bad_encoding height) the record was kept without
// that field. RecordIndex is the record's position in the provider's
// original ordering, preserved for diagnostics.
type Error struct {
	RecordIndex int
	Reason      ErrorReason
	Detail      string
}

func (e Error) Error() string {
	return fmt.Sprintf("normalize: record %d: %s: %s", e.RecordIndex, e.Reason, e.Detail)
}

// Result is the outcome of normalizing one provider payload: canonical
// records in the provider's original order, plus every error
// encountered along the way. A dropped record never aborts the batch.
type Result struct {
	Athletes []athlete.Athlete
	Errors   []Error
	WinPct   *float64
}

// PlayerID derives the stable identifier format <LEAGUE>-<TEAM_CODE>-
// <8-char hash>. The hash is MD5 truncated to its first 8 hex
// characters; it is a short stable key, not a security primitive.
func PlayerID(league, teamCode, providerID string) string {
	sum := md5.Sum([]byte(providerID))
	hash := hex.EncodeToString(sum[:])[:8]
	return fmt.Sprintf("%s-%s-%s", league, teamCode, hash)
}

// requiredFieldsPresent checks the validation C4 applies to every
// record before it's allowed to reach C5 (§4.4 step 6).
func requiredFieldsPresent(name, sport, teamID, position string) bool {
	return name != "" && sport != "" && teamID != "" && position != ""
}

// mergePerformances folds a base set of always-present metrics together
// with optional ones a provider may or may not report (e.g. a pitcher's
// batting line, or a kicker's passing stats) — only metrics with a
// non-nil value are included (§4.4 step 4).
func mergePerformances(base map[athlete.Metric]float64, optional map[athlete.Metric]*float64) map[athlete.Metric]float64 {
	out := make(map[athlete.Metric]float64, len(base)+len(optional))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range optional {
		if v != nil {
			out[k] = *v
		}
	}
	return out
}

// newMeta builds the provenance structure every normalized record
// carries (§3.1 meta, §6.5).
func newMeta(sources []string, now time.Time, externalIDs map[string]string) athlete.Meta {
	return athlete.Meta{
		Sources:     sources,
		UpdatedAt:   now,
		ExternalIDs: externalIDs,
	}
}
