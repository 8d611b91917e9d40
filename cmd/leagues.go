package cmd

import (
	"fmt"
	"os"

	"github.com/blazeintel/havf-core/internal/ingest"
)

// leagueDef wires one league's CLI name, registry/agent League code,
// normalizer, and live-fetch URL builder together. Declared in priority
// order (§4.3: "Cardinals, Titans, Longhorns, Grizzlies are processed
// first") followed by the remaining leagues.
type leagueDef struct {
	CLIName   string
	Code      string
	Normalize ingest.TeamPayload
	LiveURL   func(teamID, teamCode string) string
}

// leagueDefs is the full league table the run and status commands
// iterate. Order matters: it is the priority order agents run in.
var leagueDefs = []leagueDef{
	{CLIName: "mlb", Code: "MLB", Normalize: ingest.NormalizeMLBPayload, LiveURL: mlbLiveURL},
	{CLIName: "nfl", Code: "NFL", Normalize: ingest.NormalizeNFLPayload, LiveURL: nflLiveURL},
	{CLIName: "ncaa", Code: "NCAA", Normalize: ingest.NormalizeNCAAPayload, LiveURL: ncaaLiveURL},
	{CLIName: "nba", Code: "NBA", Normalize: ingest.NormalizeNBAPayload, LiveURL: nbaLiveURL},
	{CLIName: "hs", Code: "HS", Normalize: ingest.NormalizeHSPayload, LiveURL: hsLiveURL},
	{CLIName: "nil", Code: "NIL", Normalize: ingest.NormalizeNILPayload, LiveURL: nilLiveURL},
	{CLIName: "intl", Code: "INTL", Normalize: ingest.NormalizeIntlPayload, LiveURL: intlLiveURL},
}

func mlbLiveURL(teamID, teamCode string) string {
	return fmt.Sprintf("https://statsapi.mlb.com/api/v1/teams/%s/roster?key=%s", teamCode, os.Getenv("MLB_STATS_API_KEY"))
}

func nflLiveURL(teamID, teamCode string) string {
	return fmt.Sprintf("https://api.sportsdata.io/v3/nfl/scores/json/Players/%s?key=%s", teamCode, os.Getenv("SPORTSDATA_IO_KEY"))
}

func ncaaLiveURL(teamID, teamCode string) string {
	return fmt.Sprintf("https://api.collegefootballdata.com/roster?team=%s&key=%s", teamCode, os.Getenv("CFBD_API_KEY"))
}

func nbaLiveURL(teamID, teamCode string) string {
	return fmt.Sprintf("https://api.sportsdata.io/v3/nba/scores/json/Players/%s?key=%s", teamCode, os.Getenv("SPORTSDATA_IO_KEY"))
}

func hsLiveURL(teamID, teamCode string) string {
	return fmt.Sprintf("https://api.perfectgame.org/v1/teams/%s/roster?key=%s", teamCode, os.Getenv("PERFECT_GAME_API_KEY"))
}

func nilLiveURL(teamID, teamCode string) string {
	return fmt.Sprintf("https://api.opendorse.com/v1/markets/%s?key=%s", teamCode, os.Getenv("OPENDORSE_API_KEY"))
}

func intlLiveURL(teamID, teamCode string) string {
	key := os.Getenv("NPB_API_KEY")
	if key == "" {
		key = os.Getenv("KBO_API_KEY")
	}
	return fmt.Sprintf("https://api.thesportsdb.com/v1/international/%s/roster?key=%s", teamCode, key)
}

func findLeagueDef(name string) (leagueDef, bool) {
	for _, l := range leagueDefs {
		if l.CLIName == name {
			return l, true
		}
	}
	return leagueDef{}, false
}
