/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package comp

type eventName struct {
	name  string
	short string
}

// wcaEventNames maps WCA event ids to the names printed on scorecards and
// the short names used in competitor schedules.
var wcaEventNames = map[string]eventName{
	"222":    {"2x2x2 Cube", "2x2"},
	"333":    {"3x3x3 Cube", "3x3"},
	"444":    {"4x4x4 Cube", "4x4"},
	"555":    {"5x5x5 Cube", "5x5"},
	"666":    {"6x6x6 Cube", "6x6"},
	"777":    {"7x7x7 Cube", "7x7"},
	"clock":  {"Clock", "Clock"},
	"sq1":    {"Square-1", "Sq-1"},
	"333bf":  {"3-Blind", "3BLD"},
	"444bf":  {"4-Blind", "4BLD"},
	"555bf":  {"5-Blind", "5BLD"},
	"333fm":  {"Fewest Moves", "FMC"},
	"333oh":  {"One Handed", "OH"},
	"minx":   {"Megaminx", "Mega"},
	"pyram":  {"Pyraminx", "Pyra"},
	"skewb":  {"Skewb", "Skewb"},
	"333mbf": {"Multi Blind", "MBLD"},
}

// EventName returns the long and short display names for an event id.
// Custom events from the config take precedence over the WCA table; unknown
// ids are displayed as-is.
func (cfg *Config) EventName(id string) (string, string) {
	for _, ce := range cfg.CustomEvents {
		if ce.ID == id {
			return ce.Name, ce.ShortName
		}
	}
	if n, ok := wcaEventNames[id]; ok {
		return n.name, n.short
	}

	return id, id
}
