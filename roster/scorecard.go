/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package roster

import (
	"fmt"
	"sort"

	"github.com/mikeb26/compgen/comp"
	"github.com/mikeb26/compgen/roles"
	"github.com/mikeb26/compgen/staging"
)

// Scorecard is what gets printed on one first-round scorecard.
type Scorecard struct {
	Competitor string
	WCAID      string
	Number     int
	Event      string
	EventName  string
	Round      int
	Group      string
	// Stage is the stage's full name, "" when no stages are configured.
	Stage                string
	SolveCount           int
	AttemptsBeforeCutoff int
	CutoffTime           string
	TimeLimit            string
}

// Scorecards returns the round 1 scorecards of event sorted by competitor
// name. A stage tag missing from the config is an error rather than a
// blank on the card.
func Scorecards(cfg *comp.Config, t *comp.Table, event string) ([]Scorecard, error) {
	ev, ok := cfg.EventByID(event)
	if !ok {
		return nil, fmt.Errorf("event %v is not configured", event)
	}
	name, _ := cfg.EventName(event)

	var cards []Scorecard
	for _, p := range staging.Competitors(t, event) {
		r, err := roles.Parse(p.Roles(event))
		if err != nil {
			return nil, fmt.Errorf("%v in %v: %w", p.Name, event, err)
		}
		e, _ := r.Competing()
		card := Scorecard{
			Competitor:           p.Name,
			WCAID:                p.WCAID,
			Number:               p.Number,
			Event:                event,
			EventName:            name,
			Round:                1,
			Group:                e.Group,
			SolveCount:           ev.SolveCount,
			AttemptsBeforeCutoff: ev.AttemptsBeforeCutoff,
			CutoffTime:           ev.CutoffTime,
			TimeLimit:            ev.TimeLimit,
		}
		if len(cfg.Stages) > 0 {
			card.Stage, err = cfg.StageName(e.Stage)
			if err != nil {
				return nil, fmt.Errorf("%v in %v: %w", p.Name, event, err)
			}
		}
		cards = append(cards, card)
	}
	sort.SliceStable(cards, func(i, j int) bool {
		return cards[i].Competitor < cards[j].Competitor
	})

	return cards, nil
}

// BlankScorecards returns the cards requested under scorecard_blanks: no
// competitor, no group and no stage, to be filled in by hand. Cards for
// comp.BlankEvent have no event name and use the settings of 333.
func BlankScorecards(cfg *comp.Config) ([]Scorecard, error) {
	var cards []Scorecard
	for _, b := range cfg.ScorecardBlanks {
		settingsFrom := b.Event
		name := ""
		if b.Event == comp.BlankEvent {
			settingsFrom = "333"
		} else {
			name, _ = cfg.EventName(b.Event)
		}
		ev, ok := cfg.EventByID(settingsFrom)
		if !ok {
			return nil, fmt.Errorf("blank scorecards for %v: event %v is not configured",
				b.Event, settingsFrom)
		}
		for i := 0; i < b.Count; i++ {
			cards = append(cards, Scorecard{
				Event:                b.Event,
				EventName:            name,
				Round:                b.Round,
				SolveCount:           ev.SolveCount,
				AttemptsBeforeCutoff: ev.AttemptsBeforeCutoff,
				CutoffTime:           ev.CutoffTime,
				TimeLimit:            ev.TimeLimit,
			})
		}
	}

	return cards, nil
}

// IsBlank reports whether the card has no competitor printed on it.
func (sc Scorecard) IsBlank() bool {
	return sc.Competitor == ""
}

// Header is the line printed above the solves, e.g.
// "Round: 1 | Group: 2 | Stage: Red".
func (sc Scorecard) Header() string {
	group := sc.Group
	if group == "" {
		group = "__"
	}
	if sc.Stage == "" {
		return fmt.Sprintf("Round %d | Group %s", sc.Round, group)
	}

	return fmt.Sprintf("Round: %d | Group: %s | Stage: %s", sc.Round, group,
		sc.Stage)
}

// CutoffLine describes the cutoff, e.g. "2 attempts to get ≤ 1:00", or is
// empty when the event has none.
func (sc Scorecard) CutoffLine() string {
	if sc.AttemptsBeforeCutoff == 0 {
		return ""
	}
	plural := ""
	if sc.AttemptsBeforeCutoff > 1 {
		plural = "s"
	}

	return fmt.Sprintf("%d attempt%s to get ≤ %s", sc.AttemptsBeforeCutoff,
		plural, sc.CutoffTime)
}
