/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package staging

import (
	"errors"
	"fmt"
	"log"

	"github.com/mikeb26/compgen/comp"
	"github.com/mikeb26/compgen/roles"
)

var ErrAlreadyStaged = errors.New("stages already assigned")

type Strategy int

const (
	StrategyManual Strategy = iota
	StrategyGreedy
	StrategyRoundRobin
)

func (s Strategy) String() string {
	switch s {
	case StrategyManual:
		return "manual"
	case StrategyGreedy:
		return "greedy"
	case StrategyRoundRobin:
		return "round robin"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// EventResult records how one event was staged. Bindings is set for greedy
// staging only; Stage for manual staging only.
type EventResult struct {
	Event    string
	Strategy Strategy
	Stage    comp.Stage
	Bindings []Binding
}

type Report []EventResult

// Result returns the result for event.
func (r Report) Result(event string) (EventResult, bool) {
	for _, res := range r {
		if res.Event == event {
			return res, true
		}
	}

	return EventResult{}, false
}

// AssignStages stages every configured event of t. Events are processed in
// config order and each is handled by exactly one strategy: the event's
// forced stage if it names a configured one, else greedy packing, else
// round robin. Without configured stages there is nothing to do.
//
// A table can only be staged once; if any event already carries stage tags
// AssignStages fails with ErrAlreadyStaged before changing anything. Bad
// stage tags are likewise rejected up front, so an error leaves t as it was.
func AssignStages(cfg *comp.Config, t *comp.Table) (Report, error) {
	if len(cfg.Stages) == 0 {
		return nil, nil
	}
	if err := checkStageTags(cfg); err != nil {
		return nil, err
	}
	if err := checkUnstaged(cfg, t); err != nil {
		return nil, err
	}

	var report Report
	for _, ev := range cfg.Events {
		res, err := assignEvent(cfg, t, ev)
		if err != nil {
			return report, fmt.Errorf("staging %v: %w", ev.ID, err)
		}
		t.MarkStaged(ev.ID)
		report = append(report, res)
	}

	return report, nil
}

func assignEvent(cfg *comp.Config, t *comp.Table,
	ev comp.Event) (EventResult, error) {

	res := EventResult{Event: ev.ID}

	if st, ok := cfg.ForcedStage(ev); ok {
		res.Strategy = StrategyManual
		res.Stage = st
		return res, AssignManual(t, st, ev.ID)
	}
	if ev.ForcedStage != "" {
		log.Printf("staging.assign: warning: event %v names unknown stage %q; ignoring it",
			ev.ID, ev.ForcedStage)
	}

	plan, ok, err := AssignGreedy(t, cfg.Stages, ev.ID)
	if err != nil {
		return res, err
	}
	if ok {
		res.Strategy = StrategyGreedy
		res.Bindings = plan
		return res, nil
	}

	res.Strategy = StrategyRoundRobin
	return res, AssignRoundRobin(t, cfg.Stages, ev.ID)
}

func checkStageTags(cfg *comp.Config) error {
	seen := make(map[string]string, len(cfg.Stages))
	for _, st := range cfg.Stages {
		if !roles.ValidStageTag(st.Tag) {
			return fmt.Errorf("stage %q: %w: %q", st.Name, roles.ErrInvalidStageTag,
				st.Tag)
		}
		if other, ok := seen[st.Tag]; ok {
			return fmt.Errorf("stage %q: %w: %q already used by stage %q",
				st.Name, roles.ErrInvalidStageTag, st.Tag, other)
		}
		seen[st.Tag] = st.Name
	}

	return nil
}

// checkUnstaged fails if any event was staged before, either in this run or
// in the sheet itself, and surfaces malformed role strings before any
// mutation happens.
func checkUnstaged(cfg *comp.Config, t *comp.Table) error {
	for _, ev := range cfg.Events {
		if t.IsStaged(ev.ID) {
			return fmt.Errorf("%w for %v", ErrAlreadyStaged, ev.ID)
		}
		for _, p := range Competitors(t, ev.ID) {
			tag, err := roles.StageOf(p.Roles(ev.ID))
			if err != nil {
				return fmt.Errorf("%v in %v: %w", p.Name, ev.ID, err)
			}
			if tag != "" {
				return fmt.Errorf("%w for %v: %v is already on stage %v",
					ErrAlreadyStaged, ev.ID, p.Name, tag)
			}
		}
	}

	return nil
}
