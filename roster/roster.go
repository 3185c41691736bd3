/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package roster turns a staged assignment table into the things people
// read: stage rosters, personal schedules, scorecard records and the staged
// sheet itself.
package roster

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mikeb26/compgen/comp"
	"github.com/mikeb26/compgen/roles"
	"github.com/mikeb26/compgen/staging"
)

// StageGroup is everybody competing in one group on one stage.
type StageGroup struct {
	Stage  comp.Stage
	Group  string
	People []*comp.Person
}

// EventRoster lists an event's stage groups, stages in config order and
// groups in order of first appearance.
func EventRoster(cfg *comp.Config, t *comp.Table,
	event string) ([]StageGroup, error) {

	var ret []StageGroup
	index := make(map[string]int)
	for _, p := range staging.Competitors(t, event) {
		r, err := roles.Parse(p.Roles(event))
		if err != nil {
			return nil, fmt.Errorf("%v in %v: %w", p.Name, event, err)
		}
		e, _ := r.Competing()
		st := comp.Stage{}
		if e.Stage != "" {
			name, err := cfg.StageName(e.Stage)
			if err != nil {
				return nil, fmt.Errorf("%v in %v: %w", p.Name, event, err)
			}
			st, _ = cfg.StageByName(name)
		}
		key := e.Stage + "/" + e.Group
		i, ok := index[key]
		if !ok {
			i = len(ret)
			index[key] = i
			ret = append(ret, StageGroup{Stage: st, Group: e.Group})
		}
		ret[i].People = append(ret[i].People, p)
	}

	order := make(map[string]int, len(cfg.Stages))
	for i, st := range cfg.Stages {
		order[st.Tag] = i
	}
	sort.SliceStable(ret, func(i, j int) bool {
		return order[ret[i].Stage.Tag] < order[ret[j].Stage.Tag]
	})

	return ret, nil
}

// BuildRosterOutput formats the stage roster of every configured event.
// report may be nil when staging was not run in this process.
func BuildRosterOutput(cfg *comp.Config, t *comp.Table,
	report staging.Report) (string, error) {

	var sb strings.Builder
	sb.WriteString(heading(cfg))

	for _, ev := range cfg.Events {
		name, _ := cfg.EventName(ev.ID)
		sgs, err := EventRoster(cfg, t, ev.ID)
		if err != nil {
			return "", err
		}
		sb.WriteString(fmt.Sprintf("%s (%s)", name, ev.ID))
		if res, ok := report.Result(ev.ID); ok {
			sb.WriteString(fmt.Sprintf(" - %v", res.Strategy))
		}
		sb.WriteString("\n")
		if len(sgs) == 0 {
			sb.WriteString("  No competitors\n\n")
			continue
		}

		var rows [][]string
		for _, sg := range sgs {
			stage := sg.Stage.Name
			if stage == "" {
				stage = "-"
			} else {
				stage = fmt.Sprintf("%s (%d)", stage, sg.Stage.Capacity)
			}
			names := make([]string, 0, len(sg.People))
			for _, p := range sg.People {
				names = append(names, p.Name)
			}
			rows = append(rows, []string{stage, sg.Group,
				strconv.Itoa(len(sg.People)), strings.Join(names, ", ")})
		}
		sb.WriteString(renderTable([]string{"Stage", "Group", "Count", "Competitors"},
			rows, []columnAlignment{alignLeft, alignRight, alignRight, alignLeft}))
		sb.WriteString("\n\n")
	}

	return sb.String(), nil
}

func heading(cfg *comp.Config) string {
	if cfg.Competition == "" {
		return ""
	}
	if cfg.Date.IsZero() {
		return cfg.Competition + "\n\n"
	}

	return fmt.Sprintf("%s - %s\n\n", cfg.Competition,
		cfg.Date.Format("Monday, January 2, 2006"))
}
