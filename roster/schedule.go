/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package roster

import (
	"fmt"
	"strings"

	"github.com/mikeb26/compgen/comp"
	"github.com/mikeb26/compgen/roles"
)

// ScheduleRow is one event line on the back of a competitor's badge.
type ScheduleRow struct {
	Event string
	// Competing is the stage tag and group, e.g. "R2", or "" when the
	// person does not compete in the event.
	Competing string
	Helping   []string
}

// Schedule returns the badge-back rows for name, events in config order.
func Schedule(cfg *comp.Config, t *comp.Table, name string) ([]ScheduleRow, error) {
	p, ok := t.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("no assignments for %q", name)
	}

	var rows []ScheduleRow
	for _, ev := range cfg.Events {
		r, err := roles.Parse(p.Roles(ev.ID))
		if err != nil {
			return nil, fmt.Errorf("%v in %v: %w", name, ev.ID, err)
		}
		_, short := cfg.EventName(ev.ID)
		row := ScheduleRow{Event: short}
		if e, ok := r.Competing(); ok {
			row.Competing = e.Stage + e.Group
		}
		for _, h := range r.Helping() {
			row.Helping = append(row.Helping, h.String())
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// StageKey explains the stage tags, e.g. "R/B: Red/Blue".
func StageKey(cfg *comp.Config) string {
	if len(cfg.Stages) == 0 {
		return "C: Competing"
	}
	names := make([]string, 0, len(cfg.Stages))
	for _, st := range cfg.Stages {
		names = append(names, st.Name)
	}

	return strings.Join(cfg.StageTags(), "/") + ": " + strings.Join(names, "/")
}

// BuildScheduleOutput formats name's personal schedule.
func BuildScheduleOutput(cfg *comp.Config, t *comp.Table,
	name string) (string, error) {

	rows, err := Schedule(cfg, t, name)
	if err != nil {
		return "", err
	}
	p, _ := t.Lookup(name)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("#%d %s\n", p.Number, cfg.Competition))
	sb.WriteString(p.Name)
	if !t.IsCompetitor(name) {
		sb.WriteString(" (Helper)")
	}
	sb.WriteString("\n")

	competingHeader := "Group"
	if len(cfg.Stages) > 0 {
		competingHeader = "Stage & Group"
	}
	var cells [][]string
	for _, r := range rows {
		cells = append(cells, []string{r.Event, r.Competing,
			strings.Join(r.Helping, " ")})
	}
	sb.WriteString(renderTable([]string{"Event", competingHeader, "Helping"},
		cells, nil))
	sb.WriteString("\n")
	sb.WriteString(StageKey(cfg))
	sb.WriteString("\nJ: Judging  R: Running  S: Scrambling\n")

	return sb.String(), nil
}
