/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package roster

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mikeb26/compgen/comp"
	"github.com/mikeb26/compgen/staging"
)

const testSheet = `Name,WCA ID,333,333bf
Charlie Brown,2020BROW01,C1;J2,C1
Ada Lovelace,2019LOVE01,C2;S1,
Alan Turing,2018TURI01,C1,J1
Grace Hopper,,J1;R2,
`

func stagedFixture(t *testing.T) (*comp.Config, *comp.Table, staging.Report) {
	t.Helper()

	cfg := &comp.Config{
		Competition: "Boston Summer Open 2025",
		Date:        time.Date(2025, time.June, 14, 0, 0, 0, 0, time.UTC),
		Stages: []comp.Stage{
			{Name: "Red", Tag: "R", Capacity: 2},
			{Name: "Blue", Tag: "B", Capacity: 2},
		},
		Events: []comp.Event{
			{ID: "333", SolveCount: 5, AttemptsBeforeCutoff: 2, CutoffTime: "1:00", TimeLimit: "10:00"},
			{ID: "333bf", SolveCount: 3, TimeLimit: "10:00", ForcedStage: "Blue"},
		},
	}
	tbl, err := comp.LoadAssignments(strings.NewReader(testSheet))
	if err != nil {
		t.Fatalf("LoadAssignments: %v", err)
	}
	report, err := staging.AssignStages(cfg, tbl)
	if err != nil {
		t.Fatalf("AssignStages: %v", err)
	}

	return cfg, tbl, report
}

func TestEventRoster(t *testing.T) {
	cfg, tbl, _ := stagedFixture(t)

	sgs, err := EventRoster(cfg, tbl, "333")
	if err != nil {
		t.Fatalf("EventRoster: %v", err)
	}
	// group 1 (2 people) fills Red, group 2 goes to Blue
	if len(sgs) != 2 {
		t.Fatalf("EventRoster = %+v", sgs)
	}
	if sgs[0].Stage.Tag != "R" || sgs[0].Group != "1" || len(sgs[0].People) != 2 {
		t.Errorf("first stage group = %+v", sgs[0])
	}
	if sgs[1].Stage.Tag != "B" || sgs[1].Group != "2" || sgs[1].People[0].Name != "Ada Lovelace" {
		t.Errorf("second stage group = %+v", sgs[1])
	}
}

func TestBuildRosterOutput(t *testing.T) {
	cfg, tbl, report := stagedFixture(t)

	out, err := BuildRosterOutput(cfg, tbl, report)
	if err != nil {
		t.Fatalf("BuildRosterOutput: %v", err)
	}
	for _, want := range []string{
		"Boston Summer Open 2025 - Saturday, June 14, 2025",
		"3x3x3 Cube (333) - greedy",
		"3-Blind (333bf) - manual",
		"Red (2)",
		"Charlie Brown, Alan Turing",
		"Blue (2)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("roster output missing %q:\n%s", want, out)
		}
	}

	// without a report the strategy is simply omitted
	out, err = BuildRosterOutput(cfg, tbl, nil)
	if err != nil {
		t.Fatalf("BuildRosterOutput: %v", err)
	}
	if strings.Contains(out, "greedy") {
		t.Errorf("roster without report mentions a strategy:\n%s", out)
	}
}

func TestBuildRosterOutputUnknownStage(t *testing.T) {
	cfg, tbl, _ := stagedFixture(t)
	p, _ := tbl.Lookup("Ada Lovelace")
	p.SetRoles("333", "CQ2;S1")

	if _, err := BuildRosterOutput(cfg, tbl, nil); !errors.Is(err, comp.ErrUnknownStageTag) {
		t.Errorf("err = %v; want ErrUnknownStageTag", err)
	}
	if _, err := Scorecards(cfg, tbl, "333"); !errors.Is(err, comp.ErrUnknownStageTag) {
		t.Errorf("Scorecards err = %v; want ErrUnknownStageTag", err)
	}
}

func TestSchedule(t *testing.T) {
	cfg, tbl, _ := stagedFixture(t)

	rows, err := Schedule(cfg, tbl, "Charlie Brown")
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	want := []ScheduleRow{
		{Event: "3x3", Competing: "R1", Helping: []string{"J2"}},
		{Event: "3BLD", Competing: "B1"},
	}
	if len(rows) != len(want) {
		t.Fatalf("Schedule = %+v", rows)
	}
	for i := range want {
		if rows[i].Event != want[i].Event || rows[i].Competing != want[i].Competing ||
			strings.Join(rows[i].Helping, " ") != strings.Join(want[i].Helping, " ") {
			t.Errorf("row %d = %+v; want %+v", i, rows[i], want[i])
		}
	}

	if _, err := Schedule(cfg, tbl, "Nobody"); err == nil {
		t.Error("expected error for unknown person")
	}
}

func TestBuildScheduleOutput(t *testing.T) {
	cfg, tbl, _ := stagedFixture(t)

	out, err := BuildScheduleOutput(cfg, tbl, "Grace Hopper")
	if err != nil {
		t.Fatalf("BuildScheduleOutput: %v", err)
	}
	for _, want := range []string{"#4 Boston Summer Open 2025", "Grace Hopper (Helper)",
		"Stage & Group", "J1 R2", "R/B: Red/Blue"} {
		if !strings.Contains(out, want) {
			t.Errorf("schedule missing %q:\n%s", want, out)
		}
	}

	out, err = BuildScheduleOutput(cfg, tbl, "Ada Lovelace")
	if err != nil {
		t.Fatalf("BuildScheduleOutput: %v", err)
	}
	if strings.Contains(out, "(Helper)") {
		t.Errorf("competitor marked as helper:\n%s", out)
	}
}

func TestStageKeyWithoutStages(t *testing.T) {
	if got := StageKey(&comp.Config{}); got != "C: Competing" {
		t.Errorf("StageKey = %q", got)
	}
}

func TestScorecards(t *testing.T) {
	cfg, tbl, _ := stagedFixture(t)

	cards, err := Scorecards(cfg, tbl, "333")
	if err != nil {
		t.Fatalf("Scorecards: %v", err)
	}
	var names []string
	for _, c := range cards {
		names = append(names, c.Competitor)
	}
	if got := strings.Join(names, ","); got != "Ada Lovelace,Alan Turing,Charlie Brown" {
		t.Errorf("scorecard order = %v", got)
	}
	ada := cards[0]
	if ada.Number != 2 || ada.WCAID != "2019LOVE01" || ada.Group != "2" ||
		ada.Stage != "Blue" || ada.EventName != "3x3x3 Cube" {
		t.Errorf("Ada's card = %+v", ada)
	}
	if got := ada.Header(); got != "Round: 1 | Group: 2 | Stage: Blue" {
		t.Errorf("Header = %q", got)
	}
	if got := ada.CutoffLine(); got != "2 attempts to get ≤ 1:00" {
		t.Errorf("CutoffLine = %q", got)
	}

	bf, err := Scorecards(cfg, tbl, "333bf")
	if err != nil {
		t.Fatalf("Scorecards: %v", err)
	}
	if len(bf) != 1 || bf[0].CutoffLine() != "" || bf[0].Stage != "Blue" {
		t.Errorf("333bf cards = %+v", bf)
	}

	if _, err := Scorecards(cfg, tbl, "777"); err == nil {
		t.Error("expected error for unconfigured event")
	}
}

func TestScorecardWithoutStages(t *testing.T) {
	sc := Scorecard{Round: 1, Group: "3", AttemptsBeforeCutoff: 1, CutoffTime: "2:00"}
	if got := sc.Header(); got != "Round 1 | Group 3" {
		t.Errorf("Header = %q", got)
	}
	if got := sc.CutoffLine(); got != "1 attempt to get ≤ 2:00" {
		t.Errorf("CutoffLine = %q", got)
	}
}

func TestWriteCSV(t *testing.T) {
	_, tbl, _ := stagedFixture(t)

	var buf bytes.Buffer
	if err := WriteCSV(&buf, tbl); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	want := `Name,WCA ID,333,333bf
Charlie Brown,2020BROW01,CR1;J2,CB1
Ada Lovelace,2019LOVE01,CB2;S1,
Alan Turing,2018TURI01,CR1,J1
Grace Hopper,,J1;R2,
`
	if buf.String() != want {
		t.Errorf("WriteCSV =\n%s\nwant\n%s", buf.String(), want)
	}

	reloaded, err := comp.LoadAssignments(&buf)
	if err != nil {
		t.Fatalf("LoadAssignments(WriteCSV): %v", err)
	}
	if p, _ := reloaded.Lookup("Ada Lovelace"); p.Roles("333") != "CB2;S1" {
		t.Errorf("reloaded roles = %q", p.Roles("333"))
	}
}

func TestFilename(t *testing.T) {
	got := Filename("Boston Summer Open 2025", "staged assignments", ".csv")
	if got != "Boston_Summer_Open_2025_staged_assignments.csv" {
		t.Errorf("Filename = %q", got)
	}
}

func TestStagedSheetReloadsWithLowerCaseTag(t *testing.T) {
	cfg, err := comp.ParseConfig([]byte(`{
		"stages": {"Red": ["r", 8]},
		"events": {"333": [5, null, "", "10:00"]},
	}`), comp.FormatJSON)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	tbl, err := comp.LoadAssignments(strings.NewReader("Name,333\nAda,c1\n"))
	if err != nil {
		t.Fatalf("LoadAssignments: %v", err)
	}
	if _, err := staging.AssignStages(cfg, tbl); err != nil {
		t.Fatalf("AssignStages: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, tbl); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if want := "Name,WCA ID,333\nAda,,CR1\n"; buf.String() != want {
		t.Errorf("WriteCSV = %q; want %q", buf.String(), want)
	}
	reloaded, err := comp.LoadAssignments(&buf)
	if err != nil {
		t.Fatalf("LoadAssignments(WriteCSV): %v", err)
	}
	cards, err := Scorecards(cfg, reloaded, "333")
	if err != nil {
		t.Fatalf("Scorecards after reload: %v", err)
	}
	if len(cards) != 1 || cards[0].Stage != "Red" || cards[0].Group != "1" {
		t.Errorf("cards = %+v", cards)
	}
}

func TestBlankScorecards(t *testing.T) {
	cfg, err := comp.ParseConfig([]byte(`{
		"events": {
			"333": [5, 2, "1:00", "10:00"],
			"333bf": [3, null, "", "10:00"],
		},
		"scorecard_blanks": {
			"333bf": {"2": 1},
			"blank": {"1": 2},
			"333": {"3": 1, "2": 2},
		},
	}`), comp.FormatJSON)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}

	cards, err := BlankScorecards(cfg)
	if err != nil {
		t.Fatalf("BlankScorecards: %v", err)
	}
	want := []struct {
		event  string
		name   string
		round  int
		solves int
	}{
		{"333", "3x3x3 Cube", 3, 5},
		{"333", "3x3x3 Cube", 2, 5},
		{"333", "3x3x3 Cube", 2, 5},
		{"333bf", "3-Blind", 2, 3},
		{"blank", "", 1, 5},
		{"blank", "", 1, 5},
	}
	if len(cards) != len(want) {
		t.Fatalf("got %d cards; want %d: %+v", len(cards), len(want), cards)
	}
	for i, w := range want {
		c := cards[i]
		if c.Event != w.event || c.EventName != w.name || c.Round != w.round ||
			c.SolveCount != w.solves || !c.IsBlank() {
			t.Errorf("card %d = %+v; want %+v", i, c, w)
		}
	}
	if got := cards[4].CutoffLine(); got != "2 attempts to get ≤ 1:00" {
		t.Errorf("blank card cutoff = %q; want the 333 cutoff", got)
	}
	if got := cards[0].Header(); got != "Round 3 | Group __" {
		t.Errorf("Header = %q", got)
	}

	cfg.Events = cfg.Events[1:]
	if _, err := BlankScorecards(cfg); err == nil {
		t.Error("expected error when 333 settings are missing")
	}
}
