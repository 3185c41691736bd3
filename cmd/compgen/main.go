/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/mikeb26/compgen/comp"
	"github.com/mikeb26/compgen/notify"
	"github.com/mikeb26/compgen/roster"
	"github.com/mikeb26/compgen/staging"
	"github.com/mikeb26/compgen/wca"
)

//go:embed help.txt
var helpText string

// cmdHandler defines the signature for command handler functions.
type cmdHandler func(ctx context.Context, args []string)

// commands maps command names to their respective handler functions.
var commands = map[string]cmdHandler{
	"help":       handleHelp,
	"stage":      handleStage,
	"roster":     handleRoster,
	"schedule":   handleSchedule,
	"scorecards": handleScorecards,
	"check":      handleCheck,
	"announce":   handleAnnounce,
}

const defaultConfig = "compgen.json"

var errProblemsFound = errors.New("problems found")

func main() {
	ctx := context.Background()
	log.SetFlags(0)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	cmd := os.Args[1]
	if handler, ok := commands[cmd]; ok {
		handler(ctx, os.Args[2:])
	} else {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Printf("%v", helpText)
}

func handleHelp(ctx context.Context, args []string) {
	usage()
}

// commonFlags registers the flags every command but help takes.
func commonFlags(fs *flag.FlagSet) (*string, *string) {
	cfgPath := fs.String("config", defaultConfig,
		"Config file (.json, .jsonc, .yaml); a path, http(s) URL or s3:// URI")
	sheet := fs.String("assignments", "",
		"Assignment sheet overriding the config's assignments setting")
	return cfgPath, sheet
}

func handleStage(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("stage", flag.ExitOnError)
	cfgPath, sheet := commonFlags(fs)
	outDir := fs.String("out", "", "Output directory overriding the config's output_dir")
	dryRun := fs.Bool("dry-run", false, "Print the roster without writing any files")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	in, err := loadInputs(ctx, *cfgPath, *sheet, false)
	if err != nil {
		log.Fatalf("Error loading inputs: %v", err)
	}
	if *outDir != "" {
		in.cfg.OutputDir = *outDir
	}
	if err := runStage(ctx, in, *dryRun, os.Stdout); err != nil {
		log.Fatalf("Error staging %v: %v", in.cfg.Competition, err)
	}
}

// runStage stages in's table, prints the roster to w and, unless dryRun,
// writes the staged sheet and the roster to the output directory.
func runStage(ctx context.Context, in *inputs, dryRun bool, w io.Writer) error {
	if len(in.cfg.Stages) == 0 {
		log.Printf("compgen: no stages configured; nothing to stage")
	}
	comp.CheckColumns(in.cfg, in.tbl)
	report, err := staging.AssignStages(in.cfg, in.tbl)
	if err != nil {
		return err
	}
	rosterText, err := roster.BuildRosterOutput(in.cfg, in.tbl, report)
	if err != nil {
		return err
	}
	fmt.Fprint(w, rosterText)
	if dryRun {
		return nil
	}

	var csvBuf bytes.Buffer
	if err := roster.WriteCSV(&csvBuf, in.tbl); err != nil {
		return err
	}
	return writeOutputs(ctx, in.loc, in.cfg.OutputDir, []output{
		{name: roster.Filename(in.cfg.Competition, "staged assignments", ".csv"),
			data: csvBuf.Bytes()},
		{name: roster.Filename(in.cfg.Competition, "stage roster", ".txt"),
			data: []byte(rosterText)},
	})
}

func handleRoster(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("roster", flag.ExitOnError)
	cfgPath, sheet := commonFlags(fs)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	in, err := loadInputs(ctx, *cfgPath, *sheet, false)
	if err != nil {
		log.Fatalf("Error loading inputs: %v", err)
	}
	if err := runRoster(in, os.Stdout); err != nil {
		log.Fatalf("Error building roster: %v", err)
	}
}

// ensureStaged stages in's table in memory unless the sheet was staged
// already, so every output can be made straight from the unstaged sheet.
// The report is nil when nothing was staged.
func ensureStaged(in *inputs) (staging.Report, error) {
	report, err := staging.AssignStages(in.cfg, in.tbl)
	if errors.Is(err, staging.ErrAlreadyStaged) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(report) > 0 {
		log.Printf("compgen: %v is not staged; staged it in memory", in.cfg.Assignments)
	}

	return report, nil
}

func runRoster(in *inputs, w io.Writer) error {
	report, err := ensureStaged(in)
	if err != nil {
		return err
	}
	output, err := roster.BuildRosterOutput(in.cfg, in.tbl, report)
	if err != nil {
		return err
	}
	fmt.Fprint(w, output)

	return nil
}

func handleSchedule(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("schedule", flag.ExitOnError)
	cfgPath, sheet := commonFlags(fs)
	name := fs.String("name", "", "Person to print the schedule of; all people if empty")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	in, err := loadInputs(ctx, *cfgPath, *sheet, false)
	if err != nil {
		log.Fatalf("Error loading inputs: %v", err)
	}
	if err := runSchedule(in, *name, os.Stdout); err != nil {
		log.Fatalf("Error building schedule: %v", err)
	}
}

func runSchedule(in *inputs, name string, w io.Writer) error {
	if _, err := ensureStaged(in); err != nil {
		return err
	}
	names := []string{name}
	if name == "" {
		names = nil
		for _, p := range in.tbl.People() {
			names = append(names, p.Name)
		}
	}
	for i, n := range names {
		output, err := roster.BuildScheduleOutput(in.cfg, in.tbl, n)
		if err != nil {
			return err
		}
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprint(w, output)
	}

	return nil
}

func handleScorecards(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("scorecards", flag.ExitOnError)
	cfgPath, sheet := commonFlags(fs)
	event := fs.String("event", "", "Event id, e.g. 333; all configured events if empty")
	blanks := fs.Bool("blanks", false, "Print the scorecard_blanks cards instead of round 1 cards")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	in, err := loadInputs(ctx, *cfgPath, *sheet, false)
	if err != nil {
		log.Fatalf("Error loading inputs: %v", err)
	}
	if *blanks {
		err = runBlankScorecards(in, os.Stdout)
	} else {
		err = runScorecards(in, *event, os.Stdout)
	}
	if err != nil {
		log.Fatalf("Error building scorecards: %v", err)
	}
}

func runScorecards(in *inputs, event string, w io.Writer) error {
	if _, err := ensureStaged(in); err != nil {
		return err
	}
	events := []string{event}
	if event == "" {
		events = in.cfg.EventIDs()
	}
	for _, ev := range events {
		cards, err := roster.Scorecards(in.cfg, in.tbl, ev)
		if err != nil {
			return err
		}
		for _, sc := range cards {
			printScorecard(w, sc)
		}
	}

	return nil
}

func runBlankScorecards(in *inputs, w io.Writer) error {
	cards, err := roster.BlankScorecards(in.cfg)
	if err != nil {
		return err
	}
	if len(cards) == 0 {
		fmt.Fprintln(w, "no scorecard_blanks configured")
	}
	for _, sc := range cards {
		printScorecard(w, sc)
	}

	return nil
}

func printScorecard(w io.Writer, sc roster.Scorecard) {
	eventName := sc.EventName
	if eventName == "" {
		eventName = "Event: ______________"
	}
	fmt.Fprintln(w, eventName)
	if sc.IsBlank() {
		fmt.Fprint(w, "Name: ______________  WCA ID: __________")
	} else {
		fmt.Fprintf(w, "#%d %v", sc.Number, sc.Competitor)
		if sc.WCAID != "" {
			fmt.Fprintf(w, " (%v)", sc.WCAID)
		}
	}
	fmt.Fprintf(w, "\n%v\n", sc.Header())
	if line := sc.CutoffLine(); line != "" {
		fmt.Fprintln(w, line)
	}
	if sc.TimeLimit != "" {
		fmt.Fprintf(w, "Time limit: %v\n", sc.TimeLimit)
	}
	for i := 1; i <= sc.SolveCount; i++ {
		fmt.Fprintf(w, "  %d: ________\n", i)
	}
	fmt.Fprintln(w)
}

func handleCheck(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	cfgPath, sheet := commonFlags(fs)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	in, err := loadInputs(ctx, *cfgPath, *sheet, true)
	if err != nil {
		log.Fatalf("Error loading inputs: %v", err)
	}
	if err := runCheck(in, os.Stdout); err != nil {
		log.Fatalf("Check failed: %v", err)
	}
}

// runCheck reports sheet columns missing for configured events and, when
// registrations were fetched, sheet/registration mismatches.
func runCheck(in *inputs, w io.Writer) error {
	problems := 0
	for _, ev := range comp.CheckColumns(in.cfg, in.tbl) {
		fmt.Fprintf(w, "event %v has no column in the sheet\n", ev)
		problems++
	}
	if in.cfg.WCACompetitionID == "" {
		fmt.Fprintln(w, "no wca_competition_id configured; skipping registration check")
	} else {
		for _, m := range wca.CrossCheck(in.tbl, in.regs) {
			fmt.Fprintln(w, m.String())
			problems++
		}
	}
	if problems > 0 {
		return fmt.Errorf("%w: %d", errProblemsFound, problems)
	}
	fmt.Fprintln(w, "no problems found")

	return nil
}

func handleAnnounce(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("announce", flag.ExitOnError)
	cfgPath, sheet := commonFlags(fs)
	webhook := fs.String("webhook", "", "Discord webhook URL overriding the config's discord_webhook")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	in, err := loadInputs(ctx, *cfgPath, *sheet, false)
	if err != nil {
		log.Fatalf("Error loading inputs: %v", err)
	}
	if *webhook != "" {
		in.cfg.DiscordWebhook = *webhook
	}
	if in.cfg.DiscordWebhook == "" {
		fmt.Fprintln(os.Stderr, "Please provide a --webhook URL or set discord_webhook.")
		fs.Usage()
		os.Exit(1)
	}
	announcer, err := notify.NewAnnouncer()
	if err != nil {
		log.Fatalf("Error creating announcer: %v", err)
	}
	if err := runAnnounce(ctx, in, announcer); err != nil {
		log.Fatalf("Error announcing: %v", err)
	}
}

func runAnnounce(ctx context.Context, in *inputs, a *notify.Announcer) error {
	report, err := ensureStaged(in)
	if err != nil {
		return err
	}
	embeds, err := notify.BuildEmbeds(in.cfg, in.tbl, report)
	if err != nil {
		return err
	}
	content := strings.TrimSpace(fmt.Sprintf("**%v** stage assignments",
		in.cfg.Competition))

	return a.Announce(ctx, in.cfg.DiscordWebhook, content, embeds)
}
