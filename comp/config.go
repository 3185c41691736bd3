/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package comp

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/jsonc"

	"github.com/mikeb26/compgen/internal"
	"github.com/mikeb26/compgen/roles"
)

var ErrUnknownStageTag = errors.New("stage name not found")

type Format int

const (
	// FormatJSON accepts plain JSON as well as // and /* */ comments and
	// trailing commas.
	FormatJSON Format = iota
	FormatYAML
)

// FormatFromPath picks the config format from a file extension.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Stage is a physical competing area, e.g. {"Red", "R", 8}.
type Stage struct {
	Name     string
	Tag      string
	Capacity int
}

// Event is one first-round event. AttemptsBeforeCutoff is 0 when the event
// has no cutoff. ForcedStage, when it names a configured stage, puts every
// competitor of the event on that stage.
type Event struct {
	ID                   string
	SolveCount           int
	AttemptsBeforeCutoff int
	CutoffTime           string
	TimeLimit            string
	ForcedStage          string
}

// BlankEvent is the scorecard_blanks key for cards with no event printed.
// Such cards take the settings of 333.
const BlankEvent = "blank"

// BlankRequest asks for Count scorecards of Event for Round with no
// competitor on them, for later rounds and for spares.
type BlankRequest struct {
	Event string
	Round int
	Count int
}

type CustomEvent struct {
	ID        string
	Name      string
	ShortName string
}

type Config struct {
	Competition string
	Date        time.Time
	// Assignments locates the assignment CSV: a path, http(s) URL or
	// s3://bucket/key.
	Assignments      string
	Stages           []Stage
	Events           []Event
	CustomEvents     []CustomEvent
	WCACompetitionID string
	WebCacheBucket   string
	DiscordWebhook   string
	OutputDir        string
	// ScorecardBlanks is sorted by event id, rounds in config order.
	ScorecardBlanks []BlankRequest
}

type rawConfig struct {
	Competition      string        `json:"competition"`
	Date             string        `json:"date"`
	Assignments      string        `json:"assignments"`
	Stages           orderedObject `json:"stages"`
	Events           orderedObject `json:"events"`
	CustomEvents     [][]string    `json:"custom_events"`
	WCACompetitionID string        `json:"wca_competition_id"`
	WebCacheBucket   string        `json:"web_cache_bucket"`
	DiscordWebhook   string        `json:"discord_webhook"`
	OutputDir        string        `json:"output_dir"`
	ScorecardBlanks  orderedObject `json:"scorecard_blanks"`
}

// LoadConfig reads, parses and validates the config file at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	cfg, err := ParseConfig(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// ParseConfig decodes a config document. It does not validate it.
func ParseConfig(data []byte, format Format) (*Config, error) {
	var err error
	if format == FormatYAML {
		data, err = yamlToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("parsing yaml config: %w", err)
		}
	} else {
		data = jsonc.ToJSON(data)
	}

	var raw rawConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg := &Config{
		Competition:      raw.Competition,
		Assignments:      raw.Assignments,
		WCACompetitionID: raw.WCACompetitionID,
		WebCacheBucket:   raw.WebCacheBucket,
		DiscordWebhook:   raw.DiscordWebhook,
		OutputDir:        raw.OutputDir,
	}
	cfg.Date, err = internal.ParseDateOrZero(raw.Date)
	if err != nil {
		return nil, fmt.Errorf("parsing config date %q: %w", raw.Date, err)
	}
	for _, m := range raw.Stages {
		st, err := parseStage(m.Key, m.Value)
		if err != nil {
			return nil, err
		}
		cfg.Stages = append(cfg.Stages, st)
	}
	for _, m := range raw.Events {
		ev, err := parseEvent(m.Key, m.Value)
		if err != nil {
			return nil, err
		}
		cfg.Events = append(cfg.Events, ev)
	}
	for _, ce := range raw.CustomEvents {
		if len(ce) != 3 {
			return nil, fmt.Errorf("custom event %q: want [id, name, short name]",
				strings.Join(ce, ","))
		}
		cfg.CustomEvents = append(cfg.CustomEvents,
			CustomEvent{ID: ce[0], Name: ce[1], ShortName: ce[2]})
	}
	for _, m := range raw.ScorecardBlanks {
		reqs, err := parseBlanks(m.Key, m.Value)
		if err != nil {
			return nil, err
		}
		cfg.ScorecardBlanks = append(cfg.ScorecardBlanks, reqs...)
	}
	sort.SliceStable(cfg.ScorecardBlanks, func(i, j int) bool {
		return cfg.ScorecardBlanks[i].Event < cfg.ScorecardBlanks[j].Event
	})

	return cfg, nil
}

// parseStage decodes `"Red": ["R", 8]`.
func parseStage(name string, raw json.RawMessage) (Stage, error) {
	var fields []json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || len(fields) != 2 {
		return Stage{}, fmt.Errorf("stage %q: want [tag, capacity]", name)
	}
	st := Stage{Name: name}
	if err := json.Unmarshal(fields[0], &st.Tag); err != nil {
		return Stage{}, fmt.Errorf("stage %q: tag: %w", name, err)
	}
	// role cells are upper-cased on load; a lower case tag would not
	// survive a reload of the staged sheet
	st.Tag = strings.ToUpper(strings.TrimSpace(st.Tag))
	if err := json.Unmarshal(fields[1], &st.Capacity); err != nil {
		return Stage{}, fmt.Errorf("stage %q: capacity: %w", name, err)
	}

	return st, nil
}

// parseEvent decodes `"333": [5, 2, "1:00", "10:00"]` with an optional
// trailing stage name.
func parseEvent(id string, raw json.RawMessage) (Event, error) {
	var fields []json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil ||
		(len(fields) != 4 && len(fields) != 5) {

		return Event{}, fmt.Errorf("event %q: want [solves, attempts, cutoff, limit] and an optional stage",
			id)
	}
	ev := Event{ID: id}
	if err := json.Unmarshal(fields[0], &ev.SolveCount); err != nil {
		return Event{}, fmt.Errorf("event %q: solve count: %w", id, err)
	}
	var attempts *int
	if err := json.Unmarshal(fields[1], &attempts); err != nil {
		return Event{}, fmt.Errorf("event %q: attempts before cutoff: %w", id, err)
	}
	if attempts != nil {
		ev.AttemptsBeforeCutoff = *attempts
	}
	var err error
	if ev.CutoffTime, err = scalarString(fields[2]); err != nil {
		return Event{}, fmt.Errorf("event %q: cutoff: %w", id, err)
	}
	if ev.TimeLimit, err = scalarString(fields[3]); err != nil {
		return Event{}, fmt.Errorf("event %q: time limit: %w", id, err)
	}
	if len(fields) == 5 {
		if ev.ForcedStage, err = scalarString(fields[4]); err != nil {
			return Event{}, fmt.Errorf("event %q: stage: %w", id, err)
		}
	}

	return ev, nil
}

// parseBlanks decodes `"333": {"2": 20, "3": 10}`, round to card count.
func parseBlanks(event string, raw json.RawMessage) ([]BlankRequest, error) {
	var rounds orderedObject
	if err := json.Unmarshal(raw, &rounds); err != nil {
		return nil, fmt.Errorf("scorecard blanks %q: want {round: count}: %w",
			event, err)
	}
	var ret []BlankRequest
	for _, m := range rounds {
		round, err := strconv.Atoi(strings.TrimSpace(m.Key))
		if err != nil {
			return nil, fmt.Errorf("scorecard blanks %q: round %q is not a number",
				event, m.Key)
		}
		req := BlankRequest{Event: event, Round: round}
		if err := json.Unmarshal(m.Value, &req.Count); err != nil {
			return nil, fmt.Errorf("scorecard blanks %q round %d: count: %w",
				event, round, err)
		}
		ret = append(ret, req)
	}

	return ret, nil
}

func scalarString(raw json.RawMessage) (string, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", err
	}
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("want a string or number, got %s", raw)
	}
}

// Validate reports every structural problem in the config at once.
func (cfg *Config) Validate() error {
	var errs []error

	tags := make(map[string]string)
	for _, st := range cfg.Stages {
		if !roles.ValidStageTag(st.Tag) {
			errs = append(errs, fmt.Errorf("stage %q: tag %q must be upper case letters only",
				st.Name, st.Tag))
		}
		if other, ok := tags[st.Tag]; ok {
			errs = append(errs, fmt.Errorf("stage %q: tag %q already used by stage %q",
				st.Name, st.Tag, other))
		}
		tags[st.Tag] = st.Name
		if st.Capacity <= 0 {
			errs = append(errs, fmt.Errorf("stage %q: capacity must be positive, got %d",
				st.Name, st.Capacity))
		}
	}

	for _, ev := range cfg.Events {
		if ev.SolveCount < 1 || ev.SolveCount > 5 {
			errs = append(errs, fmt.Errorf("event %q: solve count must be 1-5, got %d",
				ev.ID, ev.SolveCount))
		}
		if ev.AttemptsBeforeCutoff < 0 ||
			(ev.AttemptsBeforeCutoff > 0 && ev.AttemptsBeforeCutoff >= ev.SolveCount) {
			errs = append(errs, fmt.Errorf("event %q: attempts before cutoff must be below the solve count, got %d",
				ev.ID, ev.AttemptsBeforeCutoff))
		}
	}

	for _, b := range cfg.ScorecardBlanks {
		settingsFrom := b.Event
		if b.Event == BlankEvent {
			settingsFrom = "333"
		}
		if _, ok := cfg.EventByID(settingsFrom); !ok {
			errs = append(errs, fmt.Errorf("scorecard blanks %q: event %q is not configured",
				b.Event, settingsFrom))
		}
		if b.Round < 1 {
			errs = append(errs, fmt.Errorf("scorecard blanks %q: round must be positive, got %d",
				b.Event, b.Round))
		}
		if b.Count < 0 {
			errs = append(errs, fmt.Errorf("scorecard blanks %q round %d: count must not be negative, got %d",
				b.Event, b.Round, b.Count))
		}
	}

	return errors.Join(errs...)
}

// EventByID returns the configured event id.
func (cfg *Config) EventByID(id string) (Event, bool) {
	for _, ev := range cfg.Events {
		if ev.ID == id {
			return ev, true
		}
	}

	return Event{}, false
}

// StageByName returns the stage configured under name.
func (cfg *Config) StageByName(name string) (Stage, bool) {
	for _, st := range cfg.Stages {
		if st.Name == name {
			return st, true
		}
	}

	return Stage{}, false
}

// StageName maps a stage tag such as "R" back to its full name such as
// "Red". A tag with no configured stage means the staged data and the config
// disagree.
func (cfg *Config) StageName(tag string) (string, error) {
	for _, st := range cfg.Stages {
		if st.Tag == tag {
			return st.Name, nil
		}
	}

	return "", fmt.Errorf("%w for shorthand %q", ErrUnknownStageTag, tag)
}

// StageTags returns the stage tags in config order.
func (cfg *Config) StageTags() []string {
	ret := make([]string, 0, len(cfg.Stages))
	for _, st := range cfg.Stages {
		ret = append(ret, st.Tag)
	}

	return ret
}

// ForcedStage returns the stage an event is pinned to, if its config names
// a configured stage.
func (cfg *Config) ForcedStage(ev Event) (Stage, bool) {
	if ev.ForcedStage == "" {
		return Stage{}, false
	}

	return cfg.StageByName(ev.ForcedStage)
}

// EventIDs returns the event ids in config order.
func (cfg *Config) EventIDs() []string {
	ret := make([]string, 0, len(cfg.Events))
	for _, ev := range cfg.Events {
		ret = append(ret, ev.ID)
	}

	return ret
}
