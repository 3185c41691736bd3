/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"

	"github.com/mikeb26/compgen/comp"
	"github.com/mikeb26/compgen/staging"
)

type webhookCall struct {
	id     string
	token  string
	params *discordgo.WebhookParams
}

type fakeExecutor struct {
	calls []webhookCall
	err   error
}

func (f *fakeExecutor) WebhookExecute(webhookID, token string, wait bool,
	data *discordgo.WebhookParams,
	options ...discordgo.RequestOption) (*discordgo.Message, error) {

	f.calls = append(f.calls, webhookCall{id: webhookID, token: token, params: data})
	return &discordgo.Message{}, f.err
}

const testWebhook = "https://discord.com/api/webhooks/1234/s3cr3t"

func TestParseWebhookURL(t *testing.T) {
	tests := []struct {
		in    string
		id    string
		token string
		ok    bool
	}{
		{in: testWebhook, id: "1234", token: "s3cr3t", ok: true},
		{in: "https://discordapp.com/api/webhooks/99/abc/", id: "99", token: "abc", ok: true},
		{in: "http://discord.com/api/webhooks/1234/s3cr3t"},
		{in: "https://discord.com/api/webhooks/1234"},
		{in: "https://discord.com/channels/1234/5678"},
		{in: "not a url"},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			id, token, err := ParseWebhookURL(tc.in)
			if !tc.ok {
				if !errors.Is(err, ErrBadWebhookURL) {
					t.Errorf("err = %v; want ErrBadWebhookURL", err)
				}
				return
			}
			if err != nil || id != tc.id || token != tc.token {
				t.Errorf("got (%q, %q, %v); want (%q, %q)", id, token, err, tc.id, tc.token)
			}
		})
	}
}

func TestAnnounceBatches(t *testing.T) {
	var embeds []*discordgo.MessageEmbed
	for i := 0; i < 23; i++ {
		embeds = append(embeds, &discordgo.MessageEmbed{Title: "event"})
	}
	fake := &fakeExecutor{}
	a := NewAnnouncerWithExecutor(fake)

	if err := a.Announce(context.Background(), testWebhook, "Stages are out", embeds); err != nil {
		t.Fatalf("Announce: %v", err)
	}
	if len(fake.calls) != 3 {
		t.Fatalf("got %d messages; want 3", len(fake.calls))
	}
	sizes := []int{10, 10, 3}
	for i, c := range fake.calls {
		if c.id != "1234" || c.token != "s3cr3t" {
			t.Errorf("call %d went to %v/%v", i, c.id, c.token)
		}
		if len(c.params.Embeds) != sizes[i] {
			t.Errorf("call %d has %d embeds; want %d", i, len(c.params.Embeds), sizes[i])
		}
	}
	if fake.calls[0].params.Content != "Stages are out" || fake.calls[1].params.Content != "" {
		t.Error("content should only be sent with the first message")
	}
}

func TestAnnounceContentOnly(t *testing.T) {
	fake := &fakeExecutor{}
	a := NewAnnouncerWithExecutor(fake)

	if err := a.Announce(context.Background(), testWebhook, "hello", nil); err != nil {
		t.Fatalf("Announce: %v", err)
	}
	if len(fake.calls) != 1 || fake.calls[0].params.Content != "hello" {
		t.Errorf("calls = %+v", fake.calls)
	}
}

func TestAnnounceErrors(t *testing.T) {
	fake := &fakeExecutor{err: errors.New("rate limited")}
	a := NewAnnouncerWithExecutor(fake)

	err := a.Announce(context.Background(), testWebhook, "hi", nil)
	if err == nil || !strings.Contains(err.Error(), "rate limited") {
		t.Errorf("err = %v", err)
	}
	if err := a.Announce(context.Background(), "https://example.com/", "hi", nil); !errors.Is(err, ErrBadWebhookURL) {
		t.Errorf("err = %v; want ErrBadWebhookURL", err)
	}
}

func TestBuildEmbeds(t *testing.T) {
	cfg := &comp.Config{
		Stages: []comp.Stage{
			{Name: "Red", Tag: "R", Capacity: 2},
			{Name: "Blue", Tag: "B", Capacity: 2},
		},
		Events: []comp.Event{
			{ID: "333", SolveCount: 5},
			{ID: "pyram", SolveCount: 5, ForcedStage: "Red"},
			{ID: "sq1", SolveCount: 5},
		},
	}
	sheet := `Name,333,pyram,sq1
Charlie Brown,C1,C1,
Ada Lovelace,C2,,J1
Alan Turing,C1,C2,
`
	tbl, err := comp.LoadAssignments(strings.NewReader(sheet))
	if err != nil {
		t.Fatalf("LoadAssignments: %v", err)
	}
	report, err := staging.AssignStages(cfg, tbl)
	if err != nil {
		t.Fatalf("AssignStages: %v", err)
	}

	embeds, err := BuildEmbeds(cfg, tbl, report)
	if err != nil {
		t.Fatalf("BuildEmbeds: %v", err)
	}
	if len(embeds) != 3 {
		t.Fatalf("got %d embeds; want 3", len(embeds))
	}

	cube := embeds[0]
	if cube.Title != "3x3x3 Cube (333)" || cube.Description != "Whole groups placed on stages" {
		t.Errorf("333 embed = %+v", cube)
	}
	if len(cube.Fields) != 2 || cube.Fields[0].Name != "Red: group 1" ||
		cube.Fields[0].Value != "Charlie Brown, Alan Turing" ||
		cube.Fields[1].Name != "Blue: group 2" {
		t.Errorf("333 fields = %+v %+v", cube.Fields[0], cube.Fields[1])
	}
	if embeds[1].Description != "Everybody competes on Red" {
		t.Errorf("pyram description = %q", embeds[1].Description)
	}
	if embeds[2].Description != "No competitors" || len(embeds[2].Fields) != 0 {
		t.Errorf("sq1 embed = %+v", embeds[2])
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("é", 1100)
	got := truncate(long, maxFieldValue)
	if n := len([]rune(got)); n != maxFieldValue {
		t.Errorf("truncated to %d runes; want %d", n, maxFieldValue)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated value lacks ellipsis")
	}
	if truncate("short", maxFieldValue) != "short" {
		t.Error("short values must be unchanged")
	}
}
