/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package notify announces stage assignments to a Discord channel through
// a webhook.
package notify

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/mikeb26/compgen/comp"
	"github.com/mikeb26/compgen/roster"
	"github.com/mikeb26/compgen/staging"
)

// Discord message limits
const (
	maxEmbedsPerMsg = 10
	maxFields       = 25
	maxTitle        = 256
	maxDescription  = 4096
	maxFieldName    = 256
	maxFieldValue   = 1024
)

// BuildEmbeds builds one embed per configured event listing who competes in
// which group on which stage. report may be nil.
func BuildEmbeds(cfg *comp.Config, t *comp.Table,
	report staging.Report) ([]*discordgo.MessageEmbed, error) {

	var embeds []*discordgo.MessageEmbed
	for _, ev := range cfg.Events {
		sgs, err := roster.EventRoster(cfg, t, ev.ID)
		if err != nil {
			return nil, err
		}
		name, _ := cfg.EventName(ev.ID)
		embed := &discordgo.MessageEmbed{
			Title: truncate(fmt.Sprintf("%v (%v)", name, ev.ID), maxTitle),
			Type:  discordgo.EmbedTypeRich,
		}
		if res, ok := report.Result(ev.ID); ok {
			embed.Description = truncate(describe(res), maxDescription)
		}
		if len(sgs) == 0 {
			embed.Description = "No competitors"
		}
		for _, sg := range sgs {
			if len(embed.Fields) == maxFields {
				break
			}
			names := make([]string, 0, len(sg.People))
			for _, p := range sg.People {
				names = append(names, p.Name)
			}
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name:  truncate(fieldName(sg), maxFieldName),
				Value: truncate(strings.Join(names, ", "), maxFieldValue),
			})
		}
		embeds = append(embeds, embed)
	}

	return embeds, nil
}

func describe(res staging.EventResult) string {
	switch res.Strategy {
	case staging.StrategyManual:
		return fmt.Sprintf("Everybody competes on %v", res.Stage.Name)
	case staging.StrategyGreedy:
		return "Whole groups placed on stages"
	}

	return fmt.Sprintf("Groups split across stages (%v)", res.Strategy)
}

func fieldName(sg roster.StageGroup) string {
	if sg.Stage.Name == "" {
		return fmt.Sprintf("Group %v", sg.Group)
	}

	return fmt.Sprintf("%v: group %v", sg.Stage.Name, sg.Group)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) > limit {
		s = fmt.Sprintf("%v...", string(runes[:limit-3]))
	}

	return s
}
