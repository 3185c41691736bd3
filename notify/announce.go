/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package notify

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/bwmarrin/discordgo"
)

var ErrBadWebhookURL = errors.New("not a discord webhook url")

// WebhookExecutor is the part of *discordgo.Session the announcer needs.
type WebhookExecutor interface {
	WebhookExecute(webhookID, token string, wait bool,
		data *discordgo.WebhookParams,
		options ...discordgo.RequestOption) (*discordgo.Message, error)
}

type Announcer struct {
	exec     WebhookExecutor
	Username string
}

// NewAnnouncer returns an announcer posting through an unauthenticated
// discordgo session; webhooks carry their own token.
func NewAnnouncer() (*Announcer, error) {
	session, err := discordgo.New("")
	if err != nil {
		return nil, fmt.Errorf("creating discord session: %w", err)
	}
	session.UserAgent = "compgen"

	return NewAnnouncerWithExecutor(session), nil
}

func NewAnnouncerWithExecutor(exec WebhookExecutor) *Announcer {
	return &Announcer{exec: exec, Username: "Stage Assignments"}
}

// Announce posts content followed by embeds to the webhook, splitting the
// embeds across as many messages as Discord's per-message limit requires.
func (a *Announcer) Announce(ctx context.Context, webhookURL string,
	content string, embeds []*discordgo.MessageEmbed) error {

	id, token, err := ParseWebhookURL(webhookURL)
	if err != nil {
		return err
	}

	first := true
	for len(embeds) > 0 || first {
		n := min(len(embeds), maxEmbedsPerMsg)
		params := &discordgo.WebhookParams{
			Username: a.Username,
			Embeds:   embeds[:n],
		}
		if first {
			params.Content = truncate(content, 2000)
		}
		if _, err := a.exec.WebhookExecute(id, token, true, params,
			discordgo.WithContext(ctx)); err != nil {
			return fmt.Errorf("posting to discord webhook %v: %w", id, err)
		}
		embeds = embeds[n:]
		first = false
	}
	log.Printf("notify.announce: posted to webhook %v", id)

	return nil
}

// ParseWebhookURL splits https://discord.com/api/webhooks/{id}/{token}
// into its id and token.
func ParseWebhookURL(webhookURL string) (string, string, error) {
	u, err := url.Parse(webhookURL)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrBadWebhookURL, err)
	}
	if u.Scheme != "https" || u.Host == "" {
		return "", "", fmt.Errorf("%w: %q", ErrBadWebhookURL, webhookURL)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) != 4 || parts[0] != "api" || parts[1] != "webhooks" ||
		parts[2] == "" || parts[3] == "" {
		return "", "", fmt.Errorf("%w: %q", ErrBadWebhookURL, webhookURL)
	}

	return parts[2], parts[3], nil
}
