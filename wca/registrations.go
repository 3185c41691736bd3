/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package wca reads a competition's public registration list from the
// World Cube Association website and checks an assignment sheet against it.
package wca

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mikeb26/compgen/internal"
)

// Registration is one accepted competitor. WCAID is empty for newcomers.
type Registration struct {
	Name  string
	WCAID string
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a client whose page fetches are cached for a day,
// in cacheBucket when one is given.
func NewClient(ctx context.Context, cacheBucket string) *Client {
	return &Client{
		baseURL:    internal.WCABase,
		httpClient: internal.NewCachedHttpClient(ctx, cacheBucket, 24*time.Hour),
	}
}

// FetchRegistrations retrieves the accepted registrations of compID, e.g.
// "BostonSummerOpen2025".
func (client *Client) FetchRegistrations(ctx context.Context,
	compID string) ([]Registration, error) {

	endpoint := fmt.Sprintf("%v/competitions/%v/registrations", client.baseURL,
		url.PathEscape(compID))
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating registrations request: %w", err)
	}
	req.Header.Set("User-Agent", internal.UserAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := client.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing registrations HTTP GET: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("unexpected registrations status %d: %s",
			resp.StatusCode, string(body))
	}

	return ParseRegistrations(resp.Body)
}

// ParseRegistrations extracts the competitor list from a registrations
// page. A row's name is its first cell; its WCA ID comes from the link to
// the person's profile, if any.
func ParseRegistrations(r io.Reader) ([]Registration, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing registrations page: %w", err)
	}

	var regs []Registration
	doc.Find("table tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() == 0 {
			return
		}
		nameCell := cells.Filter(".name")
		if nameCell.Length() == 0 {
			nameCell = cells.First()
		}
		name := strings.Join(strings.Fields(nameCell.Text()), " ")
		if name == "" {
			return
		}
		reg := Registration{Name: name}
		if href, ok := row.Find(`a[href*="/persons/"]`).Attr("href"); ok {
			reg.WCAID = personID(href)
		}
		regs = append(regs, reg)
	})

	return regs, nil
}

func personID(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}

	return strings.ToUpper(path.Base(u.Path))
}
