/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package roles parses and formats the per-event role strings found in a
// competition's assignment sheet, e.g. "C1;J2" (compete in group 1, judge
// group 2) or, once a stage has been chosen, "CR1;J2".
package roles

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is the leading letter of a role entry.
type Kind byte

const (
	KindCompeting Kind = 'C'
	KindJudging   Kind = 'J'
	KindRunning   Kind = 'R'
	KindScramble  Kind = 'S'
)

const sep = ";"

var (
	ErrMalformedRole     = errors.New("malformed role")
	ErrAlreadyStaged     = errors.New("role already carries a stage tag")
	ErrInvalidStageTag   = errors.New("invalid stage tag")
	ErrSimultaneousRoles = errors.New("simultaneous assignments")
)

// Entry is a single ';' delimited chunk of a role string. For competing
// entries Stage holds the (possibly empty) stage tag and Group the group
// number. Other kinds keep everything after the kind letter in Group.
type Entry struct {
	Kind  Kind
	Stage string
	Group string
}

// Roles is the ordered list of entries for one person in one event.
type Roles []Entry

func (e Entry) IsCompeting() bool {
	return e.Kind == KindCompeting
}

func (e Entry) String() string {
	return string(e.Kind) + e.Stage + e.Group
}

func (r Roles) String() string {
	chunks := make([]string, 0, len(r))
	for _, e := range r {
		chunks = append(chunks, e.String())
	}

	return strings.Join(chunks, sep)
}

// Competing returns the first competing entry, if any.
func (r Roles) Competing() (Entry, bool) {
	for _, e := range r {
		if e.IsCompeting() {
			return e, true
		}
	}

	return Entry{}, false
}

// Helping returns the non-competing entries in their original order.
func (r Roles) Helping() Roles {
	var ret Roles
	for _, e := range r {
		if !e.IsCompeting() {
			ret = append(ret, e)
		}
	}

	return ret
}

// ParseEntry parses one chunk. Competing chunks must look like
// "C" <letters>* <digits>+.
func ParseEntry(chunk string) (Entry, error) {
	if chunk == "" {
		return Entry{}, fmt.Errorf("%w: empty entry", ErrMalformedRole)
	}
	e := Entry{Kind: Kind(chunk[0])}
	rest := chunk[1:]
	if !e.IsCompeting() {
		e.Group = rest

		return e, nil
	}

	i := 0
	for i < len(rest) && isLetter(rest[i]) {
		i++
	}
	e.Stage = rest[:i]
	e.Group = rest[i:]
	if e.Group == "" || !allDigits(e.Group) {
		return Entry{}, fmt.Errorf("%w: competing entry %q has no group number",
			ErrMalformedRole, chunk)
	}

	return e, nil
}

// Parse splits a role string into entries. Surrounding whitespace and empty
// chunks are ignored, so "" parses to an empty Roles.
func Parse(s string) (Roles, error) {
	var ret Roles
	for _, chunk := range strings.Split(s, sep) {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		e, err := ParseEntry(chunk)
		if err != nil {
			return nil, err
		}
		ret = append(ret, e)
	}

	return ret, nil
}

// IsCompeting reports whether the role string holds a competing entry.
// Unparseable strings that still carry a competing chunk count as
// competing so callers surface the parse error instead of skipping them.
func IsCompeting(s string) bool {
	for _, chunk := range strings.Split(s, sep) {
		chunk = strings.TrimSpace(chunk)
		if chunk != "" && Kind(chunk[0]) == KindCompeting {
			return true
		}
	}

	return false
}

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}
