/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package wca

import (
	"fmt"
	"strings"

	"github.com/mikeb26/compgen/comp"
)

type MismatchKind int

const (
	// NotRegistered is a sheet competitor with no matching registration.
	NotRegistered MismatchKind = iota
	// WCAIDDiffers is a name match whose WCA IDs disagree.
	WCAIDDiffers
	// NotInSheet is a registered competitor the sheet does not list.
	NotInSheet
)

type Mismatch struct {
	Kind  MismatchKind
	Name  string
	Sheet string
	WCA   string
}

func (m Mismatch) String() string {
	switch m.Kind {
	case NotRegistered:
		return fmt.Sprintf("%v competes but is not registered", m.Name)
	case WCAIDDiffers:
		return fmt.Sprintf("%v has WCA ID %q in the sheet but %q on the WCA site",
			m.Name, m.Sheet, m.WCA)
	case NotInSheet:
		return fmt.Sprintf("%v is registered but has no assignments", m.Name)
	}

	return fmt.Sprintf("%v: unknown mismatch", m.Name)
}

// CrossCheck compares the competitors of t with regs. People are matched by
// WCA ID when the sheet has one, otherwise by case-insensitive name.
// Helpers who compete in nothing are not expected to be registered.
func CrossCheck(t *comp.Table, regs []Registration) []Mismatch {
	byID := make(map[string]int)
	byName := make(map[string]int)
	for i, r := range regs {
		if r.WCAID != "" {
			byID[strings.ToUpper(r.WCAID)] = i
		}
		byName[foldName(r.Name)] = i
	}

	var ret []Mismatch
	matched := make([]bool, len(regs))
	for _, p := range t.People() {
		i, ok := -1, false
		if p.WCAID != "" {
			i, ok = byID[strings.ToUpper(p.WCAID)]
		}
		if !ok {
			i, ok = byName[foldName(p.Name)]
			if ok && p.WCAID != "" &&
				!strings.EqualFold(p.WCAID, regs[i].WCAID) {
				ret = append(ret, Mismatch{Kind: WCAIDDiffers, Name: p.Name,
					Sheet: p.WCAID, WCA: regs[i].WCAID})
			}
		}
		if ok {
			matched[i] = true
			continue
		}
		if t.IsCompetitor(p.Name) {
			ret = append(ret, Mismatch{Kind: NotRegistered, Name: p.Name,
				Sheet: p.WCAID})
		}
	}
	for i, r := range regs {
		if !matched[i] {
			ret = append(ret, Mismatch{Kind: NotInSheet, Name: r.Name,
				WCA: r.WCAID})
		}
	}

	return ret
}

func foldName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
