/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package staging

import (
	"fmt"

	"github.com/mikeb26/compgen/comp"
	"github.com/mikeb26/compgen/roles"
)

// Group is a competing group of one event and how many people are in it.
type Group struct {
	ID   string
	Size int
}

// Groups are ordered by the sheet position of each group's first member.
type Groups []Group

func (gs Groups) indexOf(id string) int {
	for i, g := range gs {
		if g.ID == id {
			return i
		}
	}

	return -1
}

// Competitors returns everybody competing in event, in sheet order.
func Competitors(t *comp.Table, event string) []*comp.Person {
	var people []*comp.Person
	for _, p := range t.People() {
		if roles.IsCompeting(p.Roles(event)) {
			people = append(people, p)
		}
	}

	return people
}

// PeopleAndGroups returns the competitors of event and the size of each
// competing group.
func PeopleAndGroups(t *comp.Table, event string) ([]*comp.Person, Groups, error) {
	people := Competitors(t, event)
	var groups Groups
	for _, p := range people {
		g, err := roles.GroupOf(p.Roles(event))
		if err != nil {
			return nil, nil, fmt.Errorf("%v in %v: %w", p.Name, event, err)
		}
		if i := groups.indexOf(g); i >= 0 {
			groups[i].Size++
		} else {
			groups = append(groups, Group{ID: g, Size: 1})
		}
	}

	return people, groups, nil
}

// restage writes tag into p's competing entry for event.
func restage(p *comp.Person, event string, tag string) error {
	s, err := roles.AssignStageTag(p.Roles(event), tag)
	if err != nil {
		return fmt.Errorf("%v in %v: %w", p.Name, event, err)
	}
	p.SetRoles(event, s)

	return nil
}
