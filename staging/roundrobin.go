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

// AssignRoundRobin deals the members of each group of event across stages
// in config order: first member to the first stage, second to the second,
// wrapping around. Every group starts again at the first stage. Capacity is
// ignored.
func AssignRoundRobin(t *comp.Table, stages []comp.Stage, event string) error {
	if len(stages) == 0 {
		return fmt.Errorf("%v: no stages to deal competitors onto", event)
	}
	people, groups, err := PeopleAndGroups(t, event)
	if err != nil {
		return err
	}

	// group ids are looked up before any restaging so every member is
	// matched against the sheet as loaded
	memberOf := make([]string, len(people))
	for i, p := range people {
		if memberOf[i], err = roles.GroupOf(p.Roles(event)); err != nil {
			return err
		}
	}

	for _, g := range groups {
		cursor := 0
		for i, p := range people {
			if memberOf[i] != g.ID {
				continue
			}
			if err := restage(p, event, stages[cursor].Tag); err != nil {
				return err
			}
			cursor = (cursor + 1) % len(stages)
		}
	}

	return nil
}
