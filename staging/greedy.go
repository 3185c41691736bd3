/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package staging

import (
	"sort"

	"github.com/mikeb26/compgen/comp"
	"github.com/mikeb26/compgen/roles"
)

// Binding places one competing group on one stage.
type Binding struct {
	Group Group
	Stage comp.Stage
}

// Pack maps every group onto a stage it fits on. Stages are visited from
// largest to smallest capacity, repeatedly, and each takes the largest
// remaining group that fits; among equal sizes the earliest group wins. A
// stage may take several groups over successive passes since groups run one
// after another. If some stage finds nothing that fits, Pack gives up and
// returns false.
//
// This is a heuristic: it can fail on inputs a smarter packer would solve.
func Pack(stages []comp.Stage, groups Groups) ([]Binding, bool) {
	if len(groups) == 0 {
		return nil, true
	}
	if len(stages) == 0 {
		return nil, false
	}

	byCap := append([]comp.Stage(nil), stages...)
	sort.SliceStable(byCap, func(i, j int) bool {
		return byCap[i].Capacity > byCap[j].Capacity
	})
	pool := append(Groups(nil), groups...)

	var plan []Binding
	for {
		for _, st := range byCap {
			best := -1
			for i, g := range pool {
				if g.Size <= st.Capacity &&
					(best < 0 || g.Size > pool[best].Size) {
					best = i
				}
			}
			if best < 0 {
				return nil, false
			}
			plan = append(plan, Binding{Group: pool[best], Stage: st})
			pool = append(pool[:best], pool[best+1:]...)
			if len(pool) == 0 {
				return plan, true
			}
		}
	}
}

// AssignGreedy stages event according to Pack. When Pack fails nothing is
// written and false is returned so the caller can fall back.
func AssignGreedy(t *comp.Table, stages []comp.Stage,
	event string) ([]Binding, bool, error) {

	people, groups, err := PeopleAndGroups(t, event)
	if err != nil {
		return nil, false, err
	}
	plan, ok := Pack(stages, groups)
	if !ok {
		return nil, false, nil
	}

	tagOf := make(map[string]string, len(plan))
	for _, b := range plan {
		tagOf[b.Group.ID] = b.Stage.Tag
	}
	for _, p := range people {
		g, err := roles.GroupOf(p.Roles(event))
		if err != nil {
			return nil, false, err
		}
		if err := restage(p, event, tagOf[g]); err != nil {
			return nil, false, err
		}
	}

	return plan, true, nil
}
