/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package comp

import (
	"fmt"

	"github.com/mikeb26/compgen/roles"
)

// Person is one row of the assignment sheet.
type Person struct {
	Name string
	// Number is the competitor number, the 1-based row in the sheet.
	Number int
	WCAID  string

	roles map[string]string
}

// Roles returns the raw role string for event, "" when the person has none.
func (p *Person) Roles(event string) string {
	return p.roles[event]
}

func (p *Person) SetRoles(event string, s string) {
	p.roles[event] = s
}

// Table is the per-person, per-event role data for a competition. People
// keep sheet order, which every staging strategy relies on for
// deterministic output.
type Table struct {
	columns []string
	people  []*Person
	byName  map[string]*Person
	staged  map[string]bool
}

// NewTable returns an empty table whose event columns are columns.
func NewTable(columns []string) *Table {
	return &Table{
		columns: append([]string(nil), columns...),
		byName:  make(map[string]*Person),
		staged:  make(map[string]bool),
	}
}

// Add appends a person; their competitor number is their position.
func (t *Table) Add(name string, wcaID string,
	eventRoles map[string]string) (*Person, error) {

	if _, ok := t.byName[name]; ok {
		return nil, fmt.Errorf("duplicate person %q", name)
	}
	p := &Person{
		Name:   name,
		Number: len(t.people) + 1,
		WCAID:  wcaID,
		roles:  make(map[string]string, len(eventRoles)),
	}
	for ev, s := range eventRoles {
		p.roles[ev] = s
	}
	t.people = append(t.people, p)
	t.byName[name] = p

	return p, nil
}

// People returns everybody in sheet order.
func (t *Table) People() []*Person {
	return t.people
}

func (t *Table) Lookup(name string) (*Person, bool) {
	p, ok := t.byName[name]
	return p, ok
}

// Columns returns the event columns as they appeared in the sheet.
func (t *Table) Columns() []string {
	return t.columns
}

// IsStaged reports whether stages have already been assigned for event.
func (t *Table) IsStaged(event string) bool {
	return t.staged[event]
}

func (t *Table) MarkStaged(event string) {
	t.staged[event] = true
}

// IsCompetitor reports whether name competes in any event; people who only
// help are not competitors.
func (t *Table) IsCompetitor(name string) bool {
	p, ok := t.byName[name]
	if !ok {
		return false
	}
	for _, s := range p.roles {
		if roles.IsCompeting(s) {
			return true
		}
	}

	return false
}
