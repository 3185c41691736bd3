/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package comp

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/mikeb26/compgen/roles"
)

// WCAIDColumn is the sheet column holding a person's WCA ID.
const WCAIDColumn = "WCA ID"

// LoadAssignments reads an assignment sheet. The first column is the
// person's name, WCAIDColumn their WCA ID, and every other column an event
// id holding that person's role string. Role strings are upper-cased so
// sheets may use "c1;j2". Suspicious role strings are logged and kept.
func LoadAssignments(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("assignments: empty sheet")
		}
		return nil, fmt.Errorf("assignments: reading header: %w", err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("assignments: header needs a name column and at least one event column")
	}

	wcaIdx := -1
	var columns []string
	for j := 1; j < len(header); j++ {
		col := strings.TrimSpace(header[j])
		header[j] = col
		if col == WCAIDColumn {
			wcaIdx = j
			continue
		}
		columns = append(columns, col)
	}

	t := NewTable(columns)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("assignments: %w", err)
		}

		who := strings.TrimSpace(row[0])
		wcaID := ""
		eventRoles := make(map[string]string, len(columns))
		for j := 1; j < len(header); j++ {
			cell := strings.TrimSpace(row[j])
			if j == wcaIdx {
				wcaID = cell
				continue
			}
			cell = strings.ToUpper(cell)
			if err := roles.ValidateAssignment(who, header[j], cell); err != nil {
				log.Printf("comp.load: warning: %v", err)
			}
			eventRoles[header[j]] = cell
		}
		if _, err := t.Add(who, wcaID, eventRoles); err != nil {
			return nil, fmt.Errorf("assignments: %w", err)
		}
	}

	return t, nil
}

// CheckColumns logs configured events that the sheet has no column for.
// Everybody reads as not participating in such events.
func CheckColumns(cfg *Config, t *Table) []string {
	have := make(map[string]struct{}, len(t.Columns()))
	for _, c := range t.Columns() {
		have[c] = struct{}{}
	}
	var missing []string
	for _, id := range cfg.EventIDs() {
		if _, ok := have[id]; !ok {
			log.Printf("comp.check: warning: no assignments column for event %v", id)
			missing = append(missing, id)
		}
	}

	return missing
}
