/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package roster

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/mikeb26/compgen/comp"
)

// WriteCSV writes t back out in the sheet layout LoadAssignments reads:
// name, WCA ID, then one column per event in sheet order.
func WriteCSV(w io.Writer, t *comp.Table) error {
	cw := csv.NewWriter(w)
	header := append([]string{"Name", comp.WCAIDColumn}, t.Columns()...)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, p := range t.People() {
		row := []string{p.Name, p.WCAID}
		for _, col := range t.Columns() {
			row = append(row, p.Roles(col))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()

	return cw.Error()
}

// Filename builds an output file name from the competition name and the
// content, e.g. "Boston_Open_2025_staged_assignments.csv".
func Filename(competition string, content string, ext string) string {
	words := append(strings.Fields(competition), strings.Fields(content)...)

	return strings.Join(words, "_") + ext
}
