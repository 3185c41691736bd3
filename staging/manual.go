/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package staging

import (
	"github.com/mikeb26/compgen/comp"
)

// AssignManual puts every competitor of event on stage, whatever the group
// sizes.
func AssignManual(t *comp.Table, stage comp.Stage, event string) error {
	for _, p := range Competitors(t, event) {
		if err := restage(p, event, stage.Tag); err != nil {
			return err
		}
	}

	return nil
}
