/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package roles

import (
	"fmt"
)

// GroupOf returns the group number of the first competing entry in s.
func GroupOf(s string) (string, error) {
	r, err := Parse(s)
	if err != nil {
		return "", err
	}
	e, ok := r.Competing()
	if !ok {
		return "", fmt.Errorf("%w: no group present in assignment string %q",
			ErrMalformedRole, s)
	}

	return e.Group, nil
}

// StageOf returns the stage tag of the first competing entry in s; the tag
// is empty before staging.
func StageOf(s string) (string, error) {
	r, err := Parse(s)
	if err != nil {
		return "", err
	}
	e, ok := r.Competing()
	if !ok {
		return "", fmt.Errorf("%w: no group present in assignment string %q",
			ErrMalformedRole, s)
	}

	return e.Stage, nil
}

// AssignStageTag inserts tag into every competing entry of s, turning
// "C1;J2" into "CR1;J2". Entries that already carry a tag are refused so a
// role string can only ever be staged once.
func AssignStageTag(s string, tag string) (string, error) {
	if !ValidStageTag(tag) {
		return "", fmt.Errorf("%w: %q", ErrInvalidStageTag, tag)
	}
	r, err := Parse(s)
	if err != nil {
		return "", err
	}
	for i := range r {
		if !r[i].IsCompeting() {
			continue
		}
		if r[i].Stage != "" {
			return "", fmt.Errorf("%w: %q", ErrAlreadyStaged, s)
		}
		r[i].Stage = tag
	}

	return r.String(), nil
}

// ValidStageTag reports whether tag can be embedded in a competing entry
// without being mistaken for part of the group number. Tags are upper case
// since sheets are upper-cased when loaded.
func ValidStageTag(tag string) bool {
	if tag == "" {
		return false
	}
	for i := 0; i < len(tag); i++ {
		if tag[i] < 'A' || tag[i] > 'Z' {
			return false
		}
	}

	return true
}

// ValidateAssignment checks that who does not hold two roles for the same
// group of event (e.g. "C1;R1"). The result is advisory; the assignment is
// still usable.
func ValidateAssignment(who string, event string, s string) error {
	r, err := Parse(s)
	if err != nil {
		return err
	}
	used := make(map[string]struct{})
	for _, e := range r {
		if e.Group == "" {
			continue
		}
		if _, ok := used[e.Group]; ok {
			return fmt.Errorf("%w: %v has simultaneous assignments for %v: %v",
				ErrSimultaneousRoles, who, event, s)
		}
		used[e.Group] = struct{}{}
	}

	return nil
}
