/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package staging decides which stage each competing group of a first round
// runs on and writes the stage tag into every competitor's role string.
//
// Per event exactly one strategy runs:
//   - manual: the event config pins it to one stage;
//   - greedy: each group gets a stage it fits on, filling the biggest
//     stages with the biggest groups first;
//   - round robin: if greedy cannot fit every group, each group's members
//     are dealt across all stages in turn, ignoring capacity.
package staging
