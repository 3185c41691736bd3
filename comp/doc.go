/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package comp holds a competition's configuration (stages, events) and its
// assignment table: who competes in which group of which event and who
// judges, runs or scrambles.
package comp
