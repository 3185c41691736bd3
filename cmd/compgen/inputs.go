/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/mikeb26/compgen/comp"
	"github.com/mikeb26/compgen/internal"
	"github.com/mikeb26/compgen/wca"
)

// inputs is everything a command works from.
type inputs struct {
	cfg  *comp.Config
	loc  *internal.Locator
	tbl  *comp.Table
	regs []wca.Registration
}

// loadInputs reads the config at cfgPath, then fetches the assignment sheet
// and, when withRegs is set and the config names a WCA competition, its
// registrations concurrently.
func loadInputs(ctx context.Context, cfgPath string, sheetOverride string,
	withRegs bool) (*inputs, error) {

	// the cache bucket is only known once the config has been read
	data, err := internal.NewLocator("").ReadSource(ctx, cfgPath)
	if err != nil {
		return nil, err
	}
	cfg, err := comp.ParseConfig(data, comp.FormatFromPath(cfgPath))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfgPath, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", cfgPath, err)
	}
	if sheetOverride != "" {
		cfg.Assignments = sheetOverride
	}
	if cfg.Assignments == "" {
		return nil, fmt.Errorf("%s: no assignments sheet configured", cfgPath)
	}
	loc := internal.NewLocator(cfg.WebCacheBucket)

	in := &inputs{cfg: cfg, loc: loc}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sheet, err := loc.ReadSource(gctx, cfg.Assignments)
		if err != nil {
			return err
		}
		in.tbl, err = comp.LoadAssignments(bytes.NewReader(sheet))
		if err != nil {
			return fmt.Errorf("%s: %w", cfg.Assignments, err)
		}
		return nil
	})
	if withRegs && cfg.WCACompetitionID != "" {
		g.Go(func() error {
			client := wca.NewClient(gctx, cfg.WebCacheBucket)
			regs, err := client.FetchRegistrations(gctx, cfg.WCACompetitionID)
			if err != nil {
				return fmt.Errorf("fetching %v registrations: %w",
					cfg.WCACompetitionID, err)
			}
			in.regs = regs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.Printf("compgen: loaded %d people from %v", len(in.tbl.People()),
		cfg.Assignments)

	return in, nil
}

// output is one file a command produces.
type output struct {
	name string
	data []byte
}

// writeOutputs stores outs under dir concurrently.
func writeOutputs(ctx context.Context, loc *internal.Locator, dir string,
	outs []output) error {

	g, gctx := errgroup.WithContext(ctx)
	for _, o := range outs {
		dest := internal.JoinDest(dir, o.name)
		g.Go(func() error {
			if err := loc.WriteDest(gctx, dest, o.data); err != nil {
				return err
			}
			log.Printf("compgen: wrote %v", dest)
			return nil
		})
	}

	return g.Wait()
}
