package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/FocuswithJustin/JuniperFootnotes/core/books"
	"github.com/FocuswithJustin/JuniperFootnotes/core/canon"
	"github.com/FocuswithJustin/JuniperFootnotes/core/errors"
	"github.com/FocuswithJustin/JuniperFootnotes/internal/extract"
	"github.com/FocuswithJustin/JuniperFootnotes/internal/logging"
	"github.com/FocuswithJustin/JuniperFootnotes/internal/sources/mysword"
	"github.com/FocuswithJustin/JuniperFootnotes/internal/sources/sword"
	"github.com/FocuswithJustin/JuniperFootnotes/internal/validation"
)

var (
	labelColor = color.New(color.FgCyan, color.Bold)
	okColor    = color.New(color.FgGreen, color.Bold)
	warnColor  = color.New(color.FgYellow, color.Bold)
)

// MySwordCmd merges footnotes from a MySword database.
type MySwordCmd struct {
	DB     string `name:"db" help:"MySword Bible database (.bbl.mybible)" type:"path"`
	Doc    string `name:"doc" help:"Canonical JSON document to update" type:"path"`
	All    bool   `help:"Extract every book and replace all footnotes (full merge)"`
	Scope  string `help:"Books to merge in partial mode (default 40-66, the New Testament)"`
	DryRun bool   `name:"dry-run" help:"Report counts and digest without writing"`
}

func (c *MySwordCmd) Run(a *app) error {
	dbPath, err := required("db", c.DB, a.cfg.MySword.Database)
	if err != nil {
		return err
	}
	docPath, err := required("doc", c.Doc, a.cfg.Document)
	if err != nil {
		return err
	}
	if c.All && c.Scope != "" {
		return errors.NewValidation("scope", "cannot be combined with --all")
	}
	if err := validation.ValidatePath(docPath); err != nil {
		return fmt.Errorf("invalid document path: %w", err)
	}
	if _, err := validation.CheckFile(dbPath, validation.FileTypeSQLite); err != nil {
		return fmt.Errorf("invalid MySword database: %w", err)
	}

	policy := canon.Full()
	var scope books.Set
	if !c.All {
		scope, err = books.ParseScope(first(c.Scope, a.cfg.MySword.Scope, books.NewTestamentScope), books.KJV)
		if err != nil {
			return err
		}
		policy = canon.Partial(scope)
	}

	doc, err := canon.Load(docPath)
	if err != nil {
		return err
	}

	r, err := mysword.Open(a.ctx, dbPath)
	if err != nil {
		return err
	}
	defer r.Close()
	records, err := r.Records(a.ctx, mysword.QueryForScope(scope, books.KJV))
	if err != nil {
		return err
	}
	logging.InfoContext(a.ctx, "source_read",
		"source", "mysword",
		"path", dbPath,
		"description", r.Metadata("description"),
		"version", r.Metadata("version"),
		"records", len(records),
	)

	return a.apply(extract.NewMySword(a.extractOptions(scope)), records, doc, docPath, policy, c.DryRun)
}

// SwordCmd merges footnotes from a SWORD zText module.
type SwordCmd struct {
	Module string `name:"module" help:"SWORD installation directory or .zip" type:"path"`
	Doc    string `name:"doc" help:"Canonical JSON document to update" type:"path"`
	Name   string `help:"Module name from mods.d (default: the only Bible module)"`
	Policy string `help:"Merge policy: partial or full (default partial)"`
	Scope  string `help:"Books to merge in partial mode (default all)"`
	DryRun bool   `name:"dry-run" help:"Report counts and digest without writing"`
}

func (c *SwordCmd) Run(a *app) error {
	modPath, err := required("module", c.Module, a.cfg.Sword.Path)
	if err != nil {
		return err
	}
	docPath, err := required("doc", c.Doc, a.cfg.Document)
	if err != nil {
		return err
	}
	if err := validation.ValidatePath(docPath); err != nil {
		return fmt.Errorf("invalid document path: %w", err)
	}
	if info, err := os.Stat(modPath); err == nil && !info.IsDir() {
		if _, err := validation.CheckFile(modPath, validation.FileTypeZip); err != nil {
			return fmt.Errorf("invalid SWORD archive: %w", err)
		}
	}

	mode, err := canon.ParseMode(first(c.Policy, a.cfg.Sword.Policy))
	if err != nil {
		return err
	}
	scopeExpr := first(c.Scope, a.cfg.Sword.Scope)
	policy := canon.Full()
	var scope books.Set
	if mode == canon.ModeFull {
		if scopeExpr != "" {
			return errors.NewValidation("scope", "only applies to the partial policy")
		}
	} else {
		if scope, err = books.ParseScope(scopeExpr, books.KJV); err != nil {
			return err
		}
		policy = canon.Partial(scope)
	}

	doc, err := canon.Load(docPath)
	if err != nil {
		return err
	}

	m, err := sword.Open(a.ctx, modPath, first(c.Name, a.cfg.Sword.Module))
	if err != nil {
		return err
	}
	defer m.Close()
	records, err := m.Records(a.ctx, true)
	if err != nil {
		return err
	}
	logging.InfoContext(a.ctx, "source_read",
		"source", "sword",
		"path", modPath,
		"module", m.Name(),
		"description", m.Conf.Description,
		"records", len(records),
	)

	return a.apply(extract.NewOSIS(a.extractOptions(scope)), records, doc, docPath, policy, c.DryRun)
}

func (a *app) extractOptions(scope books.Set) extract.Options {
	return extract.Options{
		Books:           books.KJV,
		Scope:           scope,
		CatchWords:      a.cfg.Extract.CatchWords,
		KeywordFallback: a.cfg.Extract.KeywordFallback,
	}
}

// apply extracts, merges and saves. Nothing is written when any step fails
// or the run is a dry run.
func (a *app) apply(x extract.Extractor, records []extract.Record, doc *canon.Document, docPath string, p canon.Policy, dryRun bool) error {
	mapping, stats, err := x.Extract(a.ctx, records)
	if err != nil {
		return err
	}
	report := canon.Merge(doc, mapping, p)
	logging.MergeSummary(a.ctx, p.String(),
		report.VersesUpdated, report.VersesCleared, report.Footnotes, report.Unmatched,
		"digest", report.Digest,
		"dry_run", dryRun,
	)

	labelColor.Fprintf(a.out, "%s: ", x.Name())
	fmt.Fprintf(a.out, "%d records, %d verses, %d notes, %d skipped\n",
		stats.Records, stats.Verses, stats.Notes, stats.Skipped)
	labelColor.Fprintf(a.out, "%s: ", p)
	fmt.Fprintf(a.out, "%d verses updated, %d cleared, %d footnotes, %d unmatched\n",
		report.VersesUpdated, report.VersesCleared, report.Footnotes, report.Unmatched)
	fmt.Fprintf(a.out, "digest %s\n", report.Digest)

	if dryRun {
		warnColor.Fprintln(a.out, "dry run: nothing written")
		return nil
	}
	if err := a.ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	size, err := canon.Save(docPath, doc)
	if err != nil {
		return err
	}
	logging.DocumentWritten(a.ctx, docPath, size, time.Since(start))
	okColor.Fprintf(a.out, "wrote %s (%d bytes)\n", docPath, size)
	return nil
}

// required picks the flag value or its configured fallback.
func required(flag string, values ...string) (string, error) {
	if v := first(values...); v != "" {
		return v, nil
	}
	return "", errors.NewValidation(flag, fmt.Sprintf("--%s is required (flag, config file or FOOTNOTES_ environment)", flag))
}
