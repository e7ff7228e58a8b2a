package main

import (
	"bytes"
	"fmt"

	"github.com/FocuswithJustin/JuniperFootnotes/core/canon"
	"github.com/FocuswithJustin/JuniperFootnotes/core/errors"
	"github.com/FocuswithJustin/JuniperFootnotes/internal/export"
	"github.com/FocuswithJustin/JuniperFootnotes/internal/logging"
)

// ValidateCmd checks a canonical document.
type ValidateCmd struct {
	Doc string `name:"doc" help:"Canonical JSON document" type:"path"`
	Fix bool   `help:"Rebuild the flat footnotes array from the verses and save"`
}

func (c *ValidateCmd) Run(a *app) error {
	docPath, err := required("doc", c.Doc, a.cfg.Document)
	if err != nil {
		return err
	}
	data, err := canon.ReadFile(docPath)
	if err != nil {
		return err
	}

	schemaErr := canon.ValidateSchema(data)
	doc, err := canon.Parse(data)
	if err != nil {
		return errors.Wrap(err, docPath)
	}
	problems := canon.Check(doc)

	if c.Fix && (schemaErr != nil || len(problems) > 0) {
		n := canon.Rebuild(doc)
		var buf bytes.Buffer
		if err := canon.Encode(&buf, doc); err != nil {
			return err
		}
		schemaErr = canon.ValidateSchema(buf.Bytes())
		problems = canon.Check(doc)
		// Only the flat list can be rebuilt; anything else leaves the file alone.
		if schemaErr == nil && len(problems) == 0 {
			size, err := canon.Save(docPath, doc)
			if err != nil {
				return err
			}
			logging.InfoContext(a.ctx, "document_fixed", "path", docPath, "footnotes", n, "size_bytes", size)
			okColor.Fprintf(a.out, "rebuilt %d footnotes in %s\n", n, docPath)
		} else {
			warnColor.Fprintf(a.out, "not fixed: %s needs manual repair\n", docPath)
		}
	}

	count := len(problems)
	if schemaErr != nil {
		count++
		warnColor.Fprint(a.out, "schema: ")
		fmt.Fprintln(a.out, schemaErr)
	}
	for _, p := range problems {
		warnColor.Fprint(a.out, "invalid: ")
		fmt.Fprintln(a.out, p)
	}
	if count > 0 {
		return &errors.ValidationError{Field: "document", Value: docPath, Message: fmt.Sprintf("%d problem(s) found", count)}
	}
	okColor.Fprintf(a.out, "%s: ok (%d books, %d footnotes)\n", docPath, len(doc.Books), len(doc.Footnotes))
	return nil
}

// ExportCmd writes downstream formats.
type ExportCmd struct {
	Format      string `arg:"" enum:"csv,mysql,postgres" help:"Export format: csv, mysql or postgres"`
	Doc         string `name:"doc" help:"Canonical JSON document" type:"path"`
	Out         string `name:"out" help:"Output directory (default formats)" type:"path"`
	Translation string `help:"Translation id used in file and table names (default: document name)"`
	Title       string `help:"Translation title for SQL headers"`
	License     string `help:"License line for SQL headers"`
}

func (c *ExportCmd) Run(a *app) error {
	docPath, err := required("doc", c.Doc, a.cfg.Document)
	if err != nil {
		return err
	}
	format, err := export.ParseFormat(c.Format)
	if err != nil {
		return err
	}
	doc, err := canon.Load(docPath)
	if err != nil {
		return err
	}

	meta := export.Meta{
		Translation: first(c.Translation, a.cfg.Export.Translation, translationFromDoc(docPath)),
		Title:       first(c.Title, a.cfg.Export.Title),
		License:     first(c.License, a.cfg.Export.License),
	}
	paths, err := export.Export(a.ctx, format, doc, first(c.Out, a.cfg.Export.Dir), meta)
	if err != nil {
		return err
	}
	for _, p := range paths {
		okColor.Fprint(a.out, "wrote ")
		fmt.Fprintln(a.out, p)
	}
	return nil
}
