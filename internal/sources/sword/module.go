// Package sword reads raw OSIS verse markup from SWORD zText Bible modules.
//
// A module is read from an installation root, either a directory or a .zip
// of one, that holds mods.d/*.conf and the data directory each conf's
// DataPath names. Only KJV-versified, unencrypted zText modules are read.
package sword

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/FocuswithJustin/JuniperFootnotes/core/errors"
	"github.com/FocuswithJustin/JuniperFootnotes/internal/extract"
	"github.com/FocuswithJustin/JuniperFootnotes/internal/logging"
)

// Module is one opened zText module.
type Module struct {
	Conf *Conf

	root   string
	closer io.Closer
	ot, nt *zTextVolume
	v11n   *Versification
}

// Open opens the module called name under root. An empty name selects the
// only Bible module present and fails if there are several.
func Open(ctx context.Context, root, name string) (*Module, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fsys, closer, err := openRoot(root)
	if err != nil {
		return nil, err
	}
	m, err := open(fsys, root, name)
	if err != nil {
		if closer != nil {
			closer.Close()
		}
		return nil, err
	}
	m.closer = closer
	logging.DebugContext(ctx, "sword_module_opened",
		"module", m.Conf.ModuleName,
		"path", root,
		"old_testament", m.ot != nil,
		"new_testament", m.nt != nil,
	)
	return m, nil
}

// openRoot returns a file system over a directory or a .zip archive.
func openRoot(root string) (fs.FS, io.Closer, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, errors.NewNotFound("SWORD installation", root)
		}
		return nil, nil, errors.NewIO("stat", root, err)
	}
	if info.IsDir() {
		return os.DirFS(root), nil, nil
	}
	if !strings.EqualFold(filepath.Ext(root), ".zip") {
		return nil, nil, errors.NewUnsupported("SWORD installation", root+" is neither a directory nor a .zip")
	}
	zr, err := zip.OpenReader(root)
	if err != nil {
		return nil, nil, errors.NewIO("open", root, err)
	}
	return &zr.Reader, zr, nil
}

func open(fsys fs.FS, root, name string) (*Module, error) {
	fsys, err := installationRoot(fsys)
	if err != nil {
		return nil, errors.NewNotFound("mods.d", root)
	}
	confs, err := LoadConfs(fsys)
	if err != nil {
		return nil, errors.NewParse("SWORD conf", root, err.Error())
	}
	conf, err := selectConf(confs, name)
	if err != nil {
		return nil, err
	}

	if conf.IsEncrypted() {
		return nil, errors.NewUnsupported("encrypted module", conf.ModuleName)
	}
	if !strings.EqualFold(conf.ModDrv, "zText") {
		return nil, errors.NewUnsupported("module driver",
			fmt.Sprintf("%s uses %s, only zText is read", conf.ModuleName, conf.ModDrv))
	}
	if v := conf.Versification; v != "" && !strings.EqualFold(v, "KJV") {
		return nil, errors.NewUnsupported("versification", fmt.Sprintf("%s uses %s", conf.ModuleName, v))
	}

	m := &Module{Conf: conf, root: root, v11n: KJV}
	dir := conf.DataDir()
	if m.ot, err = openVolume(fsys, dir, "ot"); err != nil {
		return nil, errors.NewIO("read", filepath.Join(root, filepath.FromSlash(dir), "ot"), err)
	}
	if m.nt, err = openVolume(fsys, dir, "nt"); err != nil {
		return nil, errors.NewIO("read", filepath.Join(root, filepath.FromSlash(dir), "nt"), err)
	}
	if m.ot == nil && m.nt == nil {
		return nil, errors.NewNotFound("zText data", filepath.Join(root, filepath.FromSlash(dir)))
	}
	return m, nil
}

// installationRoot finds mods.d at the top of fsys or one directory down,
// which is how many module archives are packed.
func installationRoot(fsys fs.FS) (fs.FS, error) {
	if info, err := fs.Stat(fsys, "mods.d"); err == nil && info.IsDir() {
		return fsys, nil
	}
	matches, err := fs.Glob(fsys, "*/mods.d")
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fs.ErrNotExist
	}
	return fs.Sub(fsys, path.Dir(matches[0]))
}

func selectConf(confs []*Conf, name string) (*Conf, error) {
	if name != "" {
		for _, c := range confs {
			if strings.EqualFold(c.ModuleName, name) {
				return c, nil
			}
		}
		return nil, errors.NewNotFound("SWORD module", name)
	}

	var bibles []*Conf
	for _, c := range confs {
		if c.ModuleType() == "Bible" {
			bibles = append(bibles, c)
		}
	}
	switch len(bibles) {
	case 0:
		return nil, errors.NewNotFound("SWORD Bible module", "")
	case 1:
		return bibles[0], nil
	}
	names := make([]string, len(bibles))
	for i, c := range bibles {
		names[i] = c.ModuleName
	}
	return nil, errors.NewValidation("name", "several Bible modules installed, choose one of "+strings.Join(names, ", "))
}

// Close releases the archive when the module was read from a .zip.
func (m *Module) Close() error {
	if m.closer != nil {
		err := m.closer.Close()
		m.closer = nil
		return err
	}
	return nil
}

// Name returns the module name.
func (m *Module) Name() string { return m.Conf.ModuleName }

// Records returns every non-empty verse in canonical order with Book set to
// the OSIS book code. With notesOnly only verses containing a <note element
// are returned.
func (m *Module) Records(ctx context.Context, notesOnly bool) ([]extract.Record, error) {
	var (
		records []extract.Record
		readErr error
	)
	for _, nt := range []bool{false, true} {
		vol := m.ot
		if nt {
			vol = m.nt
		}
		if vol == nil {
			continue
		}
		m.v11n.Walk(nt, func(ref Ref, index int) bool {
			if readErr = ctx.Err(); readErr != nil {
				return false
			}
			text, err := vol.verse(index)
			if err != nil {
				readErr = errors.NewParse("zText", m.root, fmt.Sprintf("%s: %v", ref, err))
				return false
			}
			if strings.TrimSpace(text) == "" {
				return true
			}
			if notesOnly && !strings.Contains(text, "<note") {
				return true
			}
			records = append(records, extract.Record{
				Book:    ref.Book,
				Chapter: ref.Chapter,
				Verse:   ref.Verse,
				Text:    text,
			})
			return true
		})
		if readErr != nil {
			return nil, readErr
		}
		stats := vol.cache.Stats()
		logging.DebugContext(ctx, "sword_volume_read",
			"volume", vol.name,
			"block_hits", stats.Hits,
			"block_misses", stats.Misses,
		)
	}
	return records, nil
}
