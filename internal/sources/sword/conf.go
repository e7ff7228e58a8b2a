package sword

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// Conf is a parsed mods.d/*.conf module description.
type Conf struct {
	ModuleName    string
	Description   string
	DataPath      string
	ModDrv        string
	Encoding      string
	Lang          string
	Version       string
	SourceType    string
	BlockType     string
	CompressType  string
	CipherKey     string
	Versification string
	Properties    map[string]string
	FilePath      string
}

// ParseConf reads an INI-like SWORD conf. A value ending in a backslash
// continues on the next line.
func ParseConf(r io.Reader, name string) (*Conf, error) {
	conf := &Conf{Properties: make(map[string]string), FilePath: name}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	var (
		pendingKey   string
		pendingValue strings.Builder
	)
	flush := func() {
		if pendingKey != "" {
			conf.set(pendingKey, strings.TrimSpace(pendingValue.String()))
			pendingKey = ""
			pendingValue.Reset()
		}
	}

	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		trimmed := strings.TrimSpace(line)

		if pendingKey != "" {
			pendingValue.WriteString(" ")
			if strings.HasSuffix(trimmed, "\\") {
				pendingValue.WriteString(strings.TrimSpace(strings.TrimSuffix(trimmed, "\\")))
				continue
			}
			pendingValue.WriteString(trimmed)
			flush()
			continue
		}

		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			if conf.ModuleName == "" {
				conf.ModuleName = strings.TrimSpace(trimmed[1 : len(trimmed)-1])
			}
			continue
		}
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		idx := strings.Index(line, "=")
		if idx == -1 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+1:])
		if strings.HasSuffix(value, "\\") {
			pendingKey = key
			pendingValue.WriteString(strings.TrimSpace(strings.TrimSuffix(value, "\\")))
			continue
		}
		conf.set(key, value)
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading conf %s: %w", name, err)
	}
	if conf.ModuleName == "" {
		return nil, fmt.Errorf("conf %s has no [module] section", name)
	}
	return conf, nil
}

func (c *Conf) set(key, value string) {
	c.Properties[key] = value

	switch strings.ToLower(key) {
	case "description":
		c.Description = value
	case "datapath":
		c.DataPath = value
	case "moddrv":
		c.ModDrv = value
	case "encoding":
		c.Encoding = value
	case "lang":
		c.Lang = value
	case "version":
		c.Version = value
	case "sourcetype":
		c.SourceType = value
	case "blocktype":
		c.BlockType = value
	case "compresstype":
		c.CompressType = value
	case "cipherkey":
		c.CipherKey = value
	case "versification":
		c.Versification = value
	}
}

// ModuleType returns Bible, Commentary, Dictionary, GenBook or Unknown.
func (c *Conf) ModuleType() string {
	switch strings.ToLower(c.ModDrv) {
	case "ztext", "ztext4", "rawtext", "rawtext4":
		return "Bible"
	case "zcom", "zcom4", "rawcom", "rawcom4":
		return "Commentary"
	case "zld", "rawld", "rawld4":
		return "Dictionary"
	case "rawgenbook":
		return "GenBook"
	default:
		return "Unknown"
	}
}

// IsEncrypted reports whether the module declares a cipher key.
func (c *Conf) IsEncrypted() bool {
	return c.CipherKey != ""
}

// DataDir returns DataPath as a clean slash-separated path relative to the
// installation root.
func (c *Conf) DataDir() string {
	p := strings.ReplaceAll(c.DataPath, "\\", "/")
	p = strings.TrimPrefix(p, "./")
	p = path.Clean("/" + p)
	return strings.TrimPrefix(p, "/")
}

// FindConfs returns the conf file paths under mods.d in fsys, sorted.
func FindConfs(fsys fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(fsys, "mods.d")
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(strings.ToLower(e.Name()), ".conf") {
			out = append(out, path.Join("mods.d", e.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}

// LoadConfs parses every conf under mods.d in fsys.
func LoadConfs(fsys fs.FS) ([]*Conf, error) {
	paths, err := FindConfs(fsys)
	if err != nil {
		return nil, err
	}
	confs := make([]*Conf, 0, len(paths))
	for _, p := range paths {
		f, err := fsys.Open(p)
		if err != nil {
			return nil, err
		}
		conf, err := ParseConf(f, p)
		f.Close()
		if err != nil {
			return nil, err
		}
		confs = append(confs, conf)
	}
	return confs, nil
}
