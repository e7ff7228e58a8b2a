package canon

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/FocuswithJustin/JuniperFootnotes/core/errors"
)

// Injectable functions for testing error paths.
var (
	osCreateTemp = os.CreateTemp
	osRename     = os.Rename
	xzNewWriter  = xz.NewWriter
	xzNewReader  = xz.NewReader
)

// xzMagic is the xz stream header.
var xzMagic = []byte{0xFD, '7', 'z', 'X', 'Z', 0x00}

// indent matches the layout of existing canonical documents.
const indent = "    "

// Load reads a canonical document from path. xz-compressed files are detected
// by their header, whatever their name.
func Load(path string) (*Document, error) {
	data, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(data)
	if err != nil {
		var pe *errors.ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return doc, nil
}

// ReadFile returns the JSON bytes of the document at path, decompressing xz
// input.
func ReadFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFound("document", path)
		}
		return nil, errors.NewIO("open", path, err)
	}
	defer f.Close()

	data, err := readAll(f)
	if err != nil {
		return nil, errors.NewIO("read", path, err)
	}
	return data, nil
}

// Decode reads a canonical document from r, decompressing xz input.
func Decode(r io.Reader) (*Document, error) {
	data, err := readAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes canonical document JSON.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &errors.ParseError{Format: "JSON", Message: err.Error()}
	}
	return &doc, nil
}

func readAll(r io.Reader) ([]byte, error) {
	br := bufio.NewReader(r)
	src := io.Reader(br)
	if head, _ := br.Peek(len(xzMagic)); bytes.Equal(head, xzMagic) {
		xr, err := xzNewReader(br)
		if err != nil {
			return nil, err
		}
		src = xr
	}
	return io.ReadAll(src)
}

// Encode writes doc to w as indented JSON without HTML escaping, followed by a
// newline.
func Encode(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	return enc.Encode(doc)
}

// Save writes doc to path atomically: the document is written to a temporary
// file in the same directory and renamed over path. Paths ending in ".xz" are
// xz-compressed. It returns the number of bytes written.
func Save(path string, doc *Document) (int64, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, doc); err != nil {
		return 0, errors.Wrap(err, "encoding document")
	}
	data := buf.Bytes()

	if strings.HasSuffix(strings.ToLower(path), ".xz") {
		var zbuf bytes.Buffer
		xw, err := xzNewWriter(&zbuf)
		if err != nil {
			return 0, errors.Wrap(err, "creating xz writer")
		}
		if _, err := xw.Write(data); err != nil {
			return 0, errors.Wrap(err, "compressing document")
		}
		if err := xw.Close(); err != nil {
			return 0, errors.Wrap(err, "compressing document")
		}
		data = zbuf.Bytes()
	}

	if err := writeAtomic(path, data); err != nil {
		return 0, err
	}
	return int64(len(data)), nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := osCreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.NewIO("create temp file in", dir, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.NewIO("write", tmpPath, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.NewIO("chmod", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.NewIO("close", tmpPath, err)
	}
	if err := osRename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return errors.NewIO("rename", path, err)
	}
	return nil
}
