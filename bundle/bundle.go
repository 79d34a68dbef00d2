// Package bundle reads and writes .elecplayer packages: zip archives holding
// an HTML entry document, a Lua script, a stylesheet and, optionally, a
// scene document, a runtime configuration and extra asset files.
package bundle

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

// Ext is the file extension of a bundle.
const Ext = ".elecplayer"

// Entry names written by Write. Read also accepts any .html, .lua and .css
// entry in their place.
const (
	EntryHTML   = "index.html"
	EntryScript = "script.lua"
	EntryStyle  = "style.css"
	EntryScene  = "scene.yaml"
	EntryConfig = "electric.toml"
)

// ErrMissingEntry is returned when a bundle has no HTML document.
var ErrMissingEntry = errors.New("bundle: no html entry")

// Bundle is the decoded content of a package.
type Bundle struct {
	HTML   string
	Script string
	Style  string
	Scene  []byte
	Config []byte

	// Extras holds every other file, keyed by its path inside the archive.
	Extras map[string][]byte
}

// Open reads the bundle at path.
func Open(name string) (*Bundle, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("open bundle: %w", err)
	}
	b, err := Read(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return b, nil
}

// Read decodes a bundle from a zip archive. Well-known entry names win;
// otherwise the first file of each kind in archive order is used. Files not
// picked land in Extras.
func Read(r io.ReaderAt, size int64) (*Bundle, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("read bundle: %w", err)
	}
	files := make(map[string][]byte, len(zr.File))
	var order []string
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		data, err := readFile(f)
		if err != nil {
			return nil, err
		}
		if _, dup := files[f.Name]; !dup {
			order = append(order, f.Name)
		}
		files[f.Name] = data
	}
	return fromFiles(files, order)
}

// FromDir builds a bundle from the files under dir, picking entries the
// same way Read does. Paths are slash-separated and relative to dir.
func FromDir(dir string) (*Bundle, error) {
	files := make(map[string][]byte)
	var order []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		files[name] = data
		order = append(order, name)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read bundle dir: %w", err)
	}
	return fromFiles(files, order)
}

// fromFiles assigns files to entries. Well-known names win; otherwise the
// first file of each kind in order is used.
func fromFiles(files map[string][]byte, order []string) (*Bundle, error) {
	pick := func(preferred []string, exts ...string) ([]byte, bool) {
		name := ""
		for _, p := range preferred {
			if _, ok := files[p]; ok {
				name = p
				break
			}
		}
		if name == "" {
			for _, n := range order {
				if _, ok := files[n]; ok && slices.Contains(exts, strings.ToLower(path.Ext(n))) {
					name = n
					break
				}
			}
		}
		if name == "" {
			return nil, false
		}
		data := files[name]
		delete(files, name)
		return data, true
	}

	html, ok := pick([]string{EntryHTML}, ".html", ".htm")
	if !ok {
		return nil, ErrMissingEntry
	}
	b := &Bundle{HTML: string(html), Extras: make(map[string][]byte)}
	if data, ok := pick([]string{EntryScript}, ".lua"); ok {
		b.Script = string(data)
	}
	if data, ok := pick([]string{EntryStyle}, ".css"); ok {
		b.Style = string(data)
	}
	if data, ok := pick([]string{EntryScene, "scene.yml", "scene.json"}); ok {
		b.Scene = data
	}
	if data, ok := pick([]string{EntryConfig}); ok {
		b.Config = data
	}
	for name, data := range files {
		b.Extras[name] = data
	}
	return b, nil
}

func readFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Name, err)
	}
	return data, nil
}

// Names returns the archive paths Write produces, in write order.
func (b *Bundle) Names() []string {
	names := []string{EntryHTML}
	if b.Script != "" {
		names = append(names, EntryScript)
	}
	if b.Style != "" {
		names = append(names, EntryStyle)
	}
	if len(b.Scene) > 0 {
		names = append(names, EntryScene)
	}
	if len(b.Config) > 0 {
		names = append(names, EntryConfig)
	}
	extras := make([]string, 0, len(b.Extras))
	for n := range b.Extras {
		if !slices.Contains(names, n) {
			extras = append(extras, n)
		}
	}
	slices.Sort(extras)
	return append(names, extras...)
}

// Write encodes the bundle as a zip archive. A bundle without HTML is
// rejected with ErrMissingEntry.
func (b *Bundle) Write(w io.Writer) error {
	if b.HTML == "" {
		return ErrMissingEntry
	}
	zw := zip.NewWriter(w)
	for _, name := range b.Names() {
		fw, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		if _, err := fw.Write(b.Content(name)); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("write bundle: %w", err)
	}
	return nil
}

// Content returns the bytes stored under an archive path, or nil.
func (b *Bundle) Content(name string) []byte {
	var data []byte
	switch name {
	case EntryHTML:
		data = []byte(b.HTML)
	case EntryScript:
		data = []byte(b.Script)
	case EntryStyle:
		data = []byte(b.Style)
	case EntryScene:
		data = b.Scene
	case EntryConfig:
		data = b.Config
	}
	if len(data) == 0 {
		return b.Extras[name]
	}
	return data
}

// Create writes the bundle to a file, adding Ext when name has no extension.
func (b *Bundle) Create(name string) error {
	if filepath.Ext(name) == "" {
		name += Ext
	}
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("create bundle: %w", err)
	}
	if err := b.Write(f); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", name, err)
	}
	return f.Close()
}
