package model

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hlop3z/migen/internal/alerr"
)

// IsModelFile reports whether path has a model file extension.
func IsModelFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".js":
		return true
	}
	return false
}

// LoadDir loads every model file under dir in lexical path order.
// Files and tables that fail to load are recorded as failed entries so the
// caller can warn and continue; the error is non-nil only when dir itself
// cannot be read.
func LoadDir(dir string) (*Registry, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, alerr.Wrap(alerr.ErrModelLoad, err, "cannot read models directory").
			WithFile(dir, 0)
	}

	reg := NewRegistry()
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !IsModelFile(path) {
			return nil
		}
		LoadFile(reg, path)
		return nil
	})
	if err != nil {
		return nil, alerr.Wrap(alerr.ErrModelLoad, err, "cannot walk models directory").
			WithFile(dir, 0)
	}
	return reg, nil
}

// LoadFile loads one model file into reg.
func LoadFile(reg *Registry, path string) {
	fallback := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	data, err := os.ReadFile(path)
	if err != nil {
		reg.Fail(fallback, path, alerr.Wrap(alerr.ErrModelLoad, err, "cannot read model file").
			WithFile(path, 0))
		return
	}

	var defs []TableDef
	if strings.EqualFold(filepath.Ext(path), ".js") {
		defs, err = NewSandbox().Eval(string(data), path)
	} else {
		defs, err = ParseYAML(bytes.NewReader(data), path)
	}
	if err != nil {
		reg.Fail(fallback, path, err)
		return
	}

	for _, def := range defs {
		name := def.Name
		if name == "" {
			name = fallback
		}
		t, err := def.Schema()
		if err != nil {
			reg.Fail(name, path, err)
			continue
		}
		if err := reg.Register(path, t); err != nil {
			reg.Fail(name, path, err)
		}
	}
}
