package emit

import (
	"path"
	"slices"
	"strings"
)

// ImportSet is an ordered set of import paths. The zero value is empty and
// ready to use.
type ImportSet struct {
	paths []string
	names map[string]string // path -> qualifier the generated code uses
}

// Add records paths, ignoring ones already present.
func (s *ImportSet) Add(paths ...string) {
	for _, p := range paths {
		if p != "" && !s.Has(p) {
			s.paths = append(s.paths, p)
		}
	}
}

// AddNamed records a path that generated code refers to as name. The import
// is written with an explicit name when name differs from the last path
// element.
func (s *ImportSet) AddNamed(name, p string) {
	if p == "" {
		return
	}
	s.Add(p)
	if s.names == nil {
		s.names = make(map[string]string)
	}
	s.names[p] = name
}

// Merge adds every path of o, names included.
func (s *ImportSet) Merge(o ImportSet) {
	for _, p := range o.paths {
		if name, ok := o.names[p]; ok {
			s.AddNamed(name, p)
		} else {
			s.Add(p)
		}
	}
}

// Has reports whether path is in the set.
func (s ImportSet) Has(path string) bool {
	return slices.Contains(s.paths, path)
}

// Len returns the number of paths.
func (s ImportSet) Len() int { return len(s.paths) }

// Paths returns the paths as gofmt groups them: standard library first,
// then everything else, each group sorted.
func (s ImportSet) Paths() (std, other []string) {
	for _, p := range s.paths {
		if isStdlib(p) {
			std = append(std, p)
		} else {
			other = append(other, p)
		}
	}
	slices.Sort(std)
	slices.Sort(other)
	return std, other
}

// Block renders the import declaration.
func (s ImportSet) Block() string {
	std, other := s.Paths()
	if len(std)+len(other) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("import (\n")
	for _, p := range std {
		b.WriteString(s.spec(p))
	}
	if len(std) > 0 && len(other) > 0 {
		b.WriteString("\n")
	}
	for _, p := range other {
		b.WriteString(s.spec(p))
	}
	b.WriteString(")\n")
	return b.String()
}

// spec renders one import line.
func (s ImportSet) spec(p string) string {
	if name := s.names[p]; name != "" && name != path.Base(p) {
		return "\t" + name + " \"" + p + "\"\n"
	}
	return "\t\"" + p + "\"\n"
}

// isStdlib treats paths without a dot in the first element as standard
// library packages.
func isStdlib(path string) bool {
	first, _, _ := strings.Cut(path, "/")
	return !strings.Contains(first, ".")
}
