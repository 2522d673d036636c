package model

import "strings"

// Path represents a file system path.
type Path string

// ModuleSeparator joins directory components and the file stem into a module name.
const ModuleSeparator = "_"

// NamespaceSeparator replaces ModuleSeparator in display names.
const NamespaceSeparator = "::"

// SourceFile is a candidate test source discovered by the scanner.
type SourceFile struct {
	Path   Path
	Module string
}

// ModuleName derives the module identifier for a file located at the given
// relative directory components with the given filename stem.
// Hyphens are folded into the separator, so "a-b/c" and "a/b_c" collide.
func ModuleName(dirs []string, stem string) string {
	parts := make([]string, 0, len(dirs)+1)

	for _, d := range dirs {
		if d != "" {
			parts = append(parts, d)
		}
	}

	parts = append(parts, stem)

	return strings.ReplaceAll(strings.Join(parts, ModuleSeparator), "-", ModuleSeparator)
}

// CleanName renders a module name the way suites are displayed ("core::clone").
func CleanName(name string) string {
	return strings.ReplaceAll(name, ModuleSeparator, NamespaceSeparator)
}
