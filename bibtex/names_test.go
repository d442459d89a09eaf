package bibtex

import (
	"strings"
	"testing"
)

func TestBuiltinNames(t *testing.T) {
	lists := map[string][]Builtin{
		"entry types": EntryTypes,
		"field names": FieldNames,
		"months":      MonthMacros,
	}
	for name, list := range lists {
		t.Run(name, func(t *testing.T) {
			seen := make(map[string]bool)
			for _, b := range list {
				if b.Name != strings.ToLower(b.Name) {
					t.Errorf("%q is not lower case", b.Name)
				}
				if seen[b.Name] {
					t.Errorf("%q listed twice", b.Name)
				}
				seen[b.Name] = true
				if b.Doc == "" {
					t.Errorf("%q has no description", b.Name)
				}
			}
		})
	}
}
