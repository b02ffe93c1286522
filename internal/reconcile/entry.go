// Package reconcile joins a source style list against the master list and
// decides, with the operator, which additions, changes and removals to keep.
package reconcile

import (
	"github.com/klauern/styleimport/internal/model"
)

// Kind classifies an entry of the merged map.
type Kind string

const (
	KindNoop   Kind = "noop"
	KindAdd    Kind = "add"
	KindChange Kind = "change"
	KindRemove Kind = "remove"
)

// Entry pairs the source and master records sharing a name. Either side may
// be nil but never both.
type Entry struct {
	Name   string
	Source *model.Style
	Target *model.Style
}

// Kind classifies the entry.
func (e Entry) Kind() Kind {
	switch {
	case e.Target == nil:
		return KindAdd
	case e.Source == nil:
		return KindRemove
	case !model.SectionsEqual(e.Source.Sections, e.Target.Sections):
		return KindChange
	default:
		return KindNoop
	}
}

// Merge folds source then target records into entries keyed by name, in
// insertion order. A name repeated within one list replaces the earlier
// record for that side and keeps its first position.
func Merge(source, target []*model.Style) []Entry {
	index := make(map[string]int, len(source)+len(target))
	var entries []Entry

	slot := func(name string) *Entry {
		if i, ok := index[name]; ok {
			return &entries[i]
		}
		index[name] = len(entries)
		entries = append(entries, Entry{Name: name})
		return &entries[len(entries)-1]
	}

	for _, s := range source {
		slot(s.Name).Source = s
	}
	for _, s := range target {
		slot(s.Name).Target = s
	}
	return entries
}
