package model

import "strings"

// Namespace ids of the core wiki namespaces.
const (
	NamespaceMedia    = -2
	NamespaceSpecial  = -1
	NamespaceMain     = 0
	NamespaceTalk     = 1
	NamespaceUser     = 2
	NamespaceUserTalk = 3
	NamespaceProject  = 4
	NamespaceFile     = 6
	NamespaceFileTalk = 7
	NamespaceTemplate = 10
	NamespaceCategory = 14
)

// Associated returns the talk namespace of a subject namespace and the subject
// namespace of a talk namespace. Virtual namespaces have no counterpart.
func Associated(ns int) (int, bool) {
	if ns < 0 {
		return 0, false
	}

	return ns ^ 1, true
}

// IsTalk reports whether ns is a talk namespace.
func IsTalk(ns int) bool {
	return ns > 0 && ns%2 == 1
}

// DBKey converts a display title into the key form stored in the title columns.
func DBKey(title string) string {
	return strings.ReplaceAll(strings.TrimSpace(title), " ", "_")
}

// PageRef identifies a page by id and by its (namespace, title) pair.
type PageRef struct {
	ID        int64
	Namespace int
	Title     string
}

// HasKey reports whether the reference carries a non-empty title key.
func (r PageRef) HasKey() bool {
	return r.Title != ""
}
