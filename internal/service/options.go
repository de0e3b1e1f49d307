package service

import "maps"

const (
	// RightDeletePerm gates permanent deletion.
	RightDeletePerm = "deleteperm"

	DefaultReason = "Page being permanently deleted"
)

// Options is the fixed configuration of a PurgeService.
type Options struct {
	// Namespaces maps namespace ids to their eligibility for permanent deletion.
	Namespaces map[int]bool
	// DeleteContent enables the reachability check and the removal of
	// unreachable content rows and bytes.
	DeleteContent bool
	// SearchIndex is set when the searchindex table is maintained.
	SearchIndex bool
	// Reason is recorded on archived file versions.
	Reason string
}

// clone detaches the options from the caller's map.
func (o Options) clone() Options {
	o.Namespaces = maps.Clone(o.Namespaces)
	if o.Namespaces == nil {
		o.Namespaces = map[int]bool{}
	}
	if o.Reason == "" {
		o.Reason = DefaultReason
	}

	return o
}

// Eligible reports whether pages of ns may be permanently deleted.
func (o Options) Eligible(ns int) bool {
	return o.Namespaces[ns]
}
