package registry

import (
	"sort"
	"strings"
)

// ParameterBag is the minimal read surface the activation selector needs
// from a Parameter Bag, narrow enough to be satisfied by *urlbag.URL without
// this package importing urlbag's concrete type.
type ParameterBag interface {
	Parameter(key string) (string, bool)
	HasSuffixParameter(key string) (string, bool)
}

// ActivateSpec is the Go realisation of an implementation's @Activate
// annotation (spec §4.8): which groups it auto-activates for, which
// Parameter Bag keys must be present for it to auto-activate, and its
// relative Order among other auto-activated implementations.
type ActivateSpec struct {
	// Groups restricts auto-activation to these group names; empty means
	// every group.
	Groups []string
	// Keys, if non-empty, must all be present in the Parameter Bag (exact
	// key or "xxx."+key suffix match) for this implementation to
	// auto-activate.
	Keys []string
	// Order breaks ties among auto-activated implementations, ascending;
	// equal Order falls back to name order.
	Order int
}

func (a ActivateSpec) matchesGroup(group string) bool {
	if len(a.Groups) == 0 {
		return true
	}
	for _, g := range a.Groups {
		if g == group {
			return true
		}
	}
	return false
}

func (a ActivateSpec) matchesKeys(u ParameterBag) bool {
	if len(a.Keys) == 0 {
		return true
	}
	for _, key := range a.Keys {
		if v, ok := u.Parameter(key); ok && v != "" {
			continue
		}
		if _, ok := u.HasSuffixParameter(key); ok {
			continue
		}
		return false
	}
	return true
}

// SelectActivated implements the ordered-list algorithm of spec §4.8:
// auto-activated implementations (matching group and key presence, sorted by
// Order then Name) are merged with an explicit name list that may contain
// "-name" exclusions and a "default" placeholder marking where the
// auto-activated block is spliced in. If "default" never appears, the
// auto-activated block is placed first.
func SelectActivated(candidates map[string]Ordinary, group string, u ParameterBag, explicit []string) []string {
	type autoEntry struct {
		name  string
		order int
	}
	var autos []autoEntry
	for name, ord := range candidates {
		if ord.Activate.matchesGroup(group) && ord.Activate.matchesKeys(u) {
			autos = append(autos, autoEntry{name: name, order: ord.Activate.Order})
		}
	}
	sort.Slice(autos, func(i, j int) bool {
		if autos[i].order != autos[j].order {
			return autos[i].order < autos[j].order
		}
		return autos[i].name < autos[j].name
	})

	excluded := map[string]bool{}
	for _, name := range explicit {
		if strings.HasPrefix(name, "-") {
			excluded[strings.TrimPrefix(name, "-")] = true
		}
	}

	pendingAuto := make([]string, 0, len(autos))
	for _, a := range autos {
		if !excluded[a.name] {
			pendingAuto = append(pendingAuto, a.name)
		}
	}

	added := map[string]bool{}
	var result []string
	appendAuto := func() {
		for _, name := range pendingAuto {
			if !added[name] {
				result = append(result, name)
				added[name] = true
			}
		}
	}

	sawDefault := false
	for _, name := range explicit {
		if name == "" || strings.HasPrefix(name, "-") {
			continue
		}
		if name == "default" {
			sawDefault = true
			appendAuto()
			continue
		}
		if excluded[name] || added[name] {
			continue
		}
		result = append(result, name)
		added[name] = true
	}

	if !sawDefault {
		result = append(pendingAuto, result...)
		// pendingAuto only drops "-name" exclusions, so an explicit name that
		// is also auto-activated appears twice here; keep its first (auto)
		// occurrence.
		seen := map[string]bool{}
		deduped := result[:0:0]
		for _, name := range result {
			if seen[name] {
				continue
			}
			seen[name] = true
			deduped = append(deduped, name)
		}
		result = deduped
	}

	return result
}
