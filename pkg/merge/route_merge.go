package merge

import "github.com/nmstate/nmstate-go/pkg/model"

// MergeRoutes combines desired routes over current: desired.Config,
// when present, is applied as additions/removals against current's
// route set rather than a full replacement.
func MergeRoutes(desired, current *model.Routes) *model.Routes {
	if desired == nil || desired.IsEmpty() {
		if current == nil {
			return &model.Routes{}
		}
		return &model.Routes{Config: append([]model.RouteEntry(nil), current.Config...)}
	}

	var curConfig []model.RouteEntry
	if current != nil {
		curConfig = current.Config
	}

	var result []model.RouteEntry
	result = append(result, curConfig...)

	var absentRoutes []model.RouteEntry
	var addedRoutes []model.RouteEntry
	for _, r := range desired.Config {
		if r.Absent {
			absentRoutes = append(absentRoutes, r)
		} else {
			addedRoutes = append(addedRoutes, r)
		}
	}

	for _, absent := range absentRoutes {
		kept := result[:0]
		for _, r := range result {
			if !absent.Matches(&r) {
				kept = append(kept, r)
			}
		}
		result = kept
	}
	result = append(result, addedRoutes...)

	return &model.Routes{Config: model.DedupRoutes(result)}
}
