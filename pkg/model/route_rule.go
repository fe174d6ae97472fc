package model

import (
	"sort"
	"strings"

	"github.com/nmstate/nmstate-go/pkg/nmerror"
)

const (
	routeRuleUseDefaultPriority = -1
	routeRuleUseDefaultTable    = 0
	routeRuleDefaultTableID     = 254
)

// AddressFamily constrains a route rule to one IP family.
type AddressFamily string

const (
	FamilyIPv4 AddressFamily = "ipv4"
	FamilyIPv6 AddressFamily = "ipv6"
)

// RouteRuleEntry is a single source-routing policy rule.
// Desired rules are partial-editing: they append to current rules
// rather than replacing them.
type RouteRuleEntry struct {
	Absent   bool          `yaml:"-" json:"-"`
	Family   AddressFamily `yaml:"family,omitempty" json:"family,omitempty"`
	IPFrom   string        `yaml:"ip-from,omitempty" json:"ipFrom,omitempty"`
	IPTo     string        `yaml:"ip-to,omitempty" json:"ipTo,omitempty"`
	Priority int64         `yaml:"priority,omitempty" json:"priority,omitempty"`
	TableID  uint32        `yaml:"route-table,omitempty" json:"routeTable,omitempty"`
	Fwmark   uint32        `yaml:"fwmark,omitempty" json:"fwmark,omitempty"`
	Fwmask   uint32        `yaml:"fwmask,omitempty" json:"fwmask,omitempty"`
}

// Validate enforces the per-rule invariants: at least
// one of ip-from/ip-to/family, family-address-format agreement, and
// fwmask requiring fwmark.
func (r *RouteRuleEntry) Validate() error {
	if r.IPFrom == "" && r.IPTo == "" && r.Family == "" {
		return nmerror.InvalidArgument("route-rule", "neither ip-from, ip-to nor family is defined")
	}
	if r.Family != "" {
		if r.IPFrom != "" && isIPv6Literal(r.IPFrom) != (r.Family == FamilyIPv6) {
			return nmerror.InvalidArgument("route-rule", "ip-from format mismatches the family set")
		}
		if r.IPTo != "" && isIPv6Literal(r.IPTo) != (r.Family == FamilyIPv6) {
			return nmerror.InvalidArgument("route-rule", "ip-to format mismatches the family set")
		}
	}
	if r.Fwmark == 0 && r.Fwmask != 0 {
		return nmerror.InvalidArgument("route-rule", "fwmask is present but fwmark is not defined")
	}
	return nil
}

func isIPv6Literal(s string) bool {
	addr := s
	if i := strings.IndexByte(s, '/'); i >= 0 {
		addr = s[:i]
	}
	return addrFamily(addr) == 6
}

// Sanitize canonicalises the rule's IP literals.
func (r *RouteRuleEntry) Sanitize() error {
	if r.IPFrom != "" {
		canon, err := canonicalizeRulePrefix(r.IPFrom)
		if err != nil {
			return nmerror.InvalidArgument(r.IPFrom, "invalid ip-from: %v", err)
		}
		r.IPFrom = canon
	}
	if r.IPTo != "" {
		canon, err := canonicalizeRulePrefix(r.IPTo)
		if err != nil {
			return nmerror.InvalidArgument(r.IPTo, "invalid ip-to: %v", err)
		}
		r.IPTo = canon
	}
	return nil
}

func canonicalizeRulePrefix(s string) (string, error) {
	if strings.Contains(s, "/") {
		return canonicalizeCIDR(s)
	}
	return canonicalizeIP(s)
}

// Matches reports whether a concrete rule `other` satisfies this
// (typically absent, wildcard-bearing) rule's selectors.
func (r *RouteRuleEntry) Matches(other *RouteRuleEntry) bool {
	if r.IPFrom != "" && r.IPFrom != other.IPFrom {
		return false
	}
	if r.IPTo != "" && r.IPTo != other.IPTo {
		return false
	}
	if r.Priority != 0 && r.Priority != routeRuleUseDefaultPriority && r.Priority != other.Priority {
		return false
	}
	if r.TableID != 0 && r.TableID != routeRuleUseDefaultTable && r.TableID != other.TableID {
		return false
	}
	if r.Fwmark != 0 && r.Fwmark != other.Fwmark {
		return false
	}
	if r.Fwmask != 0 && r.Fwmask != other.Fwmask {
		return false
	}
	return true
}

func (r *RouteRuleEntry) sortFamilyIsIPv4() bool {
	switch {
	case r.IPFrom != "":
		return !isIPv6Literal(r.IPFrom)
	case r.IPTo != "":
		return !isIPv6Literal(r.IPTo)
	case r.Family != "":
		return r.Family == FamilyIPv4
	default:
		return true
	}
}

type routeRuleSortKey struct {
	present  bool
	isIPv4   bool
	tableID  uint32
	ipFrom   string
	ipTo     string
	priority int64
	fwmark   uint32
	fwmask   uint32
}

func (r *RouteRuleEntry) sortKey() routeRuleSortKey {
	return routeRuleSortKey{
		present:  !r.Absent,
		isIPv4:   r.sortFamilyIsIPv4(),
		tableID:  r.TableID,
		ipFrom:   r.IPFrom,
		ipTo:     r.IPTo,
		priority: r.Priority,
		fwmark:   r.Fwmark,
		fwmask:   r.Fwmask,
	}
}

func (k routeRuleSortKey) less(o routeRuleSortKey) bool {
	if k.present != o.present {
		return k.present
	}
	if k.isIPv4 != o.isIPv4 {
		return k.isIPv4
	}
	if k.tableID != o.tableID {
		return k.tableID < o.tableID
	}
	if k.ipFrom != o.ipFrom {
		return k.ipFrom < o.ipFrom
	}
	if k.ipTo != o.ipTo {
		return k.ipTo < o.ipTo
	}
	if k.priority != o.priority {
		return k.priority < o.priority
	}
	if k.fwmark != o.fwmark {
		return k.fwmark < o.fwmark
	}
	return k.fwmask < o.fwmask
}

// RouteRules is the top-level route-rules document.
type RouteRules struct {
	Config []RouteRuleEntry `yaml:"config,omitempty" json:"config,omitempty"`
}

// IsEmpty reports whether the document means "preserve existing rules".
func (r *RouteRules) IsEmpty() bool { return r == nil || r.Config == nil }

// Validate validates every non-absent rule.
func (r *RouteRules) Validate() error {
	if r == nil {
		return nil
	}
	for i := range r.Config {
		if r.Config[i].Absent {
			continue
		}
		if err := r.Config[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// GenChangedTableRules implements the table-scoped merge algorithm
// for route rules: for every table id touched by a
// desired add or absent rule, collect current rules for that table,
// apply absences, append additions, then sort+dedup.
func GenChangedTableRules(desired, current *RouteRules) (map[uint32][]RouteRuleEntry, error) {
	result := map[uint32][]RouteRuleEntry{}

	curByTable := map[uint32][]RouteRuleEntry{}
	if current != nil {
		for _, rule := range current.Config {
			curByTable[rule.TableID] = append(curByTable[rule.TableID], rule)
		}
	}

	var desiredRules []RouteRuleEntry
	if desired != nil {
		desiredRules = append(desiredRules, desired.Config...)
	}
	for i := range desiredRules {
		if err := desiredRules[i].Sanitize(); err != nil {
			return nil, err
		}
	}

	desByTable := map[uint32][]RouteRuleEntry{}
	tablesTouched := map[uint32]bool{}
	for _, rule := range desiredRules {
		if !rule.Absent {
			desByTable[rule.TableID] = append(desByTable[rule.TableID], rule)
			tablesTouched[rule.TableID] = true
		}
	}

	// Absent rules without an explicit table id apply to every table
	// that has a current rule matching them.
	var absentRules []RouteRuleEntry
	for _, rule := range desiredRules {
		if !rule.Absent {
			continue
		}
		if rule.TableID != 0 {
			absentRules = append(absentRules, rule)
			tablesTouched[rule.TableID] = true
			continue
		}
		for table, rules := range curByTable {
			for _, cur := range rules {
				if rule.Matches(&cur) {
					expanded := rule
					expanded.TableID = table
					absentRules = append(absentRules, expanded)
					tablesTouched[table] = true
					break
				}
			}
		}
	}

	for table := range tablesTouched {
		result[table] = append([]RouteRuleEntry(nil), curByTable[table]...)
	}
	for _, absent := range absentRules {
		kept := result[absent.TableID][:0]
		for _, rule := range result[absent.TableID] {
			if !absent.Matches(&rule) {
				kept = append(kept, rule)
			}
		}
		result[absent.TableID] = kept
	}
	for table, rules := range desByTable {
		result[table] = append(result[table], rules...)
	}

	for table, rules := range result {
		result[table] = DedupRouteRules(rules)
	}
	return result, nil
}

// DedupRouteRules sorts then removes consecutive duplicates, the same
// order-independence shape as DedupRoutes.
func DedupRouteRules(rules []RouteRuleEntry) []RouteRuleEntry {
	if len(rules) == 0 {
		return rules
	}
	sorted := make([]RouteRuleEntry, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].sortKey().less(sorted[j].sortKey())
	})
	out := sorted[:1]
	for _, r := range sorted[1:] {
		if r.sortKey() != out[len(out)-1].sortKey() {
			out = append(out, r)
		}
	}
	return out
}
