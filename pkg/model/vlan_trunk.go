package model

import (
	"fmt"
	"sort"
)

// maxVlanID is the largest 802.1Q VLAN tag.
const maxVlanID = 4094

// vlanTagBitmap is a fixed-size bitmap over the VLAN tag space,
// adapted from an IP-allocation bitmap into a tag-range flattener:
// trunk tags arrive as a mix of explicit ids and id-ranges and must be
// expanded into a deduplicated, sorted id list.
type vlanTagBitmap struct {
	bits [(maxVlanID + 8) / 8]byte
}

func (b *vlanTagBitmap) set(tag int) error {
	if tag < 0 || tag > maxVlanID {
		return fmt.Errorf("vlan tag %d out of range [0, %d]", tag, maxVlanID)
	}
	b.bits[tag/8] |= 1 << uint(tag%8)
	return nil
}

func (b *vlanTagBitmap) isSet(tag int) bool {
	return b.bits[tag/8]&(1<<uint(tag%8)) != 0
}

func (b *vlanTagBitmap) sortedTags() []int {
	var tags []int
	for t := 0; t <= maxVlanID; t++ {
		if b.isSet(t) {
			tags = append(tags, t)
		}
	}
	return tags
}

// VlanTrunkTag is one entry of an OVS/linux-bridge VLAN trunk list:
// either a single id or an inclusive range.
type VlanTrunkTag struct {
	ID       *int `yaml:"id,omitempty" json:"id,omitempty"`
	IDRange  *VlanIDRange `yaml:"id-range,omitempty" json:"idRange,omitempty"`
}

// VlanIDRange is an inclusive VLAN tag range.
type VlanIDRange struct {
	Min int `yaml:"min" json:"min"`
	Max int `yaml:"max" json:"max"`
}

// FlattenVlanTrunkTags expands a mixed id/id-range trunk list into a
// deduplicated, ascending list of explicit tag ids.
func FlattenVlanTrunkTags(tags []VlanTrunkTag) ([]int, error) {
	var bm vlanTagBitmap
	for _, t := range tags {
		switch {
		case t.ID != nil:
			if err := bm.set(*t.ID); err != nil {
				return nil, err
			}
		case t.IDRange != nil:
			if t.IDRange.Min > t.IDRange.Max {
				return nil, fmt.Errorf("vlan id-range min %d is greater than max %d", t.IDRange.Min, t.IDRange.Max)
			}
			for id := t.IDRange.Min; id <= t.IDRange.Max; id++ {
				if err := bm.set(id); err != nil {
					return nil, err
				}
			}
		default:
			return nil, fmt.Errorf("vlan trunk tag entry has neither id nor id-range set")
		}
	}
	return bm.sortedTags(), nil
}

// CollapseVlanTrunkTags is the inverse of FlattenVlanTrunkTags: it
// folds an explicit tag list back into a minimal set of id/id-range
// entries; the sanitiser uses it to canonicalise bridge port trunk
// tags.
func CollapseVlanTrunkTags(ids []int) []VlanTrunkTag {
	sorted := append([]int(nil), ids...)
	sort.Ints(sorted)

	var out []VlanTrunkTag
	i := 0
	for i < len(sorted) {
		start := sorted[i]
		end := start
		j := i + 1
		for j < len(sorted) && sorted[j] == end+1 {
			end = sorted[j]
			j++
		}
		if start == end {
			id := start
			out = append(out, VlanTrunkTag{ID: &id})
		} else {
			out = append(out, VlanTrunkTag{IDRange: &VlanIDRange{Min: start, Max: end}})
		}
		i = j
	}
	return out
}
