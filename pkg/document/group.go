package document

import (
	"sort"
)

// GroupStatus marks a group as listed or retired.
type GroupStatus string

const (
	GroupActive   GroupStatus = "active"
	GroupInactive GroupStatus = "inactive"
)

// Group is a named, ordered display bucket for form elements. Deleting a group
// does not cascade to its elements; they become ungrouped and are flagged by
// ValidateGroupReferences instead.
type Group struct {
	ID      string      `json:"id"`
	Name    string      `json:"group_name"`
	Status  GroupStatus `json:"status"`
	OrderBy int         `json:"order_by"`
}

// GroupedElements is one bucket of the grouped view. Group is nil for the
// trailing bucket that collects ungrouped elements and elements whose group_id
// no longer resolves.
type GroupedElements struct {
	Group    *Group
	Elements []FormElement
}

// GroupElements buckets elements by group_id and orders the buckets by the
// groups' order_by ascending (ties keep the original group slice order).
// Groups that matched no element are omitted. Elements without a resolvable
// active group land, exactly once, in one final ungrouped bucket.
func GroupElements(elements []FormElement, groups []Group) []GroupedElements {
	ordered := make([]Group, len(groups))
	copy(ordered, groups)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].OrderBy < ordered[j].OrderBy
	})

	byGroup := make(map[string][]FormElement)
	var ungrouped []FormElement
	active := make(map[string]bool, len(ordered))
	for _, group := range ordered {
		if group.Status == GroupActive {
			active[group.ID] = true
		}
	}
	for _, el := range elements {
		if el.GroupID != nil && active[*el.GroupID] {
			byGroup[*el.GroupID] = append(byGroup[*el.GroupID], el)
			continue
		}
		ungrouped = append(ungrouped, el)
	}

	var out []GroupedElements
	for i := range ordered {
		matched := byGroup[ordered[i].ID]
		if len(matched) == 0 {
			continue
		}
		group := ordered[i]
		out = append(out, GroupedElements{Group: &group, Elements: matched})
	}
	if len(ungrouped) > 0 {
		out = append(out, GroupedElements{Elements: ungrouped})
	}
	return out
}

// GroupValidation reports elements referencing group ids that no longer exist.
type GroupValidation struct {
	Valid         bool
	MissingGroups []string
}

// ValidateGroupReferences flags element group ids absent from the available
// group list, for example after a group was deleted. It reports and never
// repairs: nulling out dangling references is an explicit author action.
func ValidateGroupReferences(elementGroupIDs, availableGroupIDs []string) GroupValidation {
	available := make(map[string]bool, len(availableGroupIDs))
	for _, id := range availableGroupIDs {
		available[id] = true
	}
	var missing []string
	seen := make(map[string]bool)
	for _, id := range elementGroupIDs {
		if id == "" || available[id] || seen[id] {
			continue
		}
		seen[id] = true
		missing = append(missing, id)
	}
	return GroupValidation{Valid: len(missing) == 0, MissingGroups: missing}
}
