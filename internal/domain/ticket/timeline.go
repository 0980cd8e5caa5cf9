package ticket

import "sort"

// MergeTimeline combines comments with audit-derived events, keeping the first entry per id,
// and orders the result by creation time ascending. Entries with equal timestamps keep input order.
func MergeTimeline(comments []*Comment, events []*Comment) []*Comment {
	seen := make(map[string]bool, len(comments)+len(events))
	merged := make([]*Comment, 0, len(comments)+len(events))

	for _, group := range [][]*Comment{comments, events} {
		for _, c := range group {
			if c == nil || seen[c.ID()] {
				continue
			}
			seen[c.ID()] = true
			merged = append(merged, c)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt().Before(merged[j].CreatedAt())
	})
	return merged
}

// SortByCreatedDesc orders tickets newest first.
func SortByCreatedDesc(tickets []*Ticket) {
	sort.SliceStable(tickets, func(i, j int) bool {
		return tickets[i].CreatedAt().After(tickets[j].CreatedAt())
	})
}
