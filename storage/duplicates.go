package storage

import "github.com/poiesic/qaembed/core"

// Duplicates returns the ordinals of records whose ID was already used by an
// earlier record in the slice. Keyed stores keep only the last of them.
func Duplicates(records []*core.ResultRecord) []int {
	seen := make(map[core.ID]struct{}, len(records))
	var ordinals []int
	for _, r := range records {
		if _, ok := seen[r.Id]; ok {
			ordinals = append(ordinals, r.Ordinal)
			continue
		}
		seen[r.Id] = struct{}{}
	}
	return ordinals
}
