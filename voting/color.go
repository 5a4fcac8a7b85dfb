// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import "hash/fnv"

var dotPalette = []string{
	"#EF4444", "#F97316", "#EAB308", "#22C55E",
	"#14B8A6", "#3B82F6", "#8B5CF6", "#EC4899",
}

// ColorFor returns the default dot color for a participant. The same owner
// always gets the same color.
func ColorFor(ownerID string) string {
	h := fnv.New32a()
	h.Write([]byte(ownerID))
	return dotPalette[h.Sum32()%uint32(len(dotPalette))]
}
