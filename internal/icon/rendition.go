package icon

// Rendition is one resolution slot of the container.
type Rendition struct {
	// Type is the OSType code of the slot.
	Type string
	// Size is the edge length in pixels.
	Size int
	// Scale is 1 for standard and 2 for high-density slots.
	Scale int
}

// MaxSize is the edge length of the largest rendition.
const MaxSize = 1024

// Renditions lists every slot in container order: each point size at 1x then 2x.
//
//nolint:gochecknoglobals // Fixed by the container format.
var Renditions = []Rendition{
	{Type: "icp4", Size: 16, Scale: 1},
	{Type: "ic11", Size: 32, Scale: 2},
	{Type: "icp5", Size: 32, Scale: 1},
	{Type: "ic12", Size: 64, Scale: 2},
	{Type: "ic07", Size: 128, Scale: 1},
	{Type: "ic13", Size: 256, Scale: 2},
	{Type: "ic08", Size: 256, Scale: 1},
	{Type: "ic14", Size: 512, Scale: 2},
	{Type: "ic09", Size: 512, Scale: 1},
	{Type: "ic10", Size: 1024, Scale: 2},
}

// uniqueSizes returns the distinct pixel sizes of Renditions, in first-seen order.
func uniqueSizes() []int {
	seen := make(map[int]struct{}, len(Renditions))
	sizes := make([]int, 0, len(Renditions))

	for _, r := range Renditions {
		if _, ok := seen[r.Size]; ok {
			continue
		}

		seen[r.Size] = struct{}{}
		sizes = append(sizes, r.Size)
	}

	return sizes
}
