package detect

import (
	"sort"

	flatbush "github.com/bmharper/flatbush-go"
)

// suppressOverlapping runs greedy non-maximum suppression over candidate
// detections: whenever two boxes overlap with IoU >= minIoU, the lower
// confidence box is dropped.
// Returns the retained detections, ordered by descending confidence.
func suppressOverlapping(input []Detection, minIoU float32) []Detection {
	ordered := make([]Detection, len(input))
	copy(ordered, input)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Confidence > ordered[j].Confidence })

	// Create spatial index to avoid O(N^2) comparisons
	fb := flatbush.NewFlatbush[int32]()
	fb.Reserve(len(ordered))
	for _, d := range ordered {
		fb.Add(d.Box.X, d.Box.Y, d.Box.X2(), d.Box.Y2())
	}
	fb.Finish()

	deleted := map[int]bool{}
	for i, d := range ordered {
		if deleted[i] {
			continue
		}
		for _, j := range fb.Search(d.Box.X, d.Box.Y, d.Box.X2(), d.Box.Y2()) {
			if j <= i || deleted[j] {
				continue
			}
			if d.Box.IOU(ordered[j].Box) >= minIoU {
				deleted[j] = true
			}
		}
	}

	retain := make([]Detection, 0, len(ordered))
	for i, d := range ordered {
		if !deleted[i] {
			retain = append(retain, d)
		}
	}
	return retain
}
