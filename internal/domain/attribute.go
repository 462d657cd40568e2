package domain

// Attribute walks every event against every block and apportions the
// overlapping time. Blocks are mutated in place. The walk is a plain
// O(events × blocks) scan; calendar periods are small enough that no
// interval index is needed.
func Attribute(events []*Event, blocks []*Block) {
	for _, ev := range events {
		for _, blk := range blocks {
			if Overlaps(ev, blk) {
				blk.Assign(ev, OverlapDuration(ev, blk))
			}
		}
	}
}

// ClassifyAll appends an occupancy label to every block.
func ClassifyAll(blocks []*Block, th Thresholds) {
	for _, blk := range blocks {
		blk.Classify(th)
	}
}
