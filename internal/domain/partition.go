package domain

import "sort"

// StageAssignment labels pairs resolved by the optimal assignment stage.
// Pairs resolved during the normalization cascade carry the normalizer name.
const StageAssignment = "assignment"

// Pair is a matched couple of records, one from each input list.
type Pair struct {
	Left       Record  `json:"left"`
	Right      Record  `json:"right"`
	LeftIndex  int     `json:"left_index"`
	RightIndex int     `json:"right_index"`
	Distance   float64 `json:"distance"`
	Stage      string  `json:"stage"`
}

// Entry is an unmatched record together with its position in its input list.
type Entry struct {
	Index  int    `json:"index"`
	Record Record `json:"record"`
}

// Partition is the three-way result of matching two author lists.
// Every left record appears in exactly one of Common or LeftOnly, and
// every right record in exactly one of Common or RightOnly.
type Partition struct {
	Common    []Pair  `json:"common"`
	LeftOnly  []Entry `json:"left_only"`
	RightOnly []Entry `json:"right_only"`
}

// Size returns the number of input records covered by the partition.
func (p *Partition) Size() int {
	return 2*len(p.Common) + len(p.LeftOnly) + len(p.RightOnly)
}

// CountByStage returns the number of common pairs resolved by each stage.
func (p *Partition) CountByStage() map[string]int {
	counts := make(map[string]int)
	for _, pair := range p.Common {
		counts[pair.Stage]++
	}
	return counts
}

// Sort orders every group by input index so output is stable across runs.
func (p *Partition) Sort() {
	sort.Slice(p.Common, func(i, j int) bool {
		return p.Common[i].LeftIndex < p.Common[j].LeftIndex
	})
	sort.Slice(p.LeftOnly, func(i, j int) bool {
		return p.LeftOnly[i].Index < p.LeftOnly[j].Index
	})
	sort.Slice(p.RightOnly, func(i, j int) bool {
		return p.RightOnly[i].Index < p.RightOnly[j].Index
	})
}
