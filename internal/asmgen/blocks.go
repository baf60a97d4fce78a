package asmgen

import (
	"sort"

	"github.com/gmofishsauce/mc4c/internal/tac"
)

// block is a half-open index range [Start,End) into the TAC
// instruction list: one basic block's worth of linear-scan register
// state (spec §4.5 Phase 1).
type block struct {
	Start, End int
}

// computeBlocks partitions tacList into basic blocks: a new block
// starts at index 0, immediately after any branch instruction, and at
// any instruction carrying a label (a possible jump target).
func computeBlocks(tacList []*tac.Instruction) []block {
	n := len(tacList)
	starts := map[int]bool{0: true}
	for i := 0; i < n; i++ {
		if tacList[i].IsOp && tacList[i].Op.IsBranch() {
			starts[i+1] = true
		}
		if i+1 < n && tacList[i+1].Label != "" {
			starts[i+1] = true
		}
	}

	ordered := make([]int, 0, len(starts))
	for s := range starts {
		if s < n {
			ordered = append(ordered, s)
		}
	}
	sort.Ints(ordered)

	blocks := make([]block, 0, len(ordered))
	for k, s := range ordered {
		end := n
		if k+1 < len(ordered) {
			end = ordered[k+1]
		}
		blocks = append(blocks, block{Start: s, End: end})
	}
	return blocks
}
