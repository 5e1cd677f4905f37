package relay

import (
	"github.com/code-payments/vault-relay/pkg/solana"
)

// Group is a maximal run of instructions sharing a classification.
type Group struct {
	Classification Classification
	Members        []Classified
}

// Instructions returns copies of the group's member instructions, in order.
func (g Group) Instructions() []solana.Instruction {
	res := make([]solana.Instruction, len(g.Members))
	for i, member := range g.Members {
		res[i] = member.Instruction.Clone()
	}
	return res
}

// Partition groups classified instructions into maximal runs of the same
// classification in a single pass. Order is preserved, so concatenating the
// members of every group yields the input, and no two adjacent groups share
// a classification.
func Partition(classified []Classified) []Group {
	var groups []Group
	for _, c := range classified {
		if len(groups) == 0 || groups[len(groups)-1].Classification != c.Classification {
			groups = append(groups, Group{Classification: c.Classification})
		}

		last := &groups[len(groups)-1]
		last.Members = append(last.Members, Classified{
			Instruction:    c.Instruction.Clone(),
			Classification: c.Classification,
			Operation:      c.Operation,
		})
	}
	return groups
}
