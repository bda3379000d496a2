package calculation

import (
	"github.com/SundaeSwap-finance/holder-snapshot/types"
)

// HolderSet accumulates holders by stake key, in the order they were first seen
type HolderSet struct {
	order   []types.StakeKey
	holders map[types.StakeKey]*types.HolderRecord

	// Total human amount included per policy, no matter who holds it;
	// used only for the base share divisor
	IncludedTokenCounts map[types.PolicyID]float64
}

func NewHolderSet() *HolderSet {
	return &HolderSet{
		holders:             map[types.StakeKey]*types.HolderRecord{},
		IncludedTokenCounts: map[types.PolicyID]float64{},
	}
}

func (s *HolderSet) Len() int { return len(s.order) }

func (s *HolderSet) Get(stakeKey types.StakeKey) (*types.HolderRecord, bool) {
	h, ok := s.holders[stakeKey]
	return h, ok
}

// Holders returns the records in first-seen order
func (s *HolderSet) Holders() []*types.HolderRecord {
	ret := make([]*types.HolderRecord, 0, len(s.order))
	for _, stakeKey := range s.order {
		ret = append(ret, s.holders[stakeKey])
	}
	return ret
}

// Add records one included ownership entry. The entry must already have passed the Filter.
// The same token can be recorded more than once for a holder, once per ownership entry
func (s *HolderSet) Add(policyID types.PolicyID, token types.TokenDetail, owner types.TokenOwner) {
	address := owner.Addresses[0].Address
	asset := types.HeldAsset{
		TokenID:     token.TokenID,
		HumanAmount: types.FromChain(owner.Quantity, token.TokenAmount.Decimals),
	}

	holder, ok := s.holders[owner.StakeKey]
	if !ok {
		holder = &types.HolderRecord{
			StakeKey:  owner.StakeKey,
			Addresses: []string{address},
		}
		s.holders[owner.StakeKey] = holder
		s.order = append(s.order, owner.StakeKey)
	} else if !holder.HasAddress(address) {
		holder.Addresses = append(holder.Addresses, address)
	}
	holder.AddAsset(policyID, asset)

	s.IncludedTokenCounts[policyID] += asset.HumanAmount
}
