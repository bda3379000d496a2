package utilities

import (
	"context"
	"fmt"

	"github.com/SundaeSwap-finance/holder-snapshot/types"
)

func SampleSettings(onChain uint64, decimals int, policies ...types.PolicySetting) types.SnapshotSettings {
	return types.SnapshotSettings{
		HolderPolicies: policies,
		TokenID:        "Emitted",
		TokenAmount:    types.TokenAmount{OnChain: onChain, Decimals: decimals},
	}
}

func SamplePolicy(policyID string, weight float64) types.PolicySetting {
	return types.PolicySetting{PolicyID: policyID, Weight: weight}
}

func SampleToken(tokenID string, onChain uint64) types.TokenSummary {
	return types.TokenSummary{TokenID: tokenID, TokenAmount: types.TokenAmount{OnChain: onChain}}
}

func SampleRankedToken(tokenID string, rank int) types.TokenSummary {
	return types.TokenSummary{TokenID: tokenID, TokenAmount: types.TokenAmount{OnChain: 1}, RarityRank: rank}
}

func SampleDetail(policyID string, tokenID string, decimals int, attributes map[string]string) types.TokenDetail {
	return types.TokenDetail{
		TokenID:     tokenID,
		PolicyID:    policyID,
		DisplayName: tokenID,
		TokenAmount: types.TokenAmount{Decimals: decimals},
		Attributes:  attributes,
	}
}

// A wallet owner; the address is derived from the stake key unless one is given
func SampleOwner(stakeKey string, quantity uint64, address ...string) types.TokenOwner {
	addr := "addr1" + stakeKey
	if len(address) > 0 {
		addr = address[0]
	}
	return types.TokenOwner{
		Quantity:  quantity,
		StakeKey:  stakeKey,
		Addresses: []types.OwnerAddress{{Address: addr}},
	}
}

func SampleScriptOwner(stakeKey string, quantity uint64) types.TokenOwner {
	owner := SampleOwner(stakeKey, quantity)
	owner.Addresses[0].IsScript = true
	return owner
}

// SampleOwners generates count distinct owners holding one unit each
func SampleOwners(prefix string, count int) []types.TokenOwner {
	owners := make([]types.TokenOwner, 0, count)
	for i := 0; i < count; i++ {
		owners = append(owners, SampleOwner(fmt.Sprintf("%v%v", prefix, i), 1))
	}
	return owners
}

// MockLookup serves lookups from memory, paging owners the way the indexing service does,
// and records every call it receives
type MockLookup struct {
	Delegators map[types.PoolID][]types.StakeKey
	Policies   map[types.PolicyID][]types.TokenSummary
	Tokens     map[types.TokenID]types.TokenDetail
	Owners     map[types.TokenID][]types.TokenOwner

	// Calls with these ids fail
	Failures map[string]error

	Calls []string
}

func NewMockLookup() *MockLookup {
	return &MockLookup{
		Delegators: map[types.PoolID][]types.StakeKey{},
		Policies:   map[types.PolicyID][]types.TokenSummary{},
		Tokens:     map[types.TokenID]types.TokenDetail{},
		Owners:     map[types.TokenID][]types.TokenOwner{},
		Failures:   map[string]error{},
	}
}

func (m *MockLookup) fail(id string) error {
	if err, ok := m.Failures[id]; ok {
		return err
	}
	return nil
}

func (m *MockLookup) StakePoolDelegators(ctx context.Context, poolID types.PoolID) ([]types.StakeKey, error) {
	m.Calls = append(m.Calls, "pool:"+poolID)
	if err := m.fail(poolID); err != nil {
		return nil, err
	}
	delegators, ok := m.Delegators[poolID]
	if !ok {
		return nil, fmt.Errorf("pool not found")
	}
	return delegators, nil
}

func (m *MockLookup) PolicyTokens(ctx context.Context, policyID types.PolicyID, withRanks bool) ([]types.TokenSummary, error) {
	m.Calls = append(m.Calls, "policy:"+policyID)
	if err := m.fail(policyID); err != nil {
		return nil, err
	}
	tokens, ok := m.Policies[policyID]
	if !ok {
		return nil, fmt.Errorf("policy not found")
	}
	if withRanks {
		return tokens, nil
	}
	unranked := make([]types.TokenSummary, 0, len(tokens))
	for _, t := range tokens {
		t.RarityRank = 0
		unranked = append(unranked, t)
	}
	return unranked, nil
}

func (m *MockLookup) Token(ctx context.Context, tokenID types.TokenID) (types.TokenDetail, error) {
	m.Calls = append(m.Calls, "token:"+tokenID)
	if err := m.fail(tokenID); err != nil {
		return types.TokenDetail{}, err
	}
	token, ok := m.Tokens[tokenID]
	if !ok {
		return types.TokenDetail{}, fmt.Errorf("token not found")
	}
	return token, nil
}

func (m *MockLookup) TokenOwners(ctx context.Context, tokenID types.TokenID, page int) ([]types.TokenOwner, error) {
	m.Calls = append(m.Calls, fmt.Sprintf("owners:%v:%v", tokenID, page))
	if err := m.fail(fmt.Sprintf("%v:%v", tokenID, page)); err != nil {
		return nil, err
	}
	owners := m.Owners[tokenID]
	start := (page - 1) * types.OwnersPageSize
	if start >= len(owners) {
		return nil, nil
	}
	end := start + types.OwnersPageSize
	if end > len(owners) {
		end = len(owners)
	}
	return owners[start:end], nil
}

// AddToken registers a token under a policy, with its detail and owners
func (m *MockLookup) AddToken(policyID string, summary types.TokenSummary, detail types.TokenDetail, owners ...types.TokenOwner) {
	m.Policies[policyID] = append(m.Policies[policyID], summary)
	m.Tokens[summary.TokenID] = detail
	m.Owners[summary.TokenID] = append(m.Owners[summary.TokenID], owners...)
}
