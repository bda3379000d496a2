package types

import (
	"context"
)

type StakeKey = string
type PolicyID = string
type TokenID = string
type PoolID = string

// The maximum number of owners the indexing service returns per page;
// a shorter page is the last one
const OwnersPageSize = 100

type TokenAmount struct {
	_        struct{} `cbor:",toarray"`
	OnChain  uint64   `json:"onChain"`
	Decimals int      `json:"decimals"`
}

type TraitOption struct {
	_        struct{} `cbor:",toarray"`
	Category string   `json:"category"`
	Trait    string   `json:"trait"`
	Amount   float64  `json:"amount"`
}

type RankOption struct {
	_        struct{} `cbor:",toarray"`
	MinRange int      `json:"minRange"`
	MaxRange int      `json:"maxRange"`
	Amount   float64  `json:"amount"`
}

// Contains reports whether rank falls in the inclusive range; unranked tokens (0) never match
func (r RankOption) Contains(rank int) bool {
	return rank != 0 && rank >= r.MinRange && rank <= r.MaxRange
}

type WhaleOption struct {
	_           struct{} `cbor:",toarray"`
	ShouldStack bool     `json:"shouldStack"`
	GroupSize   int      `json:"groupSize"`
	Amount      float64  `json:"amount"`
}

// A rule only exists when the bonus is enabled, so allocation never has to
// check a flag next to a possibly empty list
type TraitRule struct {
	Options []TraitOption
}

type RankRule struct {
	Options []RankOption
}

type WhaleRule struct {
	Options []WhaleOption
}

type PolicySetting struct {
	PolicyID          PolicyID
	Weight            float64
	HasFungibleTokens bool

	Traits *TraitRule
	Ranks  *RankRule
	// Carried through from saved settings; allocation does not read it
	Whales *WhaleRule
}

func (p PolicySetting) WithTraits() bool { return p.Traits != nil }
func (p PolicySetting) WithRanks() bool  { return p.Ranks != nil }
func (p PolicySetting) WithWhales() bool { return p.Whales != nil }

type HolderFilter struct {
	WithBlacklist    bool
	BlacklistWallets []StakeKey
	BlacklistTokens  []TokenID

	WithDelegators bool
	StakePools     []PoolID
}

type TokenName struct {
	OnChain string `json:"onChain"`
	Ticker  string `json:"ticker"`
	Display string `json:"display"`
}

type SnapshotSettings struct {
	HolderPolicies []PolicySetting
	HolderFilter

	// The token being distributed, and the total amount to distribute
	TokenID       TokenID
	TokenAmount   TokenAmount
	UseCustomList bool

	// Presentation only; neither takes part in the run or in Hash
	TokenName TokenName
	Thumb     string
}

// Returns the first setting for a policy, if any
func (s SnapshotSettings) Policy(policyID PolicyID) (PolicySetting, bool) {
	for _, p := range s.HolderPolicies {
		if p.PolicyID == policyID {
			return p, true
		}
	}
	return PolicySetting{}, false
}

type HeldAsset struct {
	TokenID     TokenID
	HumanAmount float64
}

type PolicyHoldings struct {
	PolicyID PolicyID
	Assets   []HeldAsset
}

// The working record for a single holder, merged across every address and
// every policy that shares the stake key
type HolderRecord struct {
	StakeKey  StakeKey
	Addresses []string
	Holdings  []PolicyHoldings
}

func (h *HolderRecord) HasAddress(address string) bool {
	for _, a := range h.Addresses {
		if a == address {
			return true
		}
	}
	return false
}

// Assets returns the asset entries recorded for a policy, in discovery order
func (h *HolderRecord) Assets(policyID PolicyID) []HeldAsset {
	for _, ph := range h.Holdings {
		if ph.PolicyID == policyID {
			return ph.Assets
		}
	}
	return nil
}

func (h *HolderRecord) AddAsset(policyID PolicyID, asset HeldAsset) {
	for i := range h.Holdings {
		if h.Holdings[i].PolicyID == policyID {
			h.Holdings[i].Assets = append(h.Holdings[i].Assets, asset)
			return
		}
	}
	h.Holdings = append(h.Holdings, PolicyHoldings{PolicyID: policyID, Assets: []HeldAsset{asset}})
}

type PayoutHolder struct {
	_        struct{} `cbor:",toarray"`
	StakeKey StakeKey `json:"stakeKey"`
	Address  string   `json:"address"`
	Payout   uint64   `json:"payout"`
	TxHash   string   `json:"txHash"`
}

// Lookup results, as returned by the indexing service

type TokenSummary struct {
	TokenID     TokenID
	IsFungible  bool
	TokenAmount TokenAmount
	// Zero when the policy was fetched without ranks, or the token is unranked
	RarityRank int
}

type TokenDetail struct {
	TokenID     TokenID
	PolicyID    PolicyID
	Fingerprint string
	DisplayName string
	TokenAmount TokenAmount
	Attributes  map[string]string
}

type OwnerAddress struct {
	Address  string
	IsScript bool
}

type TokenOwner struct {
	Quantity  uint64
	StakeKey  StakeKey
	Addresses []OwnerAddress
}

type HolderLookup interface {
	StakePoolDelegators(ctx context.Context, poolID PoolID) ([]StakeKey, error)
	PolicyTokens(ctx context.Context, policyID PolicyID, withRanks bool) ([]TokenSummary, error)
	Token(ctx context.Context, tokenID TokenID) (TokenDetail, error)
	TokenOwners(ctx context.Context, tokenID TokenID, page int) ([]TokenOwner, error)
}
