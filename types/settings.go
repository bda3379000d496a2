package types

import (
	"encoding/json"
	"fmt"
	"math"
)

// The shape saved by the airdrop UI: each bonus is an optional flag next to
// an optional list
type policySettingJSON struct {
	PolicyID          PolicyID `json:"policyId"`
	HasFungibleTokens bool     `json:"hasFungibleTokens,omitempty"`
	Weight            float64  `json:"weight"`

	WithTraits   bool          `json:"withTraits,omitempty"`
	TraitOptions []TraitOption `json:"traitOptions,omitempty"`

	WithRanks   bool         `json:"withRanks,omitempty"`
	RankOptions []RankOption `json:"rankOptions,omitempty"`

	WithWhales   bool          `json:"withWhales,omitempty"`
	WhaleOptions []WhaleOption `json:"whaleOptions,omitempty"`
}

func (p PolicySetting) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.wire())
}

func (p *PolicySetting) UnmarshalJSON(b []byte) error {
	var w policySettingJSON
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*p = PolicySetting{
		PolicyID:          w.PolicyID,
		Weight:            w.Weight,
		HasFungibleTokens: w.HasFungibleTokens,
	}
	if w.WithTraits {
		p.Traits = &TraitRule{Options: w.TraitOptions}
	}
	if w.WithRanks {
		p.Ranks = &RankRule{Options: w.RankOptions}
	}
	if w.WithWhales {
		p.Whales = &WhaleRule{Options: w.WhaleOptions}
	}
	return nil
}

func (p PolicySetting) wire() policySettingJSON {
	w := policySettingJSON{
		PolicyID:          p.PolicyID,
		HasFungibleTokens: p.HasFungibleTokens,
		Weight:            p.Weight,
	}
	if p.Traits != nil {
		w.WithTraits = true
		w.TraitOptions = p.Traits.Options
	}
	if p.Ranks != nil {
		w.WithRanks = true
		w.RankOptions = p.Ranks.Options
	}
	if p.Whales != nil {
		w.WithWhales = true
		w.WhaleOptions = p.Whales.Options
	}
	return w
}

type settingsJSON struct {
	HolderPolicies []PolicySetting `json:"holderPolicies"`

	WithBlacklist    bool       `json:"withBlacklist"`
	BlacklistWallets []StakeKey `json:"blacklistWallets"`
	BlacklistTokens  []TokenID  `json:"blacklistTokens"`

	WithDelegators bool     `json:"withDelegators"`
	StakePools     []PoolID `json:"stakePools"`

	TokenID       TokenID     `json:"tokenId"`
	TokenName     TokenName   `json:"tokenName"`
	TokenAmount   TokenAmount `json:"tokenAmount"`
	Thumb         string      `json:"thumb"`
	UseCustomList bool        `json:"useCustomList,omitempty"`
}

func (s SnapshotSettings) MarshalJSON() ([]byte, error) {
	return json.Marshal(settingsJSON{
		HolderPolicies:   s.HolderPolicies,
		WithBlacklist:    s.WithBlacklist,
		BlacklistWallets: s.BlacklistWallets,
		BlacklistTokens:  s.BlacklistTokens,
		WithDelegators:   s.WithDelegators,
		StakePools:       s.StakePools,
		TokenID:          s.TokenID,
		TokenName:        s.TokenName,
		TokenAmount:      s.TokenAmount,
		Thumb:            s.Thumb,
		UseCustomList:    s.UseCustomList,
	})
}

func (s *SnapshotSettings) UnmarshalJSON(b []byte) error {
	var w settingsJSON
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*s = SnapshotSettings{
		HolderPolicies: w.HolderPolicies,
		HolderFilter: HolderFilter{
			WithBlacklist:    w.WithBlacklist,
			BlacklistWallets: w.BlacklistWallets,
			BlacklistTokens:  w.BlacklistTokens,
			WithDelegators:   w.WithDelegators,
			StakePools:       w.StakePools,
		},
		TokenID:       w.TokenID,
		TokenAmount:   w.TokenAmount,
		UseCustomList: w.UseCustomList,
		TokenName:     w.TokenName,
		Thumb:         w.Thumb,
	}
	return nil
}

// The decimal shifts in FromChain/ToChain are exact up to this many places
const MaxDecimals = 12

func invalid(field string, format string, args ...any) error {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Validate checks settings before a snapshot is started; the snapshot itself
// trusts its input
func (s SnapshotSettings) Validate() error {
	if s.TokenAmount.Decimals < 0 || s.TokenAmount.Decimals > MaxDecimals {
		return invalid("tokenAmount.decimals", "must be between 0 and %v, got %v", MaxDecimals, s.TokenAmount.Decimals)
	}
	if len(s.HolderPolicies) == 0 {
		return invalid("holderPolicies", "at least one policy is required")
	}
	seen := map[PolicyID]bool{}
	for i, p := range s.HolderPolicies {
		field := fmt.Sprintf("holderPolicies[%v]", i)
		if p.PolicyID == "" {
			return invalid(field+".policyId", "must not be empty")
		}
		if seen[p.PolicyID] {
			return invalid(field+".policyId", "duplicate policy %v", p.PolicyID)
		}
		seen[p.PolicyID] = true
		if !finite(p.Weight) || p.Weight < 0 {
			return invalid(field+".weight", "must be a non-negative number, got %v", p.Weight)
		}
		if p.Traits != nil {
			for j, o := range p.Traits.Options {
				if o.Category == "" {
					return invalid(fmt.Sprintf("%v.traitOptions[%v].category", field, j), "must not be empty")
				}
				if !finite(o.Amount) || o.Amount < 0 {
					return invalid(fmt.Sprintf("%v.traitOptions[%v].amount", field, j), "must be a non-negative number, got %v", o.Amount)
				}
				if !fitsOnChain(o.Amount, s.TokenAmount.Decimals) {
					return invalid(fmt.Sprintf("%v.traitOptions[%v].amount", field, j), "%v is too large for %v decimals", o.Amount, s.TokenAmount.Decimals)
				}
			}
		}
		if p.Ranks != nil {
			for j, o := range p.Ranks.Options {
				if o.MinRange > o.MaxRange {
					return invalid(fmt.Sprintf("%v.rankOptions[%v]", field, j), "minRange %v is above maxRange %v", o.MinRange, o.MaxRange)
				}
				if !finite(o.Amount) || o.Amount < 0 {
					return invalid(fmt.Sprintf("%v.rankOptions[%v].amount", field, j), "must be a non-negative number, got %v", o.Amount)
				}
				if !fitsOnChain(o.Amount, s.TokenAmount.Decimals) {
					return invalid(fmt.Sprintf("%v.rankOptions[%v].amount", field, j), "%v is too large for %v decimals", o.Amount, s.TokenAmount.Decimals)
				}
			}
		}
	}
	if s.WithDelegators && len(s.StakePools) == 0 {
		return invalid("stakePools", "delegator filtering needs at least one stake pool")
	}
	return nil
}
