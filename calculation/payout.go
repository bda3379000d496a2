package calculation

import (
	"math"
	"sort"
	"strings"

	"github.com/SundaeSwap-finance/holder-snapshot/types"
)

// Token details fetched for a policy, by token id
type TokenCache map[types.PolicyID]map[types.TokenID]types.TokenDetail

func (c TokenCache) Put(policyID types.PolicyID, token types.TokenDetail) {
	if c[policyID] == nil {
		c[policyID] = map[types.TokenID]types.TokenDetail{}
	}
	c[policyID][token.TokenID] = token
}

// Rarity ranks reported for a policy's tokens, by token id
type RankCache map[types.PolicyID]map[types.TokenID]int

func (c RankCache) Put(policyID types.PolicyID, tokens []types.TokenSummary) {
	if c[policyID] == nil {
		c[policyID] = map[types.TokenID]int{}
	}
	for _, t := range tokens {
		c[policyID][t.TokenID] = t.RarityRank
	}
}

// Divider is the total included amount across policies, weighted per policy
func Divider(settings types.SnapshotSettings, includedTokenCounts map[types.PolicyID]float64) float64 {
	divider := 0.0
	seen := map[types.PolicyID]bool{}
	for _, p := range settings.HolderPolicies {
		if seen[p.PolicyID] {
			continue
		}
		seen[p.PolicyID] = true
		divider += includedTokenCounts[p.PolicyID] * p.Weight
	}
	return divider
}

// SharePerToken is the on-chain amount paid per weighted human unit held.
// When nothing was included, the share is zero rather than an error
func SharePerToken(target uint64, divider float64) float64 {
	if divider <= 0 {
		return 0
	}
	share := float64(target) / divider
	if math.IsInf(share, 0) || math.IsNaN(share) || share < 0 {
		return 0
	}
	return share
}

// Attribute keys are tried as configured first, then lower-cased
func attributeMatches(attributes map[string]string, category string, trait string) bool {
	want := strings.ToLower(trait)
	if v, ok := attributes[category]; ok && strings.ToLower(v) == want {
		return true
	}
	if v, ok := attributes[strings.ToLower(category)]; ok && strings.ToLower(v) == want {
		return true
	}
	return false
}

func traitBonus(rule *types.TraitRule, token types.TokenDetail, decimals int) float64 {
	bonus := 0.0
	for _, option := range rule.Options {
		if attributeMatches(token.Attributes, option.Category, option.Trait) {
			bonus += float64(types.ToChain(option.Amount, decimals))
		}
	}
	return bonus
}

func rankBonus(rule *types.RankRule, rank int, decimals int) float64 {
	bonus := 0.0
	for _, option := range rule.Options {
		if option.Contains(rank) {
			bonus += float64(types.ToChain(option.Amount, decimals))
		}
	}
	return bonus
}

// HolderPayout computes the floored payout for a single holder.
// Bonus lookups only consult the cache of the policy the asset was recorded under
func HolderPayout(
	settings types.SnapshotSettings,
	holder *types.HolderRecord,
	sharePerToken float64,
	tokens TokenCache,
	ranks RankCache,
) uint64 {
	decimals := settings.TokenAmount.Decimals
	amountForAssets := 0.0
	amountForTraits := 0.0
	amountForRanks := 0.0
	for _, holdings := range holder.Holdings {
		policy, ok := settings.Policy(holdings.PolicyID)
		if !ok {
			continue
		}
		for _, asset := range holdings.Assets {
			amountForAssets += asset.HumanAmount * sharePerToken * policy.Weight

			if policy.Traits != nil && len(policy.Traits.Options) > 0 {
				if token, ok := tokens[holdings.PolicyID][asset.TokenID]; ok {
					amountForTraits += traitBonus(policy.Traits, token, decimals)
				}
			}

			if policy.Ranks != nil && len(policy.Ranks.Options) > 0 {
				if rank, ok := ranks[holdings.PolicyID][asset.TokenID]; ok {
					amountForRanks += rankBonus(policy.Ranks, rank, decimals)
				}
			}
		}
	}

	payout := math.Floor(amountForAssets + amountForTraits + amountForRanks)
	if payout <= 0 || math.IsNaN(payout) {
		return 0
	}
	if payout >= math.MaxUint64 {
		return math.MaxUint64
	}
	return uint64(payout)
}

// AllocatePayouts splits the configured amount across every holder by weighted
// share plus trait and rank bonuses. Holders earning nothing are dropped, and
// the rest are ordered by payout, largest first, keeping first-seen order on ties
func AllocatePayouts(settings types.SnapshotSettings, holders *HolderSet, tokens TokenCache, ranks RankCache) types.PayoutList {
	divider := Divider(settings, holders.IncludedTokenCounts)
	sharePerToken := SharePerToken(settings.TokenAmount.OnChain, divider)

	payouts := types.PayoutList{}
	for _, holder := range holders.Holders() {
		payout := HolderPayout(settings, holder, sharePerToken, tokens, ranks)
		if payout == 0 {
			continue
		}
		payouts = append(payouts, types.PayoutHolder{
			StakeKey: holder.StakeKey,
			Address:  holder.Addresses[0],
			Payout:   payout,
			TxHash:   "",
		})
	}

	sort.SliceStable(payouts, func(i, j int) bool {
		return payouts[i].Payout > payouts[j].Payout
	})
	return payouts
}
