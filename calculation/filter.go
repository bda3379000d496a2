package calculation

import (
	"strings"

	"github.com/SundaeSwap-finance/holder-snapshot/types"
)

// Only shelley mainnet payment addresses are paid out
const CardanoAddressPrefix = "addr1"

// Filter decides which tokens and which owners take part in a snapshot
type Filter struct {
	withBlacklist    bool
	blacklistWallets map[types.StakeKey]bool
	blacklistTokens  map[types.TokenID]bool

	withDelegators bool
	delegators     map[types.StakeKey]bool
}

func NewFilter(settings types.HolderFilter, delegators []types.StakeKey) Filter {
	f := Filter{
		withBlacklist:    settings.WithBlacklist,
		blacklistWallets: map[types.StakeKey]bool{},
		blacklistTokens:  map[types.TokenID]bool{},
		withDelegators:   settings.WithDelegators,
		delegators:       map[types.StakeKey]bool{},
	}
	for _, w := range settings.BlacklistWallets {
		f.blacklistWallets[w] = true
	}
	for _, t := range settings.BlacklistTokens {
		f.blacklistTokens[t] = true
	}
	for _, d := range delegators {
		f.delegators[d] = true
	}
	return f
}

func (f Filter) IsBlacklistedWallet(stakeKey types.StakeKey) bool {
	return f.withBlacklist && f.blacklistWallets[stakeKey]
}

func (f Filter) IsBlacklistedToken(tokenID types.TokenID) bool {
	return f.withBlacklist && f.blacklistTokens[tokenID]
}

func (f Filter) IsEligibleDelegator(stakeKey types.StakeKey) bool {
	return !f.withDelegators || f.delegators[stakeKey]
}

// Includes reports whether an ownership entry counts towards the snapshot.
// Only the first listed address is considered, and an entry without any
// address is skipped
func (f Filter) Includes(owner types.TokenOwner) bool {
	if len(owner.Addresses) == 0 {
		return false
	}
	address := owner.Addresses[0]
	if !strings.HasPrefix(address.Address, CardanoAddressPrefix) {
		return false
	}
	if owner.StakeKey == "" || address.IsScript {
		return false
	}
	return !f.IsBlacklistedWallet(owner.StakeKey) && f.IsEligibleDelegator(owner.StakeKey)
}
