package calculation

import (
	"context"
	"errors"

	"github.com/SundaeSwap-finance/holder-snapshot/types"
)

// Snapshot holds the working state of a single run; it is not reused across runs
type Snapshot struct {
	lookup   types.HolderLookup
	settings types.SnapshotSettings
	progress *progressReporter

	delegators []types.StakeKey
	holders    *HolderSet
	tokens     TokenCache
	ranks      RankCache
}

func NewSnapshot(lookup types.HolderLookup, settings types.SnapshotSettings, observer ProgressObserver) *Snapshot {
	return &Snapshot{
		lookup:   lookup,
		settings: settings,
		progress: &progressReporter{
			observer: observer,
			current: Progress{
				Pool:   Counter{Max: len(settings.StakePools)},
				Policy: Counter{Max: len(settings.HolderPolicies)},
			},
		},
		holders: NewHolderSet(),
		tokens:  TokenCache{},
		ranks:   RankCache{},
	}
}

func (s *Snapshot) Holders() *HolderSet { return s.holders }

// CollectDelegators gathers every delegator of every configured pool, one pool at a time
func (s *Snapshot) CollectDelegators(ctx context.Context) error {
	if !s.settings.WithDelegators {
		return nil
	}
	s.progress.update(func(p *Progress) { p.Message = MessageStakePools })
	for _, poolID := range s.settings.StakePools {
		delegators, err := s.lookup.StakePoolDelegators(ctx, poolID)
		if err != nil {
			return types.NewLookupError("stake pool delegators", poolID, err)
		}
		s.delegators = append(s.delegators, delegators...)
		s.progress.update(func(p *Progress) {
			p.Pool = Counter{Current: p.Pool.Current + 1, Max: len(s.settings.StakePools)}
		})
	}
	return nil
}

// CollectHolders walks every policy and token in configuration order, recording
// the owners that pass the filter
func (s *Snapshot) CollectHolders(ctx context.Context) error {
	filter := NewFilter(s.settings.HolderFilter, s.delegators)
	s.progress.update(func(p *Progress) { p.Message = MessagePolicies })

	for _, policy := range s.settings.HolderPolicies {
		if _, ok := s.holders.IncludedTokenCounts[policy.PolicyID]; !ok {
			s.holders.IncludedTokenCounts[policy.PolicyID] = 0
		}

		policyTokens, err := s.lookup.PolicyTokens(ctx, policy.PolicyID, policy.WithRanks())
		if err != nil {
			return types.NewLookupError("policy tokens", policy.PolicyID, err)
		}
		if policy.WithRanks() {
			s.ranks.Put(policy.PolicyID, policyTokens)
		}
		s.progress.update(func(p *Progress) { p.Token = Counter{Current: 0, Max: len(policyTokens)} })

		for _, summary := range policyTokens {
			if !filter.IsBlacklistedToken(summary.TokenID) && summary.TokenAmount.OnChain != 0 {
				if err := s.collectToken(ctx, filter, policy.PolicyID, summary); err != nil {
					return err
				}
			}
			s.progress.update(func(p *Progress) {
				p.Token = Counter{Current: p.Token.Current + 1, Max: len(policyTokens)}
			})
		}

		s.progress.update(func(p *Progress) {
			p.Policy = Counter{Current: p.Policy.Current + 1, Max: len(s.settings.HolderPolicies)}
		})
	}
	return nil
}

func (s *Snapshot) collectToken(ctx context.Context, filter Filter, policyID types.PolicyID, summary types.TokenSummary) error {
	token, err := s.lookup.Token(ctx, summary.TokenID)
	if err != nil {
		return types.NewLookupError("token", summary.TokenID, err)
	}

	var onPage PageHook
	if summary.IsFungible {
		onPage = func(collected int) {
			s.progress.update(func(p *Progress) { p.Message = messageTokenHolders(collected) })
		}
	}
	owners, err := CollectOwners(ctx, s.lookup, summary.TokenID, onPage)
	if err != nil {
		return err
	}
	if onPage != nil {
		onPage(len(owners))
	}

	for _, owner := range owners {
		if !filter.Includes(owner) {
			continue
		}
		s.tokens.Put(policyID, token)
		s.holders.Add(policyID, token, owner)
	}
	return nil
}

// Allocate computes the payouts over everything collected so far
func (s *Snapshot) Allocate() types.PayoutList {
	return AllocatePayouts(s.settings, s.holders, s.tokens, s.ranks)
}

// Run performs the complete snapshot. Any lookup failure aborts the run; the
// collaborator's message is reported to the observer, the wrapped error is
// returned, and no payouts are returned
func (s *Snapshot) Run(ctx context.Context) (types.PayoutList, error) {
	s.progress.update(func(p *Progress) {
		p.Loading = true
		p.Message = MessageProcessing
	})

	fail := func(err error) (types.PayoutList, error) {
		s.progress.update(func(p *Progress) {
			p.Loading = false
			p.Message = failureMessage(err)
		})
		return nil, err
	}

	if err := s.CollectDelegators(ctx); err != nil {
		return fail(err)
	}
	if err := s.CollectHolders(ctx); err != nil {
		return fail(err)
	}
	payouts := s.Allocate()

	s.progress.update(func(p *Progress) {
		p.Loading = false
		p.Message = MessageSnapshotDone
	})
	return payouts, nil
}

// failureMessage is the collaborator's own message for a failed run, without the
// operation and id the run wraps it in
func failureMessage(err error) string {
	var reported interface{ Message() string }
	if errors.As(err, &reported) {
		return reported.Message()
	}
	var lookupErr *types.LookupError
	if errors.As(err, &lookupErr) && lookupErr.Err != nil {
		return lookupErr.Err.Error()
	}
	return err.Error()
}

// RunSnapshot runs a snapshot for the given settings, unless a finished payout
// list already exists, in which case that list is returned untouched
func RunSnapshot(
	ctx context.Context,
	lookup types.HolderLookup,
	settings types.SnapshotSettings,
	existing types.PayoutList,
	observer ProgressObserver,
) (types.PayoutList, error) {
	if len(existing) > 0 {
		if observer != nil {
			observer.OnProgress(Progress{
				Message: MessageSnapshotDone,
				Pool:    Counter{Current: len(settings.StakePools), Max: len(settings.StakePools)},
				Policy:  Counter{Current: len(settings.HolderPolicies), Max: len(settings.HolderPolicies)},
			})
		}
		return existing, nil
	}
	return NewSnapshot(lookup, settings, observer).Run(ctx)
}
