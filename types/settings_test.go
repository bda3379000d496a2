package types

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/tj/assert"
)

const savedSettings = `{
	"holderPolicies": [
		{
			"policyId": "policyA",
			"weight": 1,
			"withTraits": true,
			"traitOptions": [{"category": "Hat", "trait": "Crown", "amount": 10}],
			"withRanks": false,
			"rankOptions": [{"minRange": 1, "maxRange": 10, "amount": 5}]
		},
		{
			"policyId": "policyB",
			"hasFungibleTokens": true,
			"weight": 0.5,
			"withRanks": true,
			"rankOptions": [{"minRange": 1, "maxRange": 10, "amount": 5}],
			"withWhales": true,
			"whaleOptions": [{"shouldStack": true, "groupSize": 10, "amount": 1}]
		}
	],
	"withBlacklist": true,
	"blacklistWallets": ["stake1bad"],
	"blacklistTokens": ["policyAtoken1"],
	"withDelegators": true,
	"stakePools": ["pool1abc"],
	"tokenId": "lovelace",
	"tokenName": {"onChain": "lovelace", "ticker": "ADA", "display": "ADA"},
	"tokenAmount": {"onChain": 1000000000, "decimals": 6, "display": 1000},
	"thumb": "ipfs://QmAdaThumb",
	"useCustomList": false
}`

func Test_UnmarshalSettings(t *testing.T) {
	var settings SnapshotSettings
	assert.Nil(t, json.Unmarshal([]byte(savedSettings), &settings))

	assert.Len(t, settings.HolderPolicies, 2)
	a, b := settings.HolderPolicies[0], settings.HolderPolicies[1]

	assert.EqualValues(t, "policyA", a.PolicyID)
	assert.True(t, a.WithTraits())
	assert.EqualValues(t, []TraitOption{{Category: "Hat", Trait: "Crown", Amount: 10}}, a.Traits.Options)
	// options without the flag are ignored
	assert.False(t, a.WithRanks())
	assert.Nil(t, a.Ranks)

	assert.EqualValues(t, 0.5, b.Weight)
	assert.True(t, b.HasFungibleTokens)
	assert.True(t, b.WithRanks())
	assert.True(t, b.WithWhales())
	assert.False(t, b.WithTraits())

	assert.True(t, settings.WithBlacklist)
	assert.EqualValues(t, []StakeKey{"stake1bad"}, settings.BlacklistWallets)
	assert.EqualValues(t, []TokenID{"policyAtoken1"}, settings.BlacklistTokens)
	assert.True(t, settings.WithDelegators)
	assert.EqualValues(t, []PoolID{"pool1abc"}, settings.StakePools)
	assert.EqualValues(t, 1_000_000_000, settings.TokenAmount.OnChain)
	assert.EqualValues(t, 6, settings.TokenAmount.Decimals)
	assert.EqualValues(t, TokenName{OnChain: "lovelace", Ticker: "ADA", Display: "ADA"}, settings.TokenName)
	assert.EqualValues(t, "ipfs://QmAdaThumb", settings.Thumb)
	assert.Nil(t, settings.Validate())
}

func Test_MarshalSettingsRoundTrip(t *testing.T) {
	var settings SnapshotSettings
	assert.Nil(t, json.Unmarshal([]byte(savedSettings), &settings))
	bytes, err := json.Marshal(settings)
	assert.Nil(t, err)

	var again SnapshotSettings
	assert.Nil(t, json.Unmarshal(bytes, &again))
	assert.EqualValues(t, settings, again)
	assert.EqualValues(t, "ADA", again.TokenName.Ticker)
	assert.EqualValues(t, "ipfs://QmAdaThumb", again.Thumb)
}

func Test_ValidateSettings(t *testing.T) {
	valid := func() SnapshotSettings {
		return SnapshotSettings{
			HolderPolicies: []PolicySetting{{PolicyID: "A", Weight: 1}},
			TokenAmount:    TokenAmount{OnChain: 1000, Decimals: 6},
		}
	}
	assert.Nil(t, valid().Validate())

	// the largest bonus that still fits at 6 decimals
	large := valid()
	large.HolderPolicies[0].Traits = &TraitRule{Options: []TraitOption{{Category: "Hat", Trait: "Crown", Amount: 9e12}}}
	assert.Nil(t, large.Validate())

	type testCase struct {
		label  string
		field  string
		mutate func(s *SnapshotSettings)
	}
	testCases := []testCase{
		{"negative weight", "holderPolicies[0].weight", func(s *SnapshotSettings) { s.HolderPolicies[0].Weight = -1 }},
		{"empty policy", "holderPolicies[0].policyId", func(s *SnapshotSettings) { s.HolderPolicies[0].PolicyID = "" }},
		{"duplicate policy", "holderPolicies[1].policyId", func(s *SnapshotSettings) {
			s.HolderPolicies = append(s.HolderPolicies, PolicySetting{PolicyID: "A", Weight: 2})
		}},
		{"no policies", "holderPolicies", func(s *SnapshotSettings) { s.HolderPolicies = nil }},
		{"too many decimals", "tokenAmount.decimals", func(s *SnapshotSettings) { s.TokenAmount.Decimals = 13 }},
		{"inverted rank range", "holderPolicies[0].rankOptions[0]", func(s *SnapshotSettings) {
			s.HolderPolicies[0].Ranks = &RankRule{Options: []RankOption{{MinRange: 10, MaxRange: 1, Amount: 1}}}
		}},
		{"empty trait category", "holderPolicies[0].traitOptions[0].category", func(s *SnapshotSettings) {
			s.HolderPolicies[0].Traits = &TraitRule{Options: []TraitOption{{Trait: "Crown", Amount: 1}}}
		}},
		{"delegators without pools", "stakePools", func(s *SnapshotSettings) { s.WithDelegators = true }},
		{"trait amount past int64", "holderPolicies[0].traitOptions[0].amount", func(s *SnapshotSettings) {
			s.HolderPolicies[0].Traits = &TraitRule{Options: []TraitOption{{Category: "Hat", Trait: "Crown", Amount: 1e13}}}
		}},
		{"rank amount past int64", "holderPolicies[0].rankOptions[0].amount", func(s *SnapshotSettings) {
			s.HolderPolicies[0].Ranks = &RankRule{Options: []RankOption{{MinRange: 1, MaxRange: 10, Amount: 1e13}}}
		}},
	}
	for _, tc := range testCases {
		t.Run(tc.label, func(t *testing.T) {
			s := valid()
			tc.mutate(&s)
			err := s.Validate()
			assert.NotNil(t, err)
			assert.True(t, errors.Is(err, ErrInvalidSettings))
			var cfgErr *ConfigurationError
			assert.True(t, errors.As(err, &cfgErr))
			assert.EqualValues(t, tc.field, cfgErr.Field)
		})
	}
}

func Test_SettingsHash(t *testing.T) {
	var settings SnapshotSettings
	assert.Nil(t, json.Unmarshal([]byte(savedSettings), &settings))

	first, err := settings.Hash()
	assert.Nil(t, err)
	assert.Len(t, first, 56)

	second, err := settings.Hash()
	assert.Nil(t, err)
	assert.EqualValues(t, first, second)

	// presentation fields do not change which snapshot the settings identify
	settings.Thumb = "ipfs://QmOtherThumb"
	settings.TokenName.Display = "Other"
	renamed, err := settings.Hash()
	assert.Nil(t, err)
	assert.EqualValues(t, first, renamed)

	settings.HolderPolicies[0].Weight = 2
	changed, err := settings.Hash()
	assert.Nil(t, err)
	assert.NotEqual(t, first, changed)
}

func Test_PayoutListCBOR(t *testing.T) {
	list := PayoutList{
		{StakeKey: "stake1a", Address: "addr1a", Payout: 1000},
		{StakeKey: "stake1b", Address: "addr1b", Payout: 5, TxHash: "abcd"},
	}
	assert.EqualValues(t, 1005, list.Total())

	bytes, err := cbor.Marshal(list)
	assert.Nil(t, err)
	var decoded PayoutList
	assert.Nil(t, cbor.Unmarshal(bytes, &decoded))
	assert.EqualValues(t, list, decoded)

	hash, err := list.Hash()
	assert.Nil(t, err)
	assert.Len(t, hash, 56)

	_, err = PayoutList{}.Hash()
	assert.Equal(t, ErrEmptyPayouts, err)
}

func Test_PayoutListTotalSaturates(t *testing.T) {
	list := PayoutList{
		{StakeKey: "stake1a", Payout: math.MaxUint64 - 10},
		{StakeKey: "stake1b", Payout: 10},
	}
	assert.EqualValues(t, uint64(math.MaxUint64), list.Total())

	list = append(list, PayoutHolder{StakeKey: "stake1c", Payout: 1})
	assert.EqualValues(t, uint64(math.MaxUint64), list.Total())
	assert.EqualValues(t, 0, PayoutList{}.Total())
}
