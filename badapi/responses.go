package badapi

import (
	"github.com/SundaeSwap-finance/holder-snapshot/types"
)

type tokenAmount struct {
	OnChain  uint64  `json:"onChain"`
	Decimals int     `json:"decimals"`
	Display  float64 `json:"display"`
}

type tokenName struct {
	OnChain string `json:"onChain"`
	Ticker  string `json:"ticker"`
	Display string `json:"display"`
}

type poolResponse struct {
	PoolID     string   `json:"poolId"`
	Ticker     string   `json:"ticker"`
	Delegators []string `json:"delegators"`
}

type rankedToken struct {
	TokenID     string      `json:"tokenId"`
	IsFungible  bool        `json:"isFungible"`
	TokenAmount tokenAmount `json:"tokenAmount"`
	TokenName   *tokenName  `json:"tokenName,omitempty"`
	RarityRank  int         `json:"rarityRank,omitempty"`
}

func (t rankedToken) summary() types.TokenSummary {
	return types.TokenSummary{
		TokenID:     t.TokenID,
		IsFungible:  t.IsFungible,
		TokenAmount: types.TokenAmount{OnChain: t.TokenAmount.OnChain, Decimals: t.TokenAmount.Decimals},
		RarityRank:  t.RarityRank,
	}
}

type policyResponse struct {
	PolicyID string        `json:"policyId"`
	Tokens   []rankedToken `json:"tokens"`
}

type tokenResponse struct {
	rankedToken
	Fingerprint string `json:"fingerprint"`
	PolicyID    string `json:"policyId"`
	// Metadata attributes are free-form; only text values can be matched against traits
	Attributes map[string]interface{} `json:"attributes"`
}

func (t tokenResponse) detail() types.TokenDetail {
	detail := types.TokenDetail{
		TokenID:     t.TokenID,
		PolicyID:    t.PolicyID,
		Fingerprint: t.Fingerprint,
		TokenAmount: types.TokenAmount{OnChain: t.TokenAmount.OnChain, Decimals: t.TokenAmount.Decimals},
		Attributes:  map[string]string{},
	}
	if t.TokenName != nil {
		detail.DisplayName = t.TokenName.Display
	}
	for k, v := range t.Attributes {
		if s, ok := v.(string); ok {
			detail.Attributes[k] = s
		}
	}
	return detail
}

type ownerAddress struct {
	Address  string `json:"address"`
	IsScript bool   `json:"isScript"`
}

type owner struct {
	Quantity  uint64         `json:"quantity"`
	StakeKey  string         `json:"stakeKey"`
	Addresses []ownerAddress `json:"addresses"`
}

type ownersResponse struct {
	TokenID string  `json:"tokenId"`
	Page    int     `json:"page"`
	Owners  []owner `json:"owners"`
}
