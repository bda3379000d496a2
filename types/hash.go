package types

import (
	"encoding/hex"
	"math"
	"math/bits"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"
)

// Same width as a cardano script or key hash
const digestSize = 224 / 8

var canonical cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	canonical = em
}

func digest(v interface{}) (string, error) {
	bytes, err := canonical.Marshal(v)
	if err != nil {
		return "", err
	}
	b2, err := blake2b.New(digestSize, nil)
	if err != nil {
		return "", err
	}
	_, err = b2.Write(bytes)
	if err != nil {
		return "", err
	}
	hash := b2.Sum(nil)
	return hex.EncodeToString(hash), nil
}

type settingsCBOR struct {
	_                struct{} `cbor:",toarray"`
	HolderPolicies   []policySettingJSON
	WithBlacklist    bool
	BlacklistWallets []StakeKey
	BlacklistTokens  []TokenID
	WithDelegators   bool
	StakePools       []PoolID
	TokenID          TokenID
	TokenAmount      TokenAmount
}

// Hash identifies a set of settings, so a finished payout list can be found
// again for the same input
func (s SnapshotSettings) Hash() (string, error) {
	policies := make([]policySettingJSON, 0, len(s.HolderPolicies))
	for _, p := range s.HolderPolicies {
		policies = append(policies, p.wire())
	}
	return digest(settingsCBOR{
		HolderPolicies:   policies,
		WithBlacklist:    s.WithBlacklist,
		BlacklistWallets: s.BlacklistWallets,
		BlacklistTokens:  s.BlacklistTokens,
		WithDelegators:   s.WithDelegators,
		StakePools:       s.StakePools,
		TokenID:          s.TokenID,
		TokenAmount:      s.TokenAmount,
	})
}

type PayoutList []PayoutHolder

// Total sums the payouts, saturating at math.MaxUint64
func (l PayoutList) Total() uint64 {
	total := uint64(0)
	for _, h := range l {
		sum, carry := bits.Add64(total, h.Payout, 0)
		if carry != 0 {
			return math.MaxUint64
		}
		total = sum
	}
	return total
}

func (l PayoutList) Hash() (string, error) {
	if len(l) == 0 {
		return "", ErrEmptyPayouts
	}
	return digest([]PayoutHolder(l))
}

func (l PayoutList) MarshalCBOR() ([]byte, error) {
	return canonical.Marshal([]PayoutHolder(l))
}

func (l *PayoutList) UnmarshalCBOR(b []byte) error {
	var holders []PayoutHolder
	if err := cbor.Unmarshal(b, &holders); err != nil {
		return err
	}
	*l = holders
	return nil
}
