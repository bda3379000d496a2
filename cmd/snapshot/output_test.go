package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/SundaeSwap-finance/holder-snapshot/types"
	"github.com/tj/assert"
)

var samplePayouts = types.PayoutList{
	{StakeKey: "stake1a", Address: "addr1a", Payout: 750},
	{StakeKey: "stake1b", Address: "addr1b", Payout: 250},
}

func Test_WriteJSON(t *testing.T) {
	var buf bytes.Buffer
	assert.Nil(t, writeJSON(&buf, samplePayouts))
	assert.Contains(t, buf.String(), `"stakeKey": "stake1a"`)
	assert.Contains(t, buf.String(), `"payout": 750`)
	assert.Contains(t, buf.String(), `"txHash": ""`)

	buf.Reset()
	assert.Nil(t, writeJSON(&buf, nil))
	assert.EqualValues(t, "[]\n", buf.String())
}

func Test_WriteCSV(t *testing.T) {
	var buf bytes.Buffer
	assert.Nil(t, writeCSV(&buf, samplePayouts))
	assert.EqualValues(t, "stakeKey,address,payout,txHash\nstake1a,addr1a,750,\nstake1b,addr1b,250,\n", buf.String())
}

func Test_LoadSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	assert.Nil(t, os.WriteFile(path, []byte(`{
		"holderPolicies": [{"policyId": "A", "weight": 1}],
		"withBlacklist": false, "blacklistWallets": [], "blacklistTokens": [],
		"withDelegators": false, "stakePools": [],
		"tokenId": "lovelace",
		"tokenAmount": {"onChain": 1000, "decimals": 6}
	}`), 0600))

	settings, err := loadSettings(path)
	assert.Nil(t, err)
	assert.Nil(t, settings.Validate())
	assert.EqualValues(t, "A", settings.HolderPolicies[0].PolicyID)
	assert.EqualValues(t, 1000, settings.TokenAmount.OnChain)

	_, err = loadSettings(filepath.Join(t.TempDir(), "missing.json"))
	assert.NotNil(t, err)
}
