package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/SundaeSwap-finance/holder-snapshot/types"
)

func writePayouts(path string, format string, payouts types.PayoutList) error {
	var w io.Writer = os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %v: %w", path, err)
		}
		defer f.Close()
		w = f
	}
	if format == "csv" {
		return writeCSV(w, payouts)
	}
	return writeJSON(w, payouts)
}

func writeJSON(w io.Writer, payouts types.PayoutList) error {
	if payouts == nil {
		payouts = types.PayoutList{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(payouts)
}

func writeCSV(w io.Writer, payouts types.PayoutList) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"stakeKey", "address", "payout", "txHash"}); err != nil {
		return err
	}
	for _, p := range payouts {
		if err := cw.Write([]string{p.StakeKey, p.Address, strconv.FormatUint(p.Payout, 10), p.TxHash}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
