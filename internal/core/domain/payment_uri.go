package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	networkMainnet = "mainnet"
	networkSolana  = "sol"

	utxoPrecision   = 8
	evmPrecision    = 18
	solanaPrecision = 9
)

type evmChain struct {
	chainID    string
	mainTicker []string
}

// EVM-compatible networks. ERC20 is Ethereum mainnet, which needs no chain id.
var evmChains = map[string]evmChain{
	"erc20":    {"", []string{"eth"}},
	"bep20":    {"56", []string{"bnb"}},
	"polygon":  {"137", []string{"matic", "pol"}},
	"arbitrum": {"42161", []string{"eth"}},
	"optimism": {"10", []string{"eth"}},
	"base":     {"8453", []string{"eth"}},
	"avax-c":   {"43114", []string{"avax"}},
}

var utxoTickers = map[string]bool{
	"btc": true, "ltc": true, "doge": true, "bch": true,
	"dash": true, "zec": true, "xmr": true,
}

var mainnetSchemes = map[string]string{
	"btc":  "bitcoin",
	"doge": "dogecoin",
	"trx":  "tron",
	"xrp":  "xrp",
	"sol":  "solana",
}

// FormatAmount normalizes the precision of amount for the network family of
// the given asset and strips trailing zeros. It returns false if amount is
// not a positive decimal.
func FormatAmount(amount string, asset Asset) (string, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil || !d.IsPositive() {
		return "", false
	}

	if precision, ok := amountPrecision(asset); ok {
		d = d.Round(precision)
		if !d.IsPositive() {
			return "", false
		}
	}
	return d.String(), true
}

// PaymentURI returns a wallet scannable uri for sending amount of asset to
// address. Networks without a known scheme get the bare address. An invalid
// or non-positive amount yields the uri without amount parameters.
func PaymentURI(address, amount string, asset Asset) string {
	ticker := strings.ToLower(strings.TrimSpace(asset.Ticker))
	network := strings.ToLower(strings.TrimSpace(asset.Network))
	value, hasAmount := FormatAmount(amount, asset)

	if chain, ok := evmChains[network]; ok {
		target := address
		if chain.chainID != "" {
			target = fmt.Sprintf("%s@%s", address, chain.chainID)
		}
		if !hasAmount {
			return fmt.Sprintf("ethereum:%s", target)
		}
		if chain.isMainAsset(ticker) {
			return fmt.Sprintf("ethereum:%s?value=%s", target, value)
		}
		// Token transfers would need the contract address, value=0 plus amount
		// is what most wallets accept without it.
		return fmt.Sprintf("ethereum:%s?value=0&amount=%s", target, value)
	}

	scheme := ""
	switch {
	case network == networkSolana:
		scheme = "solana"
	case network == networkMainnet:
		scheme = mainnetSchemes[ticker]
	}
	if scheme == "" {
		return address
	}
	if !hasAmount {
		return fmt.Sprintf("%s:%s", scheme, address)
	}
	return fmt.Sprintf("%s:%s?amount=%s", scheme, address, value)
}

func (c evmChain) isMainAsset(ticker string) bool {
	for _, t := range c.mainTicker {
		if t == ticker {
			return true
		}
	}
	return false
}

func amountPrecision(asset Asset) (int32, bool) {
	ticker := strings.ToLower(strings.TrimSpace(asset.Ticker))
	network := strings.ToLower(strings.TrimSpace(asset.Network))

	if _, ok := evmChains[network]; ok {
		return evmPrecision, true
	}
	if network == networkSolana || (network == networkMainnet && ticker == "sol") {
		return solanaPrecision, true
	}
	if network == networkMainnet && utxoTickers[ticker] {
		return utxoPrecision, true
	}
	return 0, false
}
