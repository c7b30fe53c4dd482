package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/swapgate-network/swapgate-daemon/internal/core/domain"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		asset    domain.Asset
		expected string
		ok       bool
	}{
		{"btc trailing zeros", "1.50000000", domain.Asset{"btc", "Mainnet"}, "1.5", true},
		{"btc rounded", "0.123456789", domain.Asset{"btc", "Mainnet"}, "0.12345679", true},
		{"evm integer", "2.000000000000000000", domain.Asset{"eth", "ERC20"}, "2", true},
		{"solana", "1.0000000001", domain.Asset{"sol", "Mainnet"}, "1", true},
		{"unmapped as given", "3.1234567890123", domain.Asset{"ton", "Mainnet"}, "3.1234567890123", true},
		{"zero", "0", domain.Asset{"btc", "Mainnet"}, "", false},
		{"negative", "-1", domain.Asset{"btc", "Mainnet"}, "", false},
		{"garbage", "abc", domain.Asset{"btc", "Mainnet"}, "", false},
		{"rounds to zero", "0.000000001", domain.Asset{"btc", "Mainnet"}, "", false},
	}

	for i := range tests {
		tt := tests[i]
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			amount, ok := domain.FormatAmount(tt.amount, tt.asset)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.expected, amount)
		})
	}
}

func TestPaymentURI(t *testing.T) {
	tests := []struct {
		name     string
		address  string
		amount   string
		asset    domain.Asset
		expected string
	}{
		{
			"bitcoin", "bc1qaddr", "1.50000000", domain.Asset{"btc", "Mainnet"},
			"bitcoin:bc1qaddr?amount=1.5",
		},
		{
			"dogecoin", "Daddr", "100", domain.Asset{"DOGE", "Mainnet"},
			"dogecoin:Daddr?amount=100",
		},
		{
			"tron", "Taddr", "10.5", domain.Asset{"trx", "Mainnet"},
			"tron:Taddr?amount=10.5",
		},
		{
			"xrp", "raddr", "20", domain.Asset{"xrp", "Mainnet"},
			"xrp:raddr?amount=20",
		},
		{
			"solana mainnet", "So1addr", "1.5000000000", domain.Asset{"sol", "Mainnet"},
			"solana:So1addr?amount=1.5",
		},
		{
			"solana network token", "So1addr", "5", domain.Asset{"usdc", "SOL"},
			"solana:So1addr?amount=5",
		},
		{
			"ether", "0xABC", "0.25", domain.Asset{"eth", "ERC20"},
			"ethereum:0xABC?value=0.25",
		},
		{
			"erc20 token", "0xABC", "12.340000000000000000", domain.Asset{"USDT", "ERC20"},
			"ethereum:0xABC?value=0&amount=12.34",
		},
		{
			"bep20 main asset", "0xABC", "1", domain.Asset{"bnb", "BEP20"},
			"ethereum:0xABC@56?value=1",
		},
		{
			"polygon token", "0xABC", "3", domain.Asset{"usdt", "Polygon"},
			"ethereum:0xABC@137?value=0&amount=3",
		},
		{
			"arbitrum ether", "0xABC", "1", domain.Asset{"eth", "Arbitrum"},
			"ethereum:0xABC@42161?value=1",
		},
		{
			"base token", "0xABC", "1", domain.Asset{"usdc", "Base"},
			"ethereum:0xABC@8453?value=0&amount=1",
		},
		{
			"avalanche", "0xABC", "1", domain.Asset{"avax", "AVAX-C"},
			"ethereum:0xABC@43114?value=1",
		},
		{
			"no amount", "bc1qaddr", "", domain.Asset{"btc", "Mainnet"},
			"bitcoin:bc1qaddr",
		},
		{
			"evm invalid amount", "0xABC", "nope", domain.Asset{"eth", "Optimism"},
			"ethereum:0xABC@10",
		},
		{
			"unmapped mainnet ticker", "UQaddr", "1", domain.Asset{"ton", "Mainnet"},
			"UQaddr",
		},
		{
			"unmapped network", "addr", "1", domain.Asset{"btc", "Lightning"},
			"addr",
		},
		{
			"empty network", "addr", "1", domain.Asset{"btc", ""},
			"addr",
		},
	}

	for i := range tests {
		tt := tests[i]
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			uri := domain.PaymentURI(tt.address, tt.amount, tt.asset)
			require.Equal(t, tt.expected, uri)
		})
	}
}
