// Package model holds identifiers shared by the codec and its lookup adapters.
package model

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
)

type Coin string
type Network string

var (
	BTC Coin = "BTC"
)

var (
	Mainnet Network = "mainnet"
	Testnet Network = "testnet"
	Regtest Network = "regtest"
	Signet  Network = "signet"
)

// ParseNetwork normalizes a user supplied network name.
func ParseNetwork(name string) (Network, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "main", "mainnet", "bitcoin":
		return Mainnet, nil
	case "test", "testnet", "testnet3":
		return Testnet, nil
	case "regtest":
		return Regtest, nil
	case "signet":
		return Signet, nil
	default:
		return "", fmt.Errorf("unsupported network %q", name)
	}
}

// ChainParams returns the address prefixes and other parameters of the network.
func (n Network) ChainParams() (*chaincfg.Params, error) {
	network, err := ParseNetwork(string(n))
	if err != nil {
		return nil, err
	}
	switch network {
	case Mainnet:
		return &chaincfg.MainNetParams, nil
	case Regtest:
		return &chaincfg.RegressionNetParams, nil
	case Signet:
		return &chaincfg.SigNetParams, nil
	default:
		return &chaincfg.TestNet3Params, nil
	}
}
