package chain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/params"
)

// Gwei formats a wei amount in gwei with the given number of decimals.
func Gwei(wei *big.Int, decimals int) string {
	return format(wei, params.GWei, decimals)
}

// Ether formats a wei amount in ETH with the given number of decimals.
func Ether(wei *big.Int, decimals int) string {
	return format(wei, params.Ether, decimals)
}

func format(wei *big.Int, unit float64, decimals int) string {
	if wei == nil {
		wei = new(big.Int)
	}
	f := new(big.Float).SetPrec(256).SetInt(wei)
	f.Quo(f, new(big.Float).SetPrec(256).SetFloat64(unit))
	return f.Text('f', decimals)
}

// MilliEther returns n/1000 ETH in wei.
func MilliEther(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(params.Ether/1000))
}
