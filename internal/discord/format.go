package discord

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	printer = message.NewPrinter(language.English)
	titler  = cases.Title(language.English)
)

// FormatWei renders a decimal wei amount as ether with grouping, e.g. "1,234.5 ETH".
// Amounts that are not decimal integers are returned unchanged.
func FormatWei(wei string) string {
	v, ok := new(big.Int).SetString(wei, 10)
	if !ok {
		return wei
	}
	eth, _ := new(big.Float).Quo(new(big.Float).SetInt(v), big.NewFloat(weiPerEther)).Float64()
	s := printer.Sprintf("%.6f", eth)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	return s + " ETH"
}

// FormatCount renders an integer with thousands separators
func FormatCount(n int) string {
	return printer.Sprintf("%d", n)
}

// shortAddress abbreviates a hex address as 0x1234…abcd
func shortAddress(addr string) string {
	if !common.IsHexAddress(addr) {
		return addr
	}
	hex := common.HexToAddress(addr).Hex()
	return hex[:6] + "…" + hex[len(hex)-4:]
}

// title turns an identifier such as "draw_requested" into "Draw Requested"
func title(s string) string {
	return titler.String(strings.ReplaceAll(s, "_", " "))
}
