package contracts

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"text/template"
	"unicode"

	"github.com/ethereum/go-ethereum/common"
	"github.com/token-launcher/backend/internal/models"
)

//go:embed templates/*.sol.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("contracts").Funcs(template.FuncMap{
	"lit":     solidityString,
	"comment": commentText,
}).ParseFS(templateFS, "templates/*.sol.tmpl"))

var ErrInvalidParam = errors.New("invalid contract parameter")

// MaxTaxPercent bounds the sum of the four buy (or sell) fees.
const MaxTaxPercent = 30

// Source is a generated, ready-to-compile contract.
type Source struct {
	ContractName string
	FileName     string
	Code         string
}

type Limits struct {
	MaxBuy    int
	MaxSell   int
	MaxWallet int
}

type Fees struct {
	Reflection int
	Liquidity  int
	Marketing  int
	Burn       int
}

func (f Fees) Total() int {
	return f.Reflection + f.Liquidity + f.Marketing + f.Burn
}

type standardData struct {
	ContractName string
	Name         string
	Symbol       string
	Supply       string
	Website      string
	Telegram     string
	Twitter      string
}

type customData struct {
	standardData
	Description     string
	BuyTax          Fees
	SellTax         Fees
	Limits          Limits
	MarketingWallet string
}

type erc404Data struct {
	ContractName string
	Name         string
	Symbol       string
	Supply       string
	BaseURI      string
}

func Standard(userID int64, s *models.Session) (Source, error) {
	base, err := baseData("StandardToken", userID, s)
	if err != nil {
		return Source{}, err
	}
	return render("standard.sol.tmpl", base.ContractName, base)
}

// Custom renders the fee/limit-bearing token. Unset fees default to 0, unset limits
// to 100% and an unset marketing wallet to the deployer.
func Custom(userID int64, s *models.Session) (Source, error) {
	base, err := baseData("CustomToken", userID, s)
	if err != nil {
		return Source{}, err
	}
	d := customData{standardData: base, Description: s.Description}

	if d.BuyTax, err = fees("buy", s.BuyTax); err != nil {
		return Source{}, err
	}
	if d.SellTax, err = fees("sell", s.SellTax); err != nil {
		return Source{}, err
	}

	limits := []struct {
		label string
		value string
		dst   *int
	}{
		{"max buy", s.TxnLimit.MaxBuyTxnAmount, &d.Limits.MaxBuy},
		{"max sell", s.TxnLimit.MaxSellTxnAmount, &d.Limits.MaxSell},
		{"max wallet", s.TxnLimit.MaxWalletAmount, &d.Limits.MaxWallet},
	}
	for _, l := range limits {
		if *l.dst, err = percent(l.label, l.value, 100); err != nil {
			return Source{}, err
		}
		if *l.dst == 0 {
			return Source{}, fmt.Errorf("%w: %s must be at least 1%%", ErrInvalidParam, l.label)
		}
	}

	if models.IsSet(s.MarketingWallet) {
		w := strings.TrimSpace(s.MarketingWallet)
		if !common.IsHexAddress(w) {
			return Source{}, fmt.Errorf("%w: marketing wallet %q is not an address", ErrInvalidParam, w)
		}
		d.MarketingWallet = common.HexToAddress(w).Hex()
	}

	return render("custom.sol.tmpl", d.ContractName, d)
}

func ERC404(userID int64, s *models.Session) (Source, error) {
	base, err := baseData("ERC404Token", userID, s)
	if err != nil {
		return Source{}, err
	}
	d := erc404Data{
		ContractName: base.ContractName,
		Name:         base.Name,
		Symbol:       base.Symbol,
		Supply:       base.Supply,
	}
	if models.IsSet(s.BaseURI) {
		d.BaseURI = strings.TrimSpace(s.BaseURI)
	}
	return render("erc404.sol.tmpl", d.ContractName, d)
}

// Generate dispatches on the variant.
func Generate(variant models.Variant, userID int64, s *models.Session) (Source, error) {
	switch variant {
	case models.VariantStandard:
		return Standard(userID, s)
	case models.VariantCustom:
		return Custom(userID, s)
	case models.VariantERC404:
		return ERC404(userID, s)
	}
	return Source{}, fmt.Errorf("%w: unknown variant %q", ErrInvalidParam, variant)
}

func baseData(prefix string, userID int64, s *models.Session) (standardData, error) {
	supply, err := parseSupply(s.Supply)
	if err != nil {
		return standardData{}, err
	}
	symbol := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s.Symbol)
	if symbol == "" {
		return standardData{}, fmt.Errorf("%w: symbol is empty", ErrInvalidParam)
	}
	return standardData{
		ContractName: prefix + strconv.FormatInt(userID, 10),
		Name:         strings.TrimSpace(s.Name),
		Symbol:       symbol,
		Supply:       supply,
		Website:      s.Website,
		Telegram:     s.Telegram,
		Twitter:      s.Twitter,
	}, nil
}

// maxSupply keeps supply * 10^18 well inside uint256.
var maxSupply = new(big.Int).Exp(big.NewInt(10), big.NewInt(40), nil)

func parseSupply(v string) (string, error) {
	v = strings.ReplaceAll(strings.TrimSpace(v), ",", "")
	n, ok := new(big.Int).SetString(v, 10)
	if !ok || n.Sign() <= 0 || n.Cmp(maxSupply) > 0 {
		return "", fmt.Errorf("%w: supply %q must be a positive whole number", ErrInvalidParam, v)
	}
	return n.String(), nil
}

func percent(label, v string, limit int) (int, error) {
	if !models.IsSet(v) {
		return limit, nil
	}
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(v), "%"))
	if err != nil || n < 0 || n > limit {
		return 0, fmt.Errorf("%w: %s %q must be a whole percentage between 0 and %d", ErrInvalidParam, label, v, limit)
	}
	return n, nil
}

func fees(side string, t models.Tax) (Fees, error) {
	var f Fees
	parts := []struct {
		label string
		value string
		dst   *int
	}{
		{side + " reflection", t.Reflection, &f.Reflection},
		{side + " liquidity", t.Liquidity, &f.Liquidity},
		{side + " marketing", t.Marketing, &f.Marketing},
		{side + " burn", t.Burn, &f.Burn},
	}
	for _, p := range parts {
		if !models.IsSet(p.value) {
			continue
		}
		n, err := percent(p.label, p.value, MaxTaxPercent)
		if err != nil {
			return Fees{}, err
		}
		*p.dst = n
	}
	if f.Total() > MaxTaxPercent {
		return Fees{}, fmt.Errorf("%w: total %s tax %d%% exceeds %d%%", ErrInvalidParam, side, f.Total(), MaxTaxPercent)
	}
	return f, nil
}

func render(name, contract string, data any) (Source, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return Source{}, fmt.Errorf("render %s: %w", name, err)
	}
	return Source{ContractName: contract, FileName: contract + ".sol", Code: buf.String()}, nil
}

// solidityString quotes v as a unicode string literal.
func solidityString(v string) string {
	var b strings.Builder
	b.WriteString(`unicode"`)
	for _, r := range v {
		switch {
		case r == '"' || r == '\\':
			b.WriteRune('\\')
			b.WriteRune(r)
		case r == '\n' || r == '\r' || r == '\t':
			b.WriteRune(' ')
		case unicode.IsControl(r):
		default:
			b.WriteRune(r)
		}
	}
	b.WriteString(`"`)
	return b.String()
}

// commentText flattens v onto one line so it cannot escape a // comment.
func commentText(v string) string {
	return strings.Join(strings.FieldsFunc(v, func(r rune) bool {
		return r == '\n' || r == '\r' || unicode.IsControl(r)
	}), " ")
}
