package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Unset marks a field the user has not provided yet. Screens test for it by prefix.
const Unset = "Not set"

var ErrSessionNotFound = errors.New("session not found")

type Tax struct {
	Reflection string `json:"reflection"`
	Liquidity  string `json:"liquidity"`
	Marketing  string `json:"marketing"`
	Burn       string `json:"burn"`
}

type TxnLimit struct {
	MaxBuyTxnAmount  string `json:"MaxBuyTxnAmount"`
	MaxSellTxnAmount string `json:"MaxSellTxnAmount"`
	MaxWalletAmount  string `json:"MaxWalletAmount"`
}

// Session is the per-user conversation state stored under "session:<userId>".
type Session struct {
	Chain           string   `json:"chain"`
	DeployerAddress string   `json:"deployerAddress"` // reserved
	Name            string   `json:"name"`
	Symbol          string   `json:"symbol"`
	Supply          string   `json:"supply"`
	BaseURI         string   `json:"baseuri"`
	BuyTax          Tax      `json:"buyTax"`
	SellTax         Tax      `json:"sellTax"`
	TxnLimit        TxnLimit `json:"txnLimit"`
	MarketingWallet string   `json:"MarketingWallet"`
	Website         string   `json:"website"`
	Telegram        string   `json:"telegram"`
	Twitter         string   `json:"twitter"`
	Description     string   `json:"description"`

	// Пусто, когда бот не ждёт текстового ответа.
	CurrentState AwaitingState `json:"currentState,omitempty"`

	// Deploying is set while a confirmed deployment runs in the background.
	Deploying Variant `json:"deploying,omitempty"`

	MessageIDs map[Slot]int `json:"messageIds,omitempty"`
}

func unsetTax() Tax {
	return Tax{Reflection: Unset, Liquidity: Unset, Marketing: Unset, Burn: Unset}
}

func NewSession() *Session {
	return &Session{
		Chain:           Unset,
		Name:            Unset,
		Symbol:          Unset,
		Supply:          Unset,
		BaseURI:         Unset,
		BuyTax:          unsetTax(),
		SellTax:         unsetTax(),
		TxnLimit:        TxnLimit{MaxBuyTxnAmount: Unset, MaxSellTxnAmount: Unset, MaxWalletAmount: Unset},
		MarketingWallet: Unset,
		Website:         Unset,
		Telegram:        Unset,
		Twitter:         Unset,
		Description:     Unset,
		MessageIDs:      map[Slot]int{},
	}
}

// IsSet reports whether a stored value counts as provided.
func IsSet(v string) bool {
	return !strings.HasPrefix(v, Unset)
}

func (s *Session) Awaiting() bool {
	return s.CurrentState != ""
}

func (s *Session) MessageID(slot Slot) (int, bool) {
	id, ok := s.MessageIDs[slot]
	return id, ok && id != 0
}

func (s *Session) SetMessageID(slot Slot, id int) {
	if s.MessageIDs == nil {
		s.MessageIDs = map[Slot]int{}
	}
	s.MessageIDs[slot] = id
}

func (s *Session) ClearMessageID(slot Slot) {
	delete(s.MessageIDs, slot)
}

// FieldPath addresses a session value: flat ("name") or nested ("buyTax.reflection").
type FieldPath string

const (
	FieldChain           FieldPath = "chain"
	FieldName            FieldPath = "name"
	FieldSymbol          FieldPath = "symbol"
	FieldSupply          FieldPath = "supply"
	FieldBaseURI         FieldPath = "baseuri"
	FieldBuyReflection   FieldPath = "buyTax.reflection"
	FieldBuyLiquidity    FieldPath = "buyTax.liquidity"
	FieldBuyMarketing    FieldPath = "buyTax.marketing"
	FieldBuyBurn         FieldPath = "buyTax.burn"
	FieldSellReflection  FieldPath = "sellTax.reflection"
	FieldSellLiquidity   FieldPath = "sellTax.liquidity"
	FieldSellMarketing   FieldPath = "sellTax.marketing"
	FieldSellBurn        FieldPath = "sellTax.burn"
	FieldMaxBuy          FieldPath = "txnLimit.MaxBuyTxnAmount"
	FieldMaxSell         FieldPath = "txnLimit.MaxSellTxnAmount"
	FieldMaxWallet       FieldPath = "txnLimit.MaxWalletAmount"
	FieldMarketingWallet FieldPath = "MarketingWallet"
	FieldWebsite         FieldPath = "website"
	FieldTelegram        FieldPath = "telegram"
	FieldTwitter         FieldPath = "twitter"
	FieldDescription     FieldPath = "description"
)

func (s *Session) field(path FieldPath) (*string, error) {
	switch path {
	case FieldChain:
		return &s.Chain, nil
	case FieldName:
		return &s.Name, nil
	case FieldSymbol:
		return &s.Symbol, nil
	case FieldSupply:
		return &s.Supply, nil
	case FieldBaseURI:
		return &s.BaseURI, nil
	case FieldBuyReflection:
		return &s.BuyTax.Reflection, nil
	case FieldBuyLiquidity:
		return &s.BuyTax.Liquidity, nil
	case FieldBuyMarketing:
		return &s.BuyTax.Marketing, nil
	case FieldBuyBurn:
		return &s.BuyTax.Burn, nil
	case FieldSellReflection:
		return &s.SellTax.Reflection, nil
	case FieldSellLiquidity:
		return &s.SellTax.Liquidity, nil
	case FieldSellMarketing:
		return &s.SellTax.Marketing, nil
	case FieldSellBurn:
		return &s.SellTax.Burn, nil
	case FieldMaxBuy:
		return &s.TxnLimit.MaxBuyTxnAmount, nil
	case FieldMaxSell:
		return &s.TxnLimit.MaxSellTxnAmount, nil
	case FieldMaxWallet:
		return &s.TxnLimit.MaxWalletAmount, nil
	case FieldMarketingWallet:
		return &s.MarketingWallet, nil
	case FieldWebsite:
		return &s.Website, nil
	case FieldTelegram:
		return &s.Telegram, nil
	case FieldTwitter:
		return &s.Twitter, nil
	case FieldDescription:
		return &s.Description, nil
	}
	return nil, fmt.Errorf("unknown session field %q", path)
}

func (s *Session) Get(path FieldPath) (string, error) {
	p, err := s.field(path)
	if err != nil {
		return "", err
	}
	return *p, nil
}

// Set writes the value verbatim; free-text answers are not validated.
func (s *Session) Set(path FieldPath, value string) error {
	p, err := s.field(path)
	if err != nil {
		return err
	}
	*p = value
	return nil
}

func (s *Session) IsComplete(path FieldPath) bool {
	v, err := s.Get(path)
	if err != nil {
		return false
	}
	return IsSet(v)
}

type Group string

const (
	GroupSocials  Group = "socials"
	GroupBuyTax   Group = "buyTax"
	GroupSellTax  Group = "sellTax"
	GroupTxnLimit Group = "txnLimit"
	// GroupLimits is what the "Txn Limits" button checks: limits plus the marketing wallet.
	GroupLimits Group = "limits"
)

var groupFields = map[Group][]FieldPath{
	GroupSocials:  {FieldWebsite, FieldTelegram, FieldTwitter, FieldDescription},
	GroupBuyTax:   {FieldBuyReflection, FieldBuyLiquidity, FieldBuyMarketing, FieldBuyBurn},
	GroupSellTax:  {FieldSellReflection, FieldSellLiquidity, FieldSellMarketing, FieldSellBurn},
	GroupTxnLimit: {FieldMaxBuy, FieldMaxSell, FieldMaxWallet},
	GroupLimits:   {FieldMaxBuy, FieldMaxSell, FieldMaxWallet, FieldMarketingWallet},
}

func GroupFields(g Group) []FieldPath {
	return groupFields[g]
}

func (s *Session) IsGroupComplete(g Group) bool {
	fields, ok := groupFields[g]
	if !ok {
		return false
	}
	for _, f := range fields {
		if !s.IsComplete(f) {
			return false
		}
	}
	return true
}

// RequiredForDeploy is the hard deploy gate, checked in this order.
var RequiredForDeploy = []FieldPath{FieldChain, FieldName, FieldSymbol, FieldSupply}

// MissingForDeploy returns the first required field that is still unset.
func (s *Session) MissingForDeploy() (FieldPath, bool) {
	return lo.Find(RequiredForDeploy, func(f FieldPath) bool {
		return !s.IsComplete(f)
	})
}
