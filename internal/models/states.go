package models

// Variant is one of the three token configuration flows.
type Variant string

const (
	VariantStandard Variant = "standard"
	VariantCustom   Variant = "custom"
	VariantERC404   Variant = "erc404"
)

var Variants = []Variant{VariantStandard, VariantCustom, VariantERC404}

// Slot names a message-identity slot in the session.
type Slot string

const (
	SlotMainMenu       Slot = "mainMenu"
	SlotTokenTypes     Slot = "tokenTypes"
	SlotStandardParams Slot = "standardTokenParams"
	SlotCustomParams   Slot = "customTokenParams"
	SlotERC404Params   Slot = "erc404TokenParams"
	SlotChooseChain    Slot = "chooseChain"
)

// ParamsSlot is the summary-message slot owned by a variant flow.
func (v Variant) ParamsSlot() Slot {
	switch v {
	case VariantCustom:
		return SlotCustomParams
	case VariantERC404:
		return SlotERC404Params
	default:
		return SlotStandardParams
	}
}

// PromptSlot holds the id of the "Enter ...:" message sent for an awaiting state.
func PromptSlot(state AwaitingState) Slot {
	return Slot("prompt:" + string(state))
}

// ScreenID identifies a renderable session screen.
type ScreenID string

const (
	ScreenStandard      ScreenID = "standard"
	ScreenCustom        ScreenID = "custom"
	ScreenERC404        ScreenID = "erc404"
	ScreenSocials       ScreenID = "socials"
	ScreenSocialsCustom ScreenID = "socials_custom"
	ScreenBuyTax        ScreenID = "buy_tax"
	ScreenSellTax       ScreenID = "sell_tax"
	ScreenLimits        ScreenID = "limits"
)

// Variant returns the flow whose summary message a screen is drawn into.
func (s ScreenID) Variant() Variant {
	switch s {
	case ScreenCustom, ScreenSocialsCustom, ScreenBuyTax, ScreenSellTax, ScreenLimits:
		return VariantCustom
	case ScreenERC404:
		return VariantERC404
	default:
		return VariantStandard
	}
}

// AwaitingState means "the next free-text message from this user answers field X".
type AwaitingState string

const (
	AwaitTokenName         AwaitingState = "awaiting_token_name"
	AwaitTokenNameCustom   AwaitingState = "awaiting_token_name_custom"
	AwaitTokenNameERC404   AwaitingState = "awaiting_token_name_ERC404"
	AwaitTokenSymbol       AwaitingState = "awaiting_token_symbol"
	AwaitTokenSymbolCustom AwaitingState = "awaiting_token_symbol_custom"
	AwaitTokenSymbolERC404 AwaitingState = "awaiting_token_symbol_ERC404"
	AwaitTokenSupply       AwaitingState = "awaiting_token_supply"
	AwaitTokenSupplyCustom AwaitingState = "awaiting_token_supply_custom"
	AwaitTokenSupplyERC404 AwaitingState = "awaiting_token_supply_ERC404"
	AwaitBaseURI           AwaitingState = "awaiting_baseuri"

	AwaitBuyReflection AwaitingState = "awaiting_buy_reflection"
	AwaitBuyLiquidity  AwaitingState = "awaiting_buy_liquidity"
	AwaitBuyMarketing  AwaitingState = "awaiting_buy_marketing"
	AwaitBuyBurn       AwaitingState = "awaiting_buy_burn"

	AwaitSellReflection AwaitingState = "awaiting_sell_reflection"
	AwaitSellLiquidity  AwaitingState = "awaiting_sell_liquidity"
	AwaitSellMarketing  AwaitingState = "awaiting_sell_marketing"
	AwaitSellBurn       AwaitingState = "awaiting_sell_burn"

	AwaitMaxBuy          AwaitingState = "awaiting_max_MaxBuyTxnAmount"
	AwaitMaxSell         AwaitingState = "awaiting_max_MaxSellTxnAmount"
	AwaitMaxWallet       AwaitingState = "awaiting_max_MaxWalletAmount"
	AwaitMarketingWallet AwaitingState = "awaiting_marketing_wallet"

	AwaitWebsite     AwaitingState = "awaiting_website"
	AwaitTelegram    AwaitingState = "awaiting_telegram"
	AwaitTwitter     AwaitingState = "awaiting_twitter"
	AwaitDescription AwaitingState = "awaiting_description"

	AwaitCustomWebsite     AwaitingState = "awaiting_custom_website"
	AwaitCustomTelegram    AwaitingState = "awaiting_custom_telegram"
	AwaitCustomTwitter     AwaitingState = "awaiting_custom_twitter"
	AwaitCustomDescription AwaitingState = "awaiting_custom_description"
)

// Route binds an edit button to the state it enters, the field the answer is
// written to, and the screen redrawn afterwards.
type Route struct {
	Action string
	State  AwaitingState
	Field  FieldPath
	Prompt string
	Screen ScreenID
}

func (r Route) PromptSlot() Slot {
	return PromptSlot(r.State)
}

// Routes is the only place that maps awaiting states to session fields.
var Routes = []Route{
	{"set_name", AwaitTokenName, FieldName, "Enter token name:", ScreenStandard},
	{"set_name_custom", AwaitTokenNameCustom, FieldName, "Enter token name:", ScreenCustom},
	{"set_name_ERC404", AwaitTokenNameERC404, FieldName, "Enter token name:", ScreenERC404},
	{"set_symbol", AwaitTokenSymbol, FieldSymbol, "Enter token symbol:", ScreenStandard},
	{"set_symbol_custom", AwaitTokenSymbolCustom, FieldSymbol, "Enter token symbol:", ScreenCustom},
	{"set_symbol_ERC404", AwaitTokenSymbolERC404, FieldSymbol, "Enter token symbol:", ScreenERC404},
	{"set_supply", AwaitTokenSupply, FieldSupply, "Enter token supply:", ScreenStandard},
	{"set_supply_custom", AwaitTokenSupplyCustom, FieldSupply, "Enter token supply:", ScreenCustom},
	{"set_supply_ERC404", AwaitTokenSupplyERC404, FieldSupply, "Enter token supply:", ScreenERC404},
	{"set_baseuri", AwaitBaseURI, FieldBaseURI, "Enter Base URI of NFT collection:", ScreenERC404},

	{"set_buy_reflection", AwaitBuyReflection, FieldBuyReflection, "Enter reflection percentage:", ScreenBuyTax},
	{"set_buy_liquidity", AwaitBuyLiquidity, FieldBuyLiquidity, "Enter liquidity percentage:", ScreenBuyTax},
	{"set_buy_marketing", AwaitBuyMarketing, FieldBuyMarketing, "Enter marketing percentage:", ScreenBuyTax},
	{"set_buy_burn", AwaitBuyBurn, FieldBuyBurn, "Enter burn percentage:", ScreenBuyTax},

	{"set_sell_reflection", AwaitSellReflection, FieldSellReflection, "Enter reflection percentage:", ScreenSellTax},
	{"set_sell_liquidity", AwaitSellLiquidity, FieldSellLiquidity, "Enter liquidity percentage:", ScreenSellTax},
	{"set_sell_marketing", AwaitSellMarketing, FieldSellMarketing, "Enter marketing percentage:", ScreenSellTax},
	{"set_sell_burn", AwaitSellBurn, FieldSellBurn, "Enter burn percentage:", ScreenSellTax},

	{"set_max_MaxBuyTxnAmount", AwaitMaxBuy, FieldMaxBuy, "Enter MaxBuyTxnAmount percentage:", ScreenLimits},
	{"set_max_MaxSellTxnAmount", AwaitMaxSell, FieldMaxSell, "Enter MaxSellTxnAmount percentage:", ScreenLimits},
	{"set_max_MaxWalletAmount", AwaitMaxWallet, FieldMaxWallet, "Enter MaxWalletAmount percentage:", ScreenLimits},
	{"set_marketing_wallet", AwaitMarketingWallet, FieldMarketingWallet, "Enter Marketing wallet address:", ScreenLimits},

	{"set_website", AwaitWebsite, FieldWebsite, "Enter website:", ScreenSocials},
	{"set_telegram", AwaitTelegram, FieldTelegram, "Enter telegram:", ScreenSocials},
	{"set_twitter", AwaitTwitter, FieldTwitter, "Enter twitter:", ScreenSocials},
	{"set_description", AwaitDescription, FieldDescription, "Enter description:", ScreenSocials},

	{"set_custom_website", AwaitCustomWebsite, FieldWebsite, "Enter website:", ScreenSocialsCustom},
	{"set_custom_telegram", AwaitCustomTelegram, FieldTelegram, "Enter telegram:", ScreenSocialsCustom},
	{"set_custom_twitter", AwaitCustomTwitter, FieldTwitter, "Enter twitter:", ScreenSocialsCustom},
	{"set_custom_description", AwaitCustomDescription, FieldDescription, "Enter description:", ScreenSocialsCustom},
}

var (
	routesByAction = map[string]Route{}
	routesByState  = map[AwaitingState]Route{}
)

func init() {
	for _, r := range Routes {
		routesByAction[r.Action] = r
		routesByState[r.State] = r
	}
}

func RouteForAction(action string) (Route, bool) {
	r, ok := routesByAction[action]
	return r, ok
}

func RouteForState(state AwaitingState) (Route, bool) {
	r, ok := routesByState[state]
	return r, ok
}
