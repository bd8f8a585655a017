// Package screens turns session and account state into chat messages. Every
// function here is pure: the same input always yields the same Screen.
package screens

import (
	"math/big"
	"strings"

	"github.com/samber/lo"
	"github.com/token-launcher/backend/internal/chain"
	"github.com/token-launcher/backend/internal/models"
)

const ParseMarkdown = "Markdown"

// Button carries either a callback Action or a URL.
type Button struct {
	Label  string
	Action string
	URL    string
}

type Screen struct {
	Text           string
	ParseMode      string
	Keyboard       [][]Button
	DisablePreview bool
}

// Plain is an unformatted message without keyboard.
func Plain(text string) Screen {
	return Screen{Text: text}
}

func btn(label, action string) Button {
	return Button{Label: label, Action: action}
}

func link(label, url string) Button {
	return Button{Label: label, URL: url}
}

func row(b ...Button) []Button {
	return b
}

// Callback actions that are not edit routes.
const (
	ActionCreateWallet     = "create_wallet"
	ActionCreateTokens     = "create_tokens"
	ActionCreateStandard   = "create_standard_token"
	ActionCreateCustom     = "create_custom_token"
	ActionCreateERC404     = "create_erc404_token"
	ActionGoHome           = "go_home"
	ActionSetSocials       = "set_socials"
	ActionSetSocialsCustom = "set_socials_custom"
	ActionSetBuyTax        = "set_buytax"
	ActionSetSellTax       = "set_selltax"
	ActionSetLimit         = "set_limit"
	ActionManageTokens     = "manage_tokens"
	ActionSettings         = "settings"
	ActionShowPrivateKey   = "import_private_key"
	ActionReturnMainMenu   = "return_main_menu"

	PrefixTokenDetails = "token_details_"
	PrefixDownloadCode = "download_code_"
)

// VariantActions are the per-flow callback tags.
type VariantActions struct {
	SetChain     string
	ChoosePrefix string
	Deploy       string
	Confirm      string
	Back         string
}

var variantActions = map[models.Variant]VariantActions{
	models.VariantStandard: {"set_chain", "choose_chain_", "deploy_token", "confirm_deploy", "go_back"},
	models.VariantCustom:   {"set_chain_custom", "choose_custom_chain_", "deploy_token_custom", "confirm_deploy_custom", "go_back_custom"},
	models.VariantERC404:   {"set_chain_ERC404", "choose_ERC404_chain_", "deploy_token_ERC404", "confirm_deploy_ERC404", "go_back_ERC404"},
}

func ActionsFor(v models.Variant) VariantActions {
	return variantActions[v]
}

func AllVariantActions() map[models.Variant]VariantActions {
	return lo.Assign(variantActions)
}

// Display-only cost constants. The gas limit here only feeds the estimate.
const (
	DisplayGasLimit = 100_000
	deployCostMilli = 3
)

type Costs struct {
	Gwei       string
	DeployCost string
	ServiceFee string
	Total      string
}

// CostsFor computes the summary cost snapshot: deploy cost + service fee + gasPrice * DisplayGasLimit.
func CostsFor(gasPrice *big.Int) Costs {
	if gasPrice == nil {
		gasPrice = new(big.Int)
	}
	deploy := chain.MilliEther(deployCostMilli)
	fee := new(big.Int)
	gas := new(big.Int).Mul(gasPrice, big.NewInt(DisplayGasLimit))
	total := new(big.Int).Add(deploy, fee)
	total.Add(total, gas)
	return Costs{
		Gwei:       chain.Gwei(gasPrice, 4),
		DeployCost: chain.Ether(deploy, 4),
		ServiceFee: chain.Ether(fee, 4),
		Total:      chain.Ether(total, 4),
	}
}

// code renders v inside a Markdown code span.
func code(v string) string {
	return "`" + strings.ReplaceAll(v, "`", "'") + "`"
}

// check prefixes a label with ✅ when done.
func check(label string, done bool) string {
	if done {
		return "✅ " + label
	}
	return label
}

type line struct {
	label string
	value string
}

func lines(ls ...line) string {
	var b strings.Builder
	for _, l := range ls {
		b.WriteString("*" + l.label + ":* " + code(l.value) + "\n")
	}
	return b.String()
}
