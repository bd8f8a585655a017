package screens

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/token-launcher/backend/internal/chain"
	"github.com/token-launcher/backend/internal/models"
)

// Fixed notices sent as plain text.
const (
	TextSessionExpired    = "Seems like the last session has been expired for some reason. Please restart again. We are sorry for the inconvenience."
	TextDeploying         = "Deploying your contract..."
	TextDeployInProgress  = "Your contract is already being deployed. Please wait for the result."
	TextNoTokens          = "You have not created any tokens yet."
	TextTokenNotFound     = "Token not found."
	TextSourceUnavailable = "Contract source code not available."
	TextKeyNotFound       = "Private key not found."
	TextInsufficientFunds = "Insufficient balance to deploy the contract. Please add a minimum of 0.03 ETH to your wallet."
	TextInsufficientGas   = "Insufficient funds for gas. Please add more ETH to your wallet."
	TextTryAgain          = "Something went wrong. Please try again."
)

// MissingField is the deploy-gate refusal for the first unset required field.
func MissingField(f models.FieldPath) string {
	name := string(f)
	if name != "" {
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	return name + " is required for deployment but you have missed it."
}

func DeployError(err error) string {
	return "Error deploying contract: " + err.Error()
}

func Start() Screen {
	return Screen{
		Text: "Welcome to the Blastie Bot! 🟨\n\n" +
			"Create, deploy and manage your own tokens on Blast in a few taps.\n\n" +
			"Click the button below to create a wallet and get started!",
		Keyboard: [][]Button{row(btn("Create Wallet 🔧", ActionCreateWallet))},
	}
}

// JoinGroup asks the user to join the community; group is the @handle, url the invite link.
func JoinGroup(group, url string) Screen {
	return Screen{
		Text: "Welcome to the Blastie bot!\n\n" +
			"You need to be a member of [" + group + "](" + url + ") community to use this bot. " +
			"Once you join, hit /start again.",
		ParseMode:      ParseMarkdown,
		Keyboard:       [][]Button{row(link("Join "+group+" 🚀", url))},
		DisablePreview: true,
	}
}

// MainMenuView is everything the dashboard shows. Price is omitted when HasPrice is false.
type MainMenuView struct {
	GasPrice    *big.Int
	BlockNumber uint64
	EthUSD      float64
	HasPrice    bool
	Address     string
	Balance     *big.Int
	Points      int64
}

func MainMenu(v MainMenuView) Screen {
	price := "n/a"
	if v.HasPrice {
		price = "$" + strconv.FormatFloat(v.EthUSD, 'f', 2, 64)
	}
	text := fmt.Sprintf("*Gas:* %s Gwei  ▰  *Block:* %d  ▰  *ETH:* %s \n\n", chain.Gwei(v.GasPrice, 4), v.BlockNumber, price) +
		"🟨  *Blastie bot*  🟨\n\n" +
		"═══ *Wallet address* ═══\n\n" +
		code(v.Address) + "\n\n" +
		"*ETH balance:* " + code("⟠"+chain.Ether(v.Balance, 3)+" ETH ") + "\n" +
		"*Point Earned:* " + code(strconv.FormatInt(v.Points, 10)+" points") + "\n\n"
	return Screen{
		Text:      text,
		ParseMode: ParseMarkdown,
		Keyboard: [][]Button{
			row(btn("Create tokens 👨‍🍳", ActionCreateTokens), btn("Manage tokens 🔧", ActionManageTokens)),
			row(btn("Settings ⚙️", ActionSettings)),
		},
		DisablePreview: true,
	}
}

func TokenTypes() Screen {
	return Screen{
		Text: "*Standard token:* This is a simple contract with no taxes.\n\n" +
			"*Advanced token:* This token contract includes features like taxes, Max txn limit, Max wallet limit, etc.\n\n" +
			"*ERC-404 token:* An experimental hybrid of a fungible token and an NFT collection. " +
			"Every whole token is paired with an NFT that moves with it.",
		ParseMode: ParseMarkdown,
		Keyboard: [][]Button{
			row(btn("Standard", ActionCreateStandard), btn("Advanced", ActionCreateCustom)),
			row(btn("ERC404 ( Experimental )", ActionCreateERC404)),
			row(btn("Home 🏠", ActionGoHome)),
		},
	}
}

func ChainPicker(v models.Variant) Screen {
	prefix := ActionsFor(v).ChoosePrefix
	return Screen{
		Text: "Choose a chain:",
		Keyboard: lo.Map(models.ChainOptions, func(c models.ChainOption, _ int) []Button {
			return row(btn(c.Label, prefix+c.ID))
		}),
	}
}

func ConfirmDeploy(v models.Variant) Screen {
	a := ActionsFor(v)
	return Screen{
		Text: "*Are you sure you want to proceed with the deployment?*\n\n" +
			"The deployment process will take a few seconds, so please hold tight! \n\n" +
			" *Click on 'Confirm' to continue.*",
		ParseMode: ParseMarkdown,
		Keyboard: [][]Button{
			row(btn("Confirm ✅", a.Confirm)),
			row(btn("Back ↩️", a.Back)),
		},
	}
}

func addressURL(explorer, address string) string {
	return strings.TrimRight(explorer, "/") + "/address/" + address
}

// Deployed is the success screen; verifyIn is the verification delay in seconds.
func Deployed(address, explorer string, verifyIn int) Screen {
	return Screen{
		Text: "*Congrats!* Your contract has been deployed successfully!\n\n" +
			"*Contract address:* " + code(address) + "\n\n" +
			"🔬*Verification:*: Your contract will be verified in " + strconv.Itoa(verifyIn) + " seconds\n\n" +
			"🟡[View on Blastscan](" + addressURL(explorer, address) + ")\n\n",
		ParseMode: ParseMarkdown,
		Keyboard: [][]Button{
			row(btn("Manage Tokens 🔧", ActionManageTokens)),
			row(btn("Home 🏠", ActionReturnMainMenu)),
		},
		DisablePreview: true,
	}
}

func returnRow() []Button {
	return row(btn("Return  ↩️", ActionReturnMainMenu))
}

func Settings() Screen {
	return Screen{
		Text: "User settings ⚙️",
		Keyboard: [][]Button{
			row(btn("Import private key 🔑", ActionShowPrivateKey)),
			returnRow(),
		},
	}
}

func PrivateKey(key string) Screen {
	return Screen{
		Text:      "*Private Key:*\n\n" + code(key),
		ParseMode: ParseMarkdown,
		Keyboard:  [][]Button{returnRow()},
	}
}

// ManageTokens lists the user's tokens; callbacks carry the record id.
func ManageTokens(tokens []models.TokenRecord) Screen {
	if len(tokens) == 0 {
		return Screen{Text: TextNoTokens, Keyboard: [][]Button{returnRow()}}
	}
	kb := lo.Map(tokens, func(t models.TokenRecord, _ int) []Button {
		return row(btn(t.Name, PrefixTokenDetails+strconv.FormatInt(t.ID, 10)))
	})
	kb = append(kb, row(btn("Home 🏠", ActionReturnMainMenu)))
	return Screen{
		Text: "*Select a token to manage.*\n\n" +
			"ℹ️ Obtain the token information and download the source code. Click on the token name to view more details.\n\n",
		ParseMode: ParseMarkdown,
		Keyboard:  kb,
	}
}

func TokenDetails(t models.TokenRecord, explorer string) Screen {
	text := "Token Details:\n\n" +
		"Name: " + code(t.Name) + "\n\n" +
		"Symbol: " + code(t.Symbol) + "\n\n" +
		"Chain: " + code(t.Chain) + "\n\n" +
		"Supply: " + code(t.Supply) + "\n\n" +
		"Website: " + code(t.Website) + "\n\n" +
		"Telegram: " + code(t.Telegram) + "\n\n" +
		"Twitter: " + code(t.Twitter) + "\n\n" +
		"Contract Address: \n\n" + code(t.ContractAddress) + "\n\n" +
		"[View on Blastscan](" + addressURL(explorer, t.ContractAddress) + ")"
	return Screen{
		Text:      text,
		ParseMode: ParseMarkdown,
		Keyboard: [][]Button{
			row(btn("Download source code", PrefixDownloadCode+strconv.FormatInt(t.ID, 10))),
			row(btn("Home 🏠", ActionReturnMainMenu)),
		},
		DisablePreview: true,
	}
}
