package screens

import (
	"github.com/token-launcher/backend/internal/models"
)

const (
	costRule      = "----------------------------\n"
	updateWarning = "⚠️ Please update all the fields for a successful deployment 🤖"
)

// Render draws an edit screen for the session. Unknown ids fall back to the standard summary.
func Render(id models.ScreenID, s *models.Session, c Costs) Screen {
	switch id {
	case models.ScreenCustom:
		return CustomSummary(s, c)
	case models.ScreenERC404:
		return ERC404Summary(s, c)
	case models.ScreenSocials:
		return Socials(s, false)
	case models.ScreenSocialsCustom:
		return Socials(s, true)
	case models.ScreenBuyTax:
		return BuyTax(s)
	case models.ScreenSellTax:
		return SellTax(s)
	case models.ScreenLimits:
		return Limits(s)
	}
	return StandardSummary(s, c)
}

// Summary draws the variant's parameter summary.
func Summary(v models.Variant, s *models.Session, c Costs) Screen {
	switch v {
	case models.VariantCustom:
		return CustomSummary(s, c)
	case models.VariantERC404:
		return ERC404Summary(s, c)
	}
	return StandardSummary(s, c)
}

func costBlock(c Costs) string {
	return costRule +
		"*Gwei:* " + code(c.Gwei) + " Gwei\n" +
		"*Deploy cost:* " + code(c.DeployCost) + " ETH \n" +
		"*Service Fee:* " + code(c.ServiceFee) + " ETH \n" +
		"*Total:* " + code(c.Total) + " ETH\n" +
		costRule + updateWarning
}

func socialLines(s *models.Session) []line {
	return []line{
		{"Website", s.Website},
		{"Telegram", s.Telegram},
		{"Twitter", s.Twitter},
		{"Description", s.Description},
	}
}

func baseRows(s *models.Session, v models.Variant) [][]Button {
	a := ActionsFor(v)
	tab := map[models.Variant]string{
		models.VariantStandard: "",
		models.VariantCustom:   "_custom",
		models.VariantERC404:   "_ERC404",
	}[v]
	chainLabel := "Chain"
	if models.IsSet(s.Chain) {
		chainLabel = "✅ " + s.Chain
	}
	return [][]Button{
		row(btn(chainLabel, a.SetChain), btn(check("Token Name", models.IsSet(s.Name)), "set_name"+tab)),
		row(btn(check("Symbol", models.IsSet(s.Symbol)), "set_symbol"+tab), btn(check("Supply", models.IsSet(s.Supply)), "set_supply"+tab)),
	}
}

func homeDeployRow(v models.Variant) []Button {
	return row(btn("Home 🏠", ActionGoHome), btn("Deploy 🚀", ActionsFor(v).Deploy))
}

func StandardSummary(s *models.Session, c Costs) Screen {
	text := "*Standard token parameters:*\n\n" +
		lines(append([]line{
			{"Chain", s.Chain},
			{"Name", s.Name},
			{"Symbol", s.Symbol},
			{"Supply", s.Supply},
		}, socialLines(s)...)...) +
		costBlock(c)

	kb := baseRows(s, models.VariantStandard)
	kb = append(kb,
		row(btn(check("Socials", s.IsGroupComplete(models.GroupSocials)), ActionSetSocials)),
		homeDeployRow(models.VariantStandard),
	)
	return Screen{Text: text, ParseMode: ParseMarkdown, Keyboard: kb}
}

func CustomSummary(s *models.Session, c Costs) Screen {
	text := "*Advanced token parameters:*\n\n" +
		lines(
			line{"Chain", s.Chain},
			line{"Name", s.Name},
			line{"Symbol", s.Symbol},
			line{"Supply", s.Supply},
		) +
		"\n*Buy Tax:*\n" + taxLines(s.BuyTax) +
		"\n*Sell Tax:*\n" + taxLines(s.SellTax) +
		"\n*Limits:*\n" +
		lines(
			line{"Max buy", s.TxnLimit.MaxBuyTxnAmount},
			line{"Max sell", s.TxnLimit.MaxSellTxnAmount},
			line{"Max wallet", s.TxnLimit.MaxWalletAmount},
			line{"Marketing wallet", s.MarketingWallet},
		) +
		"\n" + lines(socialLines(s)...) +
		costBlock(c)

	kb := baseRows(s, models.VariantCustom)
	kb = append(kb,
		row(
			btn(check("Buy Tax", s.IsGroupComplete(models.GroupBuyTax)), ActionSetBuyTax),
			btn(check("Sell Tax", s.IsGroupComplete(models.GroupSellTax)), ActionSetSellTax),
		),
		row(btn(check("Txn Limits", s.IsGroupComplete(models.GroupLimits)), ActionSetLimit)),
		row(btn(check("Socials", s.IsGroupComplete(models.GroupSocials)), ActionSetSocialsCustom)),
		homeDeployRow(models.VariantCustom),
	)
	return Screen{Text: text, ParseMode: ParseMarkdown, Keyboard: kb}
}

func ERC404Summary(s *models.Session, c Costs) Screen {
	text := "*ERC404 token parameters:*\n\n" +
		lines(
			line{"Chain", s.Chain},
			line{"Name", s.Name},
			line{"Symbol", s.Symbol},
			line{"Supply", s.Supply},
			line{"BaseURI", s.BaseURI},
		) +
		costBlock(c)

	kb := baseRows(s, models.VariantERC404)
	kb = append(kb,
		row(btn(check("BaseURI", models.IsSet(s.BaseURI)), "set_baseuri")),
		homeDeployRow(models.VariantERC404),
	)
	return Screen{Text: text, ParseMode: ParseMarkdown, Keyboard: kb}
}

func taxLines(t models.Tax) string {
	return lines(
		line{"Reflection", t.Reflection},
		line{"Liquidity", t.Liquidity},
		line{"Marketing", t.Marketing},
		line{"Burn", t.Burn},
	)
}

// Socials edits the four social fields; custom selects the advanced flow's actions.
func Socials(s *models.Session, custom bool) Screen {
	prefix, back := "set_", ActionsFor(models.VariantStandard).Back
	if custom {
		prefix, back = "set_custom_", ActionsFor(models.VariantCustom).Back
	}
	text := "*Update socials*\n\n" + lines(socialLines(s)...)
	kb := [][]Button{
		row(btn(check("Website", models.IsSet(s.Website)), prefix+"website"), btn(check("Telegram", models.IsSet(s.Telegram)), prefix+"telegram")),
		row(btn(check("Twitter", models.IsSet(s.Twitter)), prefix+"twitter"), btn(check("Description", models.IsSet(s.Description)), prefix+"description")),
		row(btn("Back ↩️", back)),
	}
	return Screen{Text: text, ParseMode: ParseMarkdown, Keyboard: kb}
}

const taxLegend = "\n*Reflection:* % distributed among holders\n" +
	"*Liquidity:* % added to the liquidity pool\n" +
	"*Marketing:* % goes to the marketing wallet\n" +
	"*Burn:* % permanently burned\n\n"

func taxScreen(title, side string, t models.Tax) Screen {
	text := "*Update " + title + "*\n\n" +
		"*Reflection:* " + code(t.Reflection) + " % \n" +
		"*Liquidity:* " + code(t.Liquidity) + " % \n" +
		"*Marketing:* " + code(t.Marketing) + " % \n" +
		"*Burn:* " + code(t.Burn) + " % \n" +
		taxLegend +
		"*Please note:* For a successful deployment, all fields must be completed & Make sure " + title +
		" that represents the total percentage should not exceed 30%"
	p := "set_" + side + "_"
	kb := [][]Button{
		row(btn(check("Reflection", models.IsSet(t.Reflection)), p+"reflection"), btn(check("Liquidity", models.IsSet(t.Liquidity)), p+"liquidity")),
		row(btn(check("Marketing", models.IsSet(t.Marketing)), p+"marketing"), btn(check("Burn", models.IsSet(t.Burn)), p+"burn")),
		row(btn("Back ↩️", ActionsFor(models.VariantCustom).Back)),
	}
	return Screen{Text: text, ParseMode: ParseMarkdown, Keyboard: kb}
}

func BuyTax(s *models.Session) Screen {
	return taxScreen("Buy Tax", "buy", s.BuyTax)
}

func SellTax(s *models.Session) Screen {
	return taxScreen("Sell Tax", "sell", s.SellTax)
}

func Limits(s *models.Session) Screen {
	l := s.TxnLimit
	text := "*Update Limits*\n\n" +
		"*Max buy:* " + code(l.MaxBuyTxnAmount) + " % \n" +
		"*Max sell:* " + code(l.MaxSellTxnAmount) + " % \n" +
		"*Max wallet:* " + code(l.MaxWalletAmount) + " % \n" +
		"*Marketing wallet:* " + code(s.MarketingWallet) + " \n\n" +
		"Max Buy: Max buy % per transaction\n" +
		"Max Sell: Max sell % per transaction\n" +
		"Max wallet: Max % a wallet can hold\n\n" +
		"*Please note:* For a successful deployment, all fields must be completed"
	kb := [][]Button{
		row(btn(check("Max buy %", models.IsSet(l.MaxBuyTxnAmount)), "set_max_MaxBuyTxnAmount"), btn(check("Max sell %", models.IsSet(l.MaxSellTxnAmount)), "set_max_MaxSellTxnAmount")),
		row(btn(check("Max wallet %", models.IsSet(l.MaxWalletAmount)), "set_max_MaxWalletAmount"), btn(check("Marketing wallet", models.IsSet(s.MarketingWallet)), "set_marketing_wallet")),
		row(btn("Back ↩️", ActionsFor(models.VariantCustom).Back)),
	}
	return Screen{Text: text, ParseMode: ParseMarkdown, Keyboard: kb}
}
