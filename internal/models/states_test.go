package models

import "testing"

func TestRoutesCoverAllAwaitingStates(t *testing.T) {
	if len(Routes) != 30 {
		t.Fatalf("routes = %d, want 30", len(Routes))
	}
	actions := map[string]bool{}
	states := map[AwaitingState]bool{}
	for _, r := range Routes {
		if actions[r.Action] {
			t.Errorf("duplicate action %s", r.Action)
		}
		if states[r.State] {
			t.Errorf("duplicate state %s", r.State)
		}
		actions[r.Action] = true
		states[r.State] = true

		if r.Prompt == "" {
			t.Errorf("%s has no prompt", r.Action)
		}
		if _, err := NewSession().Get(r.Field); err != nil {
			t.Errorf("%s routes to unresolvable field %s", r.Action, r.Field)
		}
	}
}

func TestRouteLookups(t *testing.T) {
	tests := []struct {
		action string
		state  AwaitingState
		field  FieldPath
		screen ScreenID
	}{
		{"set_name", AwaitTokenName, FieldName, ScreenStandard},
		{"set_supply_ERC404", AwaitTokenSupplyERC404, FieldSupply, ScreenERC404},
		{"set_buy_burn", AwaitBuyBurn, FieldBuyBurn, ScreenBuyTax},
		{"set_sell_liquidity", AwaitSellLiquidity, FieldSellLiquidity, ScreenSellTax},
		{"set_max_MaxWalletAmount", AwaitMaxWallet, FieldMaxWallet, ScreenLimits},
		{"set_marketing_wallet", AwaitMarketingWallet, FieldMarketingWallet, ScreenLimits},
		{"set_custom_twitter", AwaitCustomTwitter, FieldTwitter, ScreenSocialsCustom},
		{"set_website", AwaitWebsite, FieldWebsite, ScreenSocials},
	}
	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			r, ok := RouteForAction(tt.action)
			if !ok {
				t.Fatalf("no route for %s", tt.action)
			}
			if r.State != tt.state || r.Field != tt.field || r.Screen != tt.screen {
				t.Errorf("route = %+v", r)
			}
			back, ok := RouteForState(tt.state)
			if !ok || back.Action != tt.action {
				t.Errorf("RouteForState(%s) = %+v, %v", tt.state, back, ok)
			}
		})
	}
	if _, ok := RouteForAction("deploy_token"); ok {
		t.Error("deploy_token is not an edit action")
	}
}

func TestPromptSlotsAreDistinct(t *testing.T) {
	seen := map[Slot]bool{}
	for _, r := range Routes {
		slot := r.PromptSlot()
		if seen[slot] {
			t.Errorf("prompt slot %s reused", slot)
		}
		seen[slot] = true
		switch slot {
		case SlotMainMenu, SlotTokenTypes, SlotStandardParams, SlotCustomParams, SlotERC404Params, SlotChooseChain:
			t.Errorf("prompt slot %s collides with a screen slot", slot)
		}
	}
}

func TestScreenVariant(t *testing.T) {
	tests := []struct {
		screen  ScreenID
		variant Variant
	}{
		{ScreenStandard, VariantStandard},
		{ScreenSocials, VariantStandard},
		{ScreenCustom, VariantCustom},
		{ScreenSocialsCustom, VariantCustom},
		{ScreenBuyTax, VariantCustom},
		{ScreenSellTax, VariantCustom},
		{ScreenLimits, VariantCustom},
		{ScreenERC404, VariantERC404},
	}
	for _, tt := range tests {
		if got := tt.screen.Variant(); got != tt.variant {
			t.Errorf("%s.Variant() = %s, want %s", tt.screen, got, tt.variant)
		}
	}
	if VariantERC404.ParamsSlot() != SlotERC404Params || VariantCustom.ParamsSlot() != SlotCustomParams || VariantStandard.ParamsSlot() != SlotStandardParams {
		t.Error("variant params slots mismatch")
	}
}
