package models

import (
	"encoding/json"
	"testing"
)

func TestNewSessionDefaults(t *testing.T) {
	s := NewSession()
	for _, r := range Routes {
		if s.IsComplete(r.Field) {
			t.Errorf("field %s should start unset", r.Field)
		}
	}
	if s.IsComplete(FieldChain) {
		t.Error("chain should start unset")
	}
	if s.Awaiting() {
		t.Error("fresh session should not await input")
	}
	if s.DeployerAddress != "" {
		t.Errorf("deployerAddress = %q, want empty", s.DeployerAddress)
	}
}

func TestIsSet(t *testing.T) {
	tests := []struct {
		value    string
		expected bool
	}{
		{Unset, false},
		{"Not set yet", false},
		{"Foo", true},
		{"", true},
		{"Not", true},
		{"not set", true},
	}
	for _, tt := range tests {
		if got := IsSet(tt.value); got != tt.expected {
			t.Errorf("IsSet(%q) = %v, want %v", tt.value, got, tt.expected)
		}
	}
}

func TestGetSetNested(t *testing.T) {
	s := NewSession()
	tests := []struct {
		path  FieldPath
		value string
	}{
		{FieldName, "Foo"},
		{FieldBuyReflection, "2"},
		{FieldSellBurn, "1"},
		{FieldMaxWallet, "3"},
		{FieldMarketingWallet, "0xabc"},
		{FieldDescription, "a token"},
	}
	for _, tt := range tests {
		if err := s.Set(tt.path, tt.value); err != nil {
			t.Fatalf("Set(%s): %v", tt.path, err)
		}
		got, err := s.Get(tt.path)
		if err != nil {
			t.Fatalf("Get(%s): %v", tt.path, err)
		}
		if got != tt.value {
			t.Errorf("Get(%s) = %q, want %q", tt.path, got, tt.value)
		}
	}
	if s.BuyTax.Reflection != "2" || s.SellTax.Burn != "1" || s.TxnLimit.MaxWalletAmount != "3" {
		t.Errorf("nested fields not written: %+v %+v %+v", s.BuyTax, s.SellTax, s.TxnLimit)
	}
}

func TestUnknownFieldPath(t *testing.T) {
	s := NewSession()
	if err := s.Set("buyTax.unknown", "1"); err == nil {
		t.Error("expected error for unknown path")
	}
	if _, err := s.Get("nope"); err == nil {
		t.Error("expected error for unknown path")
	}
	if s.IsComplete("nope") {
		t.Error("unknown path must not be complete")
	}
}

func TestIsGroupComplete(t *testing.T) {
	for _, g := range []Group{GroupSocials, GroupBuyTax, GroupSellTax, GroupTxnLimit, GroupLimits} {
		fields := GroupFields(g)
		t.Run(string(g), func(t *testing.T) {
			s := NewSession()
			if s.IsGroupComplete(g) {
				t.Fatal("fresh session group should be incomplete")
			}
			// Every member but one set: still incomplete.
			for i := range fields {
				s := NewSession()
				for j, f := range fields {
					if j != i {
						_ = s.Set(f, "x")
					}
				}
				if s.IsGroupComplete(g) {
					t.Errorf("group complete with %s unset", fields[i])
				}
			}
			for _, f := range fields {
				_ = s.Set(f, "x")
			}
			if !s.IsGroupComplete(g) {
				t.Error("group should be complete when all members are set")
			}
			_ = s.Set(fields[0], Unset+" (reset)")
			if s.IsGroupComplete(g) {
				t.Error("sentinel-prefixed value must count as unset")
			}
		})
	}
	if NewSession().IsGroupComplete("unknown") {
		t.Error("unknown group must not be complete")
	}
}

func TestLimitsGroupIncludesMarketingWallet(t *testing.T) {
	s := NewSession()
	for _, f := range GroupFields(GroupTxnLimit) {
		_ = s.Set(f, "1")
	}
	if !s.IsGroupComplete(GroupTxnLimit) {
		t.Fatal("txnLimit should be complete")
	}
	if s.IsGroupComplete(GroupLimits) {
		t.Error("limits should still need the marketing wallet")
	}
	_ = s.Set(FieldMarketingWallet, "0x1")
	if !s.IsGroupComplete(GroupLimits) {
		t.Error("limits should be complete")
	}
}

func TestMissingForDeploy(t *testing.T) {
	tests := []struct {
		name    string
		set     []FieldPath
		missing FieldPath
	}{
		{"nothing set", nil, FieldChain},
		{"chain missing", []FieldPath{FieldName, FieldSymbol, FieldSupply}, FieldChain},
		{"name missing", []FieldPath{FieldChain, FieldSymbol, FieldSupply}, FieldName},
		{"symbol missing", []FieldPath{FieldChain, FieldName, FieldSupply}, FieldSymbol},
		{"supply missing", []FieldPath{FieldChain, FieldName, FieldSymbol}, FieldSupply},
		{"all set", []FieldPath{FieldChain, FieldName, FieldSymbol, FieldSupply}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession()
			for _, f := range tt.set {
				_ = s.Set(f, "v")
			}
			got, ok := s.MissingForDeploy()
			if ok != (tt.missing != "") || got != tt.missing {
				t.Errorf("MissingForDeploy() = %q, %v; want %q", got, ok, tt.missing)
			}
		})
	}
}

func TestSessionJSONShape(t *testing.T) {
	s := NewSession()
	s.SetMessageID(SlotStandardParams, 42)
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"chain", "deployerAddress", "baseuri", "buyTax", "sellTax", "txnLimit", "MarketingWallet", "messageIds"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("missing key %q in %s", key, data)
		}
	}
	if _, ok := raw["currentState"]; ok {
		t.Error("currentState should be omitted when idle")
	}

	var back Session
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if id, ok := back.MessageID(SlotStandardParams); !ok || id != 42 {
		t.Errorf("message id = %d, %v", id, ok)
	}
}

func TestMessageIDSlots(t *testing.T) {
	var s Session
	if _, ok := s.MessageID(SlotMainMenu); ok {
		t.Error("empty session has no slots")
	}
	s.SetMessageID(SlotMainMenu, 7)
	if id, ok := s.MessageID(SlotMainMenu); !ok || id != 7 {
		t.Errorf("slot = %d, %v", id, ok)
	}
	s.ClearMessageID(SlotMainMenu)
	if _, ok := s.MessageID(SlotMainMenu); ok {
		t.Error("slot should be cleared")
	}
}
