package budget

import (
	"encoding/json"
	"testing"
)

func TestMoneyArithmetic(t *testing.T) {
	sum := GBP(10.50).Add(GBP(4.25))
	if !sum.Equal(GBP(14.75)) {
		t.Errorf("Add: got %v, want 14.75", sum)
	}
	diff := GBP(10).Sub(GBP(4.25))
	if !diff.Equal(GBP(5.75)) {
		t.Errorf("Sub: got %v, want 5.75", diff)
	}
	// a weak (empty) currency takes the other operand's currency
	mixed := NO(1).Add(GBP(2))
	if mixed.Currency() != "GBP" {
		t.Errorf("weak currency: got %q, want GBP", mixed.Currency())
	}
}

func TestMoneyScale(t *testing.T) {
	tests := []struct {
		name     string
		value    Money
		num, den int
		want     Money
	}{
		{"half", GBP(100), 15, 30, GBP(50)},
		{"rounded to cents", GBP(100), 1, 3, GBP(33.33)},
		{"zero denominator", GBP(100), 1, 0, GBP(0)},
		{"full", GBP(930), 30, 30, GBP(930)},
		{"negative", GBP(-90), 1, 3, GBP(-30)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.value.Scale(tc.num, tc.den)
			if !got.Equal(tc.want) {
				t.Errorf("Scale(%d,%d): got %v, want %v", tc.num, tc.den, got, tc.want)
			}
		})
	}
}

func TestMoneyUnmarshalForms(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Money
	}{
		{"canonical", `{"amount":12.34,"currency":"GBP"}`, GBP(12.34)},
		{"legacy", `{"value":12.34,"currencyCode":"GBP"}`, GBP(12.34)},
		{"bare number", `12.34`, NO(12.34)},
		{"negative", `{"amount":-5,"currency":"GBP"}`, GBP(-5)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got Money
			if err := json.Unmarshal([]byte(tc.in), &got); err != nil {
				t.Fatalf("Unmarshal(%s): %v", tc.in, err)
			}
			if !got.Equal(tc.want) || got.Currency() != tc.want.Currency() {
				t.Errorf("Unmarshal(%s): got %v %q, want %v %q", tc.in, got, got.Currency(), tc.want, tc.want.Currency())
			}
		})
	}
}

func TestMoneyMarshalRoundTrip(t *testing.T) {
	data, err := json.Marshal(GBP(1234.56))
	if err != nil {
		t.Fatal(err)
	}
	want := `{"amount":1234.56,"currency":"GBP"}`
	if string(data) != want {
		t.Errorf("Marshal: got %s, want %s", data, want)
	}
	var back Money
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if !back.Equal(GBP(1234.56)) {
		t.Errorf("round trip: got %v", back)
	}
}
