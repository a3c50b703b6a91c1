package money

import (
	"encoding/json"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "integer", input: "600", want: "600.00"},
		{name: "decimal", input: " 1250.5 ", want: "1250.50"},
		{name: "negative", input: "-12.345", want: "-12.35"},
		{name: "empty", input: "  ", wantErr: true},
		{name: "garbage", input: "12abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAmount) {
					t.Errorf("Parse(%q) error = %v, want %v", tt.input, err, ErrInvalidAmount)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.input, err)
			}
			if got.Round().String() != tt.want {
				t.Errorf("Parse(%q) = %s, want %s", tt.input, got.Round(), tt.want)
			}
		})
	}
}

func TestArithmetic(t *testing.T) {
	a := MustParse("5000")
	b := MustParse("3500.25")

	tests := []struct {
		name string
		got  Amount
		want string
	}{
		{name: "add", got: a.Add(b), want: "8500.25"},
		{name: "sub", got: b.Sub(a), want: "-1499.75"},
		{name: "mulInt", got: MustParse("600").MulInt(6), want: "3600.00"},
		{name: "sum", got: Sum(MustParse("5000"), MustParse("3500"), MustParse("12000")), want: "20500.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got.String() != tt.want {
				t.Errorf("got %s, want %s", tt.got, tt.want)
			}
		})
	}

	if !Zero.IsZero() {
		t.Error("Zero.IsZero() = false")
	}
	if !b.Sub(a).IsNegative() {
		t.Error("IsNegative() = false for a negative difference")
	}
	if !a.IsPositive() {
		t.Error("IsPositive() = false for 5000")
	}
}

func TestInCentavos(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{raw: "600", want: true},
		{raw: "1250.5", want: true},
		{raw: "1250.50", want: true},
		{raw: "-75.25", want: true},
		{raw: "1250.500", want: true},
		{raw: "0.005", want: false},
		{raw: "600.125", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := MustParse(tt.raw).InCentavos(); got != tt.want {
				t.Errorf("InCentavos(%s) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestJSON(t *testing.T) {
	type payload struct {
		Amount Amount  `json:"amount"`
		Opt    *Amount `json:"opt,omitempty"`
	}

	var p payload
	if err := json.Unmarshal([]byte(`{"amount":"1250.5","opt":99}`), &p); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !p.Amount.Equal(MustParse("1250.50")) {
		t.Errorf("Amount = %s, want 1250.50", p.Amount)
	}
	if p.Opt == nil || p.Opt.String() != "99.00" {
		t.Errorf("Opt = %v, want 99.00", p.Opt)
	}

	out, err := json.Marshal(payload{Amount: MustParse("600")})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(out) != `{"amount":600.00}` {
		t.Errorf("Marshal() = %s, want {\"amount\":600.00}", out)
	}

	var missing payload
	if err := json.Unmarshal([]byte(`{"amount":1}`), &missing); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if missing.Opt != nil {
		t.Errorf("Opt = %v, want nil", missing.Opt)
	}

	if err := json.Unmarshal([]byte(`{"amount":"abc"}`), &p); err == nil {
		t.Error("Unmarshal(abc) error = nil, want error")
	}
}

func TestBSON(t *testing.T) {
	type doc struct {
		Total Amount `bson:"total"`
	}

	raw, err := bson.Marshal(doc{Total: MustParse("3600.50")})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var stored bson.M
	if err := bson.Unmarshal(raw, &stored); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if stored["total"] != "3600.5" {
		t.Errorf("stored total = %v, want \"3600.5\"", stored["total"])
	}

	var back doc
	if err := bson.Unmarshal(raw, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !back.Total.Equal(MustParse("3600.50")) {
		t.Errorf("Total = %s, want 3600.50", back.Total)
	}

	legacy, err := bson.Marshal(bson.M{"total": 42.5})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var fromDouble doc
	if err := bson.Unmarshal(legacy, &fromDouble); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if fromDouble.Total.String() != "42.50" {
		t.Errorf("Total from double = %s, want 42.50", fromDouble.Total)
	}
}
