package domain

import "testing"

func TestPaymentPayload(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{200, "upi://pay?pa=shop@upi&pn=Brandlift&am=200"},
		{12.5, "upi://pay?pa=shop@upi&pn=Brandlift&am=12.5"},
		{0, "upi://pay?pa=shop@upi&pn=Brandlift&am=0"},
	}

	for _, tt := range tests {
		if got := PaymentPayload("shop@upi", DefaultPayeeName, tt.amount); got != tt.want {
			t.Errorf("amount %v: expected %q, got %q", tt.amount, tt.want, got)
		}
	}
}
