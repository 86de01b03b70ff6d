package domain

import (
	"fmt"
	"strconv"
)

const (
	// DefaultPayeeName is the pn= parameter of generated payment payloads
	DefaultPayeeName = "Brandlift"

	// DefaultUPIID is used when no UPI ID has been configured
	DefaultUPIID = "brandlift@upi"
)

// PaymentPayload builds the UPI deep link encoded into the invoice QR code
func PaymentPayload(upiID, payeeName string, amount float64) string {
	return fmt.Sprintf("upi://pay?pa=%s&pn=%s&am=%s", upiID, payeeName, FormatAmount(amount))
}

// FormatAmount renders an amount with the fewest digits that round-trip (200, 12.5)
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}
