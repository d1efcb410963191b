package domain

import "time"

type PaymentMethod string

const (
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodMTNMomo      PaymentMethod = "mtn-momo"
	PaymentMethodVodafoneCash PaymentMethod = "vodafone-cash"
	PaymentMethodBankTransfer PaymentMethod = "bank-transfer"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCard, PaymentMethodMTNMomo, PaymentMethodVodafoneCash, PaymentMethodBankTransfer:
		return true
	}
	return false
}

type ShippingInfo struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
}

// PaymentDetails is a variant record; only the fields matching the chosen
// method are populated. Field-level validation happens upstream of this
// package.
type PaymentDetails struct {
	CardNumber   string `json:"card_number,omitempty"`
	CardExpiry   string `json:"card_expiry,omitempty"`
	CardCVV      string `json:"card_cvv,omitempty"`
	MobileNumber string `json:"mobile_number,omitempty"`
	BankRef      string `json:"bank_ref,omitempty"`
}

// OrderDraft is an unpersisted, fully-computed snapshot of a pending order.
// It is immutable once handed to the review step.
type OrderDraft struct {
	Shipping       ShippingInfo   `json:"shipping"`
	PaymentMethod  PaymentMethod  `json:"payment_method"`
	PaymentDetails PaymentDetails `json:"payment_details"`
	Items          []CartLine     `json:"items"`
	Subtotal       float64        `json:"subtotal"`
	ShippingFee    float64        `json:"shipping_fee"`
	Tax            float64        `json:"tax"`
	Total          float64        `json:"total"`
	CapturedAt     time.Time      `json:"captured_at"`
}
