package rest

import (
	"github.com/paybridge/gateway/internal/card"
	"github.com/paybridge/gateway/internal/gateway"
)

// CardPayload is the canonical instrument as it appears on the wire.
type CardPayload struct {
	Number       string `json:"number" validate:"required,numeric,min=13,max=19"`
	ExpMonth     int    `json:"exp_month" validate:"required,min=1,max=12"`
	ExpYear      int    `json:"exp_year" validate:"required,min=2000"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	FullName     string `json:"full_name"`
	Verification string `json:"verification"`
	Strict       bool   `json:"strict"`
}

func (p *CardPayload) toCard() *card.CreditCard {
	if p == nil {
		return nil
	}
	cc := card.NewCreditCard(p.Number, p.ExpMonth, p.ExpYear)
	cc.FirstName = p.FirstName
	cc.LastName = p.LastName
	cc.FullName = p.FullName
	cc.Verification = p.Verification
	cc.Strict = p.Strict
	return cc
}

type BillingPayload struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address   string `json:"address"`
	Address2  string `json:"address2"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zipcode   string `json:"zipcode"`
	Country   string `json:"country"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	IP        string `json:"ip"`
}

type ShippingPayload struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address   string `json:"address"`
	Address2  string `json:"address2"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zipcode   string `json:"zipcode"`
	Country   string `json:"country"`
	Company   string `json:"company"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

// OptionsPayload carries per-operation extras: billing and shipping
// records, split-tender grouping and the follow-up identifiers some
// gateways require on tagged operations.
type OptionsPayload struct {
	Billing       *BillingPayload  `json:"billing"`
	Shipping      *ShippingPayload `json:"shipping"`
	SplitTenderID string           `json:"split_tender_id"`
	PartialAuth   bool             `json:"partial_auth"`
	AltTransID    string           `json:"alt_trans_id"`
	OrderNumber   string           `json:"order_number"`
}

func (p *OptionsPayload) toOptions() *gateway.TransactionOptions {
	if p == nil {
		return nil
	}
	opts := &gateway.TransactionOptions{
		SplitTenderID: p.SplitTenderID,
		PartialAuth:   p.PartialAuth,
		AltTransID:    p.AltTransID,
		OrderNumber:   p.OrderNumber,
	}
	if b := p.Billing; b != nil {
		opts.Billing = &gateway.Billing{
			FirstName: b.FirstName,
			LastName:  b.LastName,
			Address:   b.Address,
			Address2:  b.Address2,
			City:      b.City,
			State:     b.State,
			Zipcode:   b.Zipcode,
			Country:   b.Country,
			Phone:     b.Phone,
			Email:     b.Email,
			IP:        b.IP,
		}
	}
	if s := p.Shipping; s != nil {
		opts.Shipping = &gateway.Shipping{
			FirstName: s.FirstName,
			LastName:  s.LastName,
			Address:   s.Address,
			Address2:  s.Address2,
			City:      s.City,
			State:     s.State,
			Zipcode:   s.Zipcode,
			Country:   s.Country,
			Company:   s.Company,
			Phone:     s.Phone,
			Email:     s.Email,
		}
	}
	return opts
}

type ChargeRequest struct {
	Amount  string          `json:"amount" validate:"required"`
	Card    *CardPayload    `json:"card" validate:"required"`
	Options *OptionsPayload `json:"options"`
}

type SettleRequest struct {
	Amount  string          `json:"amount" validate:"required"`
	TransID string          `json:"trans_id" validate:"required"`
	Options *OptionsPayload `json:"options"`
}

type VoidRequest struct {
	TransID string          `json:"trans_id" validate:"required"`
	Options *OptionsPayload `json:"options"`
}

// CreditRequest refunds a prior transaction. Amount is optional: empty
// means a full refund. Card is only needed by processors that require the
// instrument on refunds.
type CreditRequest struct {
	Amount  string          `json:"amount"`
	TransID string          `json:"trans_id" validate:"required"`
	Card    *CardPayload    `json:"card"`
	Options *OptionsPayload `json:"options"`
}
