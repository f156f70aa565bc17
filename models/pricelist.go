package models

import "encoding/json"

// PriceList is the structured price-list document received from the caller.
// Field names follow the stored column names, so a row fetched by the frontend
// can be posted here unchanged. The document is immutable input to the
// rendering pipeline.
type PriceList struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	CreatedAt  string    `json:"created_at"`
	ValidFrom  string    `json:"valid_from,omitempty"`
	ValidUntil string    `json:"valid_until,omitempty"`
	Customer   *Customer `json:"customer,omitempty"`

	// PrintConditions gates the sales-conditions block. Only an explicit
	// false suppresses it; nil (absent) behaves like true.
	PrintConditions *bool `json:"print_conditions,omitempty"`

	PaymentConditions  string `json:"payment_conditions,omitempty"`
	ShippingConditions string `json:"shipping_conditions,omitempty"`
	DeliveryConditions string `json:"delivery_conditions,omitempty"`
	BrandConditions    string `json:"brand_conditions,omitempty"`

	Items []PriceListItem `json:"items"`
}

// Customer identifies the company the price list is issued to.
type Customer struct {
	CompanyName string `json:"company_name"`
}

// PriceListItem is a single priced line of a price list.
type PriceListItem struct {
	Price              float64  `json:"price"`
	DiscountPercentage float64  `json:"discount_percentage"`
	MinQuantity        int      `json:"min_quantity"`
	Product            *Product `json:"product"`
}

// Product is the catalog product referenced by a price-list line. All fields
// except ID and Code are optional and default to an empty rendering.
type Product struct {
	ID            string      `json:"id"`
	Code          string      `json:"code"`
	Name          string      `json:"name"`
	Description   string      `json:"description,omitempty"`
	Category      string      `json:"category,omitempty"`
	Unit          string      `json:"unit,omitempty"`
	Cartone       json.Number `json:"cartone,omitempty"`
	Pallet        json.Number `json:"pallet,omitempty"`
	Scadenza      string      `json:"scadenza,omitempty"`
	EAN           string      `json:"ean,omitempty"`
	PhotoURL      string      `json:"photo_url,omitempty"`
	PhotoThumbURL string      `json:"photo_thumb_url,omitempty"`
}

// HasConditions reports whether at least one of the four condition strings is
// populated.
func (p *PriceList) HasConditions() bool {
	return p.PaymentConditions != "" || p.ShippingConditions != "" ||
		p.DeliveryConditions != "" || p.BrandConditions != ""
}

// ShouldPrintConditions applies the conditions-block gating rule: the block is
// emitted unless print_conditions is explicitly false, and only when there is
// at least one condition string to show.
func (p *PriceList) ShouldPrintConditions() bool {
	if p.PrintConditions != nil && !*p.PrintConditions {
		return false
	}
	return p.HasConditions()
}
