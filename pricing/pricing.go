package pricing

// CategoryFarmaci is the only product category taxed at the reduced VAT rate.
// The literal must match the stored category value exactly.
const CategoryFarmaci = "Farmaci"

// Reduced and standard VAT rates, in percent.
const (
	VATReduced  = 10
	VATStandard = 22
)

// VATRate returns the VAT percentage for a product category. Pharmaceuticals
// ("Farmaci") are taxed at 10%, every other category, including an empty one,
// at 22%.
func VATRate(category string) int {
	if category == CategoryFarmaci {
		return VATReduced
	}
	return VATStandard
}

// FinalPrice applies a percentage discount to a unit price.
func FinalPrice(price, discountPercentage float64) float64 {
	return price * (1 - discountPercentage/100)
}
