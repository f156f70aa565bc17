package service

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"time"

	"github.com/firstclassrl/pixel-pdf-service/assets"
	"github.com/firstclassrl/pixel-pdf-service/models"
	"github.com/firstclassrl/pixel-pdf-service/pricing"
	"github.com/firstclassrl/pixel-pdf-service/utils"
)

//go:embed templates/pricelist.html
var templateFS embed.FS

var priceListTemplate = template.Must(template.ParseFS(templateFS, "templates/pricelist.html"))

// categoryPalette is cycled through by category index for the banner rows.
var categoryPalette = []string{
	"#2563eb", "#dc2626", "#16a34a", "#d97706",
	"#7c3aed", "#0891b2", "#be185d", "#4d7c0f",
}

// BuildOptions controls document layout and image-candidate derivation.
type BuildOptions struct {
	// PrintByCategory emits one banner row per category followed by that
	// category's rows. It requires both GroupedByCategory and a non-empty
	// CategoryOrder; otherwise the flat insertion-ordered list is used.
	PrintByCategory   bool
	GroupedByCategory map[string][]models.PriceListItem
	CategoryOrder     []string

	// AssetBaseURL is the public base of the product image storage.
	AssetBaseURL string

	// Logo is the process-wide brand mark. Nil renders the text fallback.
	Logo *assets.Logo
}

type documentData struct {
	LogoURI      template.URL
	LogoText     string
	Name         string
	CustomerName string
	CreatedAt    string
	ValidFrom    string
	ValidUntil   string

	Sections []sectionView

	ShowConditions     bool
	PaymentConditions  string
	ShippingConditions string
	DeliveryConditions string
	BrandConditions    string
}

type sectionView struct {
	Banner *bannerView
	Rows   []rowView
}

type bannerView struct {
	Name  string
	Color string
}

type rowView struct {
	HasImage       bool
	ImageSrc       string
	CandidatesJSON string
	ProductID      string
	Code           string
	Name           string
	Description    string
	Unit           string
	Cartone        string
	Pallet         string
	Scadenza       string
	EAN            string
	Price          string
	Discount       string
	FinalPrice     string
	MinQuantity    int
	VATRate        int
}

// BuildPriceListHTML transforms a price list into a complete, self-contained
// HTML document: inline styling only, sized for A4 landscape with 10mm
// margins, table header repeated on every page, rows never split across a
// page break. Missing optional fields render empty; the builder has no
// failure mode beyond a template execution bug.
func BuildPriceListHTML(doc *models.PriceList, opts BuildOptions) (string, error) {
	data := documentData{
		Name:       doc.Name,
		CreatedAt:  formatDate(doc.CreatedAt),
		ValidFrom:  formatDate(doc.ValidFrom),
		ValidUntil: formatDate(doc.ValidUntil),

		ShowConditions:     doc.ShouldPrintConditions(),
		PaymentConditions:  doc.PaymentConditions,
		ShippingConditions: doc.ShippingConditions,
		DeliveryConditions: doc.DeliveryConditions,
		BrandConditions:    doc.BrandConditions,
	}
	if doc.Customer != nil {
		data.CustomerName = doc.Customer.CompanyName
	}
	if opts.Logo != nil && opts.Logo.DataURI != "" {
		data.LogoURI = template.URL(opts.Logo.DataURI)
	} else if opts.Logo != nil {
		data.LogoText = opts.Logo.Text
	} else {
		data.LogoText = "FARMAP"
	}

	data.Sections = buildSections(doc, opts)

	var buf bytes.Buffer
	if err := priceListTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute price list template: %w", err)
	}
	return buf.String(), nil
}

func buildSections(doc *models.PriceList, opts BuildOptions) []sectionView {
	if opts.PrintByCategory && opts.GroupedByCategory != nil && len(opts.CategoryOrder) > 0 {
		sections := make([]sectionView, 0, len(opts.CategoryOrder))
		for i, category := range opts.CategoryOrder {
			sections = append(sections, sectionView{
				Banner: &bannerView{
					Name:  category,
					Color: categoryPalette[i%len(categoryPalette)],
				},
				Rows: buildRows(opts.GroupedByCategory[category], opts.AssetBaseURL),
			})
		}
		return sections
	}

	return []sectionView{{Rows: buildRows(doc.Items, opts.AssetBaseURL)}}
}

func buildRows(items []models.PriceListItem, assetBaseURL string) []rowView {
	rows := make([]rowView, 0, len(items))
	for _, item := range items {
		row := rowView{
			Price:          utils.FormatEUR(item.Price),
			Discount:       utils.FormatPercent(item.DiscountPercentage),
			FinalPrice:     utils.FormatEUR(pricing.FinalPrice(item.Price, item.DiscountPercentage)),
			MinQuantity:    item.MinQuantity,
			VATRate:        pricing.VATStandard,
			CandidatesJSON: "[]",
		}

		if p := item.Product; p != nil {
			row.ProductID = p.ID
			row.Code = p.Code
			row.Name = p.Name
			row.Description = p.Description
			row.Unit = p.Unit
			row.Cartone = p.Cartone.String()
			row.Pallet = p.Pallet.String()
			row.Scadenza = p.Scadenza
			row.EAN = p.EAN
			row.VATRate = pricing.VATRate(p.Category)

			// Every product row carries a placeholder, even with an empty
			// candidate list, so the in-page resolver records a no-sources
			// outcome instead of skipping the product in diagnostics.
			candidates := BuildImageCandidates(p, assetBaseURL)
			if candidates == nil {
				candidates = []string{}
			}
			// Serialization of a []string cannot fail.
			encoded, _ := json.Marshal(candidates)
			row.CandidatesJSON = string(encoded)
			if len(candidates) > 0 {
				row.HasImage = true
				row.ImageSrc = candidates[0]
			}
		}

		rows = append(rows, row)
	}
	return rows
}

// formatDate renders a stored timestamp as an Italian-style date. Unparseable
// values pass through unchanged rather than erroring.
func formatDate(value string) string {
	if value == "" {
		return ""
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("02/01/2006")
		}
	}
	return value
}
