package service

import (
	"fmt"
	"strings"

	"github.com/firstclassrl/pixel-pdf-service/models"
)

// Conventional image paths tried per product, in order, before any explicit
// URL. Product photos have been stored under several conventions over time
// (webp/jpg, thumb/main), so every known location is a candidate.
var conventionalImageNames = []string{
	"thumb.webp",
	"main.webp",
	"thumb.jpg",
	"main.jpg",
}

// BuildImageCandidates returns the ordered, de-duplicated list of image URLs
// to try for a product: storage-convention paths derived from the product ID
// first, then the explicit thumb URL, then the explicit full-size URL. First
// occurrence wins on duplicates. The list is empty when the product has no ID
// and no explicit URLs.
func BuildImageCandidates(p *models.Product, baseURL string) []string {
	if p == nil {
		return nil
	}

	var candidates []string
	seen := make(map[string]struct{})
	add := func(u string) {
		if u == "" {
			return
		}
		if _, dup := seen[u]; dup {
			return
		}
		seen[u] = struct{}{}
		candidates = append(candidates, u)
	}

	if p.ID != "" && baseURL != "" {
		base := strings.TrimRight(baseURL, "/")
		for _, name := range conventionalImageNames {
			add(fmt.Sprintf("%s/%s/%s", base, p.ID, name))
		}
	}
	add(p.PhotoThumbURL)
	add(p.PhotoURL)

	return candidates
}
