package catalog

import "github.com/DamianKursa/hvyt-ecom-sub000/internal/models"

// AvailableStock returns the purchasable quantity for the current selection.
//
// Priority: the resolved variant's own quantity, then the product-level
// quantity, then (for variant-bearing products with nothing resolved) the
// sum over all variants, with missing quantities counting as zero.
func AvailableStock(product *models.Product, resolved *models.Variant) int {
	if product == nil {
		return 0
	}
	if resolved != nil && resolved.StockQuantity != nil {
		return clampStock(*resolved.StockQuantity)
	}
	if product.StockQuantity != nil {
		return clampStock(*product.StockQuantity)
	}
	if product.HasVariants() && resolved == nil {
		total := 0
		for _, v := range product.Variants {
			if v.StockQuantity != nil && *v.StockQuantity > 0 {
				total += *v.StockQuantity
			}
		}
		return total
	}
	return 0
}

func clampStock(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
