package catalog

import (
	"sort"

	"github.com/plexcars/catalog/internal/domain"
)

// sortedByPrice returns a copy of cars ordered by price. A missing
// price counts as zero. The sort is stable, so cars with equal prices
// keep their gateway order relative to each other. SortNone returns
// the copy untouched.
func sortedByPrice(cars []domain.Car, order domain.SortOrder) []domain.Car {
	sorted := make([]domain.Car, len(cars))
	copy(sorted, cars)

	switch order {
	case domain.SortPriceAsc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Price < sorted[j].Price
		})
	case domain.SortPriceDesc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Price > sorted[j].Price
		})
	}

	return sorted
}
