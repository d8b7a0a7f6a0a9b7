package types

import (
	ierr "github.com/arledger/arledger/internal/errors"
	"github.com/samber/lo"
)

// Dimension selects the grouping key for an aggregation run
type Dimension string

const (
	// DimensionCustomer groups by customer name
	DimensionCustomer Dimension = "customer"
	// DimensionRegionZone groups by the region+zone pair
	DimensionRegionZone Dimension = "region_zone"
	// DimensionBusinessUnit groups by business unit
	DimensionBusinessUnit Dimension = "business_unit"
	// DimensionTaxType groups by tax component, one row per non-zero component
	DimensionTaxType Dimension = "tax_type"
	// DimensionMonth groups by calendar month (YYYY-MM, UTC) of the issue date
	DimensionMonth Dimension = "month"
)

func (d Dimension) String() string {
	return string(d)
}

func (d Dimension) Validate() error {
	allowed := []Dimension{
		DimensionCustomer,
		DimensionRegionZone,
		DimensionBusinessUnit,
		DimensionTaxType,
		DimensionMonth,
	}
	if !lo.Contains(allowed, d) {
		return ierr.NewError("invalid aggregation dimension").
			WithHint("Please provide a valid aggregation dimension").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
