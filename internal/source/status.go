package source

import "strings"

// SaleStatus is the closed set of sale states an adapter may report.
// Loose provider spellings are normalized here, at the adapter
// boundary; downstream code never parses raw status strings.
type SaleStatus string

const (
	SaleStatusUnknown   SaleStatus = ""
	SaleStatusOnSale    SaleStatus = "on_sale"
	SaleStatusPresale   SaleStatus = "presale"
	SaleStatusOffSale   SaleStatus = "off_sale"
	SaleStatusSoldOut   SaleStatus = "sold_out"
	SaleStatusCancelled SaleStatus = "cancelled"
)

// ParseSaleStatus maps a raw provider status string to a SaleStatus.
// Unrecognized values map to SaleStatusUnknown.
func ParseSaleStatus(raw string) SaleStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "onsale", "on_sale", "on-sale":
		return SaleStatusOnSale
	case "presale", "pre_sale", "pre-sale":
		return SaleStatusPresale
	case "offsale", "off_sale", "off-sale":
		return SaleStatusOffSale
	case "soldout", "sold_out", "sold-out":
		return SaleStatusSoldOut
	case "cancelled", "canceled":
		return SaleStatusCancelled
	default:
		return SaleStatusUnknown
	}
}

func (s SaleStatus) String() string {
	return string(s)
}

// StringPtr returns the status as a nullable column value, nil for
// SaleStatusUnknown.
func (s SaleStatus) StringPtr() *string {
	if s == SaleStatusUnknown {
		return nil
	}
	v := string(s)
	return &v
}
