package source

import (
	"testing"
	"time"
)

func TestParseSaleStatus(t *testing.T) {
	cases := []struct {
		raw  string
		want SaleStatus
	}{
		{"onsale", SaleStatusOnSale},
		{"OnSale", SaleStatusOnSale},
		{"on_sale", SaleStatusOnSale},
		{"on-sale", SaleStatusOnSale},
		{"presale", SaleStatusPresale},
		{"pre-sale", SaleStatusPresale},
		{"offsale", SaleStatusOffSale},
		{"soldout", SaleStatusSoldOut},
		{"sold_out", SaleStatusSoldOut},
		{"cancelled", SaleStatusCancelled},
		{"canceled", SaleStatusCancelled},
		{" onsale ", SaleStatusOnSale},
		{"rescheduled", SaleStatusUnknown},
		{"", SaleStatusUnknown},
	}
	for _, tc := range cases {
		if got := ParseSaleStatus(tc.raw); got != tc.want {
			t.Fatalf("ParseSaleStatus(%q) = %q want %q", tc.raw, got, tc.want)
		}
	}
}

func TestSaleStatusStringPtr(t *testing.T) {
	if got := SaleStatusUnknown.StringPtr(); got != nil {
		t.Fatalf("unknown status gave %q, want nil", *got)
	}
	got := SaleStatusOnSale.StringPtr()
	if got == nil || *got != "on_sale" {
		t.Fatalf("on_sale gave %v", got)
	}
}

func TestValidate(t *testing.T) {
	start := time.Date(2026, 9, 12, 19, 30, 0, 0, time.UTC)
	valid := Record{Title: "Show", StartDate: &start, SourceName: "ticketmaster", SourceID: "tm-1"}
	if !Validate(valid) {
		t.Fatal("complete record rejected")
	}

	missing := []Record{
		{StartDate: &start, SourceName: "ticketmaster", SourceID: "tm-1"},
		{Title: "Show", SourceName: "ticketmaster", SourceID: "tm-1"},
		{Title: "Show", StartDate: &start, SourceID: "tm-1"},
		{Title: "Show", StartDate: &start, SourceName: "ticketmaster"},
	}
	for i, rec := range missing {
		if Validate(rec) {
			t.Fatalf("case %d: incomplete record accepted", i)
		}
	}
}
