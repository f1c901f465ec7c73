package scanner

import (
	"fmt"
	"strings"
)

// Region is a Shopee storefront.
type Region struct {
	Code     string
	Name     string
	Host     string
	Currency string
}

// Regions lists every supported storefront in display order.
var Regions = []Region{
	{Code: "BR", Name: "Brasil", Host: "shopee.com.br", Currency: "BRL"},
	{Code: "SG", Name: "Singapore", Host: "shopee.sg", Currency: "SGD"},
	{Code: "MY", Name: "Malaysia", Host: "shopee.com.my", Currency: "MYR"},
	{Code: "TH", Name: "Thailand", Host: "shopee.co.th", Currency: "THB"},
	{Code: "VN", Name: "Vietnam", Host: "shopee.vn", Currency: "VND"},
	{Code: "PH", Name: "Philippines", Host: "shopee.ph", Currency: "PHP"},
	{Code: "ID", Name: "Indonesia", Host: "shopee.co.id", Currency: "IDR"},
}

// DefaultRegions is the preselected region set.
var DefaultRegions = []string{"BR"}

// LookupRegion finds a region by code, case-insensitively.
func LookupRegion(code string) (Region, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, r := range Regions {
		if r.Code == code {
			return r, nil
		}
	}
	return Region{}, fmt.Errorf("scanner: unknown region %q", code)
}

// Label is the "BR - Brasil" form shown in region pickers.
func (r Region) Label() string {
	return r.Code + " - " + r.Name
}
