package catalog

import "strconv"

// Option is a consumption type or claim type.
type Option struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Currency struct {
	ID     int    `json:"id"`
	Code   string `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// Catalogs is everything a form session loads once at creation.
type Catalogs struct {
	DocumentTypes    []DocumentType `json:"document_types"`
	ConsumptionTypes []Option       `json:"consumption_types"`
	ClaimTypes       []Option       `json:"claim_types"`
	Currencies       []Currency     `json:"currencies"`
}

// DefaultConsumptionType is the first consumption type id, or "".
func (c Catalogs) DefaultConsumptionType() string {
	if len(c.ConsumptionTypes) == 0 {
		return ""
	}
	return strconv.Itoa(c.ConsumptionTypes[0].ID)
}

// DefaultClaimType is the first claim type id, or "".
func (c Catalogs) DefaultClaimType() string {
	if len(c.ClaimTypes) == 0 {
		return ""
	}
	return strconv.Itoa(c.ClaimTypes[0].ID)
}

// DefaultCurrency is the first currency id, or "".
func (c Catalogs) DefaultCurrency() string {
	if len(c.Currencies) == 0 {
		return ""
	}
	return strconv.Itoa(c.Currencies[0].ID)
}

// CurrencySymbol returns the symbol of the selected currency, "S/" when none matches.
func (c Catalogs) CurrencySymbol(selected string) string {
	id, err := strconv.Atoi(selected)
	if err == nil {
		for _, cur := range c.Currencies {
			if cur.ID == id {
				return cur.Symbol
			}
		}
	}
	return "S/"
}
