package importer

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/harbourops/importer/internal/backend"
)

var (
	emailShape     = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	nonCreditChars = regexp.MustCompile(`[^0-9.]`)
)

func init() {
	Register(CategoryDefinition{
		Key:   CategoryCompanies,
		Label: "Companies",
		Headers: []string{
			"Company Name", "Business Type", "Address", "Phone", "Email",
			"Website", "Credit Terms", "Credit Limit", "remarks", "Country",
			"Status",
		},
		Required: []string{"Company Name", "Country"},
		Validate: validateCompanyRow,
		Submit:   submitCompanyRow,
	})
}

func validateCompanyRow(row Row) error {
	for _, field := range []string{"Company Name", "Country"} {
		if !row.Has(field) {
			return fmt.Errorf("missing required field: %s", field)
		}
	}
	if v := row.Get("Email"); v != "" && !emailShape.MatchString(v) {
		return fmt.Errorf("invalid email format: %s", v)
	}
	if len(row.Get("Website")) > 500 {
		return errors.New("website URL is too long (max 500 characters)")
	}
	return nil
}

// buildCompanyPayload maps a validated row onto the addressbook create body.
// The empty RefID and child collections are scaffolding the endpoint
// requires; RefID is assigned server-side.
func buildCompanyPayload(p *Pipeline, row Row) (backend.CompanyCreate, error) {
	country, ok := p.Refs.Country(row.Get("Country"))
	if !ok {
		return backend.CompanyCreate{}, &NotFoundError{Kind: "country", Token: row.Get("Country")}
	}

	req := backend.CompanyCreate{
		RefID:         "",
		BankDetails:   []any{},
		BusinessPorts: []any{},
		Contacts:      []any{},

		CompanyName:  row.Get("Company Name"),
		BusinessType: row.Get("Business Type"),
		Address:      row.Get("Address"),
		Phone:        row.Get("Phone"),
		Email:        row.Get("Email"),
		Website:      row.Get("Website"),
		CreditTerms:  row.Get("Credit Terms"),
		CreditLimit:  sanitizeCreditLimit(row.Get("Credit Limit")),
		Remarks:      row.Get("remarks"),
		Status:       row.Get("Status"),
		CountryID:    country.ID,
	}
	if req.Status == "" {
		req.Status = "Active"
	}
	return req, nil
}

func submitCompanyRow(ctx context.Context, p *Pipeline, row Row) ([]string, error) {
	req, err := buildCompanyPayload(p, row)
	if err != nil {
		return nil, err
	}
	if _, err := p.Backend.CreateAddressBook(ctx, req); err != nil {
		return nil, err
	}
	return nil, nil
}

// sanitizeCreditLimit strips everything but digits and dots, so currency
// symbols and thousands separators survive as a plain number string.
func sanitizeCreditLimit(s string) string {
	cleaned := nonCreditChars.ReplaceAllString(s, "")
	if cleaned == "" {
		return "0"
	}
	return cleaned
}
