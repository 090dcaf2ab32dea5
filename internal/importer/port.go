package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/harbourops/importer/internal/backend"
)

func init() {
	Register(CategoryDefinition{
		Key:   CategoryPorts,
		Label: "Ports",
		Headers: []string{
			"PORT_Code", "PORT_Name", "PORT_LONG", "Country -Full",
			"Country -short", "Port Type", "Parent Port",
		},
		Required: []string{
			"PORT_Code", "PORT_Name", "PORT_LONG", "Country -Full", "Port Type",
		},
		NeedsPorts: true,
		Validate:   validatePortRow,
		Submit:     submitPortRow,
	})
}

func validatePortRow(row Row) error {
	for _, field := range []string{"PORT_Code", "PORT_Name", "PORT_LONG", "Country -Full", "Port Type"} {
		if !row.Has(field) {
			return fmt.Errorf("missing required field: %s", field)
		}
	}

	portType := strings.ToUpper(row.Get("Port Type"))
	if portType != "MAIN" && portType != "ICD" {
		return fmt.Errorf("invalid port type %q, must be either Main or ICD", row.Get("Port Type"))
	}
	if portType == "ICD" && !row.Has("Parent Port") {
		return errors.New("parent port is required for ICD port types")
	}
	return nil
}

// buildPortPayload maps a validated row onto the ports create body. The
// currency comes from the resolved country; the parent port is resolved only
// for ICD ports, where validation guarantees one was named.
func buildPortPayload(p *Pipeline, row Row) (backend.PortCreate, error) {
	country, ok := p.Refs.Country(row.Get("Country -Full"))
	if !ok {
		return backend.PortCreate{}, &NotFoundError{Kind: "country", Token: row.Get("Country -Full")}
	}

	req := backend.PortCreate{
		Status:       "Active",
		PortCode:     row.Get("PORT_Code"),
		PortName:     row.Get("PORT_Name"),
		PortLongName: row.Get("PORT_LONG"),
		PortType:     canonicalPortType(row.Get("Port Type")),
		CountryID:    country.ID,
		CurrencyID:   country.CurrencyID,
	}

	if req.PortType == "ICD" {
		parent, ok := p.Refs.Port(row.Get("Parent Port"))
		if !ok {
			return backend.PortCreate{}, &NotFoundError{Kind: "parent port", Token: row.Get("Parent Port")}
		}
		req.ParentPortID = &parent.ID
	}
	return req, nil
}

func submitPortRow(ctx context.Context, p *Pipeline, row Row) ([]string, error) {
	req, err := buildPortPayload(p, row)
	if err != nil {
		return nil, err
	}
	if _, err := p.Backend.CreatePort(ctx, req); err != nil {
		return nil, err
	}
	return nil, nil
}

// canonicalPortType normalizes user casing onto the backend's canonical
// values, "Main" and "ICD".
func canonicalPortType(s string) string {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "MAIN":
		return "Main"
	case "ICD":
		return "ICD"
	}
	return strings.TrimSpace(s)
}
