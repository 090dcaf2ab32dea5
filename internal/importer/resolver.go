package importer

import (
	"context"
	"strconv"
	"strings"

	"github.com/harbourops/importer/internal/backend"
)

// ReferenceSource supplies the backend collections the resolver snapshots.
// *backend.Client satisfies it; tests substitute fakes.
type ReferenceSource interface {
	Countries(ctx context.Context) ([]backend.Country, error)
	Ports(ctx context.Context) ([]backend.Port, error)
	AddressBook(ctx context.Context) ([]backend.AddressBookEntry, error)
}

// ReferenceIndex is an in-memory snapshot of the backend lookup collections,
// built once per import run and read-only afterwards. Lookups are
// case-insensitive and whitespace-trimmed; ports and companies can
// additionally be referenced by their numeric id written as a string.
type ReferenceIndex struct {
	countriesByName map[string]backend.Country

	portsByID   map[string]backend.Port
	portsByName map[string]backend.Port
	portsByCode map[string]backend.Port

	companiesByID   map[string]backend.AddressBookEntry
	companiesByName map[string]backend.AddressBookEntry
}

// BuildIndex fetches each collection the category needs exactly once and
// builds the lookup tables. Countries are always fetched. Any fetch failure
// aborts the whole run: no row can be resolved without the snapshot, so the
// error comes back as a *GeneralError.
func BuildIndex(ctx context.Context, src ReferenceSource, def CategoryDefinition) (*ReferenceIndex, error) {
	ix := &ReferenceIndex{
		countriesByName: make(map[string]backend.Country),
	}

	countries, err := src.Countries(ctx)
	if err != nil {
		return nil, &GeneralError{Op: "fetch reference data: countries", Err: err}
	}
	for _, c := range countries {
		ix.countriesByName[lookupKey(c.CountryName)] = c
	}

	if def.NeedsPorts {
		ports, err := src.Ports(ctx)
		if err != nil {
			return nil, &GeneralError{Op: "fetch reference data: ports", Err: err}
		}
		ix.portsByID = make(map[string]backend.Port, len(ports))
		ix.portsByName = make(map[string]backend.Port, len(ports))
		ix.portsByCode = make(map[string]backend.Port, len(ports))
		for _, p := range ports {
			ix.portsByID[strconv.Itoa(p.ID)] = p
			ix.portsByName[lookupKey(p.PortName)] = p
			ix.portsByCode[lookupKey(p.PortCode)] = p
		}
	}

	if def.NeedsAddressBook {
		entries, err := src.AddressBook(ctx)
		if err != nil {
			return nil, &GeneralError{Op: "fetch reference data: address book", Err: err}
		}
		ix.companiesByID = make(map[string]backend.AddressBookEntry, len(entries))
		ix.companiesByName = make(map[string]backend.AddressBookEntry, len(entries))
		for _, e := range entries {
			ix.companiesByID[strconv.Itoa(e.ID)] = e
			ix.companiesByName[lookupKey(e.CompanyName)] = e
		}
	}

	return ix, nil
}

// Country resolves a country by name.
func (ix *ReferenceIndex) Country(name string) (backend.Country, bool) {
	c, ok := ix.countriesByName[lookupKey(name)]
	return c, ok
}

// Port resolves a port token: exact numeric id first, then name, then code.
func (ix *ReferenceIndex) Port(token string) (backend.Port, bool) {
	token = strings.TrimSpace(token)
	if p, ok := ix.portsByID[token]; ok {
		return p, true
	}
	if p, ok := ix.portsByName[lookupKey(token)]; ok {
		return p, true
	}
	p, ok := ix.portsByCode[lookupKey(token)]
	return p, ok
}

// Company resolves an address book token: exact numeric id first, then
// company name.
func (ix *ReferenceIndex) Company(token string) (backend.AddressBookEntry, bool) {
	token = strings.TrimSpace(token)
	if e, ok := ix.companiesByID[token]; ok {
		return e, true
	}
	e, ok := ix.companiesByName[lookupKey(token)]
	return e, ok
}

func lookupKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

