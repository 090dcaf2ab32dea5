package importer

import (
	"context"

	"github.com/harbourops/importer/internal/backend"
)

// fakeClient stands in for the remote service in pipeline tests.
type fakeClient struct {
	countries []backend.Country
	ports     []backend.Port
	companies []backend.AddressBookEntry

	countriesErr error
	portsErr     error
	addressErr   error

	createdCompanies   []backend.CompanyCreate
	createdPorts       []backend.PortCreate
	createdInventories []backend.InventoryCreate
	createdLeasing     []backend.LeasingInfo

	companyCreateErr   error
	portCreateErr      error
	inventoryCreateErr error
	leasingCreateErr   error

	nextID int
}

func (f *fakeClient) id() int {
	f.nextID++
	return f.nextID
}

func (f *fakeClient) Countries(ctx context.Context) ([]backend.Country, error) {
	return f.countries, f.countriesErr
}

func (f *fakeClient) Ports(ctx context.Context) ([]backend.Port, error) {
	return f.ports, f.portsErr
}

func (f *fakeClient) AddressBook(ctx context.Context) ([]backend.AddressBookEntry, error) {
	return f.companies, f.addressErr
}

func (f *fakeClient) CreateAddressBook(ctx context.Context, req backend.CompanyCreate) (backend.Created, error) {
	if f.companyCreateErr != nil {
		return backend.Created{}, f.companyCreateErr
	}
	f.createdCompanies = append(f.createdCompanies, req)
	return backend.Created{ID: f.id()}, nil
}

func (f *fakeClient) CreatePort(ctx context.Context, req backend.PortCreate) (backend.Created, error) {
	if f.portCreateErr != nil {
		return backend.Created{}, f.portCreateErr
	}
	f.createdPorts = append(f.createdPorts, req)
	return backend.Created{ID: f.id()}, nil
}

func (f *fakeClient) CreateInventory(ctx context.Context, req backend.InventoryCreate) (backend.Created, error) {
	if f.inventoryCreateErr != nil {
		return backend.Created{}, f.inventoryCreateErr
	}
	f.createdInventories = append(f.createdInventories, req)
	return backend.Created{ID: f.id()}, nil
}

func (f *fakeClient) CreateLeasingInfo(ctx context.Context, rec backend.LeasingInfo) (backend.Created, error) {
	if f.leasingCreateErr != nil {
		return backend.Created{}, f.leasingCreateErr
	}
	f.createdLeasing = append(f.createdLeasing, rec)
	return backend.Created{ID: f.id()}, nil
}

// referenceData is the fixture most pipeline tests share.
func referenceData() *fakeClient {
	return &fakeClient{
		countries: []backend.Country{
			{ID: 1, CountryName: "Denmark", CountryCode: "DK", CurrencyID: 11},
			{ID: 2, CountryName: "India", CountryCode: "IN", CurrencyID: 12},
		},
		ports: []backend.Port{
			{ID: 10, PortName: "Aarhus", PortCode: "DKAAR", PortType: "Main"},
			{ID: 20, PortName: "Nhava Sheva", PortCode: "INNSA", PortType: "Main"},
		},
		companies: []backend.AddressBookEntry{
			{ID: 100, CompanyName: "Seaco Global", BusinessType: "Leasing Company"},
			{ID: 200, CompanyName: "Aarhus Depot Services", BusinessType: "Deport Terminal"},
		},
	}
}
