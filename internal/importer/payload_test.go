package importer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func testPipeline(t *testing.T, def CategoryDefinition) *Pipeline {
	t.Helper()
	src := referenceData()
	ix, err := BuildIndex(context.Background(), src, def)
	if err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}
	return &Pipeline{
		Backend:  src,
		Refs:     ix,
		Defaults: Defaults{PortID: 77, DepotID: 88},
		Now:      func() time.Time { return time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC) },
	}
}

func TestBuildCompanyPayload(t *testing.T) {
	p := testPipeline(t, companiesDef(t))
	row := rowOf(map[string]string{
		"Company Name": "Hapag Lloyd",
		"Country":      "  denmark ",
		"Credit Limit": "$12,500.00",
		"Email":        "ops@hlag.com",
	})

	req, err := buildCompanyPayload(p, row)
	if err != nil {
		t.Fatalf("buildCompanyPayload() error = %v", err)
	}

	if req.CountryID != 1 {
		t.Errorf("CountryID = %d, want 1", req.CountryID)
	}
	if req.Status != "Active" {
		t.Errorf("Status = %q, want Active", req.Status)
	}
	if req.CreditLimit != "12500.00" {
		t.Errorf("CreditLimit = %q, want 12500.00", req.CreditLimit)
	}
	// The addressbook endpoint rejects bodies without the scaffolding
	// collections, so they must serialize as [] rather than null.
	if req.BankDetails == nil || req.BusinessPorts == nil || req.Contacts == nil {
		t.Error("scaffolding collections must be non-nil")
	}
}

func TestBuildCompanyPayload_EmptyCreditLimit(t *testing.T) {
	p := testPipeline(t, companiesDef(t))
	row := rowOf(map[string]string{"Company Name": "Hapag", "Country": "Denmark"})

	req, err := buildCompanyPayload(p, row)
	if err != nil {
		t.Fatalf("buildCompanyPayload() error = %v", err)
	}
	if req.CreditLimit != "0" {
		t.Errorf("CreditLimit = %q, want 0", req.CreditLimit)
	}
}

func TestBuildCompanyPayload_UnknownCountry(t *testing.T) {
	p := testPipeline(t, companiesDef(t))
	row := rowOf(map[string]string{"Company Name": "Hapag", "Country": "Atlantis"})

	_, err := buildCompanyPayload(p, row)
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want *NotFoundError", err)
	}
	if notFound.Kind != "country" {
		t.Errorf("Kind = %q, want country", notFound.Kind)
	}
}

// Required company columns must survive into the payload unchanged.
func TestBuildCompanyPayload_RoundTrip(t *testing.T) {
	p := testPipeline(t, companiesDef(t))
	row := rowOf(map[string]string{
		"Company Name":  "Hapag Lloyd",
		"Country":       "Denmark",
		"Business Type": "Shipping Line",
		"Address":       "Ballindamm 25",
		"Phone":         "+49 40 3001 0",
	})

	req, err := buildCompanyPayload(p, row)
	if err != nil {
		t.Fatalf("buildCompanyPayload() error = %v", err)
	}

	if req.CompanyName != row.Get("Company Name") {
		t.Errorf("CompanyName = %q, want %q", req.CompanyName, row.Get("Company Name"))
	}
	if req.BusinessType != row.Get("Business Type") {
		t.Errorf("BusinessType = %q, want %q", req.BusinessType, row.Get("Business Type"))
	}
	if req.Address != row.Get("Address") {
		t.Errorf("Address = %q, want %q", req.Address, row.Get("Address"))
	}
	if req.Phone != row.Get("Phone") {
		t.Errorf("Phone = %q, want %q", req.Phone, row.Get("Phone"))
	}
	country, _ := p.Refs.Country(row.Get("Country"))
	if req.CountryID != country.ID {
		t.Errorf("CountryID = %d, want %d", req.CountryID, country.ID)
	}
}

func portsDef(t *testing.T) CategoryDefinition {
	t.Helper()
	def, ok := Lookup(CategoryPorts)
	if !ok {
		t.Fatal("ports category not registered")
	}
	return def
}

func TestBuildPortPayload_Main(t *testing.T) {
	p := testPipeline(t, portsDef(t))
	row := rowOf(map[string]string{
		"PORT_Code": "DKCPH", "PORT_Name": "Copenhagen",
		"PORT_LONG": "Port of Copenhagen", "Country -Full": "DENMARK",
		"Port Type": "MAIN",
	})

	req, err := buildPortPayload(p, row)
	if err != nil {
		t.Fatalf("buildPortPayload() error = %v", err)
	}

	if req.PortType != "Main" {
		t.Errorf("PortType = %q, want Main", req.PortType)
	}
	if req.CountryID != 1 || req.CurrencyID != 11 {
		t.Errorf("country/currency = %d/%d, want 1/11", req.CountryID, req.CurrencyID)
	}
	if req.ParentPortID != nil {
		t.Error("ParentPortID should be nil for Main ports")
	}
	if req.Status != "Active" {
		t.Errorf("Status = %q, want Active", req.Status)
	}
}

func TestBuildPortPayload_ICDParent(t *testing.T) {
	p := testPipeline(t, portsDef(t))
	row := rowOf(map[string]string{
		"PORT_Code": "INTKD", "PORT_Name": "Tughlakabad",
		"PORT_LONG": "ICD Tughlakabad", "Country -Full": "India",
		"Port Type": "icd", "Parent Port": "INNSA",
	})

	req, err := buildPortPayload(p, row)
	if err != nil {
		t.Fatalf("buildPortPayload() error = %v", err)
	}
	if req.PortType != "ICD" {
		t.Errorf("PortType = %q, want ICD", req.PortType)
	}
	if req.ParentPortID == nil || *req.ParentPortID != 20 {
		t.Errorf("ParentPortID = %v, want 20", req.ParentPortID)
	}
}

func TestBuildPortPayload_UnknownParent(t *testing.T) {
	p := testPipeline(t, portsDef(t))
	row := rowOf(map[string]string{
		"PORT_Code": "INTKD", "PORT_Name": "Tughlakabad",
		"PORT_LONG": "ICD Tughlakabad", "Country -Full": "India",
		"Port Type": "ICD", "Parent Port": "Nowhere",
	})

	_, err := buildPortPayload(p, row)
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want *NotFoundError", err)
	}
	if notFound.Kind != "parent port" {
		t.Errorf("Kind = %q, want parent port", notFound.Kind)
	}
}

func ownedContainerRow() map[string]string {
	return map[string]string{
		"Container Number": "TCLU1234567", "Container Category": "Tank",
		"Container Type": "T11", "Container Class": "IMO1",
		"Ownership": "Own", "Onhire Location": "Aarhus",
		"On Hire DEPOT": "Aarhus Depot Services",
	}
}

func leasedContainerRow() map[string]string {
	return map[string]string{
		"Container Number": "SEGU7654321", "Container Category": "Tank",
		"Container Type": "T11", "Container Class": "IMO1",
		"Ownership": "Leased", "OWNER": "Seaco Global",
		"Onhire Location": "Nhava Sheva", "On Hire DEPOT": "Aarhus Depot Services",
	}
}

func TestBuildContainerPayload_OwnResolved(t *testing.T) {
	p := testPipeline(t, containersDef(t))

	inv, warnings, err := buildContainerPayload(p, rowOf(ownedContainerRow()))
	if err != nil {
		t.Fatalf("buildContainerPayload() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}

	if inv.Ownership != "Own" {
		t.Errorf("Ownership = %q, want Own", inv.Ownership)
	}
	if inv.PortID == nil || *inv.PortID != 10 {
		t.Errorf("PortID = %v, want 10", inv.PortID)
	}
	if inv.OnHireDepotAddressBookID == nil || *inv.OnHireDepotAddressBookID != 200 {
		t.Errorf("OnHireDepotAddressBookID = %v, want 200", inv.OnHireDepotAddressBookID)
	}

	if len(inv.LeasingInfo) != 1 {
		t.Fatalf("LeasingInfo records = %d, want 1", len(inv.LeasingInfo))
	}
	rec := inv.LeasingInfo[0]
	if rec.OwnershipType != "Own" {
		t.Errorf("OwnershipType = %q, want Own", rec.OwnershipType)
	}
	if rec.LeasingRefNo != "OWN-TCLU1234567" {
		t.Errorf("LeasingRefNo = %q, want OWN-TCLU1234567", rec.LeasingRefNo)
	}
	// The depot stands in as lessor for owned equipment.
	if rec.LeasorAddressBookID != 200 {
		t.Errorf("LeasorAddressBookID = %d, want 200", rec.LeasorAddressBookID)
	}
	if rec.OffHireDate != nil {
		t.Error("OffHireDate should be nil for owned containers")
	}
}

func TestBuildContainerPayload_OwnFallsBackToDefaults(t *testing.T) {
	p := testPipeline(t, containersDef(t))
	values := ownedContainerRow()
	values["Onhire Location"] = "Unknown Port"
	values["On Hire DEPOT"] = "Unknown Depot"

	inv, warnings, err := buildContainerPayload(p, rowOf(values))
	if err != nil {
		t.Fatalf("buildContainerPayload() error = %v", err)
	}

	if inv.PortID == nil || *inv.PortID != 77 {
		t.Errorf("PortID = %v, want default 77", inv.PortID)
	}
	if inv.OnHireDepotAddressBookID == nil || *inv.OnHireDepotAddressBookID != 88 {
		t.Errorf("OnHireDepotAddressBookID = %v, want default 88", inv.OnHireDepotAddressBookID)
	}
	if len(warnings) != 2 {
		t.Fatalf("warnings = %v, want 2", warnings)
	}
	if !strings.Contains(warnings[0], "default port id 77") {
		t.Errorf("warning = %q, want mention of default port id", warnings[0])
	}
}

func TestBuildContainerPayload_LeasedStrict(t *testing.T) {
	p := testPipeline(t, containersDef(t))
	values := leasedContainerRow()
	values["OWNER"] = "Unknown Owner"

	_, warnings, err := buildContainerPayload(p, rowOf(values))
	if err == nil {
		t.Fatal("buildContainerPayload() expected error for unresolved leasor")
	}
	if len(warnings) == 0 || !strings.Contains(warnings[0], "leasor not found") {
		t.Errorf("warnings = %v, want leasor not found", warnings)
	}
}

func TestBuildContainerPayload_LeasedResolved(t *testing.T) {
	p := testPipeline(t, containersDef(t))
	values := leasedContainerRow()
	values["Off-Hire Date"] = "05-03-2026"
	values["Lease Rent Per Day"] = "14.50"

	inv, warnings, err := buildContainerPayload(p, rowOf(values))
	if err != nil {
		t.Fatalf("buildContainerPayload() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}

	// Leased containers never carry container-level location.
	if inv.PortID != nil || inv.OnHireDepotAddressBookID != nil {
		t.Error("container-level port/depot must be omitted for leased containers")
	}

	rec := inv.LeasingInfo[0]
	if rec.OwnershipType != "Leased" {
		t.Errorf("OwnershipType = %q, want Leased", rec.OwnershipType)
	}
	if rec.LeasorAddressBookID != 100 || rec.PortID != 20 || rec.OnHireDepotAddressBookID != 200 {
		t.Errorf("resolved ids = %d/%d/%d, want 100/20/200",
			rec.LeasorAddressBookID, rec.PortID, rec.OnHireDepotAddressBookID)
	}
	if rec.LeasingRefNo != "LEASE-SEGU7654321" {
		t.Errorf("LeasingRefNo = %q, want LEASE-SEGU7654321", rec.LeasingRefNo)
	}
	if rec.LeaseRentPerDay != "14.50" {
		t.Errorf("LeaseRentPerDay = %q, want 14.50", rec.LeaseRentPerDay)
	}
	// Day-first reading: the 5th of March.
	if rec.OffHireDate == nil || *rec.OffHireDate != "2026-03-05T00:00:00.000Z" {
		t.Errorf("OffHireDate = %v, want 2026-03-05T00:00:00.000Z", rec.OffHireDate)
	}
}

func TestBuildContainerPayload_RentFallbackOrder(t *testing.T) {
	p := testPipeline(t, containersDef(t))

	values := leasedContainerRow()
	values["LEASE RENTAL"] = "9"
	inv, _, err := buildContainerPayload(p, rowOf(values))
	if err != nil {
		t.Fatalf("buildContainerPayload() error = %v", err)
	}
	if inv.LeasingInfo[0].LeaseRentPerDay != "9" {
		t.Errorf("rent = %q, want LEASE RENTAL fallback 9", inv.LeasingInfo[0].LeaseRentPerDay)
	}

	values = leasedContainerRow()
	inv, _, err = buildContainerPayload(p, rowOf(values))
	if err != nil {
		t.Fatalf("buildContainerPayload() error = %v", err)
	}
	if inv.LeasingInfo[0].LeaseRentPerDay != "0" {
		t.Errorf("rent = %q, want final fallback 0", inv.LeasingInfo[0].LeaseRentPerDay)
	}
}

func TestBuildContainerPayload_OptionalChildren(t *testing.T) {
	p := testPipeline(t, containersDef(t))
	values := ownedContainerRow()
	values["Last Inspection Date"] = "2024-05-01"
	values["Inspection Type"] = "2.5 Year"
	values["Next Inspection Due"] = "2026-11-01"
	values["Report Date"] = "2024-05-02"
	values["Report Document"] = "report.pdf"

	inv, warnings, err := buildContainerPayload(p, rowOf(values))
	if err != nil {
		t.Fatalf("buildContainerPayload() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}

	if len(inv.PeriodicTankCertificates) != 1 {
		t.Fatalf("certificates = %d, want 1", len(inv.PeriodicTankCertificates))
	}
	cert := inv.PeriodicTankCertificates[0]
	if cert.InspectionDate != "2024-05-01T00:00:00.000Z" || cert.NextDueDate != "2026-11-01T00:00:00.000Z" {
		t.Errorf("certificate dates = %q/%q", cert.InspectionDate, cert.NextDueDate)
	}

	if len(inv.OnHireReport) != 1 || inv.OnHireReport[0].ReportDocument != "report.pdf" {
		t.Errorf("reports = %v, want one with report.pdf", inv.OnHireReport)
	}
}

func TestBuildContainerPayload_BadChildDateSkipsChild(t *testing.T) {
	p := testPipeline(t, containersDef(t))
	values := ownedContainerRow()
	values["Last Inspection Date"] = "sometime last year"
	values["Inspection Type"] = "2.5 Year"

	inv, warnings, err := buildContainerPayload(p, rowOf(values))
	if err != nil {
		t.Fatalf("buildContainerPayload() error = %v", err)
	}
	if len(inv.PeriodicTankCertificates) != 0 {
		t.Errorf("certificates = %d, want 0 after bad date", len(inv.PeriodicTankCertificates))
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "certificate skipped") {
		t.Errorf("warnings = %v, want certificate skipped", warnings)
	}
}
