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
		Key:   CategoryContainers,
		Label: "Containers",
		Headers: []string{
			"ID", "Container Number", "Container Category", "Container Type",
			"Container Size", "Container Class", "Capacity", "Manufacturer",
			"Build Year", "Gross Wt", "Tare Wt", "Ownership", "LEASE REF",
			"LEASE RENTAL", "OWNERSHIP", "On-Hire Date", "Onhire Location",
			"On Hire DEPOT", "OWNER", "Off-Hire Date", "Lease Rent Per Day",
			"remarks", "Last Inspection Date", "Inspection Type",
			"Next Inspection Due", "Certificate", "Report Date",
			"Report Document",
		},
		Required: []string{
			"Container Number", "Container Category", "Container Type",
			"Container Class",
		},
		NeedsPorts:       true,
		NeedsAddressBook: true,
		Skip: func(row Row) (string, bool) {
			if !row.Has("Container Number") {
				return "empty container number", true
			}
			return "", false
		},
		Describe: func(row Row) string { return row.Get("Container Number") },
		Validate: validateContainerRow,
		Submit:   submitContainerRow,
	})
}

func validateContainerRow(row Row) error {
	for _, field := range []string{"Container Number", "Container Category", "Container Type", "Container Class", "Ownership"} {
		if !row.Has(field) {
			return fmt.Errorf("missing required field: %s", field)
		}
	}

	number := row.Get("Container Number")
	if len(number) < 3 {
		return fmt.Errorf("invalid container number %q, must be at least 3 characters", number)
	}

	switch row.Get("Container Category") {
	case "Tank", "Dry", "Refrigerated":
	default:
		return fmt.Errorf("invalid container category %q, must be Tank, Dry or Refrigerated", row.Get("Container Category"))
	}

	ownership := strings.ToUpper(row.Get("Ownership"))
	switch ownership {
	case "OWN", "OWNED", "LEASED", "LEASE":
	default:
		return fmt.Errorf("invalid ownership %q, must be OWN, OWNED, LEASED or LEASE", row.Get("Ownership"))
	}

	if (ownership == "LEASED" || ownership == "LEASE") && !row.Has("OWNER") {
		return fmt.Errorf("OWNER is required for leased container %s", number)
	}
	return nil
}

func isOwned(row Row) bool {
	o := strings.ToUpper(row.Get("Ownership"))
	return o == "OWN" || o == "OWNED"
}

// buildContainerPayload assembles the inventory create body, branching on
// ownership. Owned containers carry their location at the container level
// and degrade to the configured fallback ids when a lookup misses, each miss
// recorded as a warning. Leased containers carry location only inside the
// leasing record and every reference must resolve or the row fails.
func buildContainerPayload(p *Pipeline, row Row) (backend.InventoryCreate, []string, error) {
	number := row.Get("Container Number")

	inv := backend.InventoryCreate{
		ContainerCategory: row.Get("Container Category"),
		Status:            "Active",
		ContainerNumber:   number,
		ContainerType:     row.Get("Container Type"),
		ContainerSize:     row.Get("Container Size"),
		ContainerClass:    row.Get("Container Class"),
		ContainerCapacity: row.Get("Capacity"),
		CapacityUnit:      "L",
		Manufacturer:      row.Get("Manufacturer"),
		BuildYear:         row.Get("Build Year"),
		GrossWeight:       row.Get("Gross Wt"),
		TareWeight:        row.Get("Tare Wt"),

		LeasingInfo:              []backend.LeasingInfo{},
		PeriodicTankCertificates: []backend.TankCertificate{},
		OnHireReport:             []backend.OnHireReport{},
	}
	if inv.ContainerSize == "" {
		inv.ContainerSize = "20TK"
	}

	onHireDate := p.Now()
	if t, ok := ParseDate(row.Get("On-Hire Date")); ok {
		onHireDate = t
	}
	inv.InitialSurveyDate = ISODate(onHireDate)

	var warnings []string

	if isOwned(row) {
		inv.Ownership = "Own"

		portID := p.Defaults.PortID
		if port, ok := p.Refs.Port(row.Get("Onhire Location")); ok {
			portID = port.ID
		} else {
			warnings = append(warnings, fmt.Sprintf(
				"port not found for Onhire Location %q, using default port id %d",
				row.Get("Onhire Location"), p.Defaults.PortID))
		}

		depotID := p.Defaults.DepotID
		if depot, ok := p.Refs.Company(row.Get("On Hire DEPOT")); ok {
			depotID = depot.ID
		} else {
			warnings = append(warnings, fmt.Sprintf(
				"depot not found for On Hire DEPOT %q, using default depot id %d",
				row.Get("On Hire DEPOT"), p.Defaults.DepotID))
		}

		inv.PortID = &portID
		inv.OnHireDepotAddressBookID = &depotID

		// The depot stands in as lessor for owned equipment.
		inv.LeasingInfo = append(inv.LeasingInfo, backend.LeasingInfo{
			OwnershipType:            "Own",
			LeasingRefNo:             "OWN-" + number,
			LeasorAddressBookID:      depotID,
			OnHireDepotAddressBookID: depotID,
			PortID:                   portID,
			OnHireDate:               ISODate(onHireDate),
			OffHireDate:              nil,
			LeaseRentPerDay:          "",
			Remarks:                  row.Get("remarks"),
		})
	} else {
		inv.Ownership = "Leased"

		leasor, leasorOK := p.Refs.Company(row.Get("OWNER"))
		if !leasorOK {
			warnings = append(warnings, fmt.Sprintf("leasor not found for OWNER %q", row.Get("OWNER")))
		}
		port, portOK := p.Refs.Port(row.Get("Onhire Location"))
		if !portOK {
			warnings = append(warnings, fmt.Sprintf("port not found for Onhire Location %q", row.Get("Onhire Location")))
		}
		depot, depotOK := p.Refs.Company(row.Get("On Hire DEPOT"))
		if !depotOK {
			warnings = append(warnings, fmt.Sprintf("depot not found for On Hire DEPOT %q", row.Get("On Hire DEPOT")))
		}
		if !leasorOK || !portOK || !depotOK {
			return backend.InventoryCreate{}, warnings,
				errors.New("leased container skipped due to missing references")
		}

		var offHire *string
		if raw := row.Get("Off-Hire Date"); raw != "" {
			if t, ok := ParseDayFirstDate(raw); ok {
				s := ISODate(t)
				offHire = &s
			} else {
				warnings = append(warnings, fmt.Sprintf("unparseable Off-Hire Date %q ignored", raw))
			}
		}

		refNo := row.Get("LEASE REF")
		if refNo == "" {
			refNo = "LEASE-" + number
		}
		rent := row.Get("Lease Rent Per Day")
		if rent == "" {
			rent = row.Get("LEASE RENTAL")
		}
		if rent == "" {
			rent = "0"
		}

		inv.LeasingInfo = append(inv.LeasingInfo, backend.LeasingInfo{
			OwnershipType:            "Leased",
			LeasingRefNo:             refNo,
			LeasorAddressBookID:      leasor.ID,
			OnHireDepotAddressBookID: depot.ID,
			PortID:                   port.ID,
			OnHireDate:               ISODate(onHireDate),
			OffHireDate:              offHire,
			LeaseRentPerDay:          rent,
			Remarks:                  row.Get("remarks"),
		})
	}

	// Optional children. A bad date skips the child with a warning, never
	// the row.
	if row.Has("Last Inspection Date") && row.Has("Inspection Type") {
		if inspected, ok := ParseDate(row.Get("Last Inspection Date")); ok {
			nextDue := p.Now()
			if t, ok := ParseDate(row.Get("Next Inspection Due")); ok {
				nextDue = t
			}
			inv.PeriodicTankCertificates = append(inv.PeriodicTankCertificates, backend.TankCertificate{
				InspectionDate: ISODate(inspected),
				InspectionType: row.Get("Inspection Type"),
				NextDueDate:    ISODate(nextDue),
				Certificate:    row.Get("Certificate"),
			})
		} else {
			warnings = append(warnings, fmt.Sprintf(
				"unparseable Last Inspection Date %q, certificate skipped", row.Get("Last Inspection Date")))
		}
	}

	if row.Has("Report Date") {
		if reported, ok := ParseDate(row.Get("Report Date")); ok {
			inv.OnHireReport = append(inv.OnHireReport, backend.OnHireReport{
				ReportDate:     ISODate(reported),
				ReportDocument: row.Get("Report Document"),
			})
		} else {
			warnings = append(warnings, fmt.Sprintf(
				"unparseable Report Date %q, report skipped", row.Get("Report Date")))
		}
	}

	return inv, warnings, nil
}

// submitContainerRow creates the inventory record and, for owned containers,
// the standalone leasing record tied to it. The second call has no rollback:
// when it fails the inventory record already exists, so the error names it.
func submitContainerRow(ctx context.Context, p *Pipeline, row Row) ([]string, error) {
	inv, warnings, err := buildContainerPayload(p, row)
	if err != nil {
		return warnings, err
	}

	created, err := p.Backend.CreateInventory(ctx, inv)
	if err != nil {
		return warnings, err
	}

	if inv.Ownership == "Own" {
		rec := inv.LeasingInfo[0]
		rec.InventoryID = &created.ID
		if _, err := p.Backend.CreateLeasingInfo(ctx, rec); err != nil {
			return warnings, fmt.Errorf(
				"inventory record %d was created but its leasing record failed: %w", created.ID, err)
		}
	}
	return warnings, nil
}
