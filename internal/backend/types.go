package backend

// Reference collections returned by the remote service. Identifiers are
// integers throughout; only the fields the import pipeline consumes are
// decoded, unknown fields are ignored.

// Country is one entry of the country reference collection.
type Country struct {
	ID          int    `json:"id"`
	CountryName string `json:"countryName"`
	CountryCode string `json:"countryCode"`
	CurrencyID  int    `json:"currencyId"`
}

// Port is one entry of the ports collection.
type Port struct {
	ID       int    `json:"id"`
	PortName string `json:"portName"`
	PortCode string `json:"portCode"`
	PortType string `json:"portType"`
}

// AddressBookEntry is one company of the address book collection.
type AddressBookEntry struct {
	ID           int    `json:"id"`
	CompanyName  string `json:"companyName"`
	BusinessType string `json:"businessType"`
}

// Product is one entry of the products collection.
type Product struct {
	ID          int    `json:"id"`
	ProductName string `json:"productName"`
}

// CompanyCreate is the request body for creating an address book entry.
// The scaffolding fields (RefID and the empty child collections) must be
// present in the JSON even when empty; the endpoint rejects bodies without
// them.
type CompanyCreate struct {
	RefID         string `json:"refId"`
	BankDetails   []any  `json:"bankDetails"`
	BusinessPorts []any  `json:"businessPorts"`
	Contacts      []any  `json:"contacts"`

	CompanyName  string `json:"companyName"`
	BusinessType string `json:"businessType,omitempty"`
	Address      string `json:"address,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty"`
	Website      string `json:"website,omitempty"`
	CreditTerms  string `json:"creditTerms,omitempty"`
	CreditLimit  string `json:"creditLimit"`
	Remarks      string `json:"remarks,omitempty"`
	Status       string `json:"status"`
	CountryID    int    `json:"countryId"`
}

// PortCreate is the request body for creating a port.
type PortCreate struct {
	Status       string `json:"status"`
	PortCode     string `json:"portCode"`
	PortName     string `json:"portName"`
	PortLongName string `json:"portLongName"`
	PortType     string `json:"portType"`
	CountryID    int    `json:"countryId"`
	CurrencyID   int    `json:"currencyId"`
	ParentPortID *int   `json:"parentPortId,omitempty"`
}

// LeasingInfo is a leasing record, either embedded in an inventory create or
// posted standalone with InventoryID set.
type LeasingInfo struct {
	OwnershipType            string  `json:"ownershipType"`
	LeasingRefNo             string  `json:"leasingRefNo"`
	LeasorAddressBookID      int     `json:"leasoraddressbookId"`
	OnHireDepotAddressBookID int     `json:"onHireDepotaddressbookId"`
	PortID                   int     `json:"portId"`
	OnHireDate               string  `json:"onHireDate"`
	OffHireDate              *string `json:"offHireDate"`
	LeaseRentPerDay          string  `json:"leaseRentPerDay"`
	Remarks                  string  `json:"remarks"`
	InventoryID              *int    `json:"inventoryId,omitempty"`
}

// TankCertificate is a periodic inspection certificate attached to an
// inventory create.
type TankCertificate struct {
	InspectionDate string `json:"inspectionDate"`
	InspectionType string `json:"inspectionType"`
	NextDueDate    string `json:"nextDueDate"`
	Certificate    string `json:"certificate"`
}

// OnHireReport is an on-hire survey report attached to an inventory create.
type OnHireReport struct {
	ReportDate     string `json:"reportDate"`
	ReportDocument string `json:"reportDocument"`
}

// InventoryCreate is the request body for creating a container inventory
// record. PortID and OnHireDepotAddressBookID are only set for owned
// containers; leased containers carry their location in LeasingInfo alone.
type InventoryCreate struct {
	ContainerCategory string `json:"containerCategory"`
	Status            string `json:"status"`
	ContainerNumber   string `json:"containerNumber"`
	ContainerType     string `json:"containerType"`
	ContainerSize     string `json:"containerSize"`
	ContainerClass    string `json:"containerClass"`
	ContainerCapacity string `json:"containerCapacity"`
	CapacityUnit      string `json:"capacityUnit"`
	Manufacturer      string `json:"manufacturer"`
	BuildYear         string `json:"buildYear"`
	GrossWeight       string `json:"grossWeight"`
	TareWeight        string `json:"tareWeight"`
	InitialSurveyDate string `json:"InitialSurveyDate"`
	Ownership         string `json:"ownership"`

	PortID                   *int `json:"portId,omitempty"`
	OnHireDepotAddressBookID *int `json:"onHireDepotaddressbookId,omitempty"`

	LeasingInfo              []LeasingInfo     `json:"leasingInfo"`
	PeriodicTankCertificates []TankCertificate `json:"periodicTankCertificates"`
	OnHireReport             []OnHireReport    `json:"onHireReport"`
}

// Created is the minimal response shape of the create endpoints.
type Created struct {
	ID int `json:"id"`
}
