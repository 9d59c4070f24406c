package domain

import "time"

// CompanyType distinguishes the kinds of tenants on the platform.
type CompanyType string

const (
	CompanyTypeBroker  CompanyType = "BROKER"
	CompanyTypeCarrier CompanyType = "CARRIER"
	CompanyTypeShipper CompanyType = "SHIPPER"
)

// Company is the tenant a user belongs to. Its identity flows into token
// claims so downstream services can scope queries without another lookup.
type Company struct {
	ID        string
	Name      string
	Type      CompanyType
	CreatedAt time.Time
	UpdatedAt time.Time
}
