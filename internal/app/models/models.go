package models

import "strings"

// RoleType defines the staff role carried in tokens
type RoleType string

const (
	RoleAdmin      RoleType = "admin"
	RoleSecretary  RoleType = "secretary"
	RoleAccountant RoleType = "accountant"
)

// Valid reports whether r is a known role
func (r RoleType) Valid() bool {
	switch r {
	case RoleAdmin, RoleSecretary, RoleAccountant:
		return true
	}
	return false
}

// Sex of a student
type Sex string

const (
	SexMale   Sex = "M"
	SexFemale Sex = "F"
)

// Valid reports whether s is M or F
func (s Sex) Valid() bool {
	return s == SexMale || s == SexFemale
}

// PaymentType distinguishes enrollment and re-enrollment payments
type PaymentType string

const (
	PaymentTypeEnrollment   PaymentType = "enrollment"
	PaymentTypeReenrollment PaymentType = "reenrollment"
)

// PaymentStatus is the settlement state of a payment
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusComplete  PaymentStatus = "complete"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

// ServiceType identifies an optional school service
type ServiceType string

const (
	ServiceTransport   ServiceType = "transport"
	ServiceCafeteria   ServiceType = "cafeteria"
	ServiceMartialArts ServiceType = "martial_arts"
	ServiceSupplies    ServiceType = "supplies"
)

// AllServiceTypes lists the service types in display order
var AllServiceTypes = []ServiceType{ServiceTransport, ServiceCafeteria, ServiceMartialArts, ServiceSupplies}

// serviceAliases maps accepted spellings, including the legacy French form values
var serviceAliases = map[string]ServiceType{
	"transport":    ServiceTransport,
	"cafeteria":    ServiceCafeteria,
	"cantine":      ServiceCafeteria,
	"martial_arts": ServiceMartialArts,
	"martial-arts": ServiceMartialArts,
	"taekwondo":    ServiceMartialArts,
	"supplies":     ServiceSupplies,
	"fournitures":  ServiceSupplies,
}

// ParseServiceType normalizes a submitted service name
func ParseServiceType(s string) (ServiceType, bool) {
	st, ok := serviceAliases[strings.ToLower(strings.TrimSpace(s))]
	return st, ok
}

// ServiceStatus is the lifecycle state of a service subscription
type ServiceStatus string

const (
	ServiceStatusActive    ServiceStatus = "active"
	ServiceStatusSuspended ServiceStatus = "suspended"
	ServiceStatusEnded     ServiceStatus = "ended"
)
