// Copyright (c) 2026 Bahari. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// UserRole represents the kind of account using the storefront.
type UserRole string

const (
	// Buys seafood through the storefront
	RoleCustomer UserRole = "customer"

	// Lists catch and manages their own stock
	RoleSeller UserRole = "seller"

	// Picks up and delivers orders
	RoleTransporter UserRole = "transporter"
)

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleCustomer, RoleSeller, RoleTransporter:
		return true
	default:
		return false
	}
}

// # Role Dashboards

// Dashboard returns the landing route for the role.
// Unknown roles land on the customer storefront.
func (r UserRole) Dashboard() string {
	switch r {
	case RoleSeller:
		return "/seller/dashboard"
	case RoleTransporter:
		return "/transporter/dashboard"
	default:
		return "/"
	}
}
