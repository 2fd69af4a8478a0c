// Copyright (c) 2026 Bahari. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sandbox

import (
	"github.com/taibuivan/bahari/internal/market"
	"github.com/taibuivan/bahari/internal/platform/sec"
)

// Demo accounts created by [Seed].
const (
	DemoSellerPhone      = "+255754000001"
	DemoCustomerPhone    = "+255700000000"
	DemoTransporterPhone = "+255765000002"
)

// Seed fills the repository with demo accounts and a small catalogue.
func Seed(repository *Repository) error {
	seller, err := repository.CreateUser(market.RegisterInput{FullName: "Mwambao Fisheries", PhoneNumber: DemoSellerPhone, Role: sec.RoleSeller})
	if err != nil {
		return err
	}
	if _, err := repository.CreateUser(market.RegisterInput{FullName: "Asha Mwita", PhoneNumber: DemoCustomerPhone, Role: sec.RoleCustomer}); err != nil {
		return err
	}
	if _, err := repository.CreateUser(market.RegisterInput{FullName: "Pwani Cold Chain", PhoneNumber: DemoTransporterPhone, Role: sec.RoleTransporter}); err != nil {
		return err
	}

	catalogue := []market.Product{
		{Name: "Fresh Tilapia", Description: "Lake Victoria tilapia, gutted and scaled", Category: "fish", Price: 12000, Unit: "kg", Stock: 40},
		{Name: "Tiger Prawns", Description: "Rufiji delta prawns, head on", Category: "shellfish", Price: 35000, Unit: "kg", Stock: 15},
		{Name: "Octopus", Description: "Zanzibar octopus, tenderised", Category: "cephalopod", Price: 18500, Unit: "kg", Stock: 10},
		{Name: "Dagaa", Description: "Sun-dried silver cyprinid", Category: "dried", Price: 6000, Unit: "kg", Stock: 120},
		{Name: "Kingfish Steaks", Description: "Nguru steaks, 2 cm cut", Category: "fish", Price: 22000, Unit: "kg", Stock: 25},
	}

	for _, product := range catalogue {
		product.SellerID = seller.ID
		repository.AddProduct(product)
	}
	return nil
}
