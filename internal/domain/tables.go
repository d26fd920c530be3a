package domain

var Tables = []interface{}{
	// System
	&SysOpr{},
	&SysOprLog{},
	// Catalog
	&Product{},
	&ShippingZone{},
	// Orders
	&Order{},
	&OrderItem{},
}
