package domain

var Tables = []interface{}{
	// System
	&SysConfig{},
	&AuditLog{},
	// Storefront
	&User{},
	&Product{},
	&Order{},
}
