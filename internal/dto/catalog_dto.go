package dto

// Brands, categories, and locations share the same named-record shape.

type CreateNamedRecordRequest struct {
	Name        string  `json:"name"        validate:"required,min=1,max=150"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

type UpdateNamedRecordRequest struct {
	Name        string  `json:"name"        validate:"omitempty,min=1,max=150"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

type NamedRecordResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type CreateSupplierRequest struct {
	Name    string  `json:"name"    validate:"required,min=1,max=150"`
	Address *string `json:"address" validate:"omitempty,max=300"`
	Contact *string `json:"contact" validate:"omitempty,max=50"`
	Email   *string `json:"email"   validate:"omitempty,email"`
}

type UpdateSupplierRequest struct {
	Name    string  `json:"name"    validate:"omitempty,min=1,max=150"`
	Address *string `json:"address" validate:"omitempty,max=300"`
	Contact *string `json:"contact" validate:"omitempty,max=50"`
	Email   *string `json:"email"   validate:"omitempty,email"`
}

type SupplierResponse struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Address *string `json:"address"`
	Contact *string `json:"contact"`
	Email   *string `json:"email"`
}

type CreateCustomerRequest struct {
	Name      string  `json:"name"       validate:"required,min=1,max=150"`
	ContactNo string  `json:"contact_no" validate:"required,min=6,max=20"`
	Email     *string `json:"email"      validate:"omitempty,email"`
	Address   *string `json:"address"    validate:"omitempty,max=300"`
}

type UpdateCustomerRequest struct {
	Name      string  `json:"name"       validate:"omitempty,min=1,max=150"`
	ContactNo string  `json:"contact_no" validate:"omitempty,min=6,max=20"`
	Email     *string `json:"email"      validate:"omitempty,email"`
	Address   *string `json:"address"    validate:"omitempty,max=300"`
}

type CustomerResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	ContactNo string  `json:"contact_no"`
	Email     *string `json:"email"`
	Address   *string `json:"address"`
}
