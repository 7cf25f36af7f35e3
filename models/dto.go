package models

type RegisterRequest struct {
	Email     string `json:"email" form:"email" binding:"required,email"`
	Password  string `json:"password" form:"password" binding:"required,min=6"`
	FirstName string `json:"first_name" form:"first_name" binding:"required"`
	LastName  string `json:"last_name" form:"last_name"`
	Phone     string `json:"phone" form:"phone" binding:"omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

type CreateCartRequest struct {
	RegionID string `json:"region_id"`
}

type AddLineItemRequest struct {
	VariantID string `json:"variant_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1,max=99"`
}

type UpdateLineItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1,max=99"`
}

type UpdateCartRequest struct {
	Email           string   `json:"email" binding:"omitempty,email"`
	ShippingAddress *Address `json:"shipping_address"`
}

type SelectShippingRequest struct {
	OptionID string `json:"option_id" binding:"required"`
}

type SelectPaymentProviderRequest struct {
	ProviderID string `json:"provider_id" binding:"required"`
}

type ApplyCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

type RevalidateRequest struct {
	Tags  []string `json:"tags"`
	Paths []string `json:"paths"`
}
