package request

// CustomerRequest represents a customer create or update request
type CustomerRequest struct {
	Name  string `json:"name" binding:"required,min=2,max=255"`
	Phone string `json:"phone" binding:"max=50"`
}

// LocationRequest represents a delivery location create or update request
type LocationRequest struct {
	Name    string `json:"name" binding:"required,min=2,max=255"`
	Address string `json:"address" binding:"max=500"`
	Phone   string `json:"phone" binding:"max=50"`
	Kind    string `json:"kind" binding:"omitempty,oneof=home office store other"`
}

// ListRequest represents the common search and page parameters
type ListRequest struct {
	Search  string `form:"search"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}
