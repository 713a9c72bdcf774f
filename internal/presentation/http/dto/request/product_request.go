package request

// CreateProductRequest represents a product creation request
type CreateProductRequest struct {
	Name string `json:"name" binding:"max=255"`
}
