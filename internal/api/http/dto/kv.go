package dto

// Pointers let an empty string through while still rejecting a missing field.
type WriteRequest struct {
	Key   *string `json:"key" binding:"required"`
	Value *string `json:"value" binding:"required"`
}

type WriteResponse struct {
	Message string `json:"message"`
}

type ReadResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
