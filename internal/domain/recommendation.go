package domain

// MaxResponses bounds the number of product ids returned per request.
const MaxResponses = 5

type RecommendationRequest struct {
	UserID     string   `json:"user_id"`
	ProductIDs []string `json:"product_ids"`
}

type RecommendationResponse struct {
	ProductIDs []string `json:"product_ids"`
}
