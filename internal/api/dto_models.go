package api

// ErrorResponse is a generic structure for returning errors via API.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse is a generic structure for simple success messages.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// SessionURLResponse carries a Stripe redirect URL (checkout or portal).
type SessionURLResponse struct {
	URL string `json:"url"`
}

// PaymentIntentResponse returns what the browser needs to confirm a payment.
type PaymentIntentResponse struct {
	PaymentIntentID string `json:"paymentIntentId"`
	ClientSecret    string `json:"clientSecret"`
	Status          string `json:"status"`
}

// PlaceDetailsResponse is the shape returned by the place lookup proxy.
type PlaceDetailsResponse struct {
	PlaceID          string  `json:"placeId"`
	Name             string  `json:"name"`
	FormattedAddress string  `json:"formattedAddress"`
	Rating           float64 `json:"rating"`
	ReviewURL        string  `json:"reviewUrl"`
}
