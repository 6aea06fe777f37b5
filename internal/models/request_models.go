package models

// CreateReviewRequestRequest is the request body for creating a review
// request. Both the dashboard and the public landing flow bind this same
// struct and go through NewReviewRequest.
type CreateReviewRequestRequest struct {
	BusinessName  string `json:"businessName" binding:"required"`
	CustomerName  string `json:"customerName,omitempty"`
	CustomerEmail string `json:"customerEmail,omitempty"`
}

// CreateCheckoutSessionRequest is the request body for starting a Stripe
// Checkout session.
type CreateCheckoutSessionRequest struct {
	PriceID string `json:"priceId" binding:"required"`
}

// CreatePaymentIntentRequest is the request body for creating a payment
// intent tied to a review request.
type CreatePaymentIntentRequest struct {
	RequestID    string `json:"requestId" binding:"required"`
	Amount       int64  `json:"amount" binding:"required"` // smallest currency unit
	Currency     string `json:"currency,omitempty"`        // defaults to "usd"
	ReceiptEmail string `json:"receiptEmail,omitempty"`
}

// SendReviewLinkRequest is the request body for dispatching a review link
// directly (the same flow the payment webhook triggers automatically).
type SendReviewLinkRequest struct {
	RequestID    string `json:"requestId" binding:"required"`
	BusinessName string `json:"businessName" binding:"required"`
	Recipient    string `json:"recipient" binding:"required,email"`
}

// SetUserStatusRequest is the admin request body for overwriting a user's
// subscription status.
type SetUserStatusRequest struct {
	UserID string `json:"userId" binding:"required"`
	Status string `json:"status" binding:"required"`
}

// SendWelcomeEmailRequest is the request body for sending the welcome email.
type SendWelcomeEmailRequest struct {
	Recipient string `json:"recipient" binding:"required,email"`
	Name      string `json:"name,omitempty"`
}
