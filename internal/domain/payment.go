package domain

// CheckoutSession is a hosted subscription checkout page.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// PaymentEvent is a verified webhook event. CheckoutSessionID and
// CustomerEmail are set only for checkout events.
type PaymentEvent struct {
	ID                string
	Type              string
	CheckoutSessionID string
	CustomerEmail     string
}
