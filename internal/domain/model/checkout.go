package model

// SessionIDPlaceholder is the literal token embedded in the success URL;
// the checkout provider substitutes the real session identifier at
// redirect time.
const SessionIDPlaceholder = "{CHECKOUT_SESSION_ID}"

// CheckoutSession is the provider-side record of a single payment attempt.
// It exists only between session creation and the top-level redirect; the
// client never persists it.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CheckoutItem is one line item sent to the provider when minting a session.
type CheckoutItem struct {
	ProductName        string `json:"productName"`
	ProductDescription string `json:"productDescription"`
	Quantity           int64  `json:"quantity"`
	PriceMinorUnits    int64  `json:"priceInCents"`
	Currency           string `json:"currency"` // lowercase ISO code
}

// CallbackParams carries the identifiers extracted from the return URL
// after checkout. Valid only for the single page load that received them.
type CallbackParams struct {
	SessionID string
	PlanID    int64
}

// CreditingState is the coordinator's observable state. A fresh coordinator
// instance always starts at Idle; no state survives the instance.
type CreditingState string

const (
	CreditingIdle       CreditingState = "idle"       // no callback params; shown as "invalid link"
	CreditingProcessing CreditingState = "processing" // credit request in flight
	CreditingCredited   CreditingState = "credited"
	CreditingFailed     CreditingState = "failed"
)
