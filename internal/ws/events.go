package ws

// Event kinds pushed to dashboards. Consumers must tolerate duplicate
// or out-of-order delivery and re-read state from the API.
const (
	EventTransaction    = "transaction"
	EventReferral       = "referral"
	EventPaymentRequest = "payment_request"
	EventBalance        = "balance"
	EventNotification   = "notification"
)

// Event is one push update. UserID addresses the owning user's
// dashboard; admin subscribers receive every event regardless of owner.
type Event struct {
	Type    string `json:"type"`
	UserID  int64  `json:"user_id"`
	Payload any    `json:"payload,omitempty"`
}
