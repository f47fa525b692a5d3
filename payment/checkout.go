// Package payment wraps the hosted-checkout provider behind a small
// interface so handlers never touch SDK types and tests can stub the
// provider out.
package payment

// Session statuses as reported by the provider.
const (
	StatusPaid   = "paid"
	StatusUnpaid = "unpaid"
)

// Session is one checkout attempt at the provider, linked back to a booking
// through its metadata.
type Session struct {
	ID            string
	URL           string // hosted checkout page the client is redirected to
	PaymentRef    string // provider-side payment/transaction identifier
	PaymentStatus string
	Metadata      map[string]string
}

// CreateSessionParams carries everything the provider needs for one
// checkout session. Amount is in major currency units.
type CreateSessionParams struct {
	SessionID   string
	BookingID   string
	CourseID    string
	UserID      string
	StudentName string
	CourseName  string
	Email       string
	Amount      float64
	SuccessURL  string
	CancelURL   string
}

// Provider is the payment collaborator. It is the source of truth for
// payment completion.
type Provider interface {
	CreateSession(params CreateSessionParams) (*Session, error)
	// RetrieveSession returns (nil, nil) when the provider has no session
	// with the given id.
	RetrieveSession(sessionID string) (*Session, error)
}
