package payment

import (
	"math"
	"strings"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
)

// MidtransProvider implements Provider on top of Midtrans Snap (session
// creation) and the Core API (status retrieval).
type MidtransProvider struct {
	snap snap.Client
	core coreapi.Client
}

// NewMidtransProvider builds a provider with the given server key.
func NewMidtransProvider(serverKey string, production bool) *MidtransProvider {
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}
	p := &MidtransProvider{}
	p.snap.New(serverKey, env)
	p.core.New(serverKey, env)
	return p
}

// CreateSession opens a Snap transaction. The caller-supplied SessionID is
// used as the provider order id, so the session can later be retrieved with
// the same identifier.
func (p *MidtransProvider) CreateSession(params CreateSessionParams) (*Session, error) {
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  params.SessionID,
			GrossAmt: minorUnits(params.Amount),
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    params.CourseID,
				Name:  truncate(params.CourseName, 50),
				Price: minorUnits(params.Amount),
				Qty:   1,
			},
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: params.StudentName,
			Email: params.Email,
		},
		Callbacks: &snap.Callbacks{
			Finish: params.SuccessURL,
		},
		CustomField1: truncate(params.BookingID, 40),
	}

	resp, mErr := p.snap.CreateTransaction(req)
	if mErr != nil {
		return nil, mErr
	}

	return &Session{
		ID:            params.SessionID,
		URL:           resp.RedirectURL,
		PaymentStatus: StatusUnpaid,
		Metadata:      metadataFromSessionID(params.SessionID),
	}, nil
}

// RetrieveSession checks the transaction status for a session id previously
// handed to CreateSession.
func (p *MidtransProvider) RetrieveSession(sessionID string) (*Session, error) {
	resp, mErr := p.core.CheckTransaction(sessionID)
	if mErr != nil {
		if mErr.StatusCode == 404 {
			return nil, nil
		}
		return nil, mErr
	}

	return &Session{
		ID:            sessionID,
		PaymentRef:    resp.TransactionID,
		PaymentStatus: mapTransactionStatus(resp.TransactionStatus),
		Metadata:      metadataFromSessionID(sessionID),
	}, nil
}

// mapTransactionStatus folds the provider's transaction states into the two
// the booking flow cares about.
func mapTransactionStatus(status string) string {
	switch strings.ToLower(status) {
	case "settlement", "capture":
		return StatusPaid
	default:
		return StatusUnpaid
	}
}

// metadataFromSessionID recovers the booking id from a `<bookingID>.<nonce>`
// session id. The status API does not echo custom fields back, so the
// linkage rides in the order id itself.
func metadataFromSessionID(sessionID string) map[string]string {
	bookingID, _, found := strings.Cut(sessionID, ".")
	if !found {
		return map[string]string{}
	}
	return map[string]string{"bookingId": bookingID}
}

func minorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}
