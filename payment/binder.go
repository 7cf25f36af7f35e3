// Package payment resolves payment provider ids into a closed set of kinds and
// binds a cart's pending session to the flow that confirms it.
package payment

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"toy-store/models"
)

var (
	ErrNoPendingSession = errors.New("no pending payment session")
	ErrUnsupported      = errors.New("unsupported payment provider")
)

const DefaultProviderID = "pp_system_default"

type Kind int

const (
	KindUnknown Kind = iota
	KindStripe
	KindPayU
	KindPayPal
	KindManual
)

func (k Kind) String() string {
	switch k {
	case KindStripe:
		return "stripe"
	case KindPayU:
		return "payu"
	case KindPayPal:
		return "paypal"
	case KindManual:
		return "manual"
	default:
		return "unknown"
	}
}

// Resolve maps a provider id to its kind. It is the only place provider ids
// are inspected.
func Resolve(providerID string) Kind {
	switch {
	case strings.HasPrefix(providerID, "pp_stripe"):
		return KindStripe
	case strings.HasPrefix(providerID, "pp_payu"):
		return KindPayU
	case strings.HasPrefix(providerID, "pp_paypal"):
		return KindPayPal
	case providerID == DefaultProviderID, strings.HasPrefix(providerID, "pp_manual"):
		return KindManual
	default:
		return KindUnknown
	}
}

type Flow int

const (
	FlowNone Flow = iota
	FlowRedirectForm
	FlowClientSecret
	FlowApproval
)

func (f Flow) String() string {
	switch f {
	case FlowRedirectForm:
		return "redirect_form"
	case FlowClientSecret:
		return "client_secret"
	case FlowApproval:
		return "approval"
	default:
		return "none"
	}
}

func (k Kind) Flow() Flow {
	switch k {
	case KindPayU:
		return FlowRedirectForm
	case KindStripe:
		return FlowClientSecret
	case KindPayPal:
		return FlowApproval
	default:
		return FlowNone
	}
}

type Binding struct {
	Session *models.PaymentSession
	Kind    Kind
	Flow    Flow
}

// Bind matches the cart's pending session to its confirmation flow.
func Bind(cart *models.Cart) (Binding, error) {
	if cart == nil || cart.PaymentSession == nil || cart.PaymentSession.Status != models.PaymentSessionPending {
		return Binding{}, ErrNoPendingSession
	}
	kind := Resolve(cart.PaymentSession.ProviderID)
	if kind == KindUnknown {
		return Binding{}, ErrUnsupported
	}
	return Binding{Session: cart.PaymentSession, Kind: kind, Flow: kind.Flow()}, nil
}

// NewSession starts a pending session for provider. PayU sessions carry the
// transaction id the gateway echoes back on callback.
func NewSession(cartID, providerID string, now time.Time) models.PaymentSession {
	session := models.PaymentSession{
		ID:         "ps_" + uuid.NewString(),
		CartID:     cartID,
		ProviderID: providerID,
		Status:     models.PaymentSessionPending,
		Data:       map[string]string{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if Resolve(providerID) == KindPayU {
		session.Data["txnid"] = NewTxnID()
	}
	return session
}

// NewTxnID returns a gateway transaction id of at most 25 characters.
func NewTxnID() string {
	return "TXN" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:20]
}

// Supersede replaces any pending session with next. Settled sessions are
// kept for history; at most one pending session remains.
func Supersede(sessions []models.PaymentSession, next models.PaymentSession) []models.PaymentSession {
	out := make([]models.PaymentSession, 0, len(sessions)+1)
	for _, s := range sessions {
		if s.Status == models.PaymentSessionPending {
			continue
		}
		out = append(out, s)
	}
	return append(out, next)
}

// Pending returns the single pending session, if any.
func Pending(sessions []models.PaymentSession) *models.PaymentSession {
	for i := range sessions {
		if sessions[i].Status == models.PaymentSessionPending {
			return &sessions[i]
		}
	}
	return nil
}
