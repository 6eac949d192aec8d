// Package reconcile maps a payment-gateway redirect back onto authoritative
// booking state. The gateway redirects the customer to a success, fail or
// cancel landing page carrying a transaction identifier and sometimes an
// explicit error code; the reconciler decides whether a verification read
// is needed at all, performs at most one, and resolves to a terminal
// outcome. It never mutates anything — settlement is webhook-driven on the
// server side — so replaying the same redirect is always safe.
package reconcile

import "context"

type State string

const (
	StateIdle      State = "idle"
	StateVerifying State = "verifying"
	StateSettled   State = "settled"
	StateNotFound  State = "not_found"
	StateCancelled State = "cancelled"
)

type Reason string

const (
	ReasonNone               Reason = ""
	ReasonNoTransactionID    Reason = "no_transaction_id"
	ReasonProcessingError    Reason = "processing_error"
	ReasonVerificationFailed Reason = "verification_failed"
	ReasonPaymentFailed      Reason = "payment_failed"
	ReasonCancelledByUser    Reason = "cancelled_by_user"
	ReasonGatewayTimeout     Reason = "gateway_timeout"
	ReasonInsufficientFunds  Reason = "insufficient_funds"
)

// gatewayMessages maps each known gateway error code to a distinct
// user-facing message. Unknown codes fall back to a generic one rather
// than leaking raw codes to the user.
var gatewayMessages = map[Reason]string{
	ReasonPaymentFailed:      "Your payment could not be completed. No money has been taken.",
	ReasonVerificationFailed: "We could not verify your payment. Please contact support if you were charged.",
	ReasonCancelledByUser:    "You cancelled the payment before it was completed.",
	ReasonGatewayTimeout:     "The payment provider took too long to respond. Please try again.",
	ReasonInsufficientFunds:  "Your payment was declined due to insufficient funds.",
}

const genericFailureMessage = "Something went wrong while processing your payment. Please try again."

// RedirectParams is what the landing page extracts from the redirect URL.
// Context fields are display-only and never authoritative.
type RedirectParams struct {
	TransactionID string
	GatewayError  string
	Cancelled     bool

	ApplicationID string
	Country       string
	VisaType      string
	Amount        string
}

// Verification is the backend's answer to a transaction lookup.
type Verification struct {
	Success bool
	Message string
	Booking any
}

// Verifier performs the read-only transaction lookup. Implementations talk
// to the booking or visa-booking service; the reconciler does not care
// which.
type Verifier interface {
	VerifyTransaction(ctx context.Context, transactionID string) (*Verification, error)
}

// Outcome is the terminal result of one reconcile pass.
type Outcome struct {
	State   State
	Success bool
	Reason  Reason
	Message string
	Booking any
	// Detail carries raw transport diagnostics. It is never shown to the
	// user verbatim.
	Detail string
}

type Reconciler struct {
	verifier Verifier
	state    State
}

func New(verifier Verifier) *Reconciler {
	return &Reconciler{verifier: verifier, state: StateIdle}
}

// State exposes the machine's current position, mainly for tests and
// diagnostics.
func (r *Reconciler) State() State { return r.state }

// Reconcile resolves one redirect to a terminal outcome. At most one
// verification fetch is issued, and none at all when the redirect already
// carries the answer: an explicit gateway error code, a cancellation, or a
// missing transaction ID.
func (r *Reconciler) Reconcile(ctx context.Context, params RedirectParams) Outcome {
	if params.Cancelled {
		r.state = StateCancelled
		return Outcome{
			State:   StateCancelled,
			Reason:  ReasonCancelledByUser,
			Message: gatewayMessages[ReasonCancelledByUser],
		}
	}

	// The gateway already told us the result; a verification fetch would
	// add nothing.
	if params.GatewayError != "" {
		r.state = StateSettled
		reason := Reason(params.GatewayError)
		msg, known := gatewayMessages[reason]
		if !known {
			reason = ReasonVerificationFailed
			msg = genericFailureMessage
		}
		return Outcome{State: StateSettled, Reason: reason, Message: msg}
	}

	if params.TransactionID == "" {
		r.state = StateNotFound
		return Outcome{
			State:   StateNotFound,
			Reason:  ReasonNoTransactionID,
			Message: "No transaction reference was found. If you completed a payment, please contact support.",
		}
	}

	r.state = StateVerifying
	result, err := r.verifier.VerifyTransaction(ctx, params.TransactionID)
	r.state = StateSettled
	if err != nil {
		return Outcome{
			State:   StateSettled,
			Reason:  ReasonProcessingError,
			Message: genericFailureMessage,
			Detail:  err.Error(),
		}
	}
	if !result.Success {
		msg := result.Message
		if msg == "" {
			msg = gatewayMessages[ReasonVerificationFailed]
		}
		return Outcome{State: StateSettled, Reason: ReasonVerificationFailed, Message: msg}
	}
	return Outcome{State: StateSettled, Success: true, Booking: result.Booking}
}

// ParseRedirect builds RedirectParams from raw query values, accepting both
// transaction key spellings used by the gateway.
func ParseRedirect(query map[string]string, cancelled bool) RedirectParams {
	tranID := query["tran_id"]
	if tranID == "" {
		tranID = query["transactionId"]
	}
	return RedirectParams{
		TransactionID: tranID,
		GatewayError:  query["error"],
		Cancelled:     cancelled,
		ApplicationID: query["applicationId"],
		Country:       query["country"],
		VisaType:      query["visaType"],
		Amount:        query["amount"],
	}
}
