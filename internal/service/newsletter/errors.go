package newsletter

import "errors"

var (
	// ErrAlreadySubscribed means the email already has an active
	// subscription.
	ErrAlreadySubscribed = errors.New("email is already subscribed")

	// ErrInvalidToken means the unsubscribe token matches no active
	// subscription. Tokens rotate on every status change, so stale
	// links land here too.
	ErrInvalidToken = errors.New("invalid or expired unsubscribe token")
)
