/* errors.go
 * Contains the errors shared by the ledger and messenger clients
 */

package external

import "errors"

var (
	// ErrUserRejected is returned when the signer declines to sign a transaction
	ErrUserRejected = errors.New("user rejected the request")
	// ErrNotConfigured is returned by a client built without the settings it needs to reach its backend
	ErrNotConfigured = errors.New("client not configured")
)
