/* messages.go
 * Contains the mapping from errors raised while recording or sending a result to the message shown to the user
 */

package logic

import (
	"context"
	"errors"
	"strings"

	"l2match/api/external"
)

var (
	// ErrWalletNotConnected is returned when an action needs the user's wallet address and none was given
	ErrWalletNotConnected = errors.New("wallet not connected")
	// ErrUnavailable is returned when the collaborator for an action is not configured
	ErrUnavailable = errors.New("collaborator not configured")
	// ErrUnexpected wraps panics recovered from collaborator calls
	ErrUnexpected = errors.New("unexpected error")
)

const (
	MsgNoResultToSave     = "Result is not available to save."
	MsgNoResultToSend     = "Result is not available to send."
	MsgWalletNotConnected = "Wallet not connected. Connect your wallet and try again."
	MsgTxCancelled        = "Transaction was cancelled. Please try again."
	MsgRecordUnavailable  = "Saving results onchain is not available right now."
	MsgRecordTimeout      = "Saving the result timed out. Please try again."
	MsgRecordUnexpected   = "An unexpected error occurred while saving the result."
	MsgInvalidAddress     = "Please enter a valid Ethereum address."
	MsgSelfSend           = "Cannot send to your own address. Please enter a different address."
	MsgSendUnavailable    = "Sending results is not available right now."
	MsgSendTimeout        = "Sending the result timed out. Please try again."
	MsgSendUnexpected     = "An unexpected error occurred while sending the result."
	MsgSendSucceeded      = "Result sent successfully!"
)

// ClassifyRecordError returns the message shown to the user when recording a result on the ledger fails
func ClassifyRecordError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoResult):
		return MsgNoResultToSave
	case errors.Is(err, ErrWalletNotConnected):
		return MsgWalletNotConnected
	case errors.Is(err, external.ErrUserRejected), strings.Contains(err.Error(), "User rejected the request"):
		return MsgTxCancelled
	case errors.Is(err, ErrUnavailable):
		return MsgRecordUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return MsgRecordTimeout
	case errors.Is(err, ErrUnexpected):
		return MsgRecordUnexpected
	}
	return "Error saving result: " + err.Error()
}

// ClassifySendError returns the message shown to the user when sending a result to another account fails
func ClassifySendError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidAddress):
		return MsgInvalidAddress
	case errors.Is(err, ErrSelfSend):
		return MsgSelfSend
	case errors.Is(err, ErrNoResult):
		return MsgNoResultToSend
	case errors.Is(err, ErrWalletNotConnected):
		return MsgWalletNotConnected
	case errors.Is(err, ErrUnavailable):
		return MsgSendUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return MsgSendTimeout
	case errors.Is(err, ErrUnexpected):
		return MsgSendUnexpected
	}
	return "Error sending result: " + err.Error()
}
