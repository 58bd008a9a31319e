/* address.go
 * Contains validation for destination wallet addresses used when sending a result to another account
 */

package logic

import (
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrInvalidAddress is returned for destinations that are not hex encoded Ethereum addresses
	ErrInvalidAddress = errors.New("invalid ethereum address")
	// ErrSelfSend is returned when the destination is the sender's own address
	ErrSelfSend = errors.New("cannot send to own address")
)

// ValidateDestination checks a destination address before anything is sent to it.
// Addresses are compared by value, so a checksummed and a lower cased form of the same address are equal.
func ValidateDestination(sender string, destination string) error {
	if !IsAddress(destination) {
		return ErrInvalidAddress
	}
	if common.IsHexAddress(sender) && common.HexToAddress(sender) == common.HexToAddress(destination) {
		return ErrSelfSend
	}
	return nil
}

// IsAddress reports whether s is a 20 byte hex address. Mixed case input must carry a valid EIP-55 checksum;
// all lower or all upper case input is accepted as is.
func IsAddress(s string) bool {
	if !common.IsHexAddress(s) {
		return false
	}
	digits := s
	if len(s) == 2*common.AddressLength+2 {
		digits = s[2:]
	}
	if digits == strings.ToLower(digits) || digits == strings.ToUpper(digits) {
		return true
	}
	return common.HexToAddress(s).Hex()[2:] == digits
}
