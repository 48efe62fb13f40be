// Package address generates opaque agent addresses for the demo CLI and
// connections layer. The dialogue core never constructs an address itself
// (spec.md treats dialogue.Address as caller-supplied); this package is
// only for cmd/agentdialogued and its tests, grounded on dialog_ua.go's
// ReadInvite, which generates a fresh random UUID for a SIP dialog's "to"
// tag the same way.
package address

import (
	"fmt"

	"github.com/google/uuid"
)

// New returns a fresh random agent address in "role-xxxxxxxx" form, where
// role is typically "initiator" or "responder".
func New(role string) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("address: generating agent address: %w", err)
	}
	return fmt.Sprintf("%s-%s", role, id.String()[:8]), nil
}
