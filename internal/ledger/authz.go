package ledger

import "walletd/internal/core"

// walletOwned is any record scoped to a wallet; the core record types
// implement it.
type walletOwned interface {
	OwnerWalletID() int64
}

// Authorize is the capability check called at the start of every operation:
// the actor may touch a resource only when it lives in the actor's wallet.
// Denials are reported as the blanket core.ErrForbidden, no detail leaked.
func Authorize(actor core.Wallet, resource walletOwned) error {
	if actor.ID == 0 || resource.OwnerWalletID() != actor.ID {
		return core.ErrForbidden
	}
	return nil
}
