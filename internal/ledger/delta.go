package ledger

import (
	"strings"

	"moneta/internal/core"
)

// ApplyCreate applies a newly created transaction's signed amount to its
// wallet. Transactions without a wallet leave every balance untouched.
// A copy of the wallet list is returned; the input is not modified.
func ApplyCreate(wallets []core.Wallet, tx core.Transaction) []core.Wallet {
	return applyDelta(wallets, tx.WalletID, tx.SignedCents())
}

// ApplyDelete reverts a deleted transaction by applying the inverse of
// its signed amount to its wallet.
func ApplyDelete(wallets []core.Wallet, tx core.Transaction) []core.Wallet {
	return applyDelta(wallets, tx.WalletID, -tx.SignedCents())
}

// ApplyUpdate handles a transaction edit as delete-of-old followed by
// create-of-new. The revert is fully applied before the new amount is
// read back in, so moving a transaction between wallets behaves as a
// zero-sum transfer out of the old wallet and into the new one, and an
// in-place edit never reads a stale balance.
func ApplyUpdate(wallets []core.Wallet, oldTx, newTx core.Transaction) []core.Wallet {
	wallets = ApplyDelete(wallets, oldTx)
	return ApplyCreate(wallets, newTx)
}

// applyDelta adds deltaCents to the balance of the wallet with the given
// id. A blank id or an id matching no wallet is a no-op: a transaction
// whose wallet was deleted out from under it must not fail the mutation
// flow, and must never create a wallet implicitly.
func applyDelta(wallets []core.Wallet, walletID string, deltaCents int64) []core.Wallet {
	id := strings.TrimSpace(walletID)
	out := make([]core.Wallet, len(wallets))
	copy(out, wallets)
	if id == "" {
		return out
	}
	for i := range out {
		if out[i].ID == id {
			out[i].Balance.Cents += deltaCents
			break
		}
	}
	return out
}
