package approval

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/nftrade-labs/NFTradeBackend/src/model"
)

// Requirement is one outstanding authorization the trade contract needs
// before a settlement transaction can succeed. Requirements are ephemeral:
// recomputed from ledger state on every attempt, never persisted, so a re-run
// after partial completion only surfaces what is still unmet.
type Requirement struct {
	Asset   model.Asset
	Spender common.Address
}

// Describe names the exact asset or amount and the spender for the user
// confirmation prompt.
func (r Requirement) Describe() string {
	switch at := r.Asset.(type) {
	case model.NonFungible:
		return fmt.Sprintf("authorize %s to transfer NFT #%s", r.Spender.Hex(), at.TokenID.String())
	case model.Fungible:
		return fmt.Sprintf("authorize %s to spend %s USDC", r.Spender.Hex(), model.FormatAmount(at.Amount))
	default:
		return fmt.Sprintf("authorize %s", r.Spender.Hex())
	}
}

// ComputeRequirements inspects the ledger for the stake an owner must put up
// and returns only the unmet authorizations. An NFT needs approval when its
// current operator is not the trade contract; the fungible amount needs
// approval when the standing allowance is strictly below the needed amount.
// All amount comparisons run on raw scaled big integers.
func (o *Orchestrator) ComputeRequirements(ctx context.Context, owner common.Address, stake []model.Asset) ([]Requirement, error) {
	trade := o.client.TradeContract()
	var reqs []Requirement

	for _, asset := range stake {
		switch at := asset.(type) {
		case model.NonFungible:
			operator, err := o.client.Operator(ctx, at.TokenID)
			if err != nil {
				return nil, errors.Wrapf(err, "failed on read operator of token %s", at.TokenID)
			}
			if operator != trade {
				reqs = append(reqs, Requirement{Asset: at, Spender: trade})
			}
		case model.Fungible:
			if at.IsZero() {
				continue
			}
			allowance, err := o.client.Allowance(ctx, owner, trade)
			if err != nil {
				return nil, errors.Wrap(err, "failed on read allowance")
			}
			if allowance.Cmp(at.Amount) < 0 {
				reqs = append(reqs, Requirement{Asset: at, Spender: trade})
			}
		}
	}
	return reqs, nil
}

// verifyCounterparty checks that the other party's side of the trade is
// already authorized, without attempting to remediate. An unmet authorization
// fails the action fast instead of submitting a terminal transaction destined
// to revert.
func (o *Orchestrator) verifyCounterparty(ctx context.Context, owner common.Address, stake []model.Asset) error {
	unmet, err := o.ComputeRequirements(ctx, owner, stake)
	if err != nil {
		return err
	}
	if len(unmet) == 0 {
		return nil
	}
	details := make([]string, 0, len(unmet))
	for _, r := range unmet {
		details = append(details, r.Describe())
	}
	return errors.Errorf("counterparty %s has not authorized its side: %s",
		owner.Hex(), strings.Join(details, "; "))
}
