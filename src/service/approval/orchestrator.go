package approval

import (
	"context"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/nftrade-labs/NFTradeBackend/pkg/chain/chainclient"
	"github.com/nftrade-labs/NFTradeBackend/pkg/errcode"
	"github.com/nftrade-labs/NFTradeBackend/pkg/logger/xzap"
	"github.com/nftrade-labs/NFTradeBackend/src/model"
	"github.com/nftrade-labs/NFTradeBackend/src/service/offers"
	"github.com/nftrade-labs/NFTradeBackend/src/service/session"
)

// State tracks one invoked action through the approval workflow.
type State int

const (
	StateIdle State = iota
	StateComputingRequirements
	StateAwaitingConfirmation
	StateSubmittingApproval
	StateAwaitingApprovalConfirmation
	StateSubmittingTerminalTx
	StateAwaitingTerminalConfirmation
	StateDone
	StateCancelled
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateComputingRequirements:
		return "computing_requirements"
	case StateAwaitingConfirmation:
		return "awaiting_confirmation"
	case StateSubmittingApproval:
		return "submitting_approval"
	case StateAwaitingApprovalConfirmation:
		return "awaiting_approval_confirmation"
	case StateSubmittingTerminalTx:
		return "submitting_terminal_tx"
	case StateAwaitingTerminalConfirmation:
		return "awaiting_terminal_confirmation"
	case StateDone:
		return "done"
	case StateCancelled:
		return "cancelled"
	default:
		return "failed"
	}
}

// Action names the ledger-mutating intents the orchestrator drives.
type Action string

const (
	ActionMake   Action = "make"
	ActionAccept Action = "accept"
	ActionReject Action = "reject"
	ActionCancel Action = "cancel"
	ActionSeal   Action = "seal"
)

// Outcome is the single terminal result every action reports: Done,
// Cancelled (user declined, not an error) or Failed with the cause attached.
type Outcome struct {
	Action Action
	State  State
	TxHash string
	Err    error
}

// Confirmer presents one requirement to the user and blocks until a
// decision. There is deliberately no timeout: a pending confirmation may stay
// open indefinitely.
type Confirmer interface {
	Confirm(ctx context.Context, req Requirement) (bool, error)
}

// AutoConfirmer approves every requirement; used when the service runs
// headless with a pre-authorized signer.
type AutoConfirmer struct{}

func (AutoConfirmer) Confirm(_ context.Context, _ Requirement) (bool, error) { return true, nil }

// ProgressFunc receives intermediate workflow states. Progress is reporting
// only; terminal results always arrive through the returned Outcome.
type ProgressFunc func(action Action, state State, detail string)

// Journal records confirmed terminal transactions; nil disables journaling.
type Journal interface {
	RecordActivity(ctx context.Context, act model.Activity) error
}

// Orchestrator drives the multi-step authorization workflow in front of every
// settlement transaction. Approvals are submitted strictly sequentially
// because the signing session accepts one outstanding transaction at a time;
// the workflow is resumable and idempotent because requirements are
// recomputed from ledger state on every run.
type Orchestrator struct {
	client    chainclient.Client
	store     *offers.Store
	sessions  *session.Manager
	confirmer Confirmer
	journal   Journal
	progress  ProgressFunc
}

func New(client chainclient.Client, store *offers.Store, sessions *session.Manager, confirmer Confirmer, journal Journal) *Orchestrator {
	o := &Orchestrator{
		client:    client,
		store:     store,
		sessions:  sessions,
		confirmer: confirmer,
		journal:   journal,
	}
	o.progress = o.logProgress
	return o
}

// SetProgress replaces the default progress reporter (logging).
func (o *Orchestrator) SetProgress(fn ProgressFunc) {
	if fn != nil {
		o.progress = fn
	}
}

func (o *Orchestrator) logProgress(action Action, state State, detail string) {
	xzap.WithContext(context.Background()).Info("approval workflow progress",
		zap.String("action", string(action)),
		zap.String("state", state.String()),
		zap.String("detail", detail))
}

// Make creates a new offer. The initiator's stake goes through the approval
// workflow so the eventual seal cannot fail on the initiator's side.
func (o *Orchestrator) Make(ctx context.Context, draft chainclient.OfferDraft) Outcome {
	sess, ok := o.sessions.Current()
	if !ok {
		return o.failed(ActionMake, errcode.ErrNoSession)
	}
	if draft.Counterparty == sess.Address {
		return o.failed(ActionMake, errors.New("counterparty must differ from initiator"))
	}

	stake := draftStake(draft)
	return o.run(ctx, ActionMake, sess, stake, nil, func(c context.Context) (chainclient.TxHandle, error) {
		return o.client.CreateOffer(c, sess.Auth(), draft)
	}, func(c context.Context, txHash string) {
		o.reconcileFull(c, sess.Address)
		o.record(c, model.Activity{
			ActivityType: string(ActionMake),
			Initiator:    sess.Address.Hex(),
			Counterparty: draft.Counterparty.Hex(),
			Amount:       decimal.NewFromBigInt(orZero(draft.GivenAmount), 0),
			TxHash:       txHash,
		})
	})
}

// Accept commits the counterparty to a pending offer: the acting address puts
// up the requested side, so that side feeds the approval workflow, while the
// initiator's given side is verified as already authorized.
func (o *Orchestrator) Accept(ctx context.Context, offerID int64) Outcome {
	return o.offerAction(ctx, ActionAccept, offerID, o.client.AcceptOffer)
}

// Seal finalizes an accepted offer from the initiator's side.
func (o *Orchestrator) Seal(ctx context.Context, offerID int64) Outcome {
	return o.offerAction(ctx, ActionSeal, offerID, o.client.SealOffer)
}

// Cancel withdraws a pending offer; no approvals are involved.
func (o *Orchestrator) Cancel(ctx context.Context, offerID int64) Outcome {
	return o.offerAction(ctx, ActionCancel, offerID, o.client.CancelOffer)
}

// Reject declines a received pending offer; no approvals are involved and the
// offer is removed from the visible set as soon as the rejection confirms.
func (o *Orchestrator) Reject(ctx context.Context, offerID int64) Outcome {
	return o.offerAction(ctx, ActionReject, offerID, o.client.RejectOffer)
}

func (o *Orchestrator) offerAction(ctx context.Context, action Action, offerID int64,
	submit func(context.Context, *bind.TransactOpts, *big.Int) (chainclient.TxHandle, error)) Outcome {

	sess, ok := o.sessions.Current()
	if !ok {
		return o.failed(action, errcode.ErrNoSession)
	}

	offer, err := o.currentOffer(ctx, offerID)
	if err != nil {
		return o.failed(action, err)
	}

	target := targetStatus(action)
	// Terminal and out-of-order statuses are refused up front; Completed,
	// Rejected and Canceled offers never see another transition attempt.
	if !offer.Status.CanTransitionTo(target) {
		return o.failed(action, errcode.ErrOfferTerminal)
	}

	if err := o.checkRole(action, sess, offer); err != nil {
		return o.failed(action, err)
	}

	var stake []model.Asset
	var verify func(context.Context) error
	switch action {
	case ActionAccept:
		stake = offer.Requested
		verify = func(c context.Context) error {
			return o.counterpartyCheck(c, common.HexToAddress(offer.Initiator), offer.Given)
		}
	case ActionSeal:
		stake = offer.Given
		verify = func(c context.Context) error {
			return o.counterpartyCheck(c, common.HexToAddress(offer.Counterparty), offer.Requested)
		}
	}

	id := big.NewInt(offerID)
	return o.run(ctx, action, sess, stake, verify, func(c context.Context) (chainclient.TxHandle, error) {
		return submit(c, sess.Auth(), id)
	}, func(c context.Context, txHash string) {
		o.reconcileAfter(c, action, sess.Address, offer)
		o.record(c, model.Activity{
			OfferID:      offer.ID,
			ActivityType: string(action),
			Initiator:    offer.Initiator,
			Counterparty: offer.Counterparty,
			Amount:       decimal.NewFromBigInt(offer.GivenAmount(), 0),
			TxHash:       txHash,
		})
	})
}

// run executes the shared pipeline: compute requirements, confirm and apply
// each one sequentially, verify the counterparty where required, then submit
// and await the terminal transaction.
func (o *Orchestrator) run(ctx context.Context, action Action, sess *session.Session, stake []model.Asset,
	verify func(context.Context) error,
	terminal func(context.Context) (chainclient.TxHandle, error),
	onDone func(context.Context, string)) Outcome {

	o.progress(action, StateComputingRequirements, "")
	reqs, err := o.ComputeRequirements(ctx, sess.Address, stake)
	if err != nil {
		return o.failed(action, err)
	}

	for _, req := range reqs {
		o.progress(action, StateAwaitingConfirmation, req.Describe())
		approved, err := o.confirmer.Confirm(ctx, req)
		if err != nil {
			return o.failed(action, errors.Wrap(err, "failed on confirmation prompt"))
		}
		if !approved {
			// A decline aborts the whole action. Skipping one requirement
			// would leave standing approvals feeding a terminal transaction
			// that can never be submitted.
			actionsTotal.WithLabelValues(string(action), StateCancelled.String()).Inc()
			return Outcome{Action: action, State: StateCancelled}
		}

		o.progress(action, StateSubmittingApproval, req.Describe())
		handle, err := o.submitApproval(ctx, sess, req)
		if err != nil {
			return o.failed(action, err)
		}
		approvalsSubmittedTotal.Inc()

		o.progress(action, StateAwaitingApprovalConfirmation, handle.Hash)
		if _, err := o.client.AwaitConfirmation(ctx, handle); err != nil {
			return o.failed(action, errors.Wrap(err, "approval transaction failed"))
		}
	}

	if verify != nil {
		if err := verify(ctx); err != nil {
			return o.failed(action, err)
		}
	}

	o.progress(action, StateSubmittingTerminalTx, "")
	handle, err := terminal(ctx)
	if err != nil {
		return o.failed(action, err)
	}

	o.progress(action, StateAwaitingTerminalConfirmation, handle.Hash)
	if _, err := o.client.AwaitConfirmation(ctx, handle); err != nil {
		return o.failed(action, errors.Wrap(err, "terminal transaction failed"))
	}

	if onDone != nil {
		onDone(ctx, handle.Hash)
	}
	actionsTotal.WithLabelValues(string(action), StateDone.String()).Inc()
	o.progress(action, StateDone, handle.Hash)
	return Outcome{Action: action, State: StateDone, TxHash: handle.Hash}
}

func (o *Orchestrator) submitApproval(ctx context.Context, sess *session.Session, req Requirement) (chainclient.TxHandle, error) {
	switch at := req.Asset.(type) {
	case model.NonFungible:
		return o.client.SetOperator(ctx, sess.Auth(), at.TokenID, req.Spender)
	case model.Fungible:
		return o.client.SetAllowance(ctx, sess.Auth(), req.Spender, at.Amount)
	default:
		return chainclient.TxHandle{}, errors.New("unsupported asset kind in requirement")
	}
}

func (o *Orchestrator) counterpartyCheck(ctx context.Context, owner common.Address, stake []model.Asset) error {
	if err := o.verifyCounterparty(ctx, owner, stake); err != nil {
		return errors.Wrap(errcode.ErrUnauthorizedCounterparty, err.Error())
	}
	return nil
}

// currentOffer consults the cached offer first and falls back to a direct
// ledger read; the local copy is only ever a cache.
func (o *Orchestrator) currentOffer(ctx context.Context, offerID int64) (model.Offer, error) {
	if offer, ok := o.store.Get(offerID); ok {
		return offer, nil
	}
	raw, err := o.client.GetOffer(ctx, big.NewInt(offerID))
	if err != nil {
		return model.Offer{}, errors.Wrapf(err, "failed on read offer %d", offerID)
	}
	offer := offers.Normalize(raw, nil, nil)
	// id 0 is the ledger's deleted-slot placeholder, not an actionable offer
	if offer.ID == 0 {
		return model.Offer{}, errcode.ErrInvalidRecord
	}
	return offer, nil
}

func (o *Orchestrator) checkRole(action Action, sess *session.Session, offer model.Offer) error {
	acting := sess.Address.Hex()
	switch action {
	case ActionAccept, ActionReject:
		if !strings.EqualFold(acting, offer.Counterparty) {
			return errcode.NewCustomErr("only the offeree may " + string(action))
		}
	case ActionCancel, ActionSeal:
		if !strings.EqualFold(acting, offer.Initiator) {
			return errcode.NewCustomErr("only the offerer may " + string(action))
		}
	}
	return nil
}

// reconcileAfter applies the per-action reconciliation strategy: rejection is
// an optimistic local removal (single possible outcome, no refetch round
// trip); everything else refetches the full set because custody state may
// have moved in ways the client should not guess at.
func (o *Orchestrator) reconcileAfter(ctx context.Context, action Action, acting common.Address, offer model.Offer) {
	if action == ActionReject {
		o.store.RemoveRejected(offer.ID)
		return
	}
	o.reconcileFull(ctx, acting)
}

func (o *Orchestrator) reconcileFull(ctx context.Context, account common.Address) {
	if err := o.store.Refetch(ctx, account); err != nil {
		xzap.WithContext(ctx).Warn("post-action reconciliation failed",
			zap.String("account", account.Hex()),
			zap.Error(err))
	}
}

func (o *Orchestrator) record(ctx context.Context, act model.Activity) {
	if o.journal == nil {
		return
	}
	act.EventTime = time.Now().Unix()
	if err := o.journal.RecordActivity(ctx, act); err != nil {
		xzap.WithContext(ctx).Warn("failed on record activity", zap.Error(err))
	}
}

func (o *Orchestrator) failed(action Action, err error) Outcome {
	actionsTotal.WithLabelValues(string(action), StateFailed.String()).Inc()
	xzap.WithContext(context.Background()).Error("offer action failed",
		zap.String("action", string(action)),
		zap.Error(err))
	return Outcome{Action: action, State: StateFailed, Err: err}
}

func targetStatus(action Action) model.OfferStatus {
	switch action {
	case ActionAccept:
		return model.StatusAccepted
	case ActionReject:
		return model.StatusRejected
	case ActionCancel:
		return model.StatusCanceled
	default:
		return model.StatusCompleted
	}
}

func draftStake(draft chainclient.OfferDraft) []model.Asset {
	stake := make([]model.Asset, 0, len(draft.GivenNFTs)+1)
	for _, tokenID := range draft.GivenNFTs {
		stake = append(stake, model.NonFungible{TokenID: tokenID})
	}
	fungible := model.NewFungible(draft.GivenAmount)
	if !fungible.IsZero() {
		stake = append(stake, fungible)
	}
	return stake
}

func orZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
