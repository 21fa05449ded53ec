package model

import "math/big"

// OfferStatus mirrors the ledger's status enumeration. Unknown covers values
// no client release understands; such offers stay out of default listings.
type OfferStatus int

const (
	StatusPending OfferStatus = iota
	StatusAccepted
	StatusRejected
	StatusCanceled
	StatusCompleted
	StatusUnknown OfferStatus = -1
)

func (s OfferStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusAccepted:
		return "accepted"
	case StatusRejected:
		return "rejected"
	case StatusCanceled:
		return "canceled"
	case StatusCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether no further transition may leave s.
func (s OfferStatus) IsTerminal() bool {
	return s == StatusRejected || s == StatusCanceled || s == StatusCompleted
}

// CanTransitionTo encodes the legal forward transitions:
// Pending -> Accepted|Rejected|Canceled, Accepted -> Completed.
// Cancellation after acceptance is not modeled; the ledger's stance on it is
// unresolved, so the client treats it as illegal rather than supporting it.
func (s OfferStatus) CanTransitionTo(next OfferStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusAccepted || next == StatusRejected || next == StatusCanceled
	case StatusAccepted:
		return next == StatusCompleted
	default:
		return false
	}
}

// ParseStatus maps a normalized integer to a status, degrading to Unknown.
func ParseStatus(v int64) OfferStatus {
	if v < int64(StatusPending) || v > int64(StatusCompleted) {
		return StatusUnknown
	}
	return OfferStatus(v)
}

// DefaultVisibleStatuses is the display default; Canceled and Completed are
// hidden until toggled. This is a presentation preference, not a data rule.
func DefaultVisibleStatuses() map[OfferStatus]bool {
	return map[OfferStatus]bool{
		StatusPending:  true,
		StatusAccepted: true,
		StatusRejected: true,
	}
}

// Offer is the canonical barter proposal between two accounts. Given and
// Requested are fixed at creation; only Status changes, and only as a side
// effect of a confirmed ledger transaction.
type Offer struct {
	ID           int64
	Initiator    string
	Counterparty string
	Given        []Asset
	Requested    []Asset
	Status       OfferStatus
}

// GivenNFTs returns the non-fungible part of the initiator's stake.
func (o *Offer) GivenNFTs() []NonFungible { return nftsOf(o.Given) }

// RequestedNFTs returns the non-fungible part of the counterparty's stake.
func (o *Offer) RequestedNFTs() []NonFungible { return nftsOf(o.Requested) }

// GivenAmount returns the fungible part of the initiator's stake (zero if absent).
func (o *Offer) GivenAmount() *big.Int { return amountOf(o.Given) }

// RequestedAmount returns the fungible part of the counterparty's stake.
func (o *Offer) RequestedAmount() *big.Int { return amountOf(o.Requested) }

func nftsOf(assets []Asset) []NonFungible {
	var out []NonFungible
	for _, a := range assets {
		switch at := a.(type) {
		case NonFungible:
			out = append(out, at)
		case Fungible:
			// fungible side handled by amountOf
		}
	}
	return out
}

func amountOf(assets []Asset) *big.Int {
	for _, a := range assets {
		switch at := a.(type) {
		case NonFungible:
			// skip
		case Fungible:
			if at.Amount != nil {
				return at.Amount
			}
		}
	}
	return new(big.Int)
}
