package errcode

import "fmt"

// Err is an API-facing error carrying a stable business code.
type Err struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func (e *Err) Error() string {
	return fmt.Sprintf("code: %d, msg: %s", e.Code, e.Msg)
}

func NewErr(code int, msg string) *Err {
	return &Err{Code: code, Msg: msg}
}

// NewCustomErr wraps a free-form message under the generic custom code.
func NewCustomErr(msg string) *Err {
	return NewErr(CodeCustom, msg)
}

const (
	CodeOK     = 200
	CodeCustom = 7000

	codeInvalidParams            = 7001
	codeNoSession                = 7002
	codeOfferNotFound            = 7003
	codeOfferTerminal            = 7004
	codeUnauthorizedCounterparty = 7005
	codeLedger                   = 7006
	codeInvalidRecord            = 7007
)

var (
	ErrInvalidParams = NewErr(codeInvalidParams, "invalid params")
	ErrNoSession     = NewErr(codeNoSession, "no active signing session")
	ErrOfferNotFound = NewErr(codeOfferNotFound, "offer not found")

	// ErrOfferTerminal: the offer sits in Rejected/Canceled/Completed and no
	// further transition may be attempted.
	ErrOfferTerminal = NewErr(codeOfferTerminal, "offer status is terminal")

	// ErrUnauthorizedCounterparty: the other side of the trade has not
	// authorized its assets, so the terminal transaction would revert.
	ErrUnauthorizedCounterparty = NewErr(codeUnauthorizedCounterparty, "counterparty assets not authorized")

	// ErrLedger: a submitted or awaited transaction failed or reverted.
	ErrLedger = NewErr(codeLedger, "ledger transaction failed")

	// ErrInvalidRecord: the ledger returned a deleted-slot placeholder or an
	// otherwise malformed record for the requested id.
	ErrInvalidRecord = NewErr(codeInvalidRecord, "malformed ledger record")
)
