package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

const DefaultWalletCurrency = "DZD"

type Wallet struct {
	ID        string    `json:"id" firestore:"id"`
	UserID    string    `json:"user_id" firestore:"userId"`
	Balance   float64   `json:"balance" firestore:"balance"`
	Currency  string    `json:"currency" firestore:"currency"`
	Status    string    `json:"status" firestore:"status"` // active, frozen
	LastTxnAt time.Time `json:"last_txn_at" firestore:"lastTxnAt"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

const (
	WalletTxnCharge = "charge"
	WalletTxnDebit  = "debit"
	WalletTxnRefund = "refund"
)

type WalletTransaction struct {
	ID              string    `json:"id" firestore:"id"`
	WalletID        string    `json:"wallet_id" firestore:"walletId"`
	UserID          string    `json:"user_id" firestore:"userId"`
	Type            string    `json:"type" firestore:"type"`
	Amount          float64   `json:"amount" firestore:"amount"`
	PreviousBalance float64   `json:"previous_balance" firestore:"previousBalance"`
	NewBalance      float64   `json:"new_balance" firestore:"newBalance"`
	Reference       string    `json:"reference,omitempty" firestore:"reference,omitempty"`
	Description     string    `json:"description" firestore:"description"`
	CreatedAt       time.Time `json:"created_at" firestore:"createdAt"`
}

type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
)

func (s RequestStatus) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// ChargeRequest asks an admin to credit a wallet after an off-platform payment.
type ChargeRequest struct {
	ID            string        `json:"id" firestore:"id"`
	UserID        string        `json:"user_id" firestore:"userId"`
	Amount        float64       `json:"amount" firestore:"amount"`
	PaymentMethod string        `json:"payment_method" firestore:"paymentMethod"`
	ReceiptURL    string        `json:"receipt_url,omitempty" firestore:"receiptUrl,omitempty"`
	Status        RequestStatus `json:"status" firestore:"status"`
	AdminNotes    string        `json:"admin_notes,omitempty" firestore:"adminNotes,omitempty"`
	ProcessedBy   string        `json:"processed_by,omitempty" firestore:"processedBy,omitempty"`
	ProcessedAt   *time.Time    `json:"processed_at,omitempty" firestore:"processedAt,omitempty"`
	CreatedAt     time.Time     `json:"created_at" firestore:"createdAt"`
	UpdatedAt     time.Time     `json:"updated_at" firestore:"updatedAt"`
}

// Decision is an admin verdict on a pending request.
type Decision struct {
	Approve bool
	AdminID string
	Notes   string
	At      time.Time
}

func (d Decision) Status() RequestStatus {
	if d.Approve {
		return StatusApproved
	}
	return StatusRejected
}

// Credit returns the balances before and after adding amount. Arithmetic is
// done in decimal so repeated charges do not drift.
func (w *Wallet) Credit(amount float64) (previous, next float64) {
	previous = w.Balance
	next = decimal.NewFromFloat(w.Balance).Add(decimal.NewFromFloat(amount)).Round(2).InexactFloat64()
	return previous, next
}
