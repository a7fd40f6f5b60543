package model

import (
	"time"

	"github.com/ramit8508/Teacher-managment-system-sub000/internal/rules"
)

// FeeRecord tracks a student's fee. PendingAmount and Status are derived
// by the rule engine on every write and never accepted from clients.
// PaidAmount only grows, through payment appends.
type FeeRecord struct {
	ID            int             `json:"id"`
	StudentID     int             `json:"student_id"`
	TotalFee      float64         `json:"total_fee"`
	PaidAmount    float64         `json:"paid_amount"`
	PendingAmount float64         `json:"pending_amount"`
	DueDate       time.Time       `json:"due_date"`
	Status        rules.FeeStatus `json:"status"`
	CreatedBy     int             `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Payments      []FeePayment    `json:"payments,omitempty"`
}

// FeePayment is one entry in the append-only payment history.
type FeePayment struct {
	ID     int       `json:"id"`
	FeeID  int       `json:"fee_id"`
	Amount float64   `json:"amount"`
	Method string    `json:"method,omitempty"`
	Note   string    `json:"note,omitempty"`
	PaidAt time.Time `json:"paid_at"`
}

// CreateFeeRequest is the payload for opening a fee record.
type CreateFeeRequest struct {
	StudentID int     `json:"student_id" binding:"required,gt=0"`
	TotalFee  float64 `json:"total_fee" binding:"required,gte=0"`
	DueDate   string  `json:"due_date" binding:"required,datetime=2006-01-02"`
}

// UpdateFeeRequest changes a fee's terms. Payment history is untouched.
type UpdateFeeRequest struct {
	TotalFee float64 `json:"total_fee" binding:"required,gte=0"`
	DueDate  string  `json:"due_date" binding:"required,datetime=2006-01-02"`
}

// AppendPaymentRequest is the payload for recording a payment.
type AppendPaymentRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
	Method string  `json:"method" binding:"omitempty,max=50"`
	Note   string  `json:"note" binding:"omitempty,max=255"`
}
