package entity

import (
	"freelance-job-board/internal/common"
	"time"

	"github.com/google/uuid"
)

// ContractVersion is an immutable snapshot of negotiable terms. Only
// IsCurrentVersion ever changes after insert.
type ContractVersion struct {
	Id               int64       `db:"id"`
	ContractId       int64       `db:"contract_id"`
	VersionNumber    int         `db:"version_number"`
	Title            string      `db:"title"`
	Description      string      `db:"description"`
	PaymentAmount    float64     `db:"payment_amount"`
	PaymentType      string      `db:"payment_type"`
	Deadline         *time.Time  `db:"deadline"`
	Deliverables     string      `db:"deliverables"`
	Terms            string      `db:"terms"`
	Notes            string      `db:"notes"`
	CreatedByRole    common.Role `db:"created_by_role"`
	CreatedByUserId  *uuid.UUID  `db:"created_by_user_id"`
	IsCurrentVersion bool        `db:"is_current_version"`
	CreatedAt        time.Time   `db:"created_at"`
}

// ContractTerms carries the fields a party may amend. Nil fields keep the
// value of the version being amended.
type ContractTerms struct {
	Title         *string
	Description   *string
	PaymentAmount *float64
	PaymentType   *string
	Deadline      *time.Time
	Deliverables  *string
	Terms         *string
	Notes         *string
}

type ContractVersionOutputModel struct {
	Id               int64   `json:"id"`
	VersionNumber    int     `json:"versionNumber"`
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	PaymentAmount    float64 `json:"paymentAmount"`
	PaymentType      string  `json:"paymentType"`
	Deadline         string  `json:"deadline,omitempty"`
	Deliverables     string  `json:"deliverables,omitempty"`
	Terms            string  `json:"terms,omitempty"`
	Notes            string  `json:"notes,omitempty"`
	CreatedByRole    string  `json:"createdByRole"`
	CreatedByUserId  string  `json:"createdByUserId,omitempty"`
	IsCurrentVersion bool    `json:"isCurrentVersion"`
	CreatedAt        string  `json:"createdAt"`
}
