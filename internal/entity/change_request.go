package entity

import (
	"freelance-job-board/internal/common"
	"time"

	"github.com/google/uuid"
)

type ContractChangeRequest struct {
	Id                int64       `db:"id"`
	ContractId        int64       `db:"contract_id"`
	FromVersionId     int64       `db:"from_version_id"`
	ProposedVersionId int64       `db:"proposed_version_id"`
	RequestedByUserId uuid.UUID   `db:"requested_by_user_id"`
	RequestedByRole   common.Role `db:"requested_by_role"`
	Reason            string      `db:"reason"`
	Status            string      `db:"status"`
	RequestDate       time.Time   `db:"request_date"`
	ExpiryDate        time.Time   `db:"expiry_date"`
	ResponseByUserId  *uuid.UUID  `db:"response_by_user_id"`
	ResponseByRole    *string     `db:"response_by_role"`
	ResponseDate      *time.Time  `db:"response_date"`
	ResponseNotes     *string     `db:"response_notes"`
}

// Stale reports whether a pending request has outlived its expiry date.
func (cr *ContractChangeRequest) Stale(now time.Time) bool {
	return cr.Status == common.ChangeRequestPending && cr.ExpiryDate.Before(now)
}

type ChangeRequestOutputModel struct {
	Id                int64  `json:"id"`
	ContractId        int64  `json:"contractId"`
	FromVersionId     int64  `json:"fromVersionId"`
	ProposedVersionId int64  `json:"proposedVersionId"`
	RequestedByUserId string `json:"requestedByUserId"`
	RequestedByRole   string `json:"requestedByRole"`
	Reason            string `json:"reason,omitempty"`
	Status            string `json:"status"`
	RequestDate       string `json:"requestDate"`
	ExpiryDate        string `json:"expiryDate"`
	ResponseByUserId  string `json:"responseByUserId,omitempty"`
	ResponseByRole    string `json:"responseByRole,omitempty"`
	ResponseDate      string `json:"responseDate,omitempty"`
	ResponseNotes     string `json:"responseNotes,omitempty"`
}

type ContractHistoryOutputModel struct {
	Contract       ContractOutputModel          `json:"contract"`
	CurrentVersion ContractVersionOutputModel   `json:"currentVersion"`
	Versions       []ContractVersionOutputModel `json:"versions"`
	ChangeRequests []ChangeRequestOutputModel   `json:"changeRequests"`
}
