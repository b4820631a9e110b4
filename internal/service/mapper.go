package service

import (
	"freelance-job-board/internal/entity"
	"time"

	"github.com/google/uuid"
)

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}

	return formatTime(*t)
}

func formatOptionalUUID(id *uuid.UUID) string {
	if id == nil {
		return ""
	}

	return id.String()
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

func mapJob(j *entity.Job) *entity.JobOutputModel {
	return &entity.JobOutputModel{
		Id:          j.Id,
		ClientId:    j.ClientId.String(),
		Title:       j.Title,
		Description: j.Description,
		Budget:      j.Budget,
		PaymentType: j.PaymentType,
		Deadline:    formatOptionalTime(j.Deadline),
		Status:      j.Status,
		CreatedAt:   formatTime(j.CreatedAt),
	}
}

func mapProposal(p *entity.Proposal) *entity.ProposalOutputModel {
	return &entity.ProposalOutputModel{
		Id:           p.Id,
		JobId:        p.JobId,
		FreelancerId: p.FreelancerId.String(),
		BidAmount:    p.BidAmount,
		TimelineDays: p.TimelineDays,
		CoverLetter:  p.CoverLetter,
		Status:       p.Status,
		Feedback:     p.Feedback,
		ReviewedAt:   formatOptionalTime(p.ReviewedAt),
		ReviewedBy:   formatOptionalUUID(p.ReviewedBy),
		SubmittedAt:  formatTime(p.SubmittedAt),
	}
}

func mapProposals(p []entity.Proposal) []entity.ProposalOutputModel {
	s := make([]entity.ProposalOutputModel, 0)
	for _, proposal := range p {
		s = append(s, *mapProposal(&proposal))
	}

	return s
}

func mapContract(c *entity.Contract) *entity.ContractOutputModel {
	return &entity.ContractOutputModel{
		Id:                          c.Id,
		JobId:                       c.JobId,
		ProposalId:                  c.ProposalId,
		ClientId:                    c.ClientId.String(),
		FreelancerId:                c.FreelancerId.String(),
		ContractStatusId:            int(c.ContractStatusId),
		ContractStatus:              c.ContractStatusId.String(),
		PaymentAmount:               c.PaymentAmount,
		StartTime:                   formatTime(c.StartTime),
		EndTime:                     formatOptionalTime(c.EndTime),
		CompletionRequestedByUserId: formatOptionalUUID(c.CompletionRequestedByUserId),
		CompletionRequestedAt:       formatOptionalTime(c.CompletionRequestedAt),
	}
}

func mapContractVersion(v *entity.ContractVersion) *entity.ContractVersionOutputModel {
	return &entity.ContractVersionOutputModel{
		Id:               v.Id,
		VersionNumber:    v.VersionNumber,
		Title:            v.Title,
		Description:      v.Description,
		PaymentAmount:    v.PaymentAmount,
		PaymentType:      v.PaymentType,
		Deadline:         formatOptionalTime(v.Deadline),
		Deliverables:     v.Deliverables,
		Terms:            v.Terms,
		Notes:            v.Notes,
		CreatedByRole:    string(v.CreatedByRole),
		CreatedByUserId:  formatOptionalUUID(v.CreatedByUserId),
		IsCurrentVersion: v.IsCurrentVersion,
		CreatedAt:        formatTime(v.CreatedAt),
	}
}

func mapContractVersions(v []entity.ContractVersion) []entity.ContractVersionOutputModel {
	s := make([]entity.ContractVersionOutputModel, 0)
	for _, version := range v {
		s = append(s, *mapContractVersion(&version))
	}

	return s
}

func mapChangeRequest(cr *entity.ContractChangeRequest) *entity.ChangeRequestOutputModel {
	return &entity.ChangeRequestOutputModel{
		Id:                cr.Id,
		ContractId:        cr.ContractId,
		FromVersionId:     cr.FromVersionId,
		ProposedVersionId: cr.ProposedVersionId,
		RequestedByUserId: cr.RequestedByUserId.String(),
		RequestedByRole:   string(cr.RequestedByRole),
		Reason:            cr.Reason,
		Status:            cr.Status,
		RequestDate:       formatTime(cr.RequestDate),
		ExpiryDate:        formatTime(cr.ExpiryDate),
		ResponseByUserId:  formatOptionalUUID(cr.ResponseByUserId),
		ResponseByRole:    derefString(cr.ResponseByRole),
		ResponseDate:      formatOptionalTime(cr.ResponseDate),
		ResponseNotes:     derefString(cr.ResponseNotes),
	}
}

func mapChangeRequests(c []entity.ContractChangeRequest) []entity.ChangeRequestOutputModel {
	s := make([]entity.ChangeRequestOutputModel, 0)
	for _, cr := range c {
		s = append(s, *mapChangeRequest(&cr))
	}

	return s
}

func mapNotifications(n []entity.Notification) []entity.NotificationOutputModel {
	s := make([]entity.NotificationOutputModel, 0)
	for _, notification := range n {
		s = append(s, entity.NotificationOutputModel{
			Id:        notification.Id,
			Title:     notification.Title,
			Message:   notification.Message,
			IsRead:    notification.IsRead,
			CreatedAt: formatTime(notification.CreatedAt),
		})
	}

	return s
}
