package service

import (
	"context"
	"freelance-job-board/internal/common"
	"freelance-job-board/internal/entity"

	"github.com/google/uuid"
)

// RoleResolver decides which side of an engagement a user is on. Every
// operation asks it instead of comparing ids itself.
type RoleResolver interface {
	ResolveRole(ctx context.Context, userId uuid.UUID, parties entity.Parties) common.Role
}

// PartyRoleResolver matches the user against the party ids stored on the
// job and contract rows.
type PartyRoleResolver struct{}

func (PartyRoleResolver) ResolveRole(ctx context.Context, userId uuid.UUID, parties entity.Parties) common.Role {
	switch {
	case userId == uuid.Nil:
		return common.RoleNone
	case userId == parties.ClientId:
		return common.RoleClient
	case userId == parties.FreelancerId:
		return common.RoleFreelancer
	}

	return common.RoleNone
}
