package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type User struct {
	id         uuid.UUID
	role       Role
	teamLeadID *uuid.UUID
	repCode    string
	isActive   bool
	createdAt  time.Time
	updatedAt  time.Time
}

func New(role Role, repCode string) User {
	if !role.Valid() {
		role = RoleFieldCrew
	}
	return User{
		id:       uuid.New(),
		role:     role,
		repCode:  strings.TrimSpace(repCode),
		isActive: true,
	}
}

func Hydrate(
	id uuid.UUID,
	role Role,
	teamLeadID *uuid.UUID,
	repCode string,
	isActive bool,
	createdAt time.Time,
	updatedAt time.Time,
) User {
	return User{
		id:         id,
		role:       ParseRole(string(role)),
		teamLeadID: teamLeadID,
		repCode:    strings.TrimSpace(repCode),
		isActive:   isActive,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

func (u User) ID() uuid.UUID         { return u.id }
func (u User) Role() Role            { return u.role }
func (u User) TeamLeadID() *uuid.UUID { return u.teamLeadID }
func (u User) RepCode() string       { return u.repCode }
func (u User) IsActive() bool        { return u.isActive }
func (u User) CreatedAt() time.Time  { return u.createdAt }
func (u User) UpdatedAt() time.Time  { return u.updatedAt }
func (u User) IsZero() bool          { return u.id == uuid.Nil }

func (u User) WithTeamLead(leadID *uuid.UUID) User {
	u.teamLeadID = leadID
	return u
}

func (u User) Deactivated() User {
	u.isActive = false
	return u
}
