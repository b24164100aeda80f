package service

import (
	"html"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/maycoffee/maycoffee-api/internal/domain"
	"github.com/maycoffee/maycoffee-api/internal/errors"
)

type AdminService interface {
	Promote(actingAdminId domain.UserId, targetEmail string) (PromoteResult, error)
	Revoke(actingAdminId, targetUserId domain.UserId) (domain.User, error)
	DeleteUser(actingAdminId, targetUserId domain.UserId, reason string) error
	ListUsers() ([]domain.User, error)
}

type AdminStorage interface {
	UserByEmail(email string) (domain.User, error)
	UserById(id domain.UserId) (domain.User, error)
	ListUsers() ([]domain.User, error)
	UpdateUserRole(id domain.UserId, role domain.Role) (domain.User, error)
	DeleteUser(id domain.UserId) error
	CreateInvitation(inv domain.AdminInvitation) error
	DeleteInvitation(email string) error
}

type AdminNotifier interface {
	SendAdminInvitation(email string)
	SendAdminPromotionNotification(email, name string)
	SendAccountDeleted(email, name, reason string)
}

// PromoteResult is a two-variant result: exactly one of Invited or Promoted
// is set. Promoting an unregistered email produces an invitation instead of
// a role change.
type PromoteResult struct {
	Invited  *domain.AdminInvitation
	Promoted *domain.User
}

type Admin struct {
	storage  AdminStorage
	notifier AdminNotifier
	audit    *Audit
	// strips all markup from admin-supplied free text before it reaches
	// audit rows and outbound email
	sanitizer *bluemonday.Policy
}

func NewAdmin(storage AdminStorage, notifier AdminNotifier, audit *Audit) *Admin {
	return &Admin{
		storage:   storage,
		notifier:  notifier,
		audit:     audit,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (a *Admin) sanitizeText(value string) string {
	return strings.TrimSpace(html.UnescapeString(a.sanitizer.Sanitize(value)))
}

func (a *Admin) Promote(actingAdminId domain.UserId, targetEmail string) (PromoteResult, error) {
	email := normalizeEmail(targetEmail)

	user, err := a.storage.UserByEmail(email)
	if err != nil {
		if !errors.IsNotFound(err) {
			return PromoteResult{}, err
		}
		// Nobody registered with this email yet: record a pending
		// invitation consumed on registration+verification.
		inv := domain.AdminInvitation{Email: email, InvitedBy: actingAdminId}
		if err := a.storage.CreateInvitation(inv); err != nil {
			return PromoteResult{}, err
		}
		a.notifier.SendAdminInvitation(email)
		if err := a.audit.Log(actingAdminId, domain.ActionInviteAdmin, email); err != nil {
			return PromoteResult{}, err
		}
		return PromoteResult{Invited: &inv}, nil
	}

	if user.IsAdmin() {
		return PromoteResult{}, errors.BadRequest("User is already an admin")
	}

	updated, err := a.storage.UpdateUserRole(user.Id, domain.RoleAdmin)
	if err != nil {
		return PromoteResult{}, err
	}
	if err := a.audit.Log(actingAdminId, domain.ActionAddAdmin, strconv.FormatInt(updated.Id, 10)); err != nil {
		return PromoteResult{}, err
	}

	// an invitation may still exist if the user registered after being
	// invited but was promoted directly before verifying
	if err := a.storage.DeleteInvitation(email); err != nil {
		return PromoteResult{}, err
	}

	a.notifier.SendAdminPromotionNotification(updated.Email, updated.Name)

	return PromoteResult{Promoted: &updated}, nil
}

func (a *Admin) Revoke(actingAdminId, targetUserId domain.UserId) (domain.User, error) {
	if actingAdminId == targetUserId {
		// an admin locking themselves (and possibly everyone) out is
		// not an undoable mistake, so it is forbidden outright
		return domain.User{}, errors.BadRequest("You cannot revoke your own admin role")
	}

	user, err := a.storage.UserById(targetUserId)
	if err != nil {
		return domain.User{}, err
	}
	if !user.IsAdmin() {
		return domain.User{}, errors.BadRequest("User is not an admin")
	}

	updated, err := a.storage.UpdateUserRole(user.Id, domain.RoleUser)
	if err != nil {
		return domain.User{}, err
	}
	if err := a.audit.Log(actingAdminId, domain.ActionRevokeAdmin, strconv.FormatInt(targetUserId, 10)); err != nil {
		return domain.User{}, err
	}
	return updated, nil
}

// DeleteUser hard-deletes the target and everything referencing them. No
// soft-delete window; the audit entry is the only trace left.
func (a *Admin) DeleteUser(actingAdminId, targetUserId domain.UserId, reason string) error {
	user, err := a.storage.UserById(targetUserId)
	if err != nil {
		return err
	}
	if user.Id == actingAdminId {
		return errors.BadRequest("You cannot delete yourself")
	}

	if err := a.storage.DeleteUser(user.Id); err != nil {
		return err
	}

	sanitizedReason := a.sanitizeText(reason)
	if sanitizedReason != "" {
		a.notifier.SendAccountDeleted(user.Email, user.Name, sanitizedReason)
	}

	return a.audit.LogWithReason(actingAdminId, domain.ActionDeleteUser, strconv.FormatInt(targetUserId, 10), sanitizedReason)
}

func (a *Admin) ListUsers() ([]domain.User, error) {
	return a.storage.ListUsers()
}
