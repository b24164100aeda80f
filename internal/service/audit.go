package service

import (
	"github.com/maycoffee/maycoffee-api/internal/domain"
)

type AuditStorage interface {
	SaveAdminAction(action domain.AdminAction) error
}

// Audit appends entries to the admin action trail. Entries are written after
// the action itself succeeded; a write failure surfaces to the caller so a
// mutation never goes silently unrecorded.
type Audit struct {
	storage AuditStorage
}

func NewAudit(storage AuditStorage) *Audit {
	return &Audit{storage: storage}
}

func (a *Audit) Log(adminId domain.UserId, action domain.AdminActionType, targetId string) error {
	return a.storage.SaveAdminAction(domain.AdminAction{
		AdminId:  adminId,
		Action:   action,
		TargetId: targetId,
	})
}

func (a *Audit) LogWithReason(adminId domain.UserId, action domain.AdminActionType, targetId, reason string) error {
	return a.storage.SaveAdminAction(domain.AdminAction{
		AdminId:  adminId,
		Action:   action,
		TargetId: targetId,
		Reason:   reason,
	})
}
