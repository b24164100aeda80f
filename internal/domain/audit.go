package domain

import "time"

type AdminActionType string

const (
	ActionAddAdmin        AdminActionType = "add_admin"
	ActionInviteAdmin     AdminActionType = "invite_admin"
	ActionRevokeAdmin     AdminActionType = "revoke_admin"
	ActionDeleteUser      AdminActionType = "delete_user"
	ActionFeedbackApprove AdminActionType = "feedback_approve"
	ActionFeedbackReject  AdminActionType = "feedback_reject"
	ActionEventCreate     AdminActionType = "event_create"
	ActionEventUpdate     AdminActionType = "event_update"
	ActionEventDelete     AdminActionType = "event_delete"
)

// AdminAction is one append-only audit trail entry. Never updated or deleted.
type AdminAction struct {
	Id        int64
	AdminId   UserId
	Action    AdminActionType
	TargetId  string
	Reason    string
	Meta      map[string]string
	CreatedAt time.Time
}
