package services

import (
	"context"
	"strconv"

	"github.com/yigit/hostelpg/internal/app/models"
	"github.com/yigit/hostelpg/internal/pkg/auth"
)

// Actor is the authenticated caller of a service operation
type Actor struct {
	UserID    int64
	StudentID string
	Username  string
	Role      string
	IP        string
}

// ActorFromClaims builds an Actor from verified token claims
func ActorFromClaims(c *auth.Claims, ip string) Actor {
	if c == nil {
		return Actor{IP: ip}
	}
	return Actor{
		UserID:    c.UserID,
		StudentID: c.StudentID,
		Username:  c.Username,
		Role:      c.Role,
		IP:        ip,
	}
}

// IsAdmin reports whether the actor is staff
func (a Actor) IsAdmin() bool {
	return a.Role == auth.RoleAdmin
}

// logID is the identifier written to the system log
func (a Actor) logID() string {
	if a.StudentID != "" {
		return a.StudentID
	}
	return strconv.FormatInt(a.UserID, 10)
}

// record writes an audit entry for the actor if an audit log is configured
func record(ctx context.Context, audit AuditLog, a Actor, action, details string) {
	if audit == nil {
		return
	}
	audit.Record(ctx, &models.SystemLog{
		UserID:    a.logID(),
		UserType:  a.Role,
		Action:    action,
		Details:   details,
		IPAddress: a.IP,
	})
}
