package appointment

import (
	"context"

	"github.com/BruksfildServices01/smart-spa/internal/audit"
	domain "github.com/BruksfildServices01/smart-spa/internal/domain/appointment"
	"github.com/BruksfildServices01/smart-spa/internal/session"
)

// DeleteClient removes a user account. Clients are cleaned up first, in the
// same transaction as the delete.
type DeleteClient struct {
	repo    domain.Repository
	effects Effects
}

func NewDeleteClient(
	repo domain.Repository,
	effects Effects,
) *DeleteClient {
	return &DeleteClient{
		repo:    repo,
		effects: effects,
	}
}

func (uc *DeleteClient) Execute(
	ctx context.Context,
	sess session.Session,
	userID uint,
) (*CleanupResult, error) {

	if !sess.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if userID == sess.UserID {
		return nil, domain.ErrCannotDeleteSelf
	}

	var result *CleanupResult

	err := uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		user, err := tx.LockUser(ctx, userID, domain.LockExclusive)
		if err != nil {
			return lookupErr("lock user", err, domain.ErrUserNotFound)
		}

		if role, err := session.ParseRole(user.Role); err == nil && role == session.RoleClient {
			if result, err = cleanupLocked(ctx, tx, userID, uc.effects.now()); err != nil {
				return err
			}
		}

		if err := tx.DeleteUser(ctx, userID); err != nil {
			return lookupErr("delete user", err, domain.ErrUserNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, domain.Persistence("delete user", err)
	}

	afterCleanup(ctx, uc.effects, sess, result)
	uc.effects.record(audit.Event{
		UserID:   &sess.UserID,
		Action:   "user_deleted",
		Entity:   "user",
		EntityID: &userID,
	})

	return result, nil
}
