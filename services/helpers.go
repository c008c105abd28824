package services

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/blackrose-gg/guild-system/models"
	"github.com/blackrose-gg/guild-system/repositories"
)

// runInTx executes fn inside a transaction. Multi-match mutations go through
// here so subscribed windows only ever observe a fully applied batch.
func runInTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// recordAudit appends a manager action to the audit log. Auditing is
// best-effort: a failed insert is logged, never propagated.
func recordAudit(ctx context.Context, repo repositories.AuditRepository, logger *slog.Logger, actor *models.User, action string, contextID *string, detail string) {
	entry := &models.AuditEntry{
		ActorUID:  actor.UID,
		ActorName: actor.DisplayName,
		Action:    action,
		ContextID: contextID,
		Detail:    detail,
	}
	if err := repo.Insert(ctx, entry); err != nil {
		logger.Error("failed to record audit entry",
			slog.String("action", action), slog.Any("error", err))
	}
}

// authorizeContextManager checks that the actor may mutate the given context:
// admins manage everything, officers manage their own guild's arena, nobody
// else manages anything. Custom tournaments are admin-only.
func authorizeContextManager(actor *models.User, tc *models.TournamentContext) error {
	switch tc.Kind {
	case models.ContextGuild:
		if actor.IsManagerOf(tc.ID) {
			return nil
		}
	case models.ContextCustom:
		if actor.Role == models.RoleAdmin {
			return nil
		}
	}
	return ErrForbiddenOperation
}

func authorizeGuildManager(actor *models.User, guildID string) error {
	if actor.IsManagerOf(guildID) {
		return nil
	}
	return ErrForbiddenOperation
}

func strPtr(s string) *string {
	return &s
}
