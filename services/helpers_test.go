package services

import (
	"testing"

	"github.com/blackrose-gg/guild-system/models"
	"github.com/stretchr/testify/assert"
)

func TestAuthorizeContextManager(t *testing.T) {
	guildID := "rose-main"
	otherGuildID := "rose-academy"

	guildCtx := &models.TournamentContext{Kind: models.ContextGuild, ID: guildID}
	customCtx := &models.TournamentContext{Kind: models.ContextCustom, ID: "t1"}

	tests := []struct {
		name    string
		actor   *models.User
		ctx     *models.TournamentContext
		wantErr error
	}{
		{
			name:  "admin manages any guild",
			actor: &models.User{UID: "a", Role: models.RoleAdmin},
			ctx:   guildCtx,
		},
		{
			name:  "officer manages own guild",
			actor: &models.User{UID: "o", Role: models.RoleOfficer, GuildID: &guildID},
			ctx:   guildCtx,
		},
		{
			name:    "officer cannot manage another guild",
			actor:   &models.User{UID: "o", Role: models.RoleOfficer, GuildID: &otherGuildID},
			ctx:     guildCtx,
			wantErr: ErrForbiddenOperation,
		},
		{
			name:    "member cannot manage own guild",
			actor:   &models.User{UID: "m", Role: models.RoleMember, GuildID: &guildID},
			ctx:     guildCtx,
			wantErr: ErrForbiddenOperation,
		},
		{
			name:  "admin manages custom tournaments",
			actor: &models.User{UID: "a", Role: models.RoleAdmin},
			ctx:   customCtx,
		},
		{
			name:    "officer cannot manage custom tournaments",
			actor:   &models.User{UID: "o", Role: models.RoleOfficer, GuildID: &guildID},
			ctx:     customCtx,
			wantErr: ErrForbiddenOperation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := authorizeContextManager(tt.actor, tt.ctx)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAuthorizeGuildManager(t *testing.T) {
	guildID := "rose-main"

	assert.NoError(t, authorizeGuildManager(&models.User{Role: models.RoleAdmin}, guildID))
	assert.NoError(t, authorizeGuildManager(&models.User{Role: models.RoleOfficer, GuildID: &guildID}, guildID))
	assert.ErrorIs(t, authorizeGuildManager(&models.User{Role: models.RoleMember, GuildID: &guildID}, guildID), ErrForbiddenOperation)
	assert.ErrorIs(t, authorizeGuildManager(&models.User{Role: models.RoleOfficer}, guildID), ErrForbiddenOperation)
}
