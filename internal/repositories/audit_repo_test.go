package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/token-launcher/backend/internal/models"
)

func TestAuditRepoLogAndList(t *testing.T) {
	pool := setupPostgres(t)
	repo := NewAuditRepo(pool)
	ctx := context.Background()

	uid := int64(77)
	require.NoError(t, repo.Log(ctx, models.AuditLog{UserID: &uid, Action: "deploy_started", Meta: map[string]any{"variant": "standard"}}))
	require.NoError(t, repo.Log(ctx, models.AuditLog{UserID: &uid, Action: "deploy_succeeded"}))
	require.NoError(t, repo.Log(ctx, models.AuditLog{Action: "system"}))

	logs, err := repo.ListByUser(ctx, uid, 10)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "deploy_succeeded", logs[0].Action)
	assert.Equal(t, "deploy_started", logs[1].Action)
	assert.Equal(t, "standard", logs[1].Meta["variant"])
	assert.Empty(t, logs[0].Meta)
}
