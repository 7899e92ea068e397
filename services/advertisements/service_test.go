package advertisements

import (
	"context"
	"testing"

	"github.com/medimart/medi-server/repositories/memory"
	"github.com/medimart/medi-server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestService_CreateAndList(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.NewStore().Advertisements, zap.NewNop())

	ad, err := svc.Create(ctx, "s1@x.com", Input{MedicineName: "Napa", Image: "napa.png"})
	require.NoError(t, err)
	assert.False(t, ad.InSlide)
	_, err = svc.Create(ctx, "s2@x.com", Input{MedicineName: "Ace"})
	require.NoError(t, err)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := svc.ListBySeller(ctx, "s1@x.com")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, ad.ID, mine[0].ID)

	slides, err := svc.Slides(ctx)
	require.NoError(t, err)
	assert.Empty(t, slides)
}

func TestService_SetSlide(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.NewStore().Advertisements, zap.NewNop())
	ad, err := svc.Create(ctx, "s1@x.com", Input{MedicineName: "Napa"})
	require.NoError(t, err)

	updated, err := svc.SetSlide(ctx, ad.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.InSlide)

	slides, err := svc.Slides(ctx)
	require.NoError(t, err)
	assert.Len(t, slides, 1)

	_, err = svc.SetSlide(ctx, ad.ID, false)
	require.NoError(t, err)
	slides, err = svc.Slides(ctx)
	require.NoError(t, err)
	assert.Empty(t, slides)

	_, err = svc.SetSlide(ctx, "missing", true)
	assert.True(t, services.IsNotFoundError(err))
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.NewStore().Advertisements, zap.NewNop())
	ad, err := svc.Create(ctx, "s1@x.com", Input{MedicineName: "Napa"})
	require.NoError(t, err)

	t.Run("owner edits", func(t *testing.T) {
		updated, err := svc.Update(ctx, ad.ID, "s1@x.com", Input{MedicineName: "Napa Extra", Description: "500mg"})
		require.NoError(t, err)
		assert.Equal(t, "Napa Extra", updated.MedicineName)
		assert.Equal(t, "s1@x.com", updated.SellerEmail)
	})

	t.Run("another seller is forbidden", func(t *testing.T) {
		_, err := svc.Update(ctx, ad.ID, "s2@x.com", Input{MedicineName: "Hijack"})
		assert.True(t, services.IsForbiddenError(err))

		mine, err := svc.ListBySeller(ctx, "s1@x.com")
		require.NoError(t, err)
		assert.Equal(t, "Napa Extra", mine[0].MedicineName)
	})

	t.Run("missing advertisement", func(t *testing.T) {
		_, err := svc.Update(ctx, "missing", "s1@x.com", Input{})
		assert.True(t, services.IsNotFoundError(err))
	})
}
