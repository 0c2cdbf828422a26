package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"foxx-popup-service/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSubscriberFixture(store *domain.Store, config *domain.PopupConfig) (*SubscriberService, *fakeSubscriberRepo) {
	subscriberRepo := newFakeSubscriberRepo()
	svc := NewSubscriberService(
		newFakeStoreRepo(store),
		newFakeConfigRepo(config),
		subscriberRepo,
		nil,
		nil,
		zerolog.Nop(),
	)
	return svc, subscriberRepo
}

func activeConfig() *domain.PopupConfig {
	return &domain.PopupConfig{
		StoreID:            "acme-1",
		IsActive:           true,
		CollectEmail:       true,
		DiscountCode:       "WELCOME10",
		DiscountPercentage: 10,
	}
}

func TestSubscribeNew(t *testing.T) {
	svc, repo := newSubscriberFixture(&domain.Store{ID: "acme-1", Domain: "shop.example.com"}, activeConfig())

	result, err := svc.Subscribe(context.Background(), "acme-1", &SubscribeInput{
		Email: "Jane@Example.com",
		Name:  "Jane",
	})
	require.NoError(t, err)

	assert.False(t, result.Reactivated)
	assert.Equal(t, "WELCOME10", result.DiscountCode)
	assert.Equal(t, 10, result.DiscountPercentage)

	// Email is normalized before storage.
	stored, err := repo.GetByStoreAndEmail(context.Background(), "acme-1", "jane@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.IsActive)
	assert.Equal(t, "Jane", stored.Name)
	assert.NotEmpty(t, stored.ID)
}

func TestSubscribeDuplicateActive(t *testing.T) {
	svc, repo := newSubscriberFixture(&domain.Store{ID: "acme-1"}, activeConfig())
	require.NoError(t, repo.Create(context.Background(), &domain.Subscriber{
		ID: "sub-1", StoreID: "acme-1", Email: "jane@example.com", IsActive: true,
	}))

	_, err := svc.Subscribe(context.Background(), "acme-1", &SubscribeInput{Email: "jane@example.com"})
	assert.ErrorIs(t, err, ErrDuplicateSubscriber)
}

func TestSubscribeReactivates(t *testing.T) {
	svc, repo := newSubscriberFixture(&domain.Store{ID: "acme-1"}, activeConfig())
	unsubscribedAt := time.Now().Add(-24 * time.Hour)
	require.NoError(t, repo.Create(context.Background(), &domain.Subscriber{
		ID: "sub-1", StoreID: "acme-1", Email: "jane@example.com",
		IsActive: false, UnsubscribedAt: &unsubscribedAt,
	}))

	result, err := svc.Subscribe(context.Background(), "acme-1", &SubscribeInput{Email: "jane@example.com"})
	require.NoError(t, err)
	assert.True(t, result.Reactivated)

	stored, err := repo.GetByStoreAndEmail(context.Background(), "acme-1", "jane@example.com")
	require.NoError(t, err)
	assert.True(t, stored.IsActive)
	assert.Nil(t, stored.UnsubscribedAt)
	assert.Equal(t, "sub-1", stored.ID)
}

func TestSubscribeBlocksTempEmail(t *testing.T) {
	// The disposable-address blocklist applies to every store, with no
	// per-store opt-out.
	svc, _ := newSubscriberFixture(&domain.Store{ID: "acme-1"}, activeConfig())

	for _, email := range []string{"spam@mailinator.com", "spam@yopmail.com"} {
		_, err := svc.Subscribe(context.Background(), "acme-1", &SubscribeInput{Email: email})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "email", verr.Field)
	}
}

func TestSubscribeAllowedDomains(t *testing.T) {
	config := activeConfig()
	config.AllowedEmailDomains = []string{"Corp.com"}
	svc, _ := newSubscriberFixture(&domain.Store{ID: "acme-1"}, config)

	_, err := svc.Subscribe(context.Background(), "acme-1", &SubscribeInput{Email: "jane@gmail.com"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = svc.Subscribe(context.Background(), "acme-1", &SubscribeInput{Email: "jane@corp.com"})
	assert.NoError(t, err)
}

func TestSubscribeBlockedDomains(t *testing.T) {
	config := activeConfig()
	config.BlockedEmailDomains = []string{"rival.com"}
	svc, _ := newSubscriberFixture(&domain.Store{ID: "acme-1"}, config)

	_, err := svc.Subscribe(context.Background(), "acme-1", &SubscribeInput{Email: "jane@rival.com"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestSubscribeValidation(t *testing.T) {
	svc, _ := newSubscriberFixture(&domain.Store{ID: "acme-1"}, activeConfig())

	tests := []struct {
		name  string
		input *SubscribeInput
	}{
		{"missing email", &SubscribeInput{}},
		{"malformed email", &SubscribeInput{Email: "not-an-email"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Subscribe(context.Background(), "acme-1", tc.input)
			var verr *ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestSubscribeUnknownStore(t *testing.T) {
	svc, _ := newSubscriberFixture(&domain.Store{ID: "acme-1"}, activeConfig())

	_, err := svc.Subscribe(context.Background(), "ghost-9", &SubscribeInput{Email: "jane@example.com"})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestIsSubscribed(t *testing.T) {
	svc, repo := newSubscriberFixture(&domain.Store{ID: "acme-1"}, activeConfig())
	require.NoError(t, repo.Create(context.Background(), &domain.Subscriber{
		ID: "sub-1", StoreID: "acme-1", Email: "jane@example.com", IsActive: true,
	}))
	require.NoError(t, repo.Create(context.Background(), &domain.Subscriber{
		ID: "sub-2", StoreID: "acme-1", Email: "gone@example.com", IsActive: false,
	}))

	ctx := context.Background()
	assert.True(t, svc.IsSubscribed(ctx, "acme-1", "JANE@example.com"))
	assert.False(t, svc.IsSubscribed(ctx, "acme-1", "gone@example.com"))
	assert.False(t, svc.IsSubscribed(ctx, "acme-1", "nobody@example.com"))
	assert.False(t, svc.IsSubscribed(ctx, "", "jane@example.com"))
}

func TestUnsubscribe(t *testing.T) {
	svc, repo := newSubscriberFixture(&domain.Store{ID: "acme-1"}, activeConfig())
	require.NoError(t, repo.Create(context.Background(), &domain.Subscriber{
		ID: "sub-1", StoreID: "acme-1", Email: "jane@example.com", IsActive: true,
	}))

	require.NoError(t, svc.Unsubscribe(context.Background(), "acme-1", "jane@example.com"))

	stored, err := repo.GetByStoreAndEmail(context.Background(), "acme-1", "jane@example.com")
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
	require.NotNil(t, stored.UnsubscribedAt)

	assert.ErrorIs(t, svc.Unsubscribe(context.Background(), "acme-1", "nobody@example.com"), ErrNotFound)
}
