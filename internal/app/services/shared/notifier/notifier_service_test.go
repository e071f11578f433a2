package notifier

import (
	"carepay-service/internal/app/contracts"
	"carepay-service/internal/app/models"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSink struct{}

func (s *stubSink) NotifyPatient(ctx context.Context, patientID string, payload models.NotificationPayload) error {
	return nil
}

func (s *stubSink) NotifyProvider(ctx context.Context, providerID string, payload models.NotificationPayload) error {
	return nil
}

func TestNotifierSingleton(t *testing.T) {
	t.Run("retries construction after a failed build", func(t *testing.T) {
		notifierServiceInstance = nil
		buildErr := errors.New("channel open failed")

		sink, err := notifierSingleton(func() (contracts.NotificationSink, error) {
			return nil, buildErr
		})
		require.ErrorIs(t, err, buildErr)
		assert.Nil(t, sink)

		want := &stubSink{}
		sink, err = notifierSingleton(func() (contracts.NotificationSink, error) {
			return want, nil
		})
		require.NoError(t, err)
		assert.Same(t, want, sink)
	})

	t.Run("caches the first successful sink", func(t *testing.T) {
		notifierServiceInstance = nil
		first := &stubSink{}

		sink, err := notifierSingleton(func() (contracts.NotificationSink, error) {
			return first, nil
		})
		require.NoError(t, err)
		assert.Same(t, first, sink)

		builds := 0
		sink, err = notifierSingleton(func() (contracts.NotificationSink, error) {
			builds++
			return &stubSink{}, nil
		})
		require.NoError(t, err)
		assert.Same(t, first, sink)
		assert.Zero(t, builds)
	})
}
