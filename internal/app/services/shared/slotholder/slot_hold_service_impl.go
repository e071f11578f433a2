package slotholder

import (
	"carepay-service/internal/app/contracts"
	"carepay-service/internal/pkg/constvars"
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

var (
	slotHoldServiceInstance contracts.SlotHoldService
	onceSlotHoldService     sync.Once
)

type slotHoldService struct {
	redisRepo contracts.RedisRepository
	Log       *zap.Logger
}

// NewSlotHoldService releases session-capacity holds kept in Redis by the
// booking collaborator. A refunded purchase frees its slot again.
func NewSlotHoldService(repo contracts.RedisRepository, logger *zap.Logger) contracts.SlotHoldService {
	onceSlotHoldService.Do(func() {
		instance := &slotHoldService{
			redisRepo: repo,
			Log:       logger,
		}
		slotHoldServiceInstance = instance
	})
	return slotHoldServiceInstance
}

func (s *slotHoldService) ReleaseHold(ctx context.Context, sessionID string) error {
	key := fmt.Sprintf(constvars.SessionSlotHoldKeyFormat, sessionID)
	if err := s.redisRepo.Delete(ctx, key); err != nil {
		s.Log.Warn("slotHoldService.ReleaseHold failed to release slot hold",
			zap.String(constvars.LoggingSessionIDKey, sessionID),
			zap.Error(err),
		)
		return err
	}
	return nil
}
