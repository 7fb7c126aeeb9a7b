package timeslots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SandwichBooking/internal/domain"
	serviceDayRepo "github.com/m04kA/SandwichBooking/internal/infra/storage/servicedays"
)

// Service генератор расписания слотов дня
type Service struct {
	dayRepo   ServiceDayRepository
	slotRepo  TimeSlotRepository
	txManager TransactionManager
	config    *domain.BookingConfig
	metrics   Metrics
	logger    Logger
}

// NewService создает новый экземпляр генератора слотов
func NewService(
	dayRepo ServiceDayRepository,
	slotRepo TimeSlotRepository,
	txManager TransactionManager,
	config *domain.BookingConfig,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		dayRepo:   dayRepo,
		slotRepo:  slotRepo,
		txManager: txManager,
		config:    config,
		metrics:   metrics,
		logger:    logger,
	}
}

// GenerateForDay загружает день и генерирует для него слоты в отдельной транзакции.
// Строка дня блокируется, поэтому параллельные вызовы не создадут слоты дважды.
func (s *Service) GenerateForDay(ctx context.Context, serviceDayID int64) (int, error) {
	s.logger.Info("GenerateForDay: service day id=%d", serviceDayID)

	var created int
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		day, err := s.dayRepo.GetByID(txCtx, serviceDayID)
		if err != nil {
			if errors.Is(err, serviceDayRepo.ErrServiceDayNotFound) {
				s.logger.Warn("GenerateForDay: service day id=%d not found", serviceDayID)
				return ErrServiceDayNotFound
			}
			s.logger.Error("GenerateForDay: failed to get service day id=%d: %v", serviceDayID, err)
			return fmt.Errorf("%w: GenerateForDay - get service day: %v", ErrInternal, err)
		}

		created, err = s.Generate(txCtx, day)
		return err
	})
	if err != nil {
		return 0, err
	}

	return created, nil
}

// Generate разбивает окно [start, end) дня на слоты фиксированной длины.
// Идемпотентен: если у дня уже есть слоты или окно пустое, возвращает 0.
func (s *Service) Generate(ctx context.Context, day *domain.ServiceDay) (int, error) {
	existing, err := s.slotRepo.CountByServiceDay(ctx, day.ID)
	if err != nil {
		s.logger.Error("Generate: failed to count slots of day id=%d: %v", day.ID, err)
		return 0, fmt.Errorf("%w: Generate - count slots: %v", ErrInternal, err)
	}
	if existing > 0 {
		s.logger.Info("Generate: day id=%d already has %d slots, skipping", day.ID, existing)
		return 0, nil
	}

	if !day.HasValidWindow() {
		s.logger.Warn("Generate: day id=%d has empty window %s-%s", day.ID, day.StartTime, day.EndTime)
		return 0, nil
	}

	windows, err := domain.PartitionWindow(day.StartTime, day.EndTime, s.config.SlotDurationMinutes)
	if err != nil {
		s.logger.Error("Generate: failed to partition window of day id=%d: %v", day.ID, err)
		return 0, fmt.Errorf("%w: Generate - partition window: %v", ErrInternal, err)
	}

	created, err := s.slotRepo.CreateBatch(ctx, day.ID, windows)
	if err != nil {
		s.logger.Error("Generate: failed to create slots of day id=%d: %v", day.ID, err)
		return 0, fmt.Errorf("%w: Generate - create slots: %v", ErrInternal, err)
	}

	s.metrics.SlotsGenerated(created)
	s.logger.Info("Generate: created %d slots for day id=%d (%s-%s)", created, day.ID, day.StartTime, day.EndTime)

	return created, nil
}

// Delete удаляет все слоты дня; заказы на них удаляются каскадно
func (s *Service) Delete(ctx context.Context, day *domain.ServiceDay) (int, error) {
	deleted, err := s.slotRepo.DeleteByServiceDay(ctx, day.ID)
	if err != nil {
		s.logger.Error("Delete: failed to delete slots of day id=%d: %v", day.ID, err)
		return 0, fmt.Errorf("%w: Delete - delete slots: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: deleted %d slots of day id=%d", deleted, day.ID)
	return deleted, nil
}
