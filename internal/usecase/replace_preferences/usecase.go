package replace_preferences

import (
	"context"
	"errors"
	"fmt"

	"github.com/courtbook/booking-engine/internal/domain"
	windowRepo "github.com/courtbook/booking-engine/internal/infra/storage/window"
)

// UseCase use case замены списка предпочтений участника
type UseCase struct {
	preferences PreferenceRepository
	resources   ResourceRepository
	windows     WindowRepository
	txManager   TransactionManager
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	preferences PreferenceRepository,
	resources ResourceRepository,
	windows WindowRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		preferences: preferences,
		resources:   resources,
		windows:     windows,
		txManager:   txManager,
		logger:      logger,
	}
}

// Execute заменяет список предпочтений участника целиком.
// Приоритеты перенумеровываются 1..n в порядке присланных записей
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ReplacePreferences: user=%d, entries=%d", req.Principal.UserID, len(req.Entries))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ReplacePreferences: validation failed: %v", err)
		return nil, err
	}

	// 2. После дедлайна окна запись отклоняется: снапшот уже неизменяем
	if err := uc.checkWindowAcceptsWrites(ctx, req.OrganisationID); err != nil {
		return nil, err
	}

	// 3. Записи с конкретным кортом должны ссылаться на корты организации
	if err := uc.checkResourceReferences(ctx, req); err != nil {
		return nil, err
	}

	// 4. Заменяем список в транзакции (удаление + вставка атомарны)
	entries := make([]*domain.PreferenceEntry, 0, len(req.Entries))
	for _, e := range req.Entries {
		entries = append(entries, &domain.PreferenceEntry{
			UserID:          req.Principal.UserID,
			OrganisationID:  req.OrganisationID,
			SiteID:          e.SiteID,
			ResourceID:      e.ResourceID,
			DayOfWeek:       e.DayOfWeek,
			StartTime:       e.StartTime,
			DurationMinutes: e.DurationMinutes,
		})
	}

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		return uc.preferences.ReplaceForUser(txCtx, req.Principal.UserID, req.OrganisationID, entries)
	})
	if err != nil {
		uc.logger.Error("ReplacePreferences: failed to replace preferences for user=%d: %v", req.Principal.UserID, err)
		return nil, fmt.Errorf("%w: failed to replace preferences: %v", ErrInternal, err)
	}

	// 5. Возвращаем актуальный список
	saved, err := uc.preferences.GetByUser(ctx, req.Principal.UserID, req.OrganisationID)
	if err != nil {
		uc.logger.Error("ReplacePreferences: failed to reload preferences for user=%d: %v", req.Principal.UserID, err)
		return nil, fmt.Errorf("%w: failed to reload preferences: %v", ErrInternal, err)
	}

	uc.logger.Info("ReplacePreferences: user=%d now has %d entries", req.Principal.UserID, len(saved))
	return &Response{Entries: saved}, nil
}

// checkWindowAcceptsWrites отклоняет запись, когда активное окно уже сняло снапшот
func (uc *UseCase) checkWindowAcceptsWrites(ctx context.Context, orgID int64) error {
	w, err := uc.windows.GetActive(ctx, orgID)
	if err != nil {
		if errors.Is(err, windowRepo.ErrWindowNotFound) {
			return nil
		}
		uc.logger.Error("ReplacePreferences: failed to check active window: %v", err)
		return fmt.Errorf("%w: failed to check active window: %v", ErrInternal, err)
	}

	if !w.AcceptsPreferenceWrites() {
		uc.logger.Info("ReplacePreferences: window id=%d is %s, rejecting write", w.ID, w.State)
		return ErrWindowClosed
	}
	return nil
}

// checkResourceReferences проверяет, что конкретные корты и площадки
// из записей принадлежат организации
func (uc *UseCase) checkResourceReferences(ctx context.Context, req *Request) error {
	needsCheck := false
	for _, e := range req.Entries {
		if e.ResourceID != nil || e.SiteID != nil {
			needsCheck = true
			break
		}
	}
	if !needsCheck {
		return nil
	}

	resources, err := uc.resources.GetActiveByOrg(ctx, req.OrganisationID)
	if err != nil {
		uc.logger.Error("ReplacePreferences: failed to get resources: %v", err)
		return fmt.Errorf("%w: failed to get resources: %v", ErrInternal, err)
	}

	resourceIDs := make(map[int64]bool, len(resources))
	siteIDs := make(map[int64]bool)
	for _, r := range resources {
		resourceIDs[r.ID] = true
		siteIDs[r.SiteID] = true
	}

	for i, e := range req.Entries {
		if e.ResourceID != nil && !resourceIDs[*e.ResourceID] {
			return fmt.Errorf("%w: entry %d references resource %d", ErrUnknownResource, i+1, *e.ResourceID)
		}
		if e.SiteID != nil && !siteIDs[*e.SiteID] {
			return fmt.Errorf("%w: entry %d references site %d", ErrUnknownResource, i+1, *e.SiteID)
		}
	}
	return nil
}
