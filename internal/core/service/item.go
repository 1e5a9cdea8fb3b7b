package service

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"itemtracker/internal/core/domain"
	"itemtracker/internal/core/port"
)

type ItemService struct {
	store     port.Store
	validator port.Validator
	telemetry port.Telemetry
	logger    *zap.Logger
}

func NewItemService(store port.Store, validator port.Validator, telemetry port.Telemetry, logger *zap.Logger) *ItemService {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ItemService{
		store:     store,
		validator: validator,
		telemetry: telemetry,
		logger:    logger,
	}
}

func (s *ItemService) ListAll(ctx context.Context, query domain.ListQuery) (domain.Page, error) {
	query.OwnerID = nil

	return s.list(ctx, "ListAll", 0, query)
}

func (s *ItemService) ListForOwner(ctx context.Context, ownerID int, query domain.ListQuery) (domain.Page, error) {
	query.OwnerID = &ownerID

	return s.list(ctx, "ListForOwner", ownerID, query)
}

func (s *ItemService) list(ctx context.Context, operation string, userID int, query domain.ListQuery) (domain.Page, error) {
	ctx, span := s.telemetry.StartServiceSpan(ctx, "item", operation, userID, map[string]interface{}{
		"offset":   query.Offset,
		"limit":    query.Limit,
		"order_by": query.OrderBy,
	})
	defer span.End()

	start := time.Now()

	if err := validateListQuery(query); err != nil {
		s.telemetry.RecordServiceOperation(ctx, "item", operation, userID, time.Since(start), err)
		return domain.Page{}, err
	}

	var page domain.Page

	err := withinSession(ctx, s.store, func(session port.Session) error {
		var err error
		page, err = session.Items().List(ctx, query)
		return err
	})

	s.telemetry.RecordServiceOperation(ctx, "item", operation, userID, time.Since(start), err)

	if err != nil {
		return domain.Page{}, err
	}

	span.SetAttributes(map[string]interface{}{"total": page.Total, "returned": len(page.Items)})

	return page, nil
}

func validateListQuery(query domain.ListQuery) error {
	verr := &domain.ValidationError{}

	if query.Offset < 0 {
		verr.Add("range", "offset must not be negative")
	}

	if query.Limit <= 0 {
		verr.Add("range", "limit must be positive")
	}

	if verr.HasErrors() {
		return verr
	}

	return nil
}

func (s *ItemService) Create(ctx context.Context, ownerID int, item domain.Item) (domain.Item, error) {
	ctx, span := s.telemetry.StartServiceSpan(ctx, "item", "Create", ownerID, nil)
	defer span.End()

	start := time.Now()

	item.ID = 0
	item.UserId = ownerID

	if err := s.validator.ValidateStruct(item); err != nil {
		s.telemetry.RecordServiceOperation(ctx, "item", "Create", ownerID, time.Since(start), err)
		return domain.Item{}, err
	}

	now := domain.Now()
	item.Created = now
	item.Updated = now

	var saved domain.Item

	err := withinSession(ctx, s.store, func(session port.Session) error {
		var err error
		saved, err = session.Items().Create(ctx, item)
		return err
	})

	s.telemetry.RecordServiceOperation(ctx, "item", "Create", ownerID, time.Since(start), err)

	if err != nil {
		s.logger.Error("Item create failed", zap.Int("user_id", ownerID), zap.Error(err))
		return domain.Item{}, err
	}

	if saved.Completed {
		s.logger.Info("Item completed",
			zap.String("name", saved.NameOrFallback(saved.Value)),
			zap.Time("completed_at", saved.Created),
		)
	}

	s.telemetry.RecordBusinessEvent(ctx, "item_created", "item", strconv.Itoa(saved.ID), ownerID, map[string]interface{}{
		"completed": saved.Completed,
	})

	return saved, nil
}

func (s *ItemService) Get(ctx context.Context, ownerID int, id int) (domain.Item, error) {
	ctx, span := s.telemetry.StartServiceSpan(ctx, "item", "Get", ownerID, map[string]interface{}{"item_id": id})
	defer span.End()

	start := time.Now()

	var item domain.Item

	err := withinSession(ctx, s.store, func(session port.Session) error {
		var err error
		item, err = ownedItem(ctx, session, ownerID, id)
		return err
	})

	s.telemetry.RecordServiceOperation(ctx, "item", "Get", ownerID, time.Since(start), err)

	if err != nil {
		return domain.Item{}, err
	}

	return item, nil
}

func (s *ItemService) Update(ctx context.Context, ownerID int, id int, patch domain.ItemPatch) (domain.Item, error) {
	ctx, span := s.telemetry.StartServiceSpan(ctx, "item", "Update", ownerID, map[string]interface{}{"item_id": id})
	defer span.End()

	start := time.Now()

	var updated domain.Item

	err := withinSession(ctx, s.store, func(session port.Session) error {
		current, err := ownedItem(ctx, session, ownerID, id)

		if err != nil {
			return err
		}

		if patch.IsEmpty() {
			updated = current
			return nil
		}

		candidate := current
		patch.Apply(&candidate)

		if err := s.validator.ValidateStruct(candidate); err != nil {
			return err
		}

		updated, err = session.Items().Update(ctx, id, patch, domain.NextUpdated(current.Updated, domain.Now()))
		return err
	})

	s.telemetry.RecordServiceOperation(ctx, "item", "Update", ownerID, time.Since(start), err)

	if err != nil {
		return domain.Item{}, err
	}

	return updated, nil
}

func (s *ItemService) Delete(ctx context.Context, ownerID int, id int) error {
	ctx, span := s.telemetry.StartServiceSpan(ctx, "item", "Delete", ownerID, map[string]interface{}{"item_id": id})
	defer span.End()

	start := time.Now()

	err := withinSession(ctx, s.store, func(session port.Session) error {
		if _, err := ownedItem(ctx, session, ownerID, id); err != nil {
			return err
		}

		return session.Items().Delete(ctx, id)
	})

	s.telemetry.RecordServiceOperation(ctx, "item", "Delete", ownerID, time.Since(start), err)

	if err != nil {
		return err
	}

	s.telemetry.RecordBusinessEvent(ctx, "item_deleted", "item", strconv.Itoa(id), ownerID, nil)

	return nil
}

// ownedItem hides rows owned by someone else behind ErrItemNotFound.
func ownedItem(ctx context.Context, session port.Session, ownerID int, id int) (domain.Item, error) {
	item, err := session.Items().GetByID(ctx, id)

	if err != nil {
		return domain.Item{}, err
	}

	if !item.BelongsToUser(ownerID) {
		return domain.Item{}, domain.ErrItemNotFound
	}

	return item, nil
}
