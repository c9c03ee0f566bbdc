package commands

import (
	"context"
)

type ExpireStorageCommandHandler struct {
	uowFactory StorageUoWFactory
}

func NewExpireStorageCommandHandler(uowFactory StorageUoWFactory) ExpireStorageCommandHandler {
	return ExpireStorageCommandHandler{uowFactory: uowFactory}
}

// Handle releases one batch of lapsed assignments at their stored-until time
// and returns how many were closed.
func (h ExpireStorageCommandHandler) Handle(ctx context.Context, cmd ExpireStorageCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	storageRepo := uow.StorageRepository()
	lapsed, err := storageRepo.ListLapsed(ctx, cmd.Now(), cmd.BatchSize())
	if err != nil {
		return 0, err
	}

	closed := 0
	for _, assignment := range lapsed {
		until := assignment.StoredUntil()
		if until == nil || !assignment.Release(*until) {
			continue
		}
		if err = storageRepo.Update(ctx, assignment); err != nil {
			return 0, err
		}
		closed++
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return closed, nil
}
