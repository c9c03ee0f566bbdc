package commands

import (
	"context"
)

// ReleaseStorageCommandHandler frees a storage assignment. Releasing an
// assignment twice is a no-op. The repository writes the release time only
// while it is unset, so concurrent releases need no lock.
type ReleaseStorageCommandHandler struct {
	uowFactory StorageUoWFactory
}

func NewReleaseStorageCommandHandler(uowFactory StorageUoWFactory) ReleaseStorageCommandHandler {
	return ReleaseStorageCommandHandler{uowFactory: uowFactory}
}

func (h ReleaseStorageCommandHandler) Handle(ctx context.Context, cmd ReleaseStorageCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	storageRepo := uow.StorageRepository()
	assignment, err := storageRepo.Get(ctx, cmd.AssignmentID())
	if err != nil {
		return err
	}

	if !assignment.Release(cmd.At()) {
		return nil
	}

	if err = storageRepo.Update(ctx, assignment); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
