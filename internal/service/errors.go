package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/spec-kit/garage-service/internal/repository"
	apperrors "github.com/spec-kit/garage-service/pkg/util"
)

// mapRepoError turns repository errors into the API error taxonomy.
// resource names the entity a NotFound refers to.
func mapRepoError(err error, resource string) error {
	if err == nil {
		return nil
	}

	var domainErr *apperrors.DomainError
	if errors.As(err, &domainErr) {
		return err
	}

	var conflict *repository.ConflictError
	if errors.As(err, &conflict) {
		switch conflict.Field {
		case repository.FieldEmail:
			return apperrors.NewDuplicateEmail()
		case repository.FieldReview:
			return apperrors.NewDuplicateReview()
		case repository.FieldPreferredGarage:
			return apperrors.NewDuplicate("garage already in preferred list", map[string]any{"field": "garageId"})
		case repository.FieldBusinessLicense:
			return apperrors.NewDuplicate("business license already registered", map[string]any{"field": "businessLicense"})
		default:
			return apperrors.NewDuplicate("resource already exists", map[string]any{"field": conflict.Field})
		}
	}

	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NewNotFound(resource, nil)
	case errors.Is(err, repository.ErrStorageUnavailable),
		errors.Is(err, repository.ErrConcurrentUpdate),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return apperrors.NewStorageUnavailable(err)
	}
	return apperrors.NewInternalError(err)
}

// requireID rejects ids that cannot name a stored record.
func requireID(id, field string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.NewValidationError("invalid "+field, map[string]any{field: "must be a valid id"})
	}
	return nil
}
