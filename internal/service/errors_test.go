package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/garage-service/internal/repository"
	apperrors "github.com/spec-kit/garage-service/pkg/util"
)

func TestMapRepoError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"email conflict", &repository.ConflictError{Field: repository.FieldEmail}, apperrors.CodeDuplicateEmail},
		{"review conflict", &repository.ConflictError{Field: repository.FieldReview}, apperrors.CodeDuplicateReview},
		{"preferred conflict", &repository.ConflictError{Field: repository.FieldPreferredGarage}, apperrors.CodeDuplicate},
		{"license conflict", &repository.ConflictError{Field: repository.FieldBusinessLicense}, apperrors.CodeDuplicate},
		{"not found", repository.ErrNotFound, apperrors.CodeNotFound},
		{"storage", fmt.Errorf("%w: conn reset", repository.ErrStorageUnavailable), apperrors.CodeStorageUnavailable},
		{"lost race", repository.ErrConcurrentUpdate, apperrors.CodeStorageUnavailable},
		{"deadline", context.DeadlineExceeded, apperrors.CodeStorageUnavailable},
		{"unknown", errors.New("boom"), apperrors.CodeInternal},
		{"domain passthrough", apperrors.NewForbidden("no"), apperrors.CodeForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, apperrors.IsKind(mapRepoError(tt.err, "garage"), tt.code))
		})
	}

	assert.NoError(t, mapRepoError(nil, "garage"))
	assert.Equal(t, "garage not found", apperrors.ToDomainError(mapRepoError(repository.ErrNotFound, "garage")).Message)
}

func TestRequireID(t *testing.T) {
	assert.NoError(t, requireID(uuid.NewString(), "garageId"))
	err := requireID("42", "garageId")
	assert.True(t, apperrors.IsKind(err, apperrors.CodeValidation))
	assert.Contains(t, apperrors.ToDomainError(err).Details, "garageId")
}
