package repository

import (
	"errors"

	"github.com/fathima-sithara/snapshoot-service/internal/domain"
	"go.mongodb.org/mongo-driver/mongo"
)

// translate maps driver errors onto the domain taxonomy. what names the
// entity for messages, e.g. "story".
func translate(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Errorf(domain.ErrNotFound, "%s not found", what)
	}
	if mongo.IsDuplicateKeyError(err) {
		return domain.Errorf(domain.ErrAlreadyExists, "%s already exists", what)
	}
	return domain.StorageError(what+" storage error", err)
}
