package services

import (
	"context"
	"errors"
	"time"

	"github.com/fathima-sithara/snapshoot-service/internal/domain"
	"github.com/fathima-sithara/snapshoot-service/internal/events"
	"go.uber.org/zap"
)

// MediaStore is the object storage the services release and upload media through.
type MediaStore interface {
	Validate(contentType string, size int) error
	Put(ctx context.Context, ownerID string, data []byte, contentType string) (domain.Media, error)
	Delete(ctx context.Context, url string) error
	Owner(url string) (string, bool)
}

const publishTimeout = 2 * time.Second

// notifier publishes domain events after successful mutations. Failures are
// logged and never surface to the caller.
type notifier struct {
	pub events.Publisher
	log *zap.SugaredLogger
}

func newNotifier(pub events.Publisher, log *zap.SugaredLogger) notifier {
	if pub == nil {
		pub = events.Noop{}
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return notifier{pub: pub, log: log}
}

func (n notifier) emit(ctx context.Context, typ, actorID, subjectID string, payload any) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	err := n.pub.Publish(ctx, events.Event{
		Type:      typ,
		ActorID:   actorID,
		SubjectID: subjectID,
		At:        time.Now().UTC(),
		Payload:   payload,
	})
	if err != nil {
		n.log.Warnw("event publish failed", "type", typ, "subject", subjectID, "err", err)
	}
}

// release deletes an uploaded object that could not be attached to a record.
func (n notifier) release(ctx context.Context, media MediaStore, m domain.Media) {
	if err := media.Delete(context.WithoutCancel(ctx), m.URL); err != nil {
		n.log.Errorw("failed to release orphaned media", "url", m.URL, "err", err)
	}
}

// checkExternalMedia rejects a client supplied reference to an object in the
// media store. Stored objects are only attached by the upload that created
// them, so every object belongs to exactly one record. Other URLs are kept
// as opaque references and never released.
func checkExternalMedia(store MediaStore, m domain.Media) error {
	for _, u := range []string{m.URL, m.ThumbnailURL} {
		if u == "" {
			continue
		}
		if _, ok := store.Owner(u); ok {
			return domain.NewError(domain.ErrValidation, "stored media can only be attached by uploading it")
		}
	}
	return nil
}

// releaseOwned deletes the object behind m when it was stored for ownerID.
// Anything else is left alone.
func releaseOwned(ctx context.Context, store MediaStore, ownerID string, m domain.Media) error {
	if owner, ok := store.Owner(m.URL); !ok || owner != ownerID {
		return nil
	}
	return store.Delete(ctx, m.URL)
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
