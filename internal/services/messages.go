package services

import (
	"context"

	"github.com/fathima-sithara/snapshoot-service/internal/domain"
	"github.com/fathima-sithara/snapshoot-service/internal/events"
	"github.com/fathima-sithara/snapshoot-service/internal/policy"
	"github.com/fathima-sithara/snapshoot-service/internal/repository"
	"go.uber.org/zap"
)

type MessageService struct {
	messages repository.MessageRepository
	vis      *Visibility
	media    MediaStore
	notifier
}

func NewMessageService(messages repository.MessageRepository, vis *Visibility, media MediaStore, pub events.Publisher, log *zap.SugaredLogger) *MessageService {
	return &MessageService{messages: messages, vis: vis, media: media, notifier: newNotifier(pub, log)}
}

// Upload is raw media sent along with a message.
type Upload struct {
	Data        []byte
	ContentType string
}

func (s *MessageService) checkBody(content string, media *domain.Media) error {
	if content == "" && media == nil {
		return domain.NewError(domain.ErrValidation, "a message needs content or media")
	}
	if media == nil {
		return nil
	}
	if err := media.Validate(); err != nil {
		return err
	}
	return checkExternalMedia(s.media, *media)
}

func (s *MessageService) authorizeDirect(ctx context.Context, id domain.Identity, recipientID string) error {
	if recipientID == id.UserID {
		return domain.NewError(domain.ErrSelfReference, "cannot send a message to yourself")
	}
	ok, err := s.vis.CanMessageDirect(ctx, id.UserID, recipientID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NewError(domain.ErrForbidden, "you can only message your friends")
	}
	return nil
}

func (s *MessageService) authorizeGroup(ctx context.Context, id domain.Identity, groupID string) error {
	g, err := s.vis.MemberGroup(ctx, id.UserID, groupID)
	if err != nil && !isNotFound(err) {
		return err
	}
	if g == nil || !policy.CanMessageGroup(id.UserID, *g) {
		return domain.NewError(domain.ErrForbidden, "you are not a member of this group")
	}
	return nil
}

func (s *MessageService) SendDirect(ctx context.Context, id domain.Identity, recipientID, content string, media *domain.Media) (*domain.Message, error) {
	if err := s.authorizeDirect(ctx, id, recipientID); err != nil {
		return nil, err
	}
	if err := s.checkBody(content, media); err != nil {
		return nil, err
	}
	return s.persist(ctx, &domain.Message{
		Content: content, SenderID: id.UserID, RecipientID: recipientID, Media: media,
	})
}

func (s *MessageService) SendGroup(ctx context.Context, id domain.Identity, groupID, content string, media *domain.Media) (*domain.Message, error) {
	if err := s.authorizeGroup(ctx, id, groupID); err != nil {
		return nil, err
	}
	if err := s.checkBody(content, media); err != nil {
		return nil, err
	}
	return s.persist(ctx, &domain.Message{
		Content: content, SenderID: id.UserID, RecipientID: groupID, IsGroup: true, Read: true, Media: media,
	})
}

// SendDirectUpload authorizes, stores the upload, then records the message.
// The object is released again if the message cannot be saved.
func (s *MessageService) SendDirectUpload(ctx context.Context, id domain.Identity, recipientID, content string, up Upload) (*domain.Message, error) {
	if err := s.authorizeDirect(ctx, id, recipientID); err != nil {
		return nil, err
	}
	return s.withUpload(ctx, id, up, func(m *domain.Media) (*domain.Message, error) {
		return s.persist(ctx, &domain.Message{
			Content: content, SenderID: id.UserID, RecipientID: recipientID, Media: m,
		})
	})
}

func (s *MessageService) SendGroupUpload(ctx context.Context, id domain.Identity, groupID, content string, up Upload) (*domain.Message, error) {
	if err := s.authorizeGroup(ctx, id, groupID); err != nil {
		return nil, err
	}
	return s.withUpload(ctx, id, up, func(m *domain.Media) (*domain.Message, error) {
		return s.persist(ctx, &domain.Message{
			Content: content, SenderID: id.UserID, RecipientID: groupID, IsGroup: true, Read: true, Media: m,
		})
	})
}

func (s *MessageService) withUpload(ctx context.Context, id domain.Identity, up Upload, save func(*domain.Media) (*domain.Message, error)) (*domain.Message, error) {
	if err := s.media.Validate(up.ContentType, len(up.Data)); err != nil {
		return nil, err
	}
	m, err := s.media.Put(ctx, id.UserID, up.Data, up.ContentType)
	if err != nil {
		return nil, err
	}
	msg, err := save(&m)
	if err != nil {
		s.release(ctx, s.media, m)
		return nil, err
	}
	return msg, nil
}

func (s *MessageService) persist(ctx context.Context, m *domain.Message) (*domain.Message, error) {
	if err := s.messages.Create(ctx, m); err != nil {
		return nil, err
	}
	s.emit(ctx, events.MessageSent, m.SenderID, m.ID, m)
	return m, nil
}

func (s *MessageService) ListDirect(ctx context.Context, id domain.Identity, peerID string, page domain.Page) ([]domain.Message, error) {
	return s.messages.ListDirect(ctx, id.UserID, peerID, page.Normalize())
}

func (s *MessageService) ListGroup(ctx context.Context, id domain.Identity, groupID string, page domain.Page) ([]domain.Message, error) {
	if err := s.authorizeGroup(ctx, id, groupID); err != nil {
		return nil, err
	}
	return s.messages.ListGroup(ctx, groupID, page.Normalize())
}

// Delete removes a message sent by the caller. Attached media stored for the
// caller is released before the record is deleted; if the release fails the message is kept so
// the call can be retried without losing the storage reference.
func (s *MessageService) Delete(ctx context.Context, id domain.Identity, messageID string) error {
	m, err := s.messages.FindBySender(ctx, messageID, id.UserID)
	if err != nil {
		return err
	}
	if m.Media != nil {
		if err := releaseOwned(ctx, s.media, id.UserID, *m.Media); err != nil {
			return err
		}
	}
	if _, err := s.messages.DeleteBySender(ctx, messageID, id.UserID); err != nil {
		return err
	}
	s.emit(ctx, events.MessageDeleted, id.UserID, messageID, nil)
	return nil
}
