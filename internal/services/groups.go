package services

import (
	"context"

	"github.com/fathima-sithara/snapshoot-service/internal/domain"
	"github.com/fathima-sithara/snapshoot-service/internal/events"
	"github.com/fathima-sithara/snapshoot-service/internal/policy"
	"github.com/fathima-sithara/snapshoot-service/internal/repository"
	"go.uber.org/zap"
)

type GroupService struct {
	users  repository.UserRepository
	groups repository.GroupRepository
	vis    *Visibility
	notifier
}

func NewGroupService(users repository.UserRepository, groups repository.GroupRepository, vis *Visibility, pub events.Publisher, log *zap.SugaredLogger) *GroupService {
	return &GroupService{users: users, groups: groups, vis: vis, notifier: newNotifier(pub, log)}
}

// existing keeps the ids that belong to known users, dropping the rest.
func (s *GroupService) existing(ctx context.Context, ids []string) ([]string, error) {
	ids = domain.Dedupe(ids)
	if len(ids) == 0 {
		return ids, nil
	}
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	known := make(map[string]struct{}, len(users))
	for _, u := range users {
		known[u.ID] = struct{}{}
	}
	out := ids[:0]
	for _, id := range ids {
		if _, ok := known[id]; ok {
			out = append(out, id)
		}
	}
	return out, nil
}

func (s *GroupService) Create(ctx context.Context, id domain.Identity, name string, members []string) (*domain.Group, error) {
	others, err := s.existing(ctx, members)
	if err != nil {
		return nil, err
	}
	g := &domain.Group{
		Name:      name,
		CreatorID: id.UserID,
		Members:   domain.Dedupe(append([]string{id.UserID}, others...)),
	}
	if err := s.groups.Create(ctx, g); err != nil {
		return nil, err
	}
	s.emit(ctx, events.GroupCreated, id.UserID, g.ID, g)
	return g, nil
}

func (s *GroupService) List(ctx context.Context, id domain.Identity) ([]domain.Group, error) {
	return s.groups.ListForMember(ctx, id.UserID)
}

func (s *GroupService) Get(ctx context.Context, id domain.Identity, groupID string) (*domain.Group, error) {
	return s.vis.MemberGroup(ctx, id.UserID, groupID)
}

// managed loads a group the caller belongs to and requires them to be its creator.
func (s *GroupService) managed(ctx context.Context, id domain.Identity, groupID, action string) (*domain.Group, error) {
	g, err := s.vis.MemberGroup(ctx, id.UserID, groupID)
	if err != nil {
		return nil, err
	}
	if !policy.CanManageGroup(id.UserID, *g) {
		return nil, domain.Errorf(domain.ErrForbidden, "only the group creator can %s", action)
	}
	return g, nil
}

func (s *GroupService) Rename(ctx context.Context, id domain.Identity, groupID, name string) (*domain.Group, error) {
	if _, err := s.managed(ctx, id, groupID, "rename the group"); err != nil {
		return nil, err
	}
	return s.groups.Rename(ctx, groupID, id.UserID, name)
}

func (s *GroupService) AddMembers(ctx context.Context, id domain.Identity, groupID string, members []string) (*domain.Group, error) {
	g, err := s.managed(ctx, id, groupID, "add members")
	if err != nil {
		return nil, err
	}
	ids, err := s.existing(ctx, members)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return g, nil
	}
	return s.groups.AddMembers(ctx, groupID, id.UserID, ids)
}

func (s *GroupService) RemoveMember(ctx context.Context, id domain.Identity, groupID, memberID string) (*domain.Group, error) {
	g, err := s.vis.MemberGroup(ctx, id.UserID, groupID)
	if err != nil {
		return nil, err
	}
	if err := policy.RemovalCheck(id.UserID, memberID, *g); err != nil {
		return nil, err
	}
	return s.groups.RemoveMember(ctx, groupID, memberID)
}

func (s *GroupService) Delete(ctx context.Context, id domain.Identity, groupID string) error {
	if _, err := s.managed(ctx, id, groupID, "delete the group"); err != nil {
		return err
	}
	if err := s.groups.Delete(ctx, groupID, id.UserID); err != nil {
		return err
	}
	s.emit(ctx, events.GroupDeleted, id.UserID, groupID, nil)
	return nil
}
