package analytics

import (
	"context"

	"github.com/blockedby/groupwatch/internal/models"
)

// Groups returns the per-group summary view.
func (s *Service) Groups(ctx context.Context) []models.GroupStats {
	if s.client == nil {
		return nil
	}
	groups, err := s.client.ListGroups(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("list groups failed")
		return nil
	}
	return groups
}

// Ghosts returns the inactive-member view.
func (s *Service) Ghosts(ctx context.Context) []models.Ghost {
	if s.client == nil {
		return nil
	}
	ghosts, err := s.client.ListGhosts(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("list ghosts failed")
		return nil
	}
	return ghosts
}

// Members returns the membership rollups of one group, busiest first.
func (s *Service) Members(ctx context.Context, groupID string) []models.Member {
	if s.client == nil {
		return nil
	}
	members, err := s.client.ListMembers(ctx, groupID)
	if err != nil {
		s.log.Error().Err(err).Str("group_id", groupID).Msg("list members failed")
		return nil
	}
	return members
}

// Messages returns the full chronological message log of one group.
func (s *Service) Messages(ctx context.Context, groupID string) []models.Message {
	if s.client == nil {
		return nil
	}
	msgs, err := s.client.ListMessages(ctx, groupID)
	if err != nil {
		s.log.Error().Err(err).Str("group_id", groupID).Msg("list messages failed")
		return nil
	}
	return msgs
}
