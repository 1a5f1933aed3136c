package services

import (
	"time"

	"github.com/collabhub/backend/internal/models"
	"github.com/collabhub/backend/pkg/response"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AlertService struct {
	db *gorm.DB
}

func NewAlertService(db *gorm.DB) *AlertService {
	return &AlertService{db: db}
}

// RecordPost bumps the unread count of every participant who should see the
// new post, inside the caller's transaction so a rolled-back post never
// leaves a phantom alert.
func (s *AlertService) RecordPost(tx *gorm.DB, access *ChannelAccess, ref ChannelRef, authorID uint) error {
	switch ref.Kind {
	case models.ChannelCommon:
		var members []models.TeamMember
		if err := tx.Where("project_id = ?", ref.ProjectID).Find(&members).Error; err != nil {
			return err
		}
		for _, m := range members {
			if m.UserID == authorID {
				continue
			}
			if err := s.bump(tx, ref, m.UserID); err != nil {
				return err
			}
		}
		return nil

	case models.ChannelDirect:
		// Exactly one counterpart: the member when the PM/admin wrote,
		// the PM otherwise.
		counterpart := access.Target.UserID
		if authorID == access.Target.UserID {
			counterpart = access.Project.PMID
		}
		if counterpart == authorID {
			return nil
		}
		return s.bump(tx, ref, counterpart)

	default:
		return response.NewNotFound("unknown channel kind")
	}
}

// bump is a single atomic upsert on the marker row. It must not be an
// insert-then-retry loop: a unique violation inside the caller's transaction
// aborts the whole transaction on PostgreSQL, taking the post with it.
func (s *AlertService) bump(tx *gorm.DB, ref ChannelRef, viewerID uint) error {
	marker := models.UnreadMarker{
		ProjectID:    ref.ProjectID,
		Kind:         ref.Kind,
		PartitionKey: ref.PartitionKey,
		ViewerID:     viewerID,
		Count:        1,
	}
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "project_id"},
			{Name: "channel_kind"},
			{Name: "partition_key"},
			{Name: "viewer_id"},
		},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"count":      gorm.Expr("count + 1"),
			"updated_at": time.Now(),
		}),
	}).Create(&marker).Error
}

// Reset zeroes the viewer's counter for a channel. Called only after a
// listing succeeded, so a failed fetch never erases an unread signal.
// Resetting an absent or already-zero counter is a silent no-op.
func (s *AlertService) Reset(ref ChannelRef, viewerID uint) error {
	return s.db.Model(&models.UnreadMarker{}).
		Where("project_id = ? AND channel_kind = ? AND partition_key = ? AND viewer_id = ?",
			ref.ProjectID, ref.Kind, ref.PartitionKey, viewerID).
		UpdateColumn("count", 0).Error
}

// ListForViewer returns every channel with unseen posts for the viewer, one
// row per channel. A PM dashboard gets its per-member breakdown and its
// shared-board badge from the same rows; they are never summed.
func (s *AlertService) ListForViewer(actor Actor, viewerID uint) ([]models.UnreadMarker, error) {
	if !actor.Admin() && actor.UserID != viewerID {
		return nil, response.NewForbidden("cannot read another user's alerts")
	}

	var markers []models.UnreadMarker
	if err := s.db.
		Where("viewer_id = ? AND count > 0", viewerID).
		Order("project_id ASC, channel_kind ASC, partition_key ASC").
		Find(&markers).Error; err != nil {
		return nil, err
	}
	return markers, nil
}
