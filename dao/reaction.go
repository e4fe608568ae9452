package dao

import (
	"Pulse/models"
	"Pulse/service"
	"Pulse/types"
	"fmt"

	"golang.org/x/net/context"
	"gorm.io/gorm"
)

type ReactionDAO struct {
	Repo[models.Reaction]
	Stats *PostStatsDAO
}

func NewReactionDAO(db *gorm.DB, stats *PostStatsDAO) *ReactionDAO {
	return &ReactionDAO{Repo: NewRepo[models.Reaction](db), Stats: stats}
}

// GetByUserTarget 查询指定用户对指定目标的反应记录
func (d *ReactionDAO) GetByUserTarget(ctx context.Context, userID uint64, target types.TargetRef) (*models.Reaction, error) {
	var item models.Reaction
	err := d.Db.WithContext(ctx).
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, target.Kind, target.ID).
		Limit(1).Find(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == 0 {
		return nil, nil
	}
	return &item, nil
}

// TargetExists 目标是否存在(显式按闭集分发)
func (d *ReactionDAO) TargetExists(ctx context.Context, target types.TargetRef) (bool, error) {
	switch target.Kind {
	case types.TargetPost:
		var count int64
		err := d.Db.WithContext(ctx).Model(&models.Post{}).
			Where("id = ? AND status = 1", target.ID).Limit(1).Count(&count).Error
		return count > 0, err
	case types.TargetComment:
		var count int64
		err := d.Db.WithContext(ctx).Model(&models.Comment{}).
			Where("id = ? AND status = 1", target.ID).Limit(1).Count(&count).Error
		return count > 0, err
	default:
		return false, fmt.Errorf("unknown target kind: %s", target.Kind)
	}
}

// TargetAuthorID 目标作者, 目标不存在时返回 0
func (d *ReactionDAO) TargetAuthorID(ctx context.Context, target types.TargetRef) (uint64, error) {
	var userID uint64
	var err error
	switch target.Kind {
	case types.TargetPost:
		err = d.Db.WithContext(ctx).Model(&models.Post{}).
			Where("id = ? AND status = 1", target.ID).
			Limit(1).Pluck("user_id", &userID).Error
	case types.TargetComment:
		err = d.Db.WithContext(ctx).Model(&models.Comment{}).
			Where("id = ? AND status = 1", target.ID).
			Limit(1).Pluck("user_id", &userID).Error
	default:
		return 0, fmt.Errorf("unknown target kind: %s", target.Kind)
	}
	return userID, err
}

// TargetPostID 目标所属的帖子ID, 帖子目标就是自身
func (d *ReactionDAO) TargetPostID(ctx context.Context, target types.TargetRef) (uint64, error) {
	if target.Kind == types.TargetPost {
		return target.ID, nil
	}
	var postID uint64
	err := d.Db.WithContext(ctx).Model(&models.Comment{}).
		Where("id = ?", target.ID).
		Limit(1).Pluck("post_id", &postID).Error
	return postID, err
}

// ReactionCount 目标当前的反应计数(读计数缓存)
func (d *ReactionDAO) ReactionCount(ctx context.Context, target types.TargetRef) (int64, error) {
	switch target.Kind {
	case types.TargetPost:
		stats, err := d.Stats.GetByPostID(ctx, target.ID)
		if err != nil {
			return 0, err
		}
		return stats.ReactionCount, nil
	case types.TargetComment:
		var count int64
		err := d.Db.WithContext(ctx).Model(&models.Comment{}).
			Where("id = ?", target.ID).
			Limit(1).Pluck("reaction_count", &count).Error
		return count, err
	default:
		return 0, fmt.Errorf("unknown target kind: %s", target.Kind)
	}
}

// CountByType 按反应类型分组统计
func (d *ReactionDAO) CountByType(ctx context.Context, target types.TargetRef) (map[string]int64, error) {
	type row struct {
		ReactionType string
		Count        int64
	}
	var rows []row
	err := d.Db.WithContext(ctx).Model(&models.Reaction{}).
		Select("reaction_type, COUNT(*) AS count").
		Where("target_type = ? AND target_id = ?", target.Kind, target.ID).
		Group("reaction_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[string]int64, len(rows))
	for _, r := range rows {
		result[r.ReactionType] = r.Count
	}
	return result, nil
}

// UserReactions 批量查询某用户对一批同类目标的反应, 列表页回填 user_reaction 用
func (d *ReactionDAO) UserReactions(ctx context.Context, userID uint64, kind types.TargetKind, targetIDs []uint64) (map[uint64]string, error) {
	result := make(map[uint64]string, len(targetIDs))
	if userID == 0 || len(targetIDs) == 0 {
		return result, nil
	}

	var rows []models.Reaction
	err := d.Db.WithContext(ctx).
		Where("user_id = ? AND target_type = ? AND target_id IN ?", userID, kind, targetIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, r := range rows {
		result[r.TargetID] = r.ReactionType
	}
	return result, nil
}

// ListByTarget 目标最近的反应明细, 详情页按类型分组展示用
func (d *ReactionDAO) ListByTarget(ctx context.Context, target types.TargetRef, limit int) ([]*models.Reaction, error) {
	var rows []*models.Reaction
	err := d.Db.WithContext(ctx).
		Where("target_type = ? AND target_id = ?", target.Kind, target.ID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// Apply 在单个事务中应用切换决策并同步计数缓存
// 反应行与计数必须同生共死, 否则并发下计数会漂移
func (d *ReactionDAO) Apply(ctx context.Context, decision service.ToggleDecision) error {
	return d.Transaction(ctx, func(tx *gorm.DB) error {
		switch decision.Action {
		case types.ToggleAdded:
			if err := tx.Create(decision.Reaction).Error; err != nil {
				return err
			}
		case types.ToggleChanged:
			if err := tx.Model(&models.Reaction{}).
				Where("id = ?", decision.Reaction.ID).
				Update("reaction_type", decision.Reaction.ReactionType).Error; err != nil {
				return err
			}
		case types.ToggleRemoved:
			if err := tx.Where("id = ?", decision.Reaction.ID).
				Delete(&models.Reaction{}).Error; err != nil {
				return err
			}
		}

		if decision.CounterDelta == 0 {
			return nil
		}
		return d.incrReactionCount(ctx, tx, decision.Target, decision.CounterDelta)
	})
}

func (d *ReactionDAO) incrReactionCount(ctx context.Context, tx *gorm.DB, target types.TargetRef, delta int64) error {
	switch target.Kind {
	case types.TargetPost:
		return d.Stats.IncrReactionCount(ctx, tx, target.ID, delta)
	case types.TargetComment:
		return tx.Model(&models.Comment{}).
			Where("id = ?", target.ID).
			UpdateColumn("reaction_count", gorm.Expr("GREATEST(reaction_count + ?, 0)", delta)).
			Error
	default:
		return fmt.Errorf("unknown target kind: %s", target.Kind)
	}
}
