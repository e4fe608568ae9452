package dao

import (
	"Pulse/models"
	"Pulse/types"
	"context"
	"strings"

	"gorm.io/gorm"
)

type Users struct {
	Repo[models.User]
}

func NewUsers(db *gorm.DB) *Users {
	return &Users{Repo: NewRepo[models.User](db)}
}

// FindByEmail 邮箱精确查询
func (u *Users) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return u.Repo.FindByWhere(ctx, "email = ?", email)
}

// ResolveByIdentifiers 按标识符批量解析用户
// 标识符既可能是邮箱(精确匹配)也可能是用户名(不区分大小写),
// 多个标识符解析到同一用户时只返回一条
func (u *Users) ResolveByIdentifiers(ctx context.Context, identifiers []string) ([]*models.User, error) {
	if len(identifiers) == 0 {
		return nil, nil
	}

	emails := make([]string, 0, len(identifiers))
	usernames := make([]string, 0, len(identifiers))
	for _, ident := range identifiers {
		if strings.Contains(ident, "@") {
			emails = append(emails, ident)
		} else {
			usernames = append(usernames, strings.ToLower(ident))
		}
	}

	query := u.Db.WithContext(ctx).Model(&models.User{})
	switch {
	case len(emails) > 0 && len(usernames) > 0:
		query = query.Where("email IN ? OR LOWER(username) IN ?", emails, usernames)
	case len(emails) > 0:
		query = query.Where("email IN ?", emails)
	default:
		query = query.Where("LOWER(username) IN ?", usernames)
	}

	var rows []*models.User
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	// 按 ID 去重
	seen := make(map[uint64]struct{}, len(rows))
	users := make([]*models.User, 0, len(rows))
	for _, row := range rows {
		if _, ok := seen[row.ID]; ok {
			continue
		}
		seen[row.ID] = struct{}{}
		users = append(users, row)
	}
	return users, nil
}

// GetProfiles 批量获取用户资料
func (u *Users) GetProfiles(ctx context.Context, userIDs []uint64) (map[uint64]types.UserProfile, error) {
	result := make(map[uint64]types.UserProfile)
	if len(userIDs) == 0 {
		return result, nil
	}

	var rows []*models.User
	err := u.Db.WithContext(ctx).
		Select("id, name, picture").
		Where("id IN ?", userIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.ID] = types.UserProfile{ID: row.ID, Name: row.Name, Picture: row.Picture}
	}
	return result, nil
}
