// Package repository 数据访问层实现
// 本文件实现 UserRepository 与 ProfileRepository 接口
package repository

import (
	"eternal_memories_server/internal/model"

	"gorm.io/gorm"
)

// userRepository UserRepository 接口的实现
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建 UserRepository 实例
func NewUserRepository(db *gorm.DB) *userRepository {
	return &userRepository{db: db}
}

// FindByUuid 根据 UUID 查找用户
func (r *userRepository) FindByUuid(uuid string) (*model.UserInfo, error) {
	var user model.UserInfo
	if err := r.db.Where("uuid = ?", uuid).First(&user).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询用户 uuid=%s", uuid)
	}
	return &user, nil
}

// FindByUsername 根据用户名查找用户
func (r *userRepository) FindByUsername(username string) (*model.UserInfo, error) {
	var user model.UserInfo
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询用户 username=%s", username)
	}
	return &user, nil
}

// FindByUuids 批量根据 UUID 查找用户
func (r *userRepository) FindByUuids(uuids []string) ([]model.UserInfo, error) {
	var users []model.UserInfo
	if len(uuids) == 0 {
		return users, nil
	}
	if err := r.db.Where("uuid IN ?", uuids).Find(&users).Error; err != nil {
		return nil, wrapDBError(err, "批量查询用户")
	}
	return users, nil
}

// Create 创建新用户
func (r *userRepository) Create(user *model.UserInfo) error {
	if err := r.db.Create(user).Error; err != nil {
		return wrapDBError(err, "创建用户")
	}
	return nil
}

// profileRepository ProfileRepository 接口的实现
type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository 创建 ProfileRepository 实例
func NewProfileRepository(db *gorm.DB) *profileRepository {
	return &profileRepository{db: db}
}

// FindByUserUuid 根据用户 UUID 查找资料
func (r *profileRepository) FindByUserUuid(userUuid string) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.Where("user_uuid = ?", userUuid).First(&profile).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询资料 user=%s", userUuid)
	}
	return &profile, nil
}

// Create 创建资料
func (r *profileRepository) Create(profile *model.Profile) error {
	if err := r.db.Create(profile).Error; err != nil {
		return wrapDBError(err, "创建资料")
	}
	return nil
}

// Update 更新资料
func (r *profileRepository) Update(profile *model.Profile) error {
	if err := r.db.Save(profile).Error; err != nil {
		return wrapDBError(err, "更新资料")
	}
	return nil
}

// Search 搜索公开资料，按用户名升序
// 关联 user_info 表，使关键字同时命中用户名与资料字段
func (r *profileRepository) Search(q string, limit int) ([]model.Profile, error) {
	var profiles []model.Profile
	query := r.db.Model(&model.Profile{}).
		Joins("JOIN user_info ON user_info.uuid = profile.user_uuid").
		Where("profile.public_search = ?", true)
	if q != "" {
		like := "%" + q + "%"
		query = query.Where(
			"user_info.username LIKE ? OR profile.display_name LIKE ? OR profile.bio LIKE ? OR profile.tags LIKE ?",
			like, like, like, like,
		)
	}
	if err := query.Order("user_info.username ASC").Limit(limit).Find(&profiles).Error; err != nil {
		return nil, wrapDBErrorf(err, "搜索资料 q=%s", q)
	}
	return profiles, nil
}
