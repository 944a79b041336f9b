package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"quicknotes/internal/model"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(category *model.Category) error {
	if err := r.db.Create(category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create category failed: %w", err)
	}
	return nil
}

func (r *CategoryRepository) ListByUserID(userID uint) ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.Where("user_id = ?", userID).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories failed: %w", err)
	}
	return categories, nil
}

func (r *CategoryRepository) GetByIDAndUserID(categoryID, userID uint) (*model.Category, error) {
	var category model.Category
	if err := r.db.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category failed: %w", err)
	}
	return &category, nil
}

func (r *CategoryRepository) ExistsByNameAndUserID(name string, userID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&model.Category{}).Where("name = ? AND user_id = ?", name, userID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count categories by name failed: %w", err)
	}
	return count > 0, nil
}

func (r *CategoryRepository) Save(category *model.Category) error {
	if err := r.db.Save(category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("save category failed: %w", err)
	}
	return nil
}

// DeleteByIDAndUserID removes a category and every note referencing it.
func (r *CategoryRepository) DeleteByIDAndUserID(categoryID, userID uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ? AND user_id = ?", categoryID, userID).Delete(&model.Note{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ? AND user_id = ?", categoryID, userID).Delete(&model.Category{}).Error
	})
	if err != nil {
		return fmt.Errorf("delete category failed: %w", err)
	}
	return nil
}

// CountNotesByUserID returns note counts per category id for one user.
func (r *CategoryRepository) CountNotesByUserID(userID uint) (map[uint]int64, error) {
	type row struct {
		CategoryID uint
		Total      int64
	}
	var rows []row
	err := r.db.Model(&model.Note{}).
		Select("category_id, COUNT(*) AS total").
		Where("user_id = ?", userID).
		Group("category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count notes per category failed: %w", err)
	}

	counts := make(map[uint]int64, len(rows))
	for _, item := range rows {
		counts[item.CategoryID] = item.Total
	}
	return counts, nil
}
