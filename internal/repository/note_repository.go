package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"quicknotes/internal/model"
)

type NoteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

func (r *NoteRepository) Create(note *model.Note) error {
	if err := r.db.Omit(clause.Associations).Create(note).Error; err != nil {
		return fmt.Errorf("create note failed: %w", err)
	}
	return nil
}

// ListByUserID returns the user's notes, most recently updated first.
// A non-zero categoryID narrows the result to that category.
func (r *NoteRepository) ListByUserID(userID uint, categoryID uint) ([]model.Note, error) {
	query := r.db.Preload("Category").Where("user_id = ?", userID)
	if categoryID != 0 {
		query = query.Where("category_id = ?", categoryID)
	}

	var notes []model.Note
	if err := query.Order("updated_at DESC").Find(&notes).Error; err != nil {
		return nil, fmt.Errorf("list notes failed: %w", err)
	}
	return notes, nil
}

func (r *NoteRepository) GetByIDAndUserID(noteID, userID uint) (*model.Note, error) {
	var note model.Note
	if err := r.db.Preload("Category").Where("id = ? AND user_id = ?", noteID, userID).First(&note).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get note failed: %w", err)
	}
	return &note, nil
}

func (r *NoteRepository) Save(note *model.Note) error {
	if err := r.db.Omit(clause.Associations).Save(note).Error; err != nil {
		return fmt.Errorf("save note failed: %w", err)
	}
	return nil
}

func (r *NoteRepository) DeleteByIDAndUserID(noteID, userID uint) error {
	if err := r.db.Where("id = ? AND user_id = ?", noteID, userID).Delete(&model.Note{}).Error; err != nil {
		return fmt.Errorf("delete note failed: %w", err)
	}
	return nil
}
