package app

import (
	"strings"

	"quicknotes/internal/model"
	"quicknotes/internal/repository"
)

type NoteService struct {
	noteRepo     *repository.NoteRepository
	categoryRepo *repository.CategoryRepository
}

type CreateNoteInput struct {
	UserID     uint
	Title      string
	Content    string
	CategoryID uint
}

type UpdateNoteInput struct {
	Title      *string
	Content    *string
	CategoryID *uint
}

// CategoryNotes is one bucket of the grouped-by-category projection.
type CategoryNotes struct {
	Category CategoryInfo `json:"category"`
	Notes    []model.Note `json:"notes"`
}

func NewNoteService(noteRepo *repository.NoteRepository, categoryRepo *repository.CategoryRepository) *NoteService {
	return &NoteService{noteRepo: noteRepo, categoryRepo: categoryRepo}
}

// List returns the user's notes, most recently updated first. A non-zero
// categoryID narrows the result to that category.
func (s *NoteService) List(userID, categoryID uint) ([]model.Note, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	return s.noteRepo.ListByUserID(userID, categoryID)
}

func (s *NoteService) Get(userID, noteID uint) (*model.Note, error) {
	if userID == 0 || noteID == 0 {
		return nil, ErrInvalidInput
	}

	note, err := s.noteRepo.GetByIDAndUserID(noteID, userID)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, ErrNotFound
	}
	return note, nil
}

// Create stores a new note owned by userID. The referenced category must
// belong to the same user; a foreign or missing category is rejected.
func (s *NoteService) Create(input CreateNoteInput) (*model.Note, error) {
	if input.UserID == 0 {
		return nil, ErrInvalidInput
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrInvalidInput
	}

	category, err := s.validateCategoryRef(input.UserID, input.CategoryID)
	if err != nil {
		return nil, err
	}

	note := &model.Note{
		Title:      title,
		Content:    input.Content,
		CategoryID: category.ID,
		UserID:     input.UserID,
	}
	if err := s.noteRepo.Create(note); err != nil {
		return nil, err
	}
	note.Category = *category
	return note, nil
}

func (s *NoteService) Update(userID, noteID uint, input UpdateNoteInput) (*model.Note, error) {
	if userID == 0 || noteID == 0 {
		return nil, ErrInvalidInput
	}

	note, err := s.noteRepo.GetByIDAndUserID(noteID, userID)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, ErrNotFound
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrInvalidInput
		}
		note.Title = title
	}
	if input.Content != nil {
		note.Content = *input.Content
	}
	if input.CategoryID != nil && *input.CategoryID != note.CategoryID {
		category, err := s.validateCategoryRef(userID, *input.CategoryID)
		if err != nil {
			return nil, err
		}
		note.CategoryID = category.ID
		note.Category = *category
	}

	if err := s.noteRepo.Save(note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *NoteService) Delete(userID, noteID uint) error {
	if userID == 0 || noteID == 0 {
		return ErrInvalidInput
	}

	note, err := s.noteRepo.GetByIDAndUserID(noteID, userID)
	if err != nil {
		return err
	}
	if note == nil {
		return ErrNotFound
	}
	return s.noteRepo.DeleteByIDAndUserID(noteID, userID)
}

// ListGroupedByCategory returns every category of the user in name order,
// each carrying its notes in updated_at-descending order.
func (s *NoteService) ListGroupedByCategory(userID uint) ([]CategoryNotes, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}

	categories, err := s.categoryRepo.ListByUserID(userID)
	if err != nil {
		return nil, err
	}
	notes, err := s.noteRepo.ListByUserID(userID, 0)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[uint][]model.Note, len(categories))
	for _, note := range notes {
		byCategory[note.CategoryID] = append(byCategory[note.CategoryID], note)
	}

	result := make([]CategoryNotes, 0, len(categories))
	for _, category := range categories {
		grouped := byCategory[category.ID]
		if grouped == nil {
			grouped = []model.Note{}
		}
		result = append(result, CategoryNotes{
			Category: CategoryInfo{Category: category, NotesCount: int64(len(grouped))},
			Notes:    grouped,
		})
	}
	return result, nil
}

// validateCategoryRef checks that the category exists and belongs to userID.
func (s *NoteService) validateCategoryRef(userID, categoryID uint) (*model.Category, error) {
	if categoryID == 0 {
		return nil, ErrInvalidInput
	}
	category, err := s.categoryRepo.GetByIDAndUserID(categoryID, userID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrInvalidInput
	}
	return category, nil
}
