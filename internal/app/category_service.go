package app

import (
	"errors"
	"strings"

	"quicknotes/internal/model"
	"quicknotes/internal/repository"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrCategoryExists = errors.New("category name already exists")
)

type CategoryService struct {
	categoryRepo *repository.CategoryRepository
}

// CategoryInfo is a category together with its current note count.
type CategoryInfo struct {
	model.Category
	NotesCount int64 `json:"notes_count"`
}

type CreateCategoryInput struct {
	UserID uint
	Name   string
	Color  string
}

type UpdateCategoryInput struct {
	Name  *string
	Color *string
}

func NewCategoryService(categoryRepo *repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// List returns the user's categories in name order, each with its note count.
func (s *CategoryService) List(userID uint) ([]CategoryInfo, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}

	categories, err := s.categoryRepo.ListByUserID(userID)
	if err != nil {
		return nil, err
	}
	counts, err := s.categoryRepo.CountNotesByUserID(userID)
	if err != nil {
		return nil, err
	}

	result := make([]CategoryInfo, 0, len(categories))
	for _, category := range categories {
		result = append(result, CategoryInfo{Category: category, NotesCount: counts[category.ID]})
	}
	return result, nil
}

func (s *CategoryService) Get(userID, categoryID uint) (*CategoryInfo, error) {
	if userID == 0 || categoryID == 0 {
		return nil, ErrInvalidInput
	}

	category, err := s.categoryRepo.GetByIDAndUserID(categoryID, userID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrNotFound
	}

	counts, err := s.categoryRepo.CountNotesByUserID(userID)
	if err != nil {
		return nil, err
	}
	return &CategoryInfo{Category: *category, NotesCount: counts[category.ID]}, nil
}

// Create stores a new category owned by userID regardless of any owner
// supplied by the client.
func (s *CategoryService) Create(input CreateCategoryInput) (*model.Category, error) {
	if input.UserID == 0 {
		return nil, ErrInvalidInput
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidInput
	}

	color := input.Color
	if color == "" {
		color = model.ColorPeach
	}
	if !model.ValidColor(color) {
		return nil, ErrInvalidInput
	}

	exists, err := s.categoryRepo.ExistsByNameAndUserID(name, input.UserID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrCategoryExists
	}

	category := &model.Category{
		Name:   name,
		Color:  color,
		UserID: input.UserID,
	}
	if err := s.categoryRepo.Create(category); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrCategoryExists
		}
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) Update(userID, categoryID uint, input UpdateCategoryInput) (*model.Category, error) {
	if userID == 0 || categoryID == 0 {
		return nil, ErrInvalidInput
	}

	category, err := s.categoryRepo.GetByIDAndUserID(categoryID, userID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrNotFound
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrInvalidInput
		}
		if name != category.Name {
			exists, err := s.categoryRepo.ExistsByNameAndUserID(name, userID)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, ErrCategoryExists
			}
		}
		category.Name = name
	}
	if input.Color != nil {
		if !model.ValidColor(*input.Color) {
			return nil, ErrInvalidInput
		}
		category.Color = *input.Color
	}

	if err := s.categoryRepo.Save(category); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrCategoryExists
		}
		return nil, err
	}
	return category, nil
}

// Delete removes a category and, in the same transaction, every note in it.
func (s *CategoryService) Delete(userID, categoryID uint) error {
	if userID == 0 || categoryID == 0 {
		return ErrInvalidInput
	}

	category, err := s.categoryRepo.GetByIDAndUserID(categoryID, userID)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrNotFound
	}
	return s.categoryRepo.DeleteByIDAndUserID(categoryID, userID)
}
