package app

import (
	"fmt"

	"quicknotes/internal/model"
	"quicknotes/internal/repository"
)

// defaultCategories are created for every new account.
var defaultCategories = []struct {
	Name  string
	Color string
}{
	{Name: "Random Thoughts", Color: model.ColorPeach},
	{Name: "School", Color: model.ColorYellow},
	{Name: "Personal", Color: model.ColorMint},
}

// CategorySeeder implements BootstrapHook by inserting the default
// categories for a freshly created user. It performs no existence check;
// the caller guarantees single-fire semantics at the creation boundary.
type CategorySeeder struct {
	categoryRepo *repository.CategoryRepository
}

func NewCategorySeeder(categoryRepo *repository.CategoryRepository) *CategorySeeder {
	return &CategorySeeder{categoryRepo: categoryRepo}
}

func (s *CategorySeeder) UserCreated(user *model.User) error {
	for _, item := range defaultCategories {
		category := &model.Category{
			Name:   item.Name,
			Color:  item.Color,
			UserID: user.ID,
		}
		if err := s.categoryRepo.Create(category); err != nil {
			return fmt.Errorf("seed category %q failed: %w", item.Name, err)
		}
	}
	return nil
}
