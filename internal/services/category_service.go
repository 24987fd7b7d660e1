package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "github.com/Gowsikakho/expense-track/internal/errors"
	"github.com/Gowsikakho/expense-track/internal/models"
	"github.com/Gowsikakho/expense-track/internal/pagination"
)

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// nameTaken reports whether another live category of the user has the name,
// compared case-insensitively. excludeID skips the category being renamed.
func nameTaken(db *gorm.DB, userID, name, excludeID string) (bool, error) {
	q := db.Model(&models.Category{}).Where("user_id = ? AND LOWER(name) = ?", userID, strings.ToLower(name))
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateCategory creates a new category
func (s *categoryService) CreateCategory(ctx context.Context, userID, name, icon, color string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	db := s.db.WithContext(context.WithoutCancel(ctx))

	taken, err := nameTaken(db, userID, name, "")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStore, err)
	}
	if taken {
		return nil, apperrors.ErrDuplicateCategory
	}

	category := &models.Category{
		UserID: userID,
		Name:   name,
		Icon:   icon,
		Color:  color,
	}
	if err := db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStore, err)
	}

	return category, nil
}

// GetUserCategories returns a paginated list of the user's categories by name.
func (s *categoryService) GetUserCategories(ctx context.Context, userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error) {
	page.Defaults()

	base := s.db.WithContext(ctx).Model(&models.Category{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStore, err)
	}

	var categories []models.Category
	if err := base.Order("name ASC").Scopes(pagination.Paginate(page)).Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStore, err)
	}

	result := pagination.NewPageResponse(categories, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetCategoryByID retrieves a category by ID for a specific user
func (s *categoryService) GetCategoryByID(ctx context.Context, userID, categoryID string) (*models.Category, error) {
	var category models.Category
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrStore, err)
	}
	return &category, nil
}

// UpdateCategory updates a category's name, icon or color.
func (s *categoryService) UpdateCategory(ctx context.Context, userID, categoryID string, name, icon, color *string) (*models.Category, error) {
	ctx = context.WithoutCancel(ctx)
	category, err := s.GetCategoryByID(ctx, userID, categoryID)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	updates := make(map[string]any)
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name must not be empty")
		}
		taken, err := nameTaken(db, userID, trimmed, category.ID)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrStore, err)
		}
		if taken {
			return nil, apperrors.ErrDuplicateCategory
		}
		updates["name"] = trimmed
	}
	if icon != nil {
		updates["icon"] = *icon
	}
	if color != nil {
		updates["color"] = *color
	}

	if len(updates) > 0 {
		if err := db.Model(category).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrStore, err)
		}
	}

	return s.GetCategoryByID(ctx, userID, categoryID)
}

// DeleteCategory soft-deletes a category and clears it from the user's expenses.
func (s *categoryService) DeleteCategory(ctx context.Context, userID, categoryID string) error {
	ctx = context.WithoutCancel(ctx)
	category, err := s.GetCategoryByID(ctx, userID, categoryID)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Model(&models.Expense{}).
			Where("user_id = ? AND category_id = ?", userID, category.ID).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(category).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrStore, err)
	}
	return nil
}

// SeedDefaultCategories creates the default categories for a user who has
// none. It returns the created categories, or an empty slice when the user
// already has categories.
func (s *categoryService) SeedDefaultCategories(ctx context.Context, userID string) ([]models.Category, error) {
	created := make([]models.Category, 0, len(models.DefaultCategories))

	err := s.db.WithContext(context.WithoutCancel(ctx)).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Category{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		for _, d := range models.DefaultCategories {
			created = append(created, models.Category{UserID: userID, Name: d.Name, Icon: d.Icon, Color: d.Color})
		}
		return tx.Create(&created).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStore, err)
	}
	return created, nil
}
