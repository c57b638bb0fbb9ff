package repository

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/studyhub/backend/internal/models"
	"gorm.io/gorm"
)

var yearTermPattern = regexp.MustCompile(`^(19|20)\d{2}$`)

// ResourceFilter is an explicit, statically-typed catalog query. Set fields
// are combined with AND; Search expands into an OR across title, original
// name, subject name/code, and year when the term looks like one.
type ResourceFilter struct {
	Category  *models.Category
	IsPublic  *bool
	SubjectID *uint
	Level     *models.Level
	Year      *int
	Search    string
}

// ResourceCatalog is the persistent record store holding one entry per
// stored file. The reorganizer and statistics aggregator depend on this
// contract rather than on a database handle.
type ResourceCatalog interface {
	FindMany(ctx context.Context, filter ResourceFilter) ([]models.Resource, error)
	FindByID(ctx context.Context, id uint) (*models.Resource, error)
	Create(ctx context.Context, resource *models.Resource) error
	UpdatePath(ctx context.Context, id uint, relativePath string) error
	IncrementView(ctx context.Context, id uint) error
	IncrementDownload(ctx context.Context, id uint) error
}

type resourceCatalog struct {
	db *gorm.DB
}

// NewResourceCatalog returns the gorm-backed catalog implementation.
func NewResourceCatalog(db *gorm.DB) ResourceCatalog {
	return &resourceCatalog{db: db}
}

func (r *resourceCatalog) applyFilter(q *gorm.DB, filter ResourceFilter) *gorm.DB {
	if filter.Category != nil {
		q = q.Where("resources.category = ?", *filter.Category)
	}
	if filter.IsPublic != nil {
		q = q.Where("resources.is_public = ?", *filter.IsPublic)
	}
	if filter.SubjectID != nil {
		q = q.Where("resources.subject_id = ?", *filter.SubjectID)
	}
	if filter.Level != nil || filter.Search != "" {
		q = q.Joins("JOIN subjects ON subjects.id = resources.subject_id")
	}
	if filter.Level != nil {
		q = q.Where("subjects.level = ?", *filter.Level)
	}
	if filter.Year != nil {
		q = q.Where("resources.year = ?", *filter.Year)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		cond := "resources.title ILIKE ? OR resources.original_name ILIKE ? OR subjects.name ILIKE ? OR subjects.code ILIKE ?"
		args := []interface{}{pattern, pattern, pattern, pattern}
		if yearTermPattern.MatchString(filter.Search) {
			year, _ := strconv.Atoi(filter.Search)
			cond += " OR resources.year = ?"
			args = append(args, year)
		}
		q = q.Where(cond, args...)
	}
	return q
}

func (r *resourceCatalog) FindMany(ctx context.Context, filter ResourceFilter) ([]models.Resource, error) {
	var resources []models.Resource
	q := r.applyFilter(r.db.WithContext(ctx).Model(&models.Resource{}), filter)
	if err := q.Preload("Subject").
		Order("resources.year DESC NULLS LAST").
		Order("resources.created_at DESC").
		Find(&resources).Error; err != nil {
		return nil, fmt.Errorf("catalog query failed: %w", err)
	}
	return resources, nil
}

func (r *resourceCatalog) FindByID(ctx context.Context, id uint) (*models.Resource, error) {
	var resource models.Resource
	if err := r.db.WithContext(ctx).Preload("Subject").First(&resource, id).Error; err != nil {
		return nil, err
	}
	return &resource, nil
}

func (r *resourceCatalog) Create(ctx context.Context, resource *models.Resource) error {
	return r.db.WithContext(ctx).Create(resource).Error
}

// UpdatePath repoints a catalog entry at its relocated backing file.
func (r *resourceCatalog) UpdatePath(ctx context.Context, id uint, relativePath string) error {
	result := r.db.WithContext(ctx).Model(&models.Resource{}).
		Where("id = ?", id).
		Update("file_path", relativePath)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IncrementView bumps the view counter via an expression update; counters
// are never set directly.
func (r *resourceCatalog) IncrementView(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.Resource{}).
		Where("id = ?", id).
		Update("view_count", gorm.Expr("view_count + 1")).Error
}

func (r *resourceCatalog) IncrementDownload(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.Resource{}).
		Where("id = ?", id).
		Update("download_count", gorm.Expr("download_count + 1")).Error
}
