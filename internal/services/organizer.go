package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/studyhub/backend/internal/models"
	"github.com/studyhub/backend/internal/repository"
	"github.com/studyhub/backend/internal/storage"
)

// ErrCatalogUpdate marks a catalog write failure during relocation. Unlike
// per-entry file errors it aborts the whole batch: once the catalog stops
// accepting updates, no further progress is trustworthy.
var ErrCatalogUpdate = errors.New("catalog update failed")

// OrganizeResult reports the outcome of a reorganization batch.
type OrganizeResult struct {
	Success    bool     `json:"success"`
	Message    string   `json:"message"`
	MovedFiles int      `json:"movedFiles"`
	Errors     []string `json:"errors,omitempty"`
}

// Locker gates the reorganizer to at most one run in flight per deployment.
type Locker interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

// FileOrganizer relocates already-stored files into the canonical
// category/subjectCode/year layout and repoints their catalog entries.
type FileOrganizer struct {
	catalog repository.ResourceCatalog
	store   storage.FileStore
	lock    Locker
	targets []models.Category
}

// NewFileOrganizer builds an organizer over the given catalog and store.
// targets selects the categories to reorganize; it defaults to public past
// papers when empty.
func NewFileOrganizer(catalog repository.ResourceCatalog, store storage.FileStore, lock Locker, targets ...models.Category) *FileOrganizer {
	if len(targets) == 0 {
		targets = []models.Category{models.CategoryPastPaper}
	}
	return &FileOrganizer{
		catalog: catalog,
		store:   store,
		lock:    lock,
		targets: targets,
	}
}

// OrganizeExistingFiles relocates every matching catalog entry's backing
// file to the canonical path layout, reusing each entry's existing stored
// filename. Per-entry failures (missing file, I/O error) are collected and
// never abort the batch; catalog failures do.
//
// Source files are deliberately left in place after a successful copy, so a
// catalog update failure after the write cannot lose data. The duplication
// this creates is an accepted retention cost; see the cleanup note in
// DESIGN.md.
func (o *FileOrganizer) OrganizeExistingFiles(ctx context.Context) OrganizeResult {
	acquired, err := o.lock.Acquire(ctx)
	if err != nil {
		return OrganizeResult{Success: false, Message: fmt.Sprintf("Failed to acquire organize lock: %v", err)}
	}
	if !acquired {
		return OrganizeResult{Success: false, Message: "Another reorganization run is already in progress"}
	}
	runID := uuid.New().String()[:8]
	log.Printf("Organizer[%s]: starting reorganization run", runID)
	defer func() {
		if err := o.lock.Release(context.Background()); err != nil {
			log.Printf("Organizer[%s]: failed to release lock: %v", runID, err)
		}
	}()

	errs := []string{}
	movedFiles := 0
	isPublic := true

	for _, category := range o.targets {
		cat := category
		resources, err := o.catalog.FindMany(ctx, repository.ResourceFilter{
			Category: &cat,
			IsPublic: &isPublic,
		})
		if err != nil {
			return OrganizeResult{
				Success:    false,
				Message:    fmt.Sprintf("Failed to organize files: %v", err),
				MovedFiles: movedFiles,
				Errors:     errs,
			}
		}

		for i := range resources {
			resource := &resources[i]

			// Batches can span many entries; honor cancellation between them.
			if err := ctx.Err(); err != nil {
				return OrganizeResult{
					Success:    false,
					Message:    fmt.Sprintf("Reorganization cancelled after %d files: %v", movedFiles, err),
					MovedFiles: movedFiles,
					Errors:     errs,
				}
			}

			// Every selected entry must have its backing file, including
			// entries already at their canonical path.
			if !o.store.Exists(resource.FilePath) {
				errs = append(errs, fmt.Sprintf("File not found: %s", resource.FilePath))
				continue
			}

			newPath := storage.CanonicalPath(resource.Category, resource.Subject.Code, resource.Year, resource.Filename)

			// Already canonical: count it, but never re-copy a file over itself.
			if newPath == resource.FilePath {
				movedFiles++
				continue
			}

			if err := o.relocate(ctx, resource, newPath); err != nil {
				errs = append(errs, fmt.Sprintf("Failed to organize %s: %v", resource.OriginalName, err))
				if errors.Is(err, ErrCatalogUpdate) {
					return OrganizeResult{
						Success:    false,
						Message:    fmt.Sprintf("Aborted after %d files: %v", movedFiles, err),
						MovedFiles: movedFiles,
						Errors:     errs,
					}
				}
				continue
			}
			movedFiles++
		}
	}

	return OrganizeResult{
		Success:    len(errs) == 0,
		Message:    fmt.Sprintf("Organized %d files successfully", movedFiles),
		MovedFiles: movedFiles,
		Errors:     errs,
	}
}

// relocate copies a single backing file to its canonical path and repoints
// the catalog entry. The catalog is updated only after the new write is
// durable; the source file is left in place.
func (o *FileOrganizer) relocate(ctx context.Context, resource *models.Resource, newPath string) error {
	dir := storage.CanonicalDir(resource.Category, resource.Subject.Code, resource.Year)
	if err := o.store.EnsureDir(dir); err != nil {
		return err
	}

	// Read-then-write copy rather than a rename, so the storage root may
	// span devices or be remote-mounted.
	data, err := o.store.Read(resource.FilePath)
	if err != nil {
		return err
	}
	if err := o.store.Write(newPath, data); err != nil {
		return err
	}

	if err := o.catalog.UpdatePath(ctx, resource.ID, newPath); err != nil {
		return fmt.Errorf("%w: %v", ErrCatalogUpdate, err)
	}
	return nil
}
