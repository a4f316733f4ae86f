package domain

import "context"

// Category is an entry in the administratively fixed category catalog.
// Events may only reference existing categories, never create new ones.
// swagger:model Category
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CategoryRepository defines read access to the category catalog. The catalog
// is seeded administratively; the application never writes to it.
type CategoryRepository interface {
	List(ctx context.Context) ([]*Category, error)
	// GetByIDs returns the catalog entries for the given ids. Ids absent from
	// the catalog are simply missing from the result; callers diff to detect
	// invalid requests.
	GetByIDs(ctx context.Context, ids []int64) ([]*Category, error)
}

// DedupeCategoryIDs removes duplicates while keeping the first occurrence.
// The category relation is a set; request order carries no meaning.
func DedupeCategoryIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
