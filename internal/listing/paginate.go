package listing

import "github.com/saeid-a/CoachDashboard/internal/models"

const DefaultPageSize = 10

// TotalPages is ceil(count/pageSize), or 0 for an empty collection.
func TotalPages(count, pageSize int) int {
	if count <= 0 || pageSize <= 0 {
		return 0
	}
	return (count + pageSize - 1) / pageSize
}

// Paginate returns the 1-indexed page of records. Pages outside the
// collection come back empty; clamping is the caller's job.
func Paginate[T any](records []T, pageSize, page int) []T {
	if pageSize <= 0 || page <= 0 || page > TotalPages(len(records), pageSize) {
		return []T{}
	}
	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(records) {
		end = len(records)
	}
	out := make([]T, end-start)
	copy(out, records[start:end])
	return out
}

func Page[T any](records []T, pageSize, page int) ([]T, models.PaginationMeta) {
	return Paginate(records, pageSize, page), models.PaginationMeta{
		Page:       page,
		Limit:      pageSize,
		Total:      len(records),
		TotalPages: TotalPages(len(records), pageSize),
	}
}
