// Package paginate splits ordered results into fixed-size pages.
package paginate

// DefaultPageSize is the number of hits shown per page
const DefaultPageSize = 6

// Page is one page of a result list
type Page[T any] struct {
	Items   []T
	Count   int // total number of pages, at least 1
	Current int // 1-based index of this page
}

// PageCount returns max(1, ceil(total/pageSize)). A page size below 1 counts as 1.
func PageCount(total, pageSize int) int {
	if pageSize < 1 {
		pageSize = 1
	}
	if total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// Clamp keeps page within [1, count]
func Clamp(page, count int) int {
	if count < 1 {
		count = 1
	}
	if page < 1 {
		return 1
	}
	if page > count {
		return count
	}
	return page
}

// Paginate returns the requested page of items, clamping the page index
func Paginate[T any](items []T, pageSize, requested int) Page[T] {
	if pageSize < 1 {
		pageSize = 1
	}
	count := PageCount(len(items), pageSize)
	current := Clamp(requested, count)

	start := (current - 1) * pageSize
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}

	var pageItems []T
	if start < end {
		pageItems = items[start:end:end]
	}
	return Page[T]{Items: pageItems, Count: count, Current: current}
}
