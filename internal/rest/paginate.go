package rest

import "context"

// Page fetches one page for the given cursor and returns the items plus the
// cursor of the next page; an empty cursor ends the walk.
type Page[T any] func(ctx context.Context, cursor string) (items []T, next string, err error)

// Collect walks every page starting from an empty cursor and concatenates the
// results in page order.
func Collect[T any](ctx context.Context, fetch Page[T]) ([]T, error) {
	var all []T
	cursor := ""
	for {
		items, next, err := fetch(ctx, cursor)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		if next == "" {
			return all, nil
		}
		cursor = next
	}
}
