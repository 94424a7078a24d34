package repository

import "strings"

// sortColumn returns the requested sort column when allow-listed, otherwise
// the fallback. Sort columns are interpolated into SQL and must never come
// from user input unchecked.
func sortColumn(requested string, allowed map[string]bool, fallback string) string {
	if requested == "" || !allowed[requested] {
		return fallback
	}
	return requested
}

func sortDirection(requested string) string {
	order := strings.ToUpper(requested)
	if order != "ASC" && order != "DESC" {
		return "DESC"
	}
	return order
}

func pageBounds(page, pageSize int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return pageSize, (page - 1) * pageSize
}
