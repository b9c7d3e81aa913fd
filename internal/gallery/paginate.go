package gallery

// Page is one window into a gallery's image list. Numbers are 1-based in the
// API; the last page holds the remainder.
type Page struct {
	Items      []string `json:"-"`
	Number     int      `json:"page"`
	PerPage    int      `json:"perPage"`
	TotalItems int      `json:"totalItems"`
	TotalPages int      `json:"totalPages"`
}

// Paginate slices items into the requested 1-based page. The page number is
// clamped into [1, TotalPages], so out-of-range requests return the nearest
// real page rather than an error. perPage below 1 is treated as 1.
func Paginate(items []string, page, perPage int) Page {
	if perPage < 1 {
		perPage = 1
	}

	total := len(items)
	totalPages := (total + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}

	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * perPage
	end := start + perPage
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Page{
		Items:      items[start:end],
		Number:     page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
	}
}
