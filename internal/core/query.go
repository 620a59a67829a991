package core

// DefaultPageSize matches the fixed page length of the stock view.
const DefaultPageSize = 8

// BuildQuery translates a QueryState into the store's query form: substring
// match on name AND-ed with exact reference-name matches where set, a fixed
// name-ascending order, and the inclusive row window [(p-1)*s, p*s-1].
// An absent filter means no constraint, not "match null".
func BuildQuery(state QueryState) StockQuery {
	page := state.Page
	if page < 1 {
		page = 1
	}
	size := state.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	from := (page - 1) * size
	return StockQuery{
		Search:    state.Search,
		Category:  state.Category,
		Warehouse: state.Warehouse,
		From:      from,
		To:        from + size - 1,
	}
}

// TotalPages returns ceil(totalCount / pageSize).
func TotalPages(totalCount, pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return (totalCount + pageSize - 1) / pageSize
}
