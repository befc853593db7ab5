// Package pagination computes the page strip and summary line of the
// complaint list.
package pagination

import "fmt"

// Ellipsis marks a gap in the page strip
const Ellipsis = "..."

// maxFullStrip is the largest page count rendered without gaps
const maxFullStrip = 7

// Item is either a page number or the ellipsis marker
type Item struct {
	Page     int  `json:"page,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
	Current  bool `json:"current,omitempty"`
}

// String renders the item as it appears on the strip
func (i Item) String() string {
	if i.Ellipsis {
		return Ellipsis
	}
	return fmt.Sprint(i.Page)
}

// Window returns the page strip for the given position. Up to seven pages are
// listed in full, otherwise the strip keeps the first and last page, a window
// around the current page and ellipses for the gaps.
func Window(current, total int) []Item {
	var pages []int
	switch {
	case total <= maxFullStrip:
		pages = span(1, total)
	case current <= 4:
		pages = append(span(1, 5), 0, total)
	case current >= total-3:
		pages = append([]int{1, 0}, span(total-4, total)...)
	default:
		pages = append([]int{1, 0}, span(current-1, current+1)...)
		pages = append(pages, 0, total)
	}

	items := make([]Item, 0, len(pages))
	for _, p := range pages {
		if p == 0 {
			items = append(items, Item{Ellipsis: true})
			continue
		}
		items = append(items, Item{Page: p, Current: p == current})
	}
	return items
}

// Labels renders a strip as the strings shown on its buttons
func Labels(items []Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.String()
	}
	return out
}

func span(from, to int) []int {
	var out []int
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}

// TotalPages prefers the server's page count and otherwise derives it from
// the item count
func TotalPages(serverTotalPages, totalItems, perPage int) int {
	if serverTotalPages > 0 {
		return serverTotalPages
	}
	if perPage < 1 || totalItems <= 0 {
		return 0
	}
	return (totalItems + perPage - 1) / perPage
}

// Clamp keeps page within [1, totalPages]. While totalPages is unknown (0)
// only the lower bound applies.
func Clamp(page, totalPages int) int {
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}

// Summary is the line under the complaint table plus the state of the
// previous/next controls
type Summary struct {
	Text        string `json:"text"`
	CurrentPage int    `json:"currentPage"`
	TotalPages  int    `json:"totalPages"`
	HasPrev     bool   `json:"hasPrev"`
	HasNext     bool   `json:"hasNext"`
	ShowStrip   bool   `json:"showStrip"`
}

// Summarize builds the summary for shown rows out of totalItems
func Summarize(shown, totalItems, currentPage, totalPages int) Summary {
	s := Summary{
		CurrentPage: currentPage,
		TotalPages:  totalPages,
		HasPrev:     currentPage > 1,
		HasNext:     currentPage < totalPages,
		ShowStrip:   totalPages > 1,
	}
	if totalPages <= 1 {
		s.Text = fmt.Sprintf("Showing %d of %d results (Page 1 of 1)", shown, totalItems)
		return s
	}
	s.Text = fmt.Sprintf("Showing %d of %d results (Page %d of %d)", shown, totalItems, currentPage, totalPages)
	return s
}
