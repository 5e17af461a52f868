package feed

// Entry is one feed item as published, before the detail page is read
type Entry struct {
	Link        string
	Title       string
	Description string
	Published   string
}
