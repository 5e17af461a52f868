package newsflash

// Normalize expands a raw item into a record that is not yet classified:
// accident is false and every geo field is absent.
func Normalize(item RawItem) Record {
	return Record{
		DateParsed:  item.DateParsed,
		Title:       Optional(item.Title),
		Description: Optional(item.Description),
		Author:      Optional(item.Author),
		Link:        item.Link,
		Source:      item.Source,
		Accident:    false,
	}
}
