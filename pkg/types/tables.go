package types

// Standard table names for Store.GetTable.
const (
	TableContentTypes = "content_types"
	TableEntries      = "entries"
	TableMedia        = "media"
)

// StandardTableNames lists all standard table names for enumeration.
var StandardTableNames = []string{
	TableContentTypes,
	TableEntries,
	TableMedia,
}
