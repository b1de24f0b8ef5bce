package db

// KNNScoreField is the computed distance attribute of a KNN query. With a
// RETURN clause present, FT.SEARCH only yields requested attributes, so KNN
// callers must ask for it explicitly to receive scores.
const KNNScoreField = "__embedding_score"

// TagMatch is a single exact-match pre-filter on a TAG field. All matches in a
// query are ANDed; every query in this service carries at least the owner's
// user_id so rows never leak across users.
type TagMatch struct {
	Field string
	Value string
}

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	IndexName    string
	Filters      []TagMatch
	Vector       []float32
	K            int
	ReturnFields []string
}

// ListQuery is the input for filtered, sorted listing via FT.SEARCH.
type ListQuery struct {
	IndexName    string
	Filters      []TagMatch
	SortBy       string // numeric field name; empty means index order
	SortDesc     bool
	Offset       int
	Limit        int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single record hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64 // similarity in [0,1]; zero for list queries
	Fields map[string]string
}
