package models

// Sermon is a freshly generated sermon. It is not persisted anywhere until
// the user saves it.
type Sermon struct {
	Verses         []string `json:"verses"`
	Interpretation string   `json:"interpretation"`
	Story          string   `json:"story"`
}

// SavedSermon is the display shape of a sermon. For server-backed sermons ID
// holds the backend id as a decimal string; Date is MM/DD/YYYY.
type SavedSermon struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Verses         []string `json:"verses"`
	Interpretation string   `json:"interpretation"`
	Story          string   `json:"story"`
	Date           string   `json:"date"`
	Color          string   `json:"color"`
	IsPublic       bool     `json:"is_public,omitempty"`
}

// NewSermon is the input of a save: everything but the server-assigned id
// and date.
type NewSermon struct {
	Title          string
	Verses         []string
	Interpretation string
	Story          string
	Color          string
	Topic          string
}

// BackendSermon is the record shape returned by /sermons.
type BackendSermon struct {
	ID               int64    `json:"id"`
	UserID           int64    `json:"user_id"`
	Title            string   `json:"title"`
	Verses           []string `json:"verses"`
	Interpretation   string   `json:"interpretation"`
	Story            string   `json:"story"`
	Color            string   `json:"color"`
	IsPublic         bool     `json:"is_public"`
	CreatedAt        string   `json:"created_at"`
	UpdatedAt        string   `json:"updated_at"`
	Topic            *string  `json:"topic,omitempty"`
	ScriptureFocus   *string  `json:"scripture_focus,omitempty"`
	Tone             *string  `json:"tone,omitempty"`
	GeneratedContent *string  `json:"generated_content,omitempty"`
}

// SermonPage is one page of the paginated /sermons listing.
type SermonPage struct {
	Data        []BackendSermon `json:"data"`
	CurrentPage int             `json:"current_page"`
	LastPage    int             `json:"last_page"`
	PerPage     int             `json:"per_page"`
	Total       int             `json:"total"`
}

// Draft is a sermon kept only in the local cache. Its ID is a client-local
// UUID and never a server id.
type Draft struct {
	ID        string
	Topic     string
	Sermon    SavedSermon
	UpdatedAt int64
}
