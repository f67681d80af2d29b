package model

// StoreMarker is written into every stored article so a secondary index can
// key on it. It never leaves the persistence layer.
const StoreMarker = "OK"

// Article is the stored representation, keyed by Slug.
type Article struct {
	Slug        string `json:"slug" db:"slug"`
	Title       string `json:"title" db:"title"`
	Description string `json:"description" db:"description"`
	Body        string `json:"body" db:"body"`
	CreatedAt   int64  `json:"createdAt" db:"created_at"` // ms since epoch
	UpdatedAt   int64  `json:"updatedAt" db:"updated_at"` // ms since epoch
	Author      string `json:"author" db:"author"`

	TagList     *StringSet `json:"tagList,omitempty" db:"tag_list"`
	FavoritedBy *StringSet `json:"favoritedBy,omitempty" db:"favorited_by"`

	Marker string `json:"dummy,omitempty" db:"dummy"`
}

// Clone returns a deep copy so stores never share sets with callers.
func (a *Article) Clone() *Article {
	if a == nil {
		return nil
	}
	c := *a
	if a.TagList != nil {
		c.TagList = NewStringSet(*a.TagList...)
	}
	if a.FavoritedBy != nil {
		c.FavoritedBy = NewStringSet(*a.FavoritedBy...)
	}

	return &c
}

// ArticleView is what API callers see. It is derived on every read and never
// persisted.
type ArticleView struct {
	Slug           string   `json:"slug"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Body           string   `json:"body"`
	TagList        []string `json:"tagList"`
	CreatedAt      int64    `json:"createdAt"`
	UpdatedAt      int64    `json:"updatedAt"`
	Favorited      bool     `json:"favorited"`
	FavoritesCount int      `json:"favoritesCount"`
	Author         *Profile `json:"author"`
}

// NewArticle is the create payload. A nil TagList means no tags were sent.
type NewArticle struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Body        string   `json:"body"`
	TagList     []string `json:"tagList,omitempty"`
}

// ArticleMutation is the update payload. Empty fields are left untouched.
type ArticleMutation struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Body        string `json:"body,omitempty"`
}

func (m *ArticleMutation) Empty() bool {
	return m.Title == "" && m.Description == "" && m.Body == ""
}
