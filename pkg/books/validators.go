package books

type ListBooksQuery struct {
	Limit    int     `query:"limit" json:"limit,omitempty" default:"25" validate:"min=1,max=100"`
	Offset   int     `query:"offset" json:"offset,omitempty" validate:"min=0"`
	AuthorID *int64  `query:"author_id" json:"author_id,omitempty" validate:"omitempty,min=1"`
	Search   *string `query:"search" json:"search,omitempty" validate:"omitempty,max=100"`
}

type CreateBookPayload struct {
	Name            string  `json:"name" mod:"trim" validate:"required,max=255"`
	PublicationYear int     `json:"publication_year" validate:"required"`
	PageNumber      int     `json:"page_number" validate:"required"`
	AuthorIDs       []int64 `json:"author_ids,omitempty" validate:"omitempty,dive,min=1"`
}

// UpdateBookPayload replaces the author set only when author_ids is present;
// an empty list removes every author.
type UpdateBookPayload struct {
	Name            *string `json:"name,omitempty" validate:"omitempty,max=255"`
	PublicationYear *int    `json:"publication_year,omitempty"`
	PageNumber      *int    `json:"page_number,omitempty"`
	AuthorIDs       []int64 `json:"author_ids" validate:"omitempty,dive,min=1"`
}
