package bibliographies

type ListBibliographiesQuery struct {
	Limit    int    `query:"limit" json:"limit,omitempty" default:"25" validate:"min=1,max=100"`
	Offset   int    `query:"offset" json:"offset,omitempty" validate:"min=0"`
	AuthorID *int64 `query:"author_id" json:"author_id,omitempty" validate:"omitempty,min=1"`
	BookID   *int64 `query:"book_id" json:"book_id,omitempty" validate:"omitempty,min=1"`
}

type CreateBibliographyPayload struct {
	AuthorID int64 `json:"author_id" validate:"required,min=1"`
	BookID   int64 `json:"book_id" validate:"required,min=1"`
}

type UpdateBibliographyPayload struct {
	AuthorID *int64 `json:"author_id,omitempty" validate:"omitempty,min=1"`
	BookID   *int64 `json:"book_id,omitempty" validate:"omitempty,min=1"`
}
