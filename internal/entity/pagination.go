package entity

type PaginationInput struct {
	Limit  int
	Offset int
}

func NewPaginationInput(limit int, offset int) *PaginationInput {
	return &PaginationInput{
		Limit:  max(limit, 0),
		Offset: max(offset, 0),
	}
}

// Window returns the slice bounds of the page within total items.
func (p *PaginationInput) Window(total int) (start, end int) {
	start = min(p.Offset, total)
	end = min(start+p.Limit, total)

	return start, end
}
