package entity

import "fmt"

// Sort is the sort descriptor inside the gateway's pagination envelope.
type Sort struct {
	Sorted   bool `json:"sorted"`
	Unsorted bool `json:"unsorted"`
}

// Pageable describes the page window the gateway applied.
type Pageable struct {
	PageNumber int  `json:"pageNumber"`
	PageSize   int  `json:"pageSize"`
	Sort       Sort `json:"sort"`
}

// Page is the gateway's pagination envelope. The field layout is fixed by the
// upstream contract and must not change.
type Page[T any] struct {
	Content          []T      `json:"content"`
	Pageable         Pageable `json:"pageable"`
	TotalElements    int64    `json:"totalElements"`
	TotalPages       int      `json:"totalPages"`
	First            bool     `json:"first"`
	Last             bool     `json:"last"`
	NumberOfElements int      `json:"numberOfElements"`
}

// CheckInvariants verifies the envelope's internal consistency:
// the content never exceeds the page size, and the first/last flags agree
// with the page number and total page count.
func (p Page[T]) CheckInvariants() error {
	if p.Pageable.PageSize > 0 && len(p.Content) > p.Pageable.PageSize {
		return fmt.Errorf("page holds %d items but page size is %d", len(p.Content), p.Pageable.PageSize)
	}
	if got, want := p.First, p.Pageable.PageNumber == 0; got != want {
		return fmt.Errorf("first flag is %t for page number %d", got, p.Pageable.PageNumber)
	}
	if p.TotalPages > 0 {
		if got, want := p.Last, p.Pageable.PageNumber == p.TotalPages-1; got != want {
			return fmt.Errorf("last flag is %t for page %d of %d", got, p.Pageable.PageNumber, p.TotalPages)
		}
	}
	return nil
}
