package dto

import (
	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims are the claims of an access token issued by the auth provider.
type AuthClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// MessageResponse represents a generic message response.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error"`
}

// Pagination defines parameters for paginated requests.
type Pagination struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
	Page   int `query:"page"` // alternative to offset
}

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Normalize applies defaults and bounds and resolves Page into Offset.
func (p Pagination) Normalize() Pagination {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	if p.Page > 0 {
		p.Offset = (p.Page - 1) * p.Limit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// PaginationInfo defines pagination details for responses.
type PaginationInfo struct {
	TotalItems  int64 `json:"total_items"`
	Limit       int   `json:"limit"`
	Offset      int   `json:"offset"`
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
}

// NewPaginationInfo builds response pagination for a normalized request.
func NewPaginationInfo(p Pagination, total int64) PaginationInfo {
	info := PaginationInfo{TotalItems: total, Limit: p.Limit, Offset: p.Offset}
	if p.Limit > 0 {
		info.CurrentPage = p.Offset/p.Limit + 1
		info.TotalPages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return info
}
