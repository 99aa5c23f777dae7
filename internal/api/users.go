package api

import (
	"context"
	"net/http"
)

// Me returns the authenticated account's full profile.
func (s *UsersService) Me(ctx context.Context) (*ClientUser, error) {
	route, err := NewRoute(http.MethodGet, "/users/@me", nil)
	if err != nil {
		return nil, err
	}
	var result ClientUser
	if err := s.client.do(ctx, route, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Get fetches another user's public profile by ID.
func (s *UsersService) Get(ctx context.Context, userID string) (*User, error) {
	route, err := NewRoute(http.MethodGet, "/users/{user_id}", map[string]string{
		"user_id": userID,
	})
	if err != nil {
		return nil, err
	}
	var result User
	if err := s.client.do(ctx, route, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

type searchUsersRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

// Search finds users by username prefix. Limit defaults to 6 when zero.
func (s *UsersService) Search(ctx context.Context, query string, limit int) ([]User, error) {
	if limit <= 0 {
		limit = 6
	}
	route, err := NewRoute(http.MethodPost, "/users/search", nil)
	if err != nil {
		return nil, err
	}
	var result []User
	err = s.client.do(ctx, route, &requestOptions{body: searchUsersRequest{
		Query: query,
		Limit: limit,
	}}, &result)
	if err != nil {
		return nil, err
	}
	return result, nil
}
