package api

import (
	"context"
	"net/http"
)

// uploadPayload is the payload_json body accompanying a multipart upload.
type uploadPayload struct {
	Domain       string     `json:"domain"`
	Type         UploadType `json:"type"`
	Name         string     `json:"name"`
	UploadSource string     `json:"upload_source"`
}

// UploadOptions adjusts a single upload. The zero value uploads a public
// file to the client's default domain.
type UploadOptions struct {
	// Domain overrides the client's default upload domain.
	Domain string
	// Private makes the upload visible only to permitted users.
	Private bool
}

// Upload stores a file and returns its hosted metadata.
func (s *UploadsService) Upload(ctx context.Context, file File, opts *UploadOptions) (*Upload, error) {
	if opts == nil {
		opts = &UploadOptions{}
	}
	domain := opts.Domain
	if domain == "" {
		domain = s.client.UploadDomain
	}
	if domain == "" {
		return nil, &ConfigurationError{Message: "no upload domain configured (set a default domain or pass one explicitly)"}
	}

	uploadType := UploadPublic
	if opts.Private {
		uploadType = UploadPrivate
	}

	route, err := NewRoute(http.MethodPost, "/upload", nil)
	if err != nil {
		return nil, err
	}

	var result Upload
	err = s.client.do(ctx, route, &requestOptions{
		files: []File{file},
		payload: uploadPayload{
			Domain:       domain,
			Type:         uploadType,
			Name:         file.Name,
			UploadSource: "dashboard",
		},
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// List returns all of the account's uploads.
func (s *UploadsService) List(ctx context.Context) (*UploadList, error) {
	route, err := NewRoute(http.MethodGet, "/users/@me/uploads", nil)
	if err != nil {
		return nil, err
	}
	var result UploadList
	if err := s.client.do(ctx, route, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SearchOptions narrows a search beyond the free-text query.
type SearchOptions struct {
	Domains          []string
	Extensions       []string
	Limit            int
	MinSize          int64
	MaxSize          int64
	SortBy           string
	PermissionLevels []PermissionLevel
}

type searchSizeRange struct {
	Min int64 `json:"min,omitempty"`
	Max int64 `json:"max,omitempty"`
}

type searchRequest struct {
	Query            string            `json:"query"`
	Domains          []string          `json:"domains,omitempty"`
	Extensions       []string          `json:"extensions,omitempty"`
	Limit            int               `json:"limit,omitempty"`
	Size             *searchSizeRange  `json:"size,omitempty"`
	SortBy           string            `json:"sort_by,omitempty"`
	PermissionLevels []PermissionLevel `json:"permission_levels,omitempty"`
}

// Search queries uploads by name and optional filters.
func (s *UploadsService) Search(ctx context.Context, query string, opts *SearchOptions) ([]Upload, error) {
	route, err := NewRoute(http.MethodPost, "/users/@me/uploads/search", nil)
	if err != nil {
		return nil, err
	}

	body := searchRequest{Query: query}
	if opts != nil {
		body.Domains = opts.Domains
		body.Extensions = opts.Extensions
		body.Limit = opts.Limit
		body.SortBy = opts.SortBy
		body.PermissionLevels = opts.PermissionLevels
		if opts.MinSize > 0 || opts.MaxSize > 0 {
			body.Size = &searchSizeRange{Min: opts.MinSize, Max: opts.MaxSize}
		}
	}

	var result []Upload
	if err := s.client.do(ctx, route, &requestOptions{body: body}, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes an upload permanently.
func (s *UploadsService) Delete(ctx context.Context, uploadID string) (*DeleteResponse, error) {
	route, err := NewRoute(http.MethodDelete, "/users/@me/uploads/{upload_id}", map[string]string{
		"upload_id": uploadID,
	})
	if err != nil {
		return nil, err
	}
	var result DeleteResponse
	if err := s.client.do(ctx, route, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// TotalSize reports the account's total stored bytes.
func (s *UploadsService) TotalSize(ctx context.Context) (*SizeInfo, error) {
	route, err := NewRoute(http.MethodGet, "/users/@me/uploads/size", nil)
	if err != nil {
		return nil, err
	}
	var result SizeInfo
	if err := s.client.do(ctx, route, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Permissions lists who can access an upload and at what level.
func (s *UploadsService) Permissions(ctx context.Context, uploadID string) ([]UploadPermission, error) {
	route, err := NewRoute(http.MethodGet, "/users/@me/uploads/{upload_id}/permissions", map[string]string{
		"upload_id": uploadID,
	})
	if err != nil {
		return nil, err
	}
	var result []UploadPermission
	if err := s.client.do(ctx, route, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

type grantPermissionRequest struct {
	PermissionLevel PermissionLevel `json:"permission_level"`
	User            string          `json:"user"`
	Message         string          `json:"message,omitempty"`
}

// GrantPermission gives a user access to an upload. The optional message
// accompanies the share notification.
func (s *UploadsService) GrantPermission(ctx context.Context, uploadID, userID string, level PermissionLevel, message string) (*UploadPermission, error) {
	route, err := NewRoute(http.MethodPost, "/users/@me/uploads/{upload_id}/permissions", map[string]string{
		"upload_id": uploadID,
	})
	if err != nil {
		return nil, err
	}
	var result UploadPermission
	err = s.client.do(ctx, route, &requestOptions{body: grantPermissionRequest{
		PermissionLevel: level,
		User:            userID,
		Message:         message,
	}}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

type editPermissionRequest struct {
	PermissionLevel PermissionLevel `json:"permission_level"`
}

// EditPermission changes a user's access level on an upload.
func (s *UploadsService) EditPermission(ctx context.Context, uploadID, userID string, level PermissionLevel) error {
	route, err := NewRoute(http.MethodPatch, "/users/@me/uploads/{upload_id}/permissions/{user_id}", map[string]string{
		"upload_id": uploadID,
		"user_id":   userID,
	})
	if err != nil {
		return err
	}
	return s.client.do(ctx, route, &requestOptions{body: editPermissionRequest{PermissionLevel: level}}, nil)
}

// RevokePermission removes a user's access to an upload.
func (s *UploadsService) RevokePermission(ctx context.Context, uploadID, userID string) error {
	route, err := NewRoute(http.MethodDelete, "/users/@me/uploads/{upload_id}/permissions/{user_id}", map[string]string{
		"upload_id": uploadID,
		"user_id":   userID,
	})
	if err != nil {
		return err
	}
	return s.client.do(ctx, route, nil, nil)
}
