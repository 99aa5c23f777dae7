package api

import (
	"context"
	"net/http"
)

// List returns every upload domain on the account.
func (s *DomainsService) List(ctx context.Context) ([]Domain, error) {
	route, err := NewRoute(http.MethodGet, "/users/@me/domains", nil)
	if err != nil {
		return nil, err
	}
	var result struct {
		Domains []Domain `json:"domains"`
	}
	if err := s.client.do(ctx, route, nil, &result); err != nil {
		return nil, err
	}
	return result.Domains, nil
}

type createDomainRequest struct {
	Domain string `json:"domain"`
	Custom bool   `json:"custom"`
}

// Create registers a new domain. Custom marks a user-owned domain rather
// than a subdomain of one of the service's base domains.
func (s *DomainsService) Create(ctx context.Context, domain string, custom bool) error {
	route, err := NewRoute(http.MethodPatch, "/users/@me/domains", nil)
	if err != nil {
		return err
	}
	return s.client.do(ctx, route, &requestOptions{body: createDomainRequest{
		Domain: domain,
		Custom: custom,
	}}, nil)
}

// Delete removes a domain from the account.
func (s *DomainsService) Delete(ctx context.Context, domain string) (*DeleteResponse, error) {
	route, err := NewRoute(http.MethodDelete, "/users/@me/domains/{domain}", map[string]string{
		"domain": domain,
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
