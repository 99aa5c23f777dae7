package api

// Service accessors. Each resource family gets a small stateless struct
// bound to the client so call sites read as client.Uploads().List(ctx).

// UploadsService handles upload, listing, search, deletion, and
// permission management.
type UploadsService struct {
	client *Client
}

// Uploads returns the uploads service.
func (c *Client) Uploads() *UploadsService {
	return &UploadsService{client: c}
}

// DomainsService manages the account's upload domains.
type DomainsService struct {
	client *Client
}

// Domains returns the domains service.
func (c *Client) Domains() *DomainsService {
	return &DomainsService{client: c}
}

// UsersService fetches user profiles.
type UsersService struct {
	client *Client
}

// Users returns the users service.
func (c *Client) Users() *UsersService {
	return &UsersService{client: c}
}

// AccountService covers the authenticated account's configuration,
// settings, keys, and billing surfaces.
type AccountService struct {
	client *Client
}

// Account returns the account service.
func (c *Client) Account() *AccountService {
	return &AccountService{client: c}
}
