package schema

// catalog holds the schema for every resource the CLI can describe. It is
// built once and never mutated, so lookups need no locking.
var catalog = map[string]*Schema{
	"upload": Object(
		"A file hosted on a Tixte upload domain",
		map[string]*Schema{
			"asset_id":  String("Unique asset identifier"),
			"name":      String("File name without extension"),
			"extension": String("File extension without the leading dot"),
			"domain":    String("Upload domain the file lives on"),
			"region":    String("Storage region"),
			"size":      Int("File size in bytes"),
			"mimetype":  String("MIME type reported by the server"),
			"type": Enum("Upload visibility",
				"1", "2"),
			"permission_level": Enum("Caller's access level",
				"1", "2", "3"),
			"uploaded_at":  String("Upload time (RFC 3339)"),
			"expiration":   String("Expiry time, null for permanent uploads"),
			"url":          String("Public link on the upload domain"),
			"direct_url":   String("Direct CDN link"),
			"deletion_url": String("Link that deletes the upload when visited"),
			"message":      String("Share message attached to the upload"),
		},
		"asset_id", "name", "domain",
	),

	"domain": Object(
		"An upload domain owned by or shared with the account",
		map[string]*Schema{
			"name":    String("Fully qualified domain name"),
			"uploads": Int("Number of uploads on the domain"),
			"owner":   String("Owning user's identifier"),
		},
		"name",
	),

	"user": Object(
		"Another user's public profile",
		map[string]*Schema{
			"id":       String("Unique user identifier"),
			"username": String("Display name"),
			"avatar":   String("Avatar asset hash"),
			"beta":     Bool("Whether the user is in the beta program"),
			"admin":    Bool("Whether the user is an administrator"),
			"staff":    Bool("Whether the user is Tixte staff"),
			"pro":      Bool("Whether the user has a paid subscription"),
		},
		"id", "username",
	),

	"account": Object(
		"The authenticated account's full profile",
		map[string]*Schema{
			"id":             String("Unique user identifier"),
			"username":       String("Display name"),
			"email":          String("Account email address"),
			"email_verified": Bool("Whether the email address is verified"),
			"mfa_enabled":    Bool("Whether multi-factor auth is enabled"),
			"phone":          String("Phone number, if set"),
			"upload_region":  String("Default storage region for uploads"),
			"last_login":     String("Last login time (RFC 3339)"),
		},
		"id", "username", "email",
	),

	"permission": Object(
		"A user's access grant on an upload",
		map[string]*Schema{
			"user": Map("Public profile of the grantee"),
			"access_level": Enum("Granted access level",
				"1", "2", "3"),
		},
		"user", "access_level",
	),

	"config": Object(
		"The account's upload page configuration",
		map[string]*Schema{
			"custom_css":    String("Custom CSS applied to the upload page"),
			"hide_branding": Bool("Whether Tixte branding is hidden"),
			"base_redirect": Bool("Whether the domain root redirects"),
			"embed":         Map("Embed appearance fields (title, description, theme_color, ...)"),
		},
	),

	"settings": Object(
		"The account's notification and privacy settings",
		map[string]*Schema{
			"emails":  Map("Notification email toggles (promotional, shared_file, new_login)"),
			"privacy": Map("Privacy controls (addable, shareable)"),
		},
		"emails", "privacy",
	),
}
