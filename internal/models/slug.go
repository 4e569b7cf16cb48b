package models

import "github.com/gosimple/slug"

// Slugify produces the URL-safe slug stored on events and categories.
func Slugify(s string) string {
	return slug.Make(s)
}
