package models

// Character statuses control who can see a character in the catalog.
const (
	StatusPublic  = "public"
	StatusPrivate = "private"
)

// AnonymousOwner is recorded when an upload carries no x-user-id header.
const AnonymousOwner = "No one"

// Character bundles a base image, its owner and visibility, and the folder
// holding the character's generated images and question set.
type Character struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	OriginalImage string `json:"original_image"`
	Folder        string `json:"folder"`
	Owner         string `json:"owner"`
	Status        string `json:"status"`

	// Image carries the base-image data URI on list responses.
	// It is filled per request and never persisted.
	Image string `json:"image,omitempty"`
}

// VisibleTo reports whether the character may be listed for the given caller.
// Anonymous callers pass an empty userID and only see public characters.
func (c Character) VisibleTo(userID string) bool {
	if c.Status == StatusPublic || c.Status == "" {
		return true
	}
	return userID != "" && c.Owner == userID
}
