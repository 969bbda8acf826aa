package models

import "time"

// Visibility controls who can see a stored image.
type Visibility string

const (
	VisibilityMembers Visibility = "members"
	VisibilityPublic  Visibility = "public"
)

// Valid reports whether v is one of the known visibility values.
func (v Visibility) Valid() bool {
	return v == VisibilityMembers || v == VisibilityPublic
}

// Album groups images by id reference. ImageCount is derived: it is recomputed
// from the image collection after every image mutation and must never be
// edited directly.
type Album struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"created_at"`
	ImageCount int       `json:"image_count"`
}

// Image is a stored image record owned by a member session. Albums holds album
// ids; referential integrity is not enforced, so a deleted album's id may
// linger here.
type Image struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	PreviewKey string     `json:"preview_key"`
	Visibility Visibility `json:"visibility"`
	UploadDate time.Time  `json:"upload_date"`
	Albums     []string   `json:"albums"`
}

// InAlbum reports whether the image references the given album id.
func (i *Image) InAlbum(albumID string) bool {
	for _, id := range i.Albums {
		if id == albumID {
			return true
		}
	}
	return false
}

// UploadEntry is an in-flight upload. It exists only inside a pending batch
// and is converted into an Image record once the whole batch has finished.
type UploadEntry struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	ContentType string     `json:"content_type"`
	PreviewKey  string     `json:"preview_key"`
	Visibility  Visibility `json:"visibility"`
	Progress    int        `json:"progress"`
	Uploaded    bool       `json:"uploaded"`
}

// AuthState is the per-session authentication flag plus the email it was
// established with. There is no expiry and no server-side validation beyond
// the login predicate; this is a placeholder, not a security boundary.
type AuthState struct {
	IsLoggedIn bool   `json:"is_logged_in"`
	UserEmail  string `json:"user_email"`
}

// Notice is a transient, dismissible user-visible message, the API analogue
// of the site's toasts.
type Notice struct {
	Title    string `json:"title"`
	Detail   string `json:"detail"`
	Severity string `json:"severity"`
}

const (
	NoticeInfo  = "info"
	NoticeError = "error"
)

// InfoNotice builds a confirmation notice.
func InfoNotice(title, detail string) Notice {
	return Notice{Title: title, Detail: detail, Severity: NoticeInfo}
}

// ErrorNotice builds a validation-failure notice.
func ErrorNotice(title, detail string) Notice {
	return Notice{Title: title, Detail: detail, Severity: NoticeError}
}

// CatalogImage is a descriptor in the public lightbox catalog. The catalog is
// a fixed ordered list; no persistence is involved.
type CatalogImage struct {
	ID       int    `json:"id"`
	Src      string `json:"src"`
	Alt      string `json:"alt"`
	Category string `json:"category"`
}
