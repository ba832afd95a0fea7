package types

import "time"

// Entry is a stored content record belonging to a content type. The
// Content mapping is validated against the owning type's field definitions
// before the entry is persisted.
type Entry struct {
	// EntryID is a UUID v7, generated on creation.
	EntryID string `json:"entryId"`

	// ContentTypeID references the owning content type.
	ContentTypeID string `json:"contentTypeId"`

	// ProjectID references the owning project.
	ProjectID string `json:"projectId"`

	// Content maps field names to submitted values.
	Content ContentRecord `json:"content"`

	CreatedAt  time.Time `json:"createdAt"`
	ModifiedAt time.Time `json:"modifiedAt"`
}

// Media is a registry record for an uploaded asset. MEDIA fields reference
// media by id; the asset bytes themselves live outside this system.
type Media struct {
	// MediaID is a UUID v7, generated on creation.
	MediaID string `json:"mediaId"`

	// ProjectID references the owning project.
	ProjectID string `json:"projectId"`

	// FileName is the original file name (required, non-empty).
	FileName string `json:"fileName"`

	// MimeType is the declared content type of the asset.
	MimeType string `json:"mimeType"`

	// Size is the asset size in bytes.
	Size int64 `json:"size"`

	CreatedAt time.Time `json:"createdAt"`
}
