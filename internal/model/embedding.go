package model

type OwnerKind string

const (
	OwnerResume OwnerKind = "resume"
	OwnerJob    OwnerKind = "job"
)

const (
	EmbeddingSectionFull  = "full"
	EmbeddingBulletPrefix = "bullet:"
)

// EmbeddingVector is unique per (OwnerKind, OwnerID, Section).
type EmbeddingVector struct {
	OwnerKind OwnerKind `json:"owner_kind"`
	OwnerID   string    `json:"owner_id"`
	Section   string    `json:"section"`
	Values    []float32 `json:"values"`
	ModelName string    `json:"model_name"`
	Mtime     int64     `json:"mtime"`
}

type EmbeddingOwner struct {
	OwnerKind OwnerKind
	OwnerID   string
	Text      string
}
