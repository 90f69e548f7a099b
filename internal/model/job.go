package model

type Job struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	Title       string `json:"job_title"`
	Company     string `json:"company"`
	Description string `json:"description"`
	ResumeID    string `json:"resume_id,omitempty"`
	Ctime       int64  `json:"ctime"`
}
