package model

type BulletImprovement struct {
	Original string `json:"original"`
	Improved string `json:"improved"`
}

type Recommendation struct {
	ID               string              `json:"id"`
	UserID           string              `json:"user_id"`
	JobID            string              `json:"job_id"`
	ResumeID         string              `json:"resume_id"`
	RecruiterMessage string              `json:"recruiter_message,omitempty"`
	ImprovedBullets  []BulletImprovement `json:"improved_bullets"`
	Ctime            int64               `json:"ctime"`
}
