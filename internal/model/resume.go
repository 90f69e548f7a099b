package model

type Resume struct {
	ID              string                 `json:"id"`
	UserID          string                 `json:"user_id"`
	Filename        string                 `json:"filename"`
	FileKey         string                 `json:"file_key"`
	FileSize        int64                  `json:"file_size"`
	Name            string                 `json:"name,omitempty"`
	Email           string                 `json:"email,omitempty"`
	Phone           string                 `json:"phone,omitempty"`
	Text            string                 `json:"text,omitempty"`
	Sections        map[SectionName]string `json:"sections"`
	EducationCount  int                    `json:"education_count"`
	ExperienceCount int                    `json:"experience_count"`
	Ctime           int64                  `json:"ctime"`
	Mtime           int64                  `json:"mtime"`
}

type Bullet struct {
	ResumeID string `json:"resume_id"`
	Position int    `json:"position"`
	Text     string `json:"text"`
}
