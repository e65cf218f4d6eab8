package resumes

import "time"

// Summary is the outward-facing list representation of a resume.
type Summary struct {
	ResumeID  string    `json:"resumeId"`
	Title     string    `json:"title"`
	Template  string    `json:"template"`
	CreatedAt int64     `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toSummary(doc Resume) Summary {
	return Summary{
		ResumeID:  doc.ID,
		Title:     doc.DisplayTitle(),
		Template:  doc.Customization.Template,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}
