package resource

// Catalogue returns the registry pre-loaded with the job-board data model.
// Join tables (job-skills, job-categories) carry composite primary keys and
// are reconciled by the synchronizer rather than edited row-by-row.
func Catalogue() *Registry {
	reg := NewRegistry()
	reg.Load([]*Descriptor{
		{
			Key:     "users",
			Path:    "users",
			Label:   "Users",
			Columns: []string{"id", "email", "firstName", "lastName", "role", "avatarUrl", "createdAt"},
			AllowedFields: []string{
				"email", "firstName", "lastName", "role", "avatarUrl",
			},
			PrimaryKeys: []string{"id"},
			FieldEnums: map[string][]string{
				"role": {"CANDIDATE", "RECRUITER", "ADMIN"},
			},
		},
		{
			Key:     "companies",
			Path:    "companies",
			Label:   "Companies",
			Columns: []string{"id", "name", "website", "logoUrl", "location", "description", "createdAt"},
			AllowedFields: []string{
				"name", "website", "logoUrl", "location", "description",
			},
			PrimaryKeys: []string{"id"},
		},
		{
			Key:     "jobs",
			Path:    "jobs",
			Label:   "Jobs",
			Columns: []string{"id", "title", "companyId", "location", "type", "status", "salaryMin", "salaryMax", "isRemote", "description", "createdAt"},
			AllowedFields: []string{
				"title", "companyId", "location", "type", "status",
				"salaryMin", "salaryMax", "isRemote", "description",
			},
			PrimaryKeys: []string{"id"},
			FieldEnums: map[string][]string{
				"status": {"DRAFT", "PUBLISHED", "CLOSED", "ARCHIVED"},
				"type":   {"FULL_TIME", "PART_TIME", "CONTRACT", "INTERNSHIP"},
			},
		},
		{
			Key:           "skills",
			Path:          "skills",
			Label:         "Skills",
			Columns:       []string{"id", "name"},
			AllowedFields: []string{"name"},
			PrimaryKeys:   []string{"id"},
		},
		{
			Key:           "categories",
			Path:          "categories",
			Label:         "Categories",
			Columns:       []string{"id", "name"},
			AllowedFields: []string{"name"},
			PrimaryKeys:   []string{"id"},
		},
		{
			Key:         "jobskills",
			Path:        "job-skills",
			Label:       "Job Skills",
			Columns:     []string{"jobId", "skillId"},
			PrimaryKeys: []string{"jobId", "skillId"},
		},
		{
			Key:         "jobcategories",
			Path:        "job-categories",
			Label:       "Job Categories",
			Columns:     []string{"jobId", "categoryId"},
			PrimaryKeys: []string{"jobId", "categoryId"},
		},
		{
			Key:     "applications",
			Path:    "applications",
			Label:   "Applications",
			Columns: []string{"id", "jobId", "userId", "status", "resumeUrl", "coverLetter", "createdAt"},
			AllowedFields: []string{
				"jobId", "userId", "status", "resumeUrl", "coverLetter",
			},
			PrimaryKeys: []string{"id"},
			FieldEnums: map[string][]string{
				"status": {"APPLIED", "SCREENING", "INTERVIEW", "OFFER", "REJECTED", "HIRED"},
			},
		},
	})
	return reg
}
