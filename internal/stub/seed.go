package stub

import (
	"context"
	"fmt"
	"time"

	"admin-console/internal/resource"
)

// Seed populates the store with a small job-board fixture set the first
// time it runs against an empty database. Harmless to call again.
func Seed(ctx context.Context, store *Store, registry *resource.Registry) error {
	existing, err := store.Count(ctx, "users")
	if err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}

	now := time.Now().UTC().Format(time.RFC3339)
	fixtures := map[string][]map[string]any{
		"users": {
			{"id": "u-1", "email": "ada@example.com", "firstName": "Ada", "lastName": "Lovelace", "role": "ADMIN", "avatarUrl": nil, "createdAt": now},
			{"id": "u-2", "email": "grace@example.com", "firstName": "Grace", "lastName": "Hopper", "role": "RECRUITER", "avatarUrl": nil, "createdAt": now},
			{"id": "u-3", "email": "linus@example.com", "firstName": "Linus", "lastName": "Larsen", "role": "CANDIDATE", "avatarUrl": nil, "createdAt": now},
		},
		"companies": {
			{"id": "c-1", "name": "Acme Robotics", "website": "https://acme.example.com", "logoUrl": nil, "location": "Berlin", "description": "Builds robots.", "createdAt": now},
			{"id": "c-2", "name": "Globex", "website": "https://globex.example.com", "logoUrl": nil, "location": "Remote", "description": "Does everything.", "createdAt": now},
		},
		"skills": {
			{"id": "s-1", "name": "Go"},
			{"id": "s-2", "name": "SQL"},
			{"id": "s-3", "name": "Kubernetes"},
			{"id": "s-4", "name": "React"},
		},
		"categories": {
			{"id": "cat-1", "name": "Engineering"},
			{"id": "cat-2", "name": "Data"},
		},
		"jobs": {
			{"id": "j-1", "title": "Backend Engineer", "companyId": "c-1", "location": "Berlin", "type": "FULL_TIME", "status": "PUBLISHED", "salaryMin": 70000, "salaryMax": 95000, "isRemote": false, "description": "Build services in Go.", "createdAt": now},
			{"id": "j-2", "title": "Data Analyst", "companyId": "c-2", "location": "Remote", "type": "CONTRACT", "status": "DRAFT", "salaryMin": 50000, "salaryMax": 65000, "isRemote": true, "description": "SQL all day.", "createdAt": now},
		},
		"jobskills": {
			{"jobId": "j-1", "skillId": "s-1"},
			{"jobId": "j-1", "skillId": "s-2"},
			{"jobId": "j-2", "skillId": "s-2"},
		},
		"jobcategories": {
			{"jobId": "j-1", "categoryId": "cat-1"},
			{"jobId": "j-2", "categoryId": "cat-2"},
		},
		"applications": {
			{"id": "a-1", "jobId": "j-1", "userId": "u-3", "status": "APPLIED", "resumeUrl": nil, "coverLetter": "I would love to join.", "createdAt": now},
		},
	}

	for key, docs := range fixtures {
		desc := registry.Lookup(key)
		if desc == nil {
			return fmt.Errorf("seed: unknown resource %s", key)
		}
		for _, doc := range docs {
			pks := make([]string, 0, len(desc.PrimaryKeys))
			for _, pk := range desc.PrimaryKeys {
				pks = append(pks, str(doc[pk]))
			}
			if err := store.Insert(ctx, desc.Key, CompositeKey(pks), doc); err != nil {
				return fmt.Errorf("seed %s: %w", key, err)
			}
		}
	}
	return nil
}
