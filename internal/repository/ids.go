package repository

import "github.com/google/uuid"

// canonicalID parses id as a uuid and returns its canonical form. Primary and
// foreign keys are uuid columns, so anything else can never match a row.
func canonicalID(id string) (string, bool) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}

func canonicalIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if canonical, ok := canonicalID(id); ok {
			out = append(out, canonical)
		}
	}
	return out
}
