package repository

import (
	"time"

	"github.com/devstudy/devstudy-backend/internal/content/domain"
)

// Documents written by the earlier web client use different field names.
// They are mapped onto the current names on read and queried under both
// names on filter, so existing user data keeps resolving.
const (
	legacyOwnerField = "userId"
	legacyTimeField  = "timestamp"
)

// legacyFields maps legacy field name to current field name per collection.
var legacyFields = map[domain.Collection]map[string]string{
	domain.Courses: {
		"gradient": "colorTheme",
		"icon":     "iconName",
	},
	domain.Topics: {
		"course": domain.FieldCourseID,
	},
	domain.Questions: {
		"course":      domain.FieldCourseID,
		"problemText": "bodyText",
	},
	domain.Solutions: {
		"type": "kind",
	},
}

// normalizeFields returns data with legacy names copied onto their current
// names. A current name that is already set wins.
func normalizeFields(col domain.Collection, data map[string]interface{}) map[string]interface{} {
	out := domain.StripReserved(data)
	delete(out, legacyOwnerField)
	delete(out, legacyTimeField)
	for legacy, current := range legacyFields[col] {
		v, ok := out[legacy]
		if !ok {
			continue
		}
		delete(out, legacy)
		if _, set := out[current]; !set {
			out[current] = v
		}
	}
	return out
}

// filterFields lists the stored names a filter on field must be run against.
func filterFields(col domain.Collection, field string) []string {
	names := []string{field}
	for legacy, current := range legacyFields[col] {
		if current == field {
			names = append(names, legacy)
		}
	}
	return names
}

func createdAtOf(data map[string]interface{}, fallback time.Time) time.Time {
	for _, k := range []string{domain.FieldCreatedAt, legacyTimeField} {
		if ts, ok := data[k].(time.Time); ok {
			return ts
		}
	}
	return fallback
}

func fromData(ownerID string, col domain.Collection, id string, createTime time.Time, data map[string]interface{}) domain.Item {
	return domain.Item{
		ID:         id,
		OwnerID:    ownerID,
		Collection: col,
		Fields:     normalizeFields(col, data),
		CreatedAt:  createdAtOf(data, createTime),
	}
}
