package gateway

import (
	"errors"
	"strings"
	"time"

	"github.com/paperlane/storefront/internal/model"
	"github.com/tidwall/gjson"
)

var errInvalidJSON = errors.New("invalid json")

func decodeAgencies(raw []byte) ([]model.AgencyRecord, error) {
	if !gjson.ValidBytes(raw) {
		return nil, errInvalidJSON
	}
	root := gjson.ParseBytes(raw)
	list := root
	if !root.IsArray() {
		for _, path := range []string{"data.agencies", "data", "agencies", "items"} {
			if v := root.Get(path); v.IsArray() {
				list = v
				break
			}
		}
	}

	records := []model.AgencyRecord{}
	list.ForEach(func(_, item gjson.Result) bool {
		if !item.IsObject() {
			return true
		}
		records = append(records, model.AgencyRecord{
			ID:        pick(item, "id", "_id", "agencyId").String(),
			Name:      strings.TrimSpace(pick(item, "name", "agencyName", "title").String()),
			Region:    strings.TrimSpace(pick(item, "region", "location", "country").String()),
			Contact:   strings.TrimSpace(pick(item, "contact", "contactName", "contact_name").String()),
			Email:     strings.TrimSpace(pick(item, "email", "contactEmail", "contact_email").String()),
			Templates: int(pick(item, "templates", "templateCount", "template_count").Int()),
			UpdatedAt: parseTime(pick(item, "updated_at", "updatedAt", "modified")),
		})
		return true
	})
	return records, nil
}

func pick(item gjson.Result, keys ...string) gjson.Result {
	for _, k := range keys {
		if v := item.Get(k); v.Exists() && v.Type != gjson.Null {
			return v
		}
	}
	return gjson.Result{}
}

func parseTime(v gjson.Result) time.Time {
	switch v.Type {
	case gjson.String:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", time.DateOnly} {
			if t, err := time.Parse(layout, v.Str); err == nil {
				return t.UTC()
			}
		}
	case gjson.Number:
		return time.Unix(v.Int(), 0).UTC()
	}
	return time.Time{}
}
