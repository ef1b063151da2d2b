package site

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// CurrentVersion is the canonical state layout produced by Encode.
//
//	0: legacy layout (arrays of employees and projects, embedded project
//	   templates, optional enabled flags and trackers, camelCase scores)
//	1: named project records, snake_case fields, trackers always present
//	2: id-keyed employee and name-keyed project maps, per-project overrides
const CurrentVersion = 2

type upgradeFunc func(doc map[string]any) error

// upgrades[v] moves a document from version v to v+1.
var upgrades = map[int]upgradeFunc{
	0: upgradeV0,
	1: upgradeV1,
}

// Encode serializes a website in the current layout.
func Encode(w *Website) ([]byte, error) {
	w.Version = CurrentVersion
	return json.Marshal(w)
}

// Decode parses stored state of any known version, upgrading it to the
// current layout before any engine sees it.
func Decode(data []byte) (*Website, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}

	version := 0
	if v, ok := doc["version"].(float64); ok {
		version = int(v)
	}
	if version > CurrentVersion {
		return nil, fmt.Errorf("state version %d is newer than supported %d", version, CurrentVersion)
	}
	for ; version < CurrentVersion; version++ {
		if err := upgrades[version](doc); err != nil {
			return nil, fmt.Errorf("upgrade state v%d: %w", version, err)
		}
		doc["version"] = version + 1
	}

	canonical, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("re-encode state: %w", err)
	}
	var w Website
	if err := json.Unmarshal(canonical, &w); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	w.Normalize()
	return &w, nil
}

var legacyScoreKeys = map[string]string{
	"easeOfUse": "ease_of_use",
}

func upgradeV0(doc map[string]any) error {
	if id, ok := doc["id"].(float64); ok {
		doc["id"] = strconv.Itoa(int(id))
	}
	if offers, ok := doc["investment_opportunities"].([]any); ok {
		for i, raw := range offers {
			if o, ok := raw.(map[string]any); ok {
				if _, ok := o["id"]; !ok {
					o["id"] = fmt.Sprintf("legacy-%d", i)
				}
			}
		}
	}

	if scores, ok := doc["scores"].(map[string]any); ok {
		for old, key := range legacyScoreKeys {
			if v, ok := scores[old]; ok {
				scores[key] = v
				delete(scores, old)
			}
		}
	}

	if projects, ok := doc["projects"].([]any); ok {
		for i, raw := range projects {
			rec, ok := raw.(map[string]any)
			if !ok {
				return fmt.Errorf("project %d: not an object", i)
			}
			if tmpl, ok := rec["project"].(map[string]any); ok {
				rec["name"] = tmpl["name"]
				delete(rec, "project")
			}
			if _, ok := rec["enabled"]; !ok {
				rec["enabled"] = true
			}
			if _, ok := rec["assignees"]; !ok {
				rec["assignees"] = []any{}
			}
		}
	}

	if employees, ok := doc["employees"].([]any); ok {
		for _, raw := range employees {
			e, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			renameKey(e, "job", "role")
			renameKey(e, "date_hired", "hired_day")
		}
	}

	for _, key := range []string{"investors", "investment_opportunities"} {
		if _, ok := doc[key].([]any); !ok {
			doc[key] = []any{}
		}
	}
	for _, key := range []string{"user_changes", "profit_changes"} {
		if _, ok := doc[key].(map[string]any); !ok {
			doc[key] = map[string]any{"daily_history": []any{}}
		}
	}
	return nil
}

var legacyMarketingKeys = map[string]string{
	"newspaper_ads_weekly_spend":  "Newspaper Ads",
	"tv_infomercial_weekly_spend": "Late Night TV Infomercial",
	"radio_ads_weekly_spend":      "Radio Advertising Campaign",
	"college_campus_weekly_spend": "College Campus Campaign",
}

var legacyMonetizationKeys = map[string]string{
	"banner_ad_revenue_per_user_per_week":   "Banner Ads",
	"super_heart_revenue_per_user_per_week": "SuperHeart",
	"ad_free_revenue_per_user_per_week":     "Ad-free",
}

func upgradeV1(doc map[string]any) error {
	if employees, ok := doc["employees"].([]any); ok {
		byID := make(map[string]any, len(employees))
		next := 1
		for i, raw := range employees {
			e, ok := raw.(map[string]any)
			if !ok {
				return fmt.Errorf("employee %d: not an object", i)
			}
			id, ok := e["id"].(float64)
			if !ok {
				return fmt.Errorf("employee %d: missing id", i)
			}
			byID[strconv.Itoa(int(id))] = e
			if int(id) >= next {
				next = int(id) + 1
			}
		}
		doc["employees"] = byID
		doc["next_employee_id"] = next
	}

	if projects, ok := doc["projects"].([]any); ok {
		byName := make(map[string]any, len(projects))
		for i, raw := range projects {
			rec, ok := raw.(map[string]any)
			if !ok {
				return fmt.Errorf("project %d: not an object", i)
			}
			name, ok := rec["name"].(string)
			if !ok || name == "" {
				return fmt.Errorf("project %d: missing name", i)
			}
			byName[name] = rec
		}
		doc["projects"] = byName
	}

	if cfg, ok := doc["marketing_config"].(map[string]any); ok {
		doc["marketing_spend"] = remapKeys(cfg, legacyMarketingKeys)
		delete(doc, "marketing_config")
	}
	if cfg, ok := doc["monetization_config"].(map[string]any); ok {
		doc["monetization_rates"] = remapKeys(cfg, legacyMonetizationKeys)
		delete(doc, "monetization_config")
	}
	return nil
}

func renameKey(m map[string]any, from, to string) {
	if v, ok := m[from]; ok {
		m[to] = v
		delete(m, from)
	}
}

func remapKeys(src map[string]any, names map[string]string) map[string]any {
	out := make(map[string]any, len(src))
	for k, v := range src {
		if name, ok := names[k]; ok {
			out[name] = v
		}
	}
	return out
}
