package normalize

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"footin-engine/internal/domain"
)

// RawItem is one schema-less provider item. Providers drift on field names,
// so every normalized field is resolved through an ordered candidate list
// instead of a fixed struct.
type RawItem map[string]any

const UnknownTitle = "Unknown role"

var (
	titleFields       = []string{"title", "jobTitle", "positionName", "name"}
	companyFields     = []string{"companyName", "company", "organization", "employer"}
	locationFields    = []string{"location", "jobLocation", "place"}
	jobURLFields      = []string{"jobUrl", "url", "link", "jobLink"}
	applyURLFields    = []string{"applyUrl", "applicationUrl", "applyLink"}
	descriptionFields = []string{"description", "summarizedJD", "summary", "text"}
	publishedFields   = []string{"publishedAt", "postedTime", "postedDate", "datePosted", "listedAt"}
	providerIDFields  = []string{"jobId", "id", "jobID", "jobKey"}
)

// Job converts one raw provider item into a canonical record plus its
// dedup fingerprint. Pure: no side effects, safe to call concurrently.
// ordinal is the item's position in its batch; it keeps the composite
// fingerprint path unique even for malformed batches.
func Job(item RawItem, ordinal int) domain.NormalizedJob {
	j := domain.NormalizedJob{
		Title:       firstString(item, titleFields),
		CompanyName: firstString(item, companyFields),
		Location:    firstString(item, locationFields),
		JobURL:      firstString(item, jobURLFields),
		ApplyURL:    firstString(item, applyURLFields),
		Description: firstString(item, descriptionFields),
		PublishedAt: parseTime(firstString(item, publishedFields)),
	}
	if j.Title == "" {
		j.Title = UnknownTitle
	}

	raw, err := json.Marshal(item)
	if err == nil {
		j.RawPayload = raw
	}

	j.SourceJobKey = Fingerprint(item, j, ordinal)
	return j
}

// Fingerprint derives the stable dedup key: provider-supplied id first,
// then the job URL, then a batch-local composite hash.
func Fingerprint(item RawItem, j domain.NormalizedJob, ordinal int) string {
	if id := firstString(item, providerIDFields); id != "" {
		return id
	}
	if j.JobURL != "" {
		return j.JobURL
	}

	published := ""
	if j.PublishedAt != nil {
		published = j.PublishedAt.UTC().Format(time.RFC3339)
	}
	composite := strings.Join([]string{
		j.Title, j.CompanyName, j.Location, published, strconv.Itoa(ordinal),
	}, "|")
	sum := sha1.Sum([]byte(composite))
	return "batch:" + hex.EncodeToString(sum[:])
}

// firstString returns the first candidate field that yields a non-empty
// string after coercion.
func firstString(item RawItem, fields []string) string {
	for _, f := range fields {
		if s := CoerceString(item[f]); s != "" {
			return s
		}
	}
	return ""
}

// CoerceString flattens a provider value to a trimmed string; empty
// strings and unsupported shapes collapse to "".
func CoerceString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return cleanText(t)
	case json.Number:
		return t.String()
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// CoerceInt returns (0, false) for anything that isn't numeric or a
// numeric string.
func CoerceInt(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		return int(t), true
	case int:
		return t, true
	case int64:
		return int(t), true
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			u := ts.UTC()
			return &u
		}
	}
	// epoch seconds or millis
	if n, err := strconv.ParseInt(s, 10, 64); err == nil && n > 0 {
		if n > 1e12 {
			n /= 1000
		}
		u := time.Unix(n, 0).UTC()
		return &u
	}
	return nil
}

func cleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	return strings.TrimSpace(strings.Join(strings.Fields(s), " "))
}

// DedupeBatch keeps the first occurrence per fingerprint. Required before
// a multi-row upsert: ON CONFLICT cannot resolve two rows in one statement
// sharing a conflict key.
func DedupeBatch(items []domain.NormalizedJob) []domain.NormalizedJob {
	seen := make(map[string]bool, len(items))
	out := make([]domain.NormalizedJob, 0, len(items))
	for _, it := range items {
		if seen[it.SourceJobKey] {
			continue
		}
		seen[it.SourceJobKey] = true
		out = append(out, it)
	}
	return out
}
