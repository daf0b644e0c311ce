package models

// Requests for the scanner HTTP endpoints. Defined in domain for consistency and reuse.

type ScanRequest struct {
	VS    string `query:"vs" json:"vs" default:"eur" validate:"alpha,lowercase,min=3,max=5"`
	Limit int    `query:"limit" json:"limit" default:"50" validate:"gte=1,lte=250"`
}

type RebuildRequest struct {
	VS    string `query:"vs" json:"vs" default:"eur" validate:"alpha,lowercase,min=3,max=5"`
	Limit int    `query:"limit" json:"limit" default:"250" validate:"gte=1,lte=250"`
}

// ScanMeta accompanies scan payloads.
type ScanMeta struct {
	Count     int    `json:"count"`
	UpdatedAt int64  `json:"updatedAt"`
	Cache     string `json:"cache"`
	VS        string `json:"vs"`
	Limit     int    `json:"limit"`
}

// RebuildResult is the rebuild endpoint's response body. Unlike the other
// endpoints it is served flat, not inside the envelope.
type RebuildResult struct {
	OK      bool  `json:"ok"`
	Written bool  `json:"written"`
	Count   int   `json:"count"`
	TS      int64 `json:"ts"`
}

// HealthStatus is the health endpoint's response body, served flat.
type HealthStatus struct {
	Status       string `json:"status"`
	Uptime       int64  `json:"uptime"`
	CacheEntries int    `json:"cacheEntries"`
	Timestamp    int64  `json:"timestamp"`
}

// StatePayload is the last persisted snapshot, served raw to dashboards.
type StatePayload struct {
	Assets []Asset `json:"assets"`
	TS     int64   `json:"ts"`
	Source string  `json:"source"`
}
