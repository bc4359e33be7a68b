package protocol

// StatusContext carries the runtime state the status command reports
// alongside store stats. Built by internal/runtime on every status call
// so the dispatcher never has to reach into recorder/BLE internals.
type StatusContext struct {
	AppState      string
	UptimeSeconds float64
	DiskFreeGB    float64
	BLEConnected  bool
}

type notePayload struct {
	Content string `json:"content"`
	Tags    string `json:"tags"`
	Project string `json:"project"`
	Type    string `json:"type"`
}

type activityPayload struct {
	Program     string `json:"program"`
	Details     string `json:"details"`
	FilePath    string `json:"file_path"`
	Project     string `json:"project"`
	DurationMin int    `json:"duration_min"`
}

type searchPayload struct {
	Query   string `json:"query"`
	Source  string `json:"source"`
	URL     string `json:"url"`
	Project string `json:"project"`
}

type sessionStartPayload struct {
	AIPlatform string `json:"ai_platform"`
	Hostname   string `json:"hostname"`
	OSInfo     string `json:"os_info"`
}

type sessionEndPayload struct {
	SessionID string `json:"session_id"`
	Summary   string `json:"summary"`
	Projects  string `json:"projects"`
}

type projectUpsertPayload struct {
	Tag           string `json:"tag"`
	Name          string `json:"name"`
	Status        string `json:"status"`
	Priority      int    `json:"priority"`
	Description   string `json:"description"`
	Collaborators string `json:"collaborators"`
}

type computerRegPayload struct {
	Hostname string  `json:"hostname"`
	OS       string  `json:"os"`
	CPU      string  `json:"cpu"`
	GPU      string  `json:"gpu"`
	RAMGB    float64 `json:"ram_gb"`
	Notes    string  `json:"notes"`
}

type peopleUpsertPayload struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Email    string `json:"email"`
	Projects string `json:"projects"`
	Notes    string `json:"notes"`
}

type queryPayload struct {
	Table   string         `json:"table"`
	Filters map[string]any `json:"filters"`
	Limit   int            `json:"limit"`
	OrderBy string         `json:"order_by"`
}

type wifiConfigPayload struct {
	SSID     string `json:"ssid"`
	Password string `json:"password"`
}

type fileRegisterPayload struct {
	Filename    string `json:"filename"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Tags        string `json:"tags"`
	Project     string `json:"project"`
	MimeType    string `json:"mime_type"`
	SizeBytes   int64  `json:"size_bytes"`
	Source      string `json:"source"`
}

type fileListPayload struct {
	Category string `json:"category"`
	Project  string `json:"project"`
	Limit    int    `json:"limit"`
}

type fileSearchPayload struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

type fileDeletePayload struct {
	ID int64 `json:"id"`
}
