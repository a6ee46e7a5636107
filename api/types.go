package api

// HeartbeatRequest is the periodic machine report.
type HeartbeatRequest struct {
	Name          string  `json:"name"`
	IP            string  `json:"ip"`
	Status        string  `json:"status"`
	CurrentServer *string `json:"current_server"`
	CurrentChar   *string `json:"current_char"`
	Version       string  `json:"version"`
	IPStatus      string  `json:"ip_status,omitempty"`
}

// Command is a queued server-side command. The client reports how many are
// pending but does not execute them.
type Command struct {
	ID      string         `json:"id"`
	Command string         `json:"command"`
	Params  map[string]any `json:"params"`
}

// HeartbeatResponse acknowledges a heartbeat.
type HeartbeatResponse struct {
	Commands []Command `json:"commands"`
}

// LogEntry ships a log line to the server.
type LogEntry struct {
	MachineName string         `json:"machine_name"`
	Level       string         `json:"level"`
	Message     string         `json:"message"`
	Extra       map[string]any `json:"extra"`
}

// VersionCheckRequest asks the server whether a newer client exists.
type VersionCheckRequest struct {
	CurrentVersion string `json:"current_version"`
}

// VersionCheckResponse describes an available update.
type VersionCheckResponse struct {
	UpdateAvailable bool   `json:"update_available"`
	Version         string `json:"version"`
	DownloadURL     string `json:"download_url"`
	SHA256          string `json:"sha256,omitempty"`
}
