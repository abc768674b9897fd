package api

import (
	"html/template"
	"net/http"
)

// statusTemplate renders the minimal operator status page.
var statusTemplate = template.Must(template.New("status").Parse(`<!DOCTYPE html>
<html>
<head>
<title>FleetRMS Status</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 0.4em 0.8em; text-align: left; }
.online { color: #070; font-weight: bold; }
.offline { color: #900; }
</style>
</head>
<body>
<h1>FleetRMS</h1>
<p>Version {{.Version}} &mdash; {{len .Devices}} device(s)</p>
<table>
<tr><th>Device</th><th>Name</th><th>OS</th><th>Battery</th><th>Last seen (UTC)</th><th>Status</th></tr>
{{range .Devices}}
<tr>
<td>{{.DeviceID}}</td>
<td>{{if .Name}}{{.Name}}{{end}}</td>
<td>{{if .OSVersion}}{{.OSVersion}}{{end}}</td>
<td>{{if .BatteryLevel}}{{.BatteryLevel}}%{{end}}</td>
<td>{{.LastSeen}}</td>
<td>{{if .Online}}<span class="online">online</span>{{else}}<span class="offline">offline</span>{{end}}</td>
</tr>
{{end}}
</table>
</body>
</html>
`))

// handleStatusPage serves a human-readable fleet overview.
func (s *Server) handleStatusPage(w http.ResponseWriter, r *http.Request) {
	statuses, err := s.registry.ListStatuses(r.Context())
	if err != nil {
		s.logger.Error("rendering status page failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err = statusTemplate.Execute(w, map[string]any{
		"Version": s.version,
		"Devices": statuses,
	})
	if err != nil {
		s.logger.Error("rendering status page failed", "error", err)
	}
}
