package server

import (
	"html/template"
	"net/http"
	"sort"
)

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<title>vramdiff</title>
<style>
body { font-family: monospace; margin: 2em; }
table { border-collapse: collapse; }
th, td { border: 1px solid #999; padding: 4px 10px; text-align: left; }
.completed { color: #060; }
.failed { color: #a00; }
.running { color: #06c; }
</style>
</head>
<body>
<h1>vramdiff</h1>
<p>POST a JSON body to <code>/api/v1/jobs</code> to start a comparison.</p>
{{if .Jobs}}
<table>
<tr><th>ID</th><th>State</th><th>Dump</th><th>Match</th><th>Artifacts</th></tr>
{{range .Jobs}}
<tr>
<td>{{.ID}}</td>
<td class="{{.State}}">{{.State}}</td>
<td>{{.Config.DumpPath}}</td>
<td>{{if .Overall}}{{printf "%.2f%%" .Overall.MatchPercent}}{{else}}-{{end}}</td>
<td>{{if eq (printf "%s" .State) "completed"}}<a href="/api/v1/jobs/{{.ID}}/diff.png">diff</a>
<a href="/api/v1/jobs/{{.ID}}/amplified.png">amplified</a>
<a href="/api/v1/jobs/{{.ID}}/report.txt">report</a>{{else}}-{{end}}</td>
</tr>
{{end}}
</table>
{{else}}
<p>No jobs yet.</p>
{{end}}
</body>
</html>
`))

// handleIndex serves a minimal job overview page
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	jobs := s.jobManager.ListJobs()
	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].StartTime.After(jobs[j].StartTime)
	})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	indexTemplate.Execute(w, map[string]interface{}{"Jobs": jobs})
}
