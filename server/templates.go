package server

import "html/template"

const contentTypeHTML = "text/html; charset=utf-8"

// Minimal server-rendered pages. Styling is deliberately out of scope;
// these exist so the gateway is usable stand-alone.
var (
	loginTmpl = template.Must(template.New("login").Parse(`<!DOCTYPE html>
<html>
<head><title>{{.AppName}}</title></head>
<body>
  <h1>{{.AppName}}</h1>
  {{if .Error}}<p class="error">{{.Error}}</p>{{end}}
  <form method="POST" action="/do-login">
    <label>Email <input type="email" name="email" value="{{.Email}}" required></label>
    <label>Password <input type="password" name="password" required></label>
    <button type="submit">Log in</button>
  </form>
</body>
</html>`))

	dashboardTmpl = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html>
<head><title>{{.AppName}}</title></head>
<body>
  <h1>Dashboard</h1>
  <p>Signed in as {{.Email}}</p>
  <a href="/logout">Log out</a>
</body>
</html>`))
)
