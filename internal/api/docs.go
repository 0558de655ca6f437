package api

import (
	"bytes"
	"html/template"
)

// docsLink is a corner link on the API reference page.
type docsLink struct {
	Href  string
	Label string
}

type docsPage struct {
	Title   string
	SpecURL string
	Links   []docsLink
}

var docsTemplate = template.Must(template.New("docs").Parse(`<!doctype html>
<html lang="en" data-theme="dark">
<head>
  <meta charset="utf-8" />
  <meta name="referrer" content="same-origin" />
  <meta name="viewport" content="width=device-width, initial-scale=1, shrink-to-fit=no" />
  <title>{{.Title}}</title>
  <link href="https://unpkg.com/@stoplight/elements@9.0.0/styles.min.css" rel="stylesheet" />
  <script src="https://unpkg.com/@stoplight/elements@9.0.0/web-components.min.js" crossorigin="anonymous"></script>
  <style>
    .corner { position: fixed; top: 12px; right: 16px; z-index: 9999; display: flex; gap: 8px; }
    .corner a { background: #161b22; border: 1px solid #30363d; border-radius: 6px; color: #58a6ff;
      font: 500 12px -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif; padding: 5px 12px; text-decoration: none; }
  </style>
</head>
<body style="height: 100vh; margin: 0; position: relative;">
  <nav class="corner">{{range .Links}}<a href="{{.Href}}">{{.Label}}</a>{{end}}</nav>
  <elements-api
    apiDescriptionUrl="{{.SpecURL}}"
    router="hash"
    layout="sidebar"
    tryItCredentialsPolicy="same-origin"
    darkMode
  />
</body>
</html>`))

// renderDocs builds the API reference page for title, served from specURL.
func renderDocs(title, specURL string, links ...docsLink) (string, error) {
	var buf bytes.Buffer
	if err := docsTemplate.Execute(&buf, docsPage{Title: title, SpecURL: specURL, Links: links}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
