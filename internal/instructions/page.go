package instructions

import (
	"bytes"
	"html/template"
)

const pageTemplate = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8" />
<title>{{ title . }}</title>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem; max-width: 60rem; }
pre { background: #1e1e1e; color: #f5f5f5; padding: 1rem; overflow-x: auto; }
nav ul { list-style: none; padding-left: 1rem; }
</style>
</head>
<body>
<h1>{{ title . }}</h1>
{{ with .FrontMatter.Description }}<p>{{ . }}</p>{{ end }}
{{ if .TOC }}
<nav>
<ul>
{{ range .TOC }}<li><a href="#{{ .Anchor }}">{{ .Title }}</a></li>
{{ end }}</ul>
</nav>
{{ end }}
{{ range $i, $section := .Sections }}
<section id="{{ (index $.TOC $i).Anchor }}">
<h2>{{ $section.Title }}</h2>
{{ trusted $section.Content }}
{{ if $section.Steps }}<ol>
{{ range $section.Steps }}<li>
<p>{{ .Description }}</p>
{{ if .HasCode }}<pre><code class="language-{{ .Language }}">{{ .Code }}</code></pre>{{ end }}
</li>
{{ end }}</ol>{{ end }}
</section>
{{ end }}
</body>
</html>`

// RenderHTML renders a parsed guide as a standalone page. Section content is
// emitted as-is; it is already HTML produced by the guide renderer.
func RenderHTML(g *Guide) (string, error) {
	funcMap := template.FuncMap{
		"title": pageTitle,
		// #nosec G203 -- content comes from the configured markdown renderer
		"trusted": func(s string) template.HTML { return template.HTML(s) },
	}

	t, err := template.New("guide").Funcs(funcMap).Parse(pageTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, g); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func pageTitle(g *Guide) string {
	if g.FrontMatter.Title != "" {
		return g.FrontMatter.Title
	}
	return g.ToolID
}
