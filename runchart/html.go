// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runchart

import (
	"html/template"
	"os"
	"path"
)

var indexTemplate = template.Must(template.New("").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Benchmark report</title>
<style>
body { font-family: sans-serif; margin: 2em; }
figure { margin: 2em 0; }
img { max-width: 100%; border: 1px solid #ccc; }
figcaption { color: #555; font-size: smaller; }
</style>
</head>
<body>
<h1>Benchmark report</h1>
{{- range .}}
<figure>
<img src="{{.}}" alt="{{.}}">
<figcaption>{{.}}</figcaption>
</figure>
{{- end}}
</body>
</html>
`))

// writeHTMLIndex writes an HTML page at p embedding each of the named
// images, which must live next to the page.
func writeHTMLIndex(p string, images []string) error {
	var pngs []string
	for _, name := range images {
		if path.Ext(name) == ".png" {
			pngs = append(pngs, name)
		}
	}
	f, err := os.Create(p)
	if err != nil {
		return err
	}
	if err := indexTemplate.Execute(f, pngs); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
