// Package web содержит встроенные в бинарник шаблоны и статику.
package web

import "embed"

//go:embed templates/*.html
var Templates embed.FS

//go:embed static
var Static embed.FS
