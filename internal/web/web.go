// Package web holds the server-rendered pages and their static assets.
package web

import (
	"embed"
	"exam_system_backend/internal/export"
	"exam_system_backend/internal/model"
	"exam_system_backend/internal/util"
	"html/template"
	"io/fs"
	"net/http"
	"time"
	"unicode/utf8"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Templates parses every page. loc supplies the display timezone per call so
// config reloads take effect.
func Templates(loc func() *time.Location) (*template.Template, error) {
	return template.New("").Funcs(Funcs(loc)).ParseFS(templateFS, "templates/*.html")
}

func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

func Funcs(loc func() *time.Location) template.FuncMap {
	return template.FuncMap{
		"grade":       model.Grade,
		"gradeRemark": model.GradeRemark,
		"score":       export.FormatScore,
		"monthLabel":  export.MonthLabel,
		"truncate":    Truncate,
		"inc":         func(i int) int { return i + 1 },
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"datetime": func(t interface{}) string {
			switch v := t.(type) {
			case time.Time:
				if v.IsZero() {
					return "-"
				}
				return v.In(loc()).Format(util.DisplayTimeFormat)
			case *time.Time:
				if v == nil || v.IsZero() {
					return "-"
				}
				return v.In(loc()).Format(util.DisplayTimeFormat)
			}
			return "-"
		},
	}
}

// Truncate cuts s to n runes and appends "..." when it was longer.
func Truncate(n int, s string) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n]) + "..."
}
