// Package template expands template actions inside query strings before
// compilation, so saved queries can reference the current time or
// environment values.
package template

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"
)

func FuncMap() template.FuncMap {
	return template.FuncMap{
		"uuidv4": generateUUIDv4,
		"uuid":   generateUUIDv4, // Alias for uuidv4

		"now":       timeNow,
		"timestamp": timeUnix,

		"upper": strings.ToUpper,
		"lower": strings.ToLower,
		"trim":  strings.TrimSpace,

		"env": os.Getenv,
	}
}

// Expand renders any template actions in a query string. Queries without
// actions pass through unchanged.
func Expand(query string) (string, error) {
	if !strings.Contains(query, "{{") {
		return query, nil
	}

	tmpl, err := template.New("query").Funcs(FuncMap()).Parse(query)
	if err != nil {
		return "", fmt.Errorf("parse query template: %w", err)
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, nil); err != nil {
		return "", fmt.Errorf("expand query template: %w", err)
	}

	return b.String(), nil
}

func generateUUIDv4() string {
	return uuid.New().String()
}

func timeNow() string {
	return time.Now().Format(time.RFC3339)
}

func timeUnix() string {
	return strconv.FormatInt(time.Now().Unix(), 10)
}
