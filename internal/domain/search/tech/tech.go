// Package tech maps free text to technology tags via keyword patterns.
package tech

import "strings"

// patterns maps a technology tag to the trigger substrings that imply it.
// Immutable reference data, shared read-only across all requests.
var patterns = map[string][]string{
	"python":     {"python", "django", "flask", "fastapi", "pandas", "numpy", "pip install"},
	"javascript": {"javascript", "node.js", "nodejs", "npm", "react", "vue", "express"},
	"typescript": {"typescript", "tsconfig", "ts-node", "angular", "nestjs", "deno"},
	"java":       {"java", "spring boot", "maven", "gradle", "jvm", "hibernate"},
	"csharp":     {"csharp", "c#", "dotnet", ".net", "asp.net", "nuget"},
	"go":         {"golang", "goroutine", "go module", "gin-gonic", "gorm"},
	"rust":       {"rust", "cargo", "tokio", "rustc", "crates.io"},
	"php":        {"php", "laravel", "symfony", "composer", "wordpress"},
	"ruby":       {"ruby", "rails", "rubygems", "bundler", "sinatra"},
	"docker":     {"docker", "dockerfile", "container image", "compose file"},
	"kubernetes": {"kubernetes", "k8s", "kubectl", "helm", "ingress controller"},
	"aws":        {"aws", "amazon web services", "s3 bucket", "ec2", "lambda function", "dynamodb"},
	"azure":      {"azure", "cosmos db", "app service", "entra id"},
	"gcp":        {"gcp", "google cloud", "bigquery", "gke", "cloud run"},
	"terraform":  {"terraform", "hcl", "tfstate", "infrastructure as code"},
	"postgresql": {"postgres", "postgresql", "psql", "pgadmin"},
	"redis":      {"redis", "valkey", "rueidis"},
}

// Tags returns the set of technology tags whose trigger substrings appear in
// text. Matching is case-insensitive substring containment; no matches
// returns an empty set.
func Tags(text string) map[string]bool {
	lowered := strings.ToLower(text)
	found := make(map[string]bool)
	for tag, triggers := range patterns {
		for _, tr := range triggers {
			if strings.Contains(lowered, tr) {
				found[tag] = true
				break
			}
		}
	}
	return found
}

// Triggers returns the trigger substrings for a tag, or nil for unknown tags.
func Triggers(tag string) []string {
	return patterns[strings.ToLower(tag)]
}

// Known reports whether tag is a recognised technology.
func Known(tag string) bool {
	_, ok := patterns[strings.ToLower(tag)]
	return ok
}
