package utils

import (
	"strings"

	"eldato-web/models"
)

// FilterServices keeps the services matching the category and the free text of search.
// Text matches the title, description, category and provider name ignoring case.
func FilterServices(services []models.Service, search models.ServiceSearch) []models.Service {
	query := strings.ToLower(strings.TrimSpace(search.Query))
	out := make([]models.Service, 0, len(services))
	for _, s := range services {
		if search.CategoryID != 0 && s.CategoryID != search.CategoryID {
			continue
		}
		if query != "" && !matchesText(s, query) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func matchesText(s models.Service, query string) bool {
	for _, field := range []string{s.Title, s.Description, s.CategoryName, s.ProviderName} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}
