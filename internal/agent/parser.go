package agent

import "strings"

// ParseMedicines splits the free-text medicines payload into complete
// per-medicine strings. Semicolons separate medicines; when no
// semicolon-separated records survive, lines are tried; the whole
// payload is the final fallback so prescription details are never
// silently dropped.
func ParseMedicines(medicinesText string) []string {
	var medicines []string

	// Semicolon pass drops only literal marker echoes; a part like
	// "Medicines: Aspirin 100mg" is still a record.
	if strings.Contains(medicinesText, ";") {
		for _, part := range strings.Split(medicinesText, ";") {
			part = strings.TrimSpace(part)
			if part == "" || hasMarkerPrefix(part) {
				continue
			}
			medicines = append(medicines, part)
		}
	}

	if len(medicines) == 0 {
		for _, line := range strings.Split(medicinesText, "\n") {
			line = strings.TrimSpace(line)
			if line == "" || hasHeadingPrefix(line) {
				continue
			}
			medicines = append(medicines, line)
		}
	}

	if len(medicines) == 0 {
		if t := strings.TrimSpace(medicinesText); t != "" {
			medicines = append(medicines, t)
		}
	}
	return medicines
}

// hasMarkerPrefix matches the analysis markers themselves.
func hasMarkerPrefix(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "medicines_found") || strings.HasPrefix(lower, "appointment_found")
}

// hasHeadingPrefix matches loose heading lines like "Medicines listed
// below", filtered only in the line fallback.
func hasHeadingPrefix(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "medicines") || strings.HasPrefix(lower, "appointment")
}
