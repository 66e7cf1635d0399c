package policy

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// resourceColPattern splits the second bibliography column into a
// description and the URL: everything before the first "http" occurrence is
// description, the remainder is the link.
var resourceColPattern = regexp.MustCompile(`^(.*?)(http\S+)`)

// parseResources extracts the bibliography table from a References block.
// The header row is dropped, column 0 is the resource title and column 1 is
// "{description} {url}". A row without a recognizable URL yields no
// resource: catalog back matter requires a link.
func parseResources(lines []string) []Resource {
	end := -1
	for i, line := range lines {
		if strings.Contains(line, "</table>") {
			end = i
			break
		}
	}
	if end < 0 {
		return nil
	}
	rows := ExtractTable(lines, end)
	if len(rows) < 2 {
		return nil
	}

	var resources []Resource
	for _, row := range rows[1:] {
		if len(row) < 2 {
			continue
		}
		m := resourceColPattern.FindStringSubmatch(row[1])
		if m == nil {
			continue
		}
		resources = append(resources, Resource{
			UUID:        uuid.NewString(),
			Title:       row[0],
			Description: strings.TrimSpace(m[1]),
			Link:        m[2],
		})
	}
	return resources
}
