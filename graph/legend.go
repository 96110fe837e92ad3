package graph

import "sort"

// CategoryInfo describes one palette bucket present in a graph
type CategoryInfo struct {
	Category int    `json:"category"`
	Color    string `json:"color"`
	Count    int    `json:"count"`
}

// RelationshipTypeInfo describes one relationship type present in a graph
type RelationshipTypeInfo struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// Legend summarizes the categories and relationship types a renderer draws
type Legend struct {
	Categories        []CategoryInfo         `json:"categories"`
	RelationshipTypes []RelationshipTypeInfo `json:"relationship_types"`
}

// Legend collects category and relationship type counts for g. Nodes are
// expected to carry categories already (see Colorize). Entries are sorted by
// count, most common first.
func (p Palette) Legend(g *Graph) Legend {
	categoryCounts := make(map[int]int)
	for _, node := range g.Nodes {
		categoryCounts[node.Category]++
	}

	categories := make([]CategoryInfo, 0, len(categoryCounts))
	for category, count := range categoryCounts {
		categories = append(categories, CategoryInfo{
			Category: category,
			Color:    p.Color(category),
			Count:    count,
		})
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].Count != categories[j].Count {
			return categories[i].Count > categories[j].Count
		}
		return categories[i].Category < categories[j].Category
	})

	typeCounts := make(map[string]int)
	for _, link := range g.Links {
		typeCounts[link.Type]++
	}

	relationshipTypes := make([]RelationshipTypeInfo, 0, len(typeCounts))
	for linkType, count := range typeCounts {
		relationshipTypes = append(relationshipTypes, RelationshipTypeInfo{
			Type:  linkType,
			Count: count,
		})
	}
	sort.Slice(relationshipTypes, func(i, j int) bool {
		if relationshipTypes[i].Count != relationshipTypes[j].Count {
			return relationshipTypes[i].Count > relationshipTypes[j].Count
		}
		return relationshipTypes[i].Type < relationshipTypes[j].Type
	})

	return Legend{
		Categories:        categories,
		RelationshipTypes: relationshipTypes,
	}
}
