package lesson

import "github.com/fulmenhq/lessonkit/pkg/catalog"

const (
	prerequisitesPath = "skill_tree.prerequisites"
	unlocksPath       = "skill_tree.unlocks"

	prerequisiteWhyNeeded = "Provides foundational concepts for this lesson"
	unlockConnection      = "Builds upon concepts from this lesson"
)

type prerequisiteLink struct {
	LessonID  string `json:"lesson_id"`
	Title     string `json:"title"`
	WhyNeeded string `json:"why_needed"`
}

type unlockLink struct {
	LessonID   string `json:"lesson_id"`
	Title      string `json:"title"`
	Connection string `json:"connection"`
}

func normalizePrerequisites(d *Document, tables Tables) Change {
	const field = "prereqs"

	list := DecodeLinkList(d.Get(prerequisitesPath))
	if list.Shape != ShapeLegacy {
		return unchanged(field, linkStatus(list.Shape))
	}
	links := make([]prerequisiteLink, 0, len(list.IDs))
	for _, id := range list.IDs {
		links = append(links, prerequisiteLink{LessonID: id, Title: titleFor(tables, id), WhyNeeded: prerequisiteWhyNeeded})
	}
	d.set(prerequisitesPath, links)
	return changed(field, StatusConverted)
}

func normalizeUnlocks(d *Document, tables Tables) Change {
	const field = "unlocks"

	list := DecodeLinkList(d.Get(unlocksPath))
	if list.Shape != ShapeLegacy {
		return unchanged(field, linkStatus(list.Shape))
	}
	links := make([]unlockLink, 0, len(list.IDs))
	for _, id := range list.IDs {
		links = append(links, unlockLink{LessonID: id, Title: titleFor(tables, id), Connection: unlockConnection})
	}
	d.set(unlocksPath, links)
	return changed(field, StatusConverted)
}

func linkStatus(s Shape) Status {
	switch s {
	case ShapeMissing:
		return StatusEmpty
	case ShapeCanonical:
		return StatusAlreadyObject
	default:
		return StatusUnknownType
	}
}

func titleFor(tables Tables, id string) string {
	if t, ok := tables.Lookup(catalog.Titles, id); ok {
		return t
	}
	logDefaultMiss(catalog.Titles, id)
	return id
}
