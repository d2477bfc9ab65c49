package cache

// Cache tags and paths invalidated by the submission pipeline. Tag names
// match what the record-editing clients key their cached views on.
const (
	TagStudents    = "students"
	TagMedications = "medications"
	// TagList is the generic list tag invalidated alongside every
	// collection tag.
	TagList = "list"

	PathStudents    = "/students"
	PathMedications = "/medications"
)

// ItemTag returns the item-specific tag for one record, e.g.
// "students:42".
func ItemTag(collection, id string) string {
	return collection + ":" + id
}

// ItemPath returns the item page path for one record, e.g. "/students/42".
func ItemPath(collection, id string) string {
	return "/" + collection + "/" + id
}
