package badger

// Key prefixes for different data types
const (
	courseVectorPrefix = "crsvec:"
)

// makeCourseVectorKey generates a key for a course vector by course string.
// Format: prefix:courseString
func makeCourseVectorKey(id string) []byte {
	buf := make([]byte, 0, len(courseVectorPrefix)+len(id))
	buf = append(buf, courseVectorPrefix...)
	return append(buf, id...)
}
