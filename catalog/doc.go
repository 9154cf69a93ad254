// Package catalog holds the immutable course catalog and its lookup indices.
//
// A Store is built once from the course dataset and never modified:
//
//	store, err := catalog.Load("data/courses.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	course, ok := store.ByCode("01:198:112")
//
// Lookups by title, code and instructor are constant time. Code suffix and
// instructor substring lookups scan in dataset order. Every method is safe for
// concurrent use without locking because nothing is written after construction.
package catalog
