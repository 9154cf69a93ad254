// Package equivalency resolves which community college courses transfer as
// credit for a catalog course.
//
// The transfer-credit table is loaded from CSV:
//
//	table, err := equivalency.LoadTable("data/community_to_college.csv")
//	resolver, err := equivalency.NewResolver(table)
//	rows, err := resolver.Resolve(ctx, "01:198:112", distances)
//
// When the caller knows the student's distances to each college, the nearest
// five distinct colleges are returned. Otherwise every distinct college is
// returned in alphabetical order.
package equivalency
