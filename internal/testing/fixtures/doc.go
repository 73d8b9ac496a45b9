// Package fixtures provides test data factories for acceptance tests.
//
// The Factory creates records through the real repositories so fixture
// data always matches what production code writes. Every creator takes
// *testing.T and fails the test on error, keeping test bodies free of
// setup error handling.
//
// Usage:
//
//	tdb := testdb.New(t)
//	defer tdb.Close()
//	f := fixtures.New(tdb.DB)
//
//	organizer := f.CreateUser(t)
//	club := f.CreateClub(t, organizer, fixtures.WithClubName("Chess Club"))
//	member := f.CreateUser(t)
//	f.AddMember(t, member, club, model.RoleMember)
//
// Creators use option functions for overrides; defaults generate unique
// values (random emails, club names) so fixtures never collide within a
// shared database.
package fixtures
