// Package student contains the student record model of the ID registry.
//
// The package defines:
//
//   - Major: the program-of-study enum whose code prefixes every identifier
//   - Student: an issued, immutable record
//   - Registry: the ordered in-memory list held for the process lifetime
//   - Storage and Cache: interfaces implemented in infrastructure/persistence
//
// # Records
//
// A Student is created by the identifier service when a registration succeeds:
//
//	rec, err := svc.Issue(identifier.IssueParams{
//	    FirstName: "Dana",
//	    LastName:  "Omarova",
//	    Major:     student.MajorSoftwareEngineering,
//	    StartYear: "2025",
//	})
//	if err != nil {
//	    return err
//	}
//	registry.Add(rec)
//
// # Persistence
//
// The registry loads from and saves to a Storage. Storage backends persist the
// major by display name, so loading maps names back with MajorByName and reports
// rows it cannot map as SkippedRow values instead of failing:
//
//	skipped, err := registry.Load(ctx, storage)
//	for _, row := range skipped {
//	    fmt.Printf("row %d skipped: %v\n", row.Line, row.Reason)
//	}
package student
