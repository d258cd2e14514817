// Package files stores tables on disk for the analytics service.
//
// Storage is split in two areas:
//
//	primary   uploads, named upload_<unix>.<ext> or manual_<unix>.csv
//	derived   outputs such as cleaned_*, std_*, masked_* and saved tables
//
// Bare names are resolved derived first, then primary. Every write goes
// through a temp file and a rename so a failed encode or write never leaves
// a truncated table behind.
//
// Save implements the conflict-checked write protocol used by the editor:
//
//	res, err := store.Save(ctx, files.SaveRequest{
//	    Filename: "scores_v2.csv",
//	    Table:    table,
//	    Mode:     files.SaveNewOutput,
//	})
//	if apperrors.IsConflict(err) {
//	    // ask the user, then resend with OverwriteConfirmed
//	}
package files
