// Package activity records append-only user activity events.
//
// The logger is best-effort by contract: Log never returns an error and a
// failing storage backend can never change the outcome of the request that
// triggered the record. Failures go to a diagnostics slog instead.
//
//	storage := activity.NewMongoStorage(db.Collection("user_activity"))
//	log := activity.NewLogger(storage,
//		activity.WithDiagnostics(diag),
//		activity.WithRequestIDExtractor(requestid.FromContextOK),
//	)
//	log.Log(ctx, userID, "UPDATE_PROFILE", activity.OutcomeSuccess)
package activity
