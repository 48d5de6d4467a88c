// Package pipeline composes the per-request middleware chain of the
// user-account API.
//
// Every route declares an ordered list of stage descriptors (authentication,
// account-status gating, metadata injection, rate limiting, validation,
// sanitization, activity logging) plus a terminal handler. Routes are
// registered into a Registry at startup; registration enforces the stage
// ordering invariants and the table is immutable afterwards. The Executor
// binds descriptors to the injected collaborators and compiles each route
// into an http.Handler that runs stages in order over an exclusively-owned
// RequestContext, short-circuits on the first failure, and translates every
// failure into the uniform response envelope.
//
//	reg := pipeline.NewRegistry()
//	reg.MustRegister(pipeline.RouteSpec{
//		Method: http.MethodPut,
//		Path:   "/profile",
//		Stages: []pipeline.StageDescriptor{
//			pipeline.Auth(),
//			pipeline.AccountStatus(),
//			pipeline.Metadata(),
//			pipeline.RateLimit("profile_update"),
//			pipeline.Validate(&profileUpdate),
//			pipeline.Sanitize(),
//			pipeline.Log("UPDATE_PROFILE"),
//		},
//		Terminal: updateProfile,
//	})
//
//	exec, err := pipeline.NewExecutor(reg, comps)
//	http.ListenAndServe(":8080", exec.Handler())
package pipeline
