// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

/*
Package supervisor runs the long-lived services of the recommendation
server under a suture v4 tree.

	root ("folio")
	├── jobs-layer
	│   ├── RunnerService (drains the job runner on shutdown)
	│   └── SchedulerService (if recommend.run_interval or run_on_startup)
	├── messaging-layer
	│   └── TriggerService (if nats.enabled)
	└── api-layer
	    └── HTTPServerService

A failing bus consumer is restarted with backoff without touching the HTTP
server, and the reverse. Supervisor events are logged through sutureslog.

	tree, _ := supervisor.NewSupervisorTree(logging.NewSlogLogger(logger), supervisor.TreeConfig{})
	tree.AddJobService(services.NewRunnerService(runner, 30*time.Second))
	tree.AddAPIService(services.NewHTTPServerService(srv, 30*time.Second))
	err := tree.Serve(ctx)
*/
package supervisor
