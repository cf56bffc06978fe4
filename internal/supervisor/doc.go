// Tanimoto - Item-to-Item Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tanimoto

/*
Package supervisor runs the service's long-lived components under suture v4.

	RootSupervisor ("tanimoto")
	├── DataSupervisor ("data-layer")
	│   └── BatchService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services restart with exponential backoff. The layers restart
independently, so a failing batch source never takes the query API down;
the API keeps serving the last published index.

Supervisor events are logged through sutureslog into the zerolog-backed
slog handler from internal/logging:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddDataService(services.NewBatchService(pipeline, cfg, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	err = tree.Serve(ctx)

See internal/supervisor/services for the service wrappers.
*/
package supervisor
