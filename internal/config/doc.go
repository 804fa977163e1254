// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

/*
Package config loads Folio configuration with koanf.

Sources are layered, later ones winning:
 1. built-in defaults
 2. an optional YAML file (CONFIG_PATH, ./config.yaml, /etc/folio/config.yaml)
 3. environment variables

Only environment variables listed in the mapping table are read, for example:

	DUCKDB_PATH                 database.path
	RECOMMEND_TOP_WORKS         recommend.top_works
	RECOMMEND_SELF_EXCLUSION    recommend.self_exclusion
	RECOMMEND_RUN_INTERVAL      recommend.run_interval
	REDIS_ENABLED               redis.enabled
	NATS_ENABLED                nats.enabled
	JWT_SECRET                  security.jwt_secret

Example config.yaml:

	database:
	  path: /data/folio.duckdb
	recommend:
	  run_interval: 6h
	  knn:
	    k: 40
	jobs:
	  store: badger
	  path: /data/jobs

Validation runs validator struct tags and then cross-field checks. Load
fails on the first invalid setting.
*/
package config
