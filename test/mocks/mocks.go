// test/mocks/mocks.go

// Package mocks contains generated mocks for the application's interfaces.
// To regenerate mocks, run `make mocks` from the root directory.
package mocks

//go:generate mockgen -source=../../internal/core/ports/repositories.go -destination=repositories_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/collaborators.go -destination=collaborators_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/sync_service.go -destination=sync_service_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/cache.go -destination=cache_repository_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/services/upload.go -destination=sync_db_mock.go -package=mocks SyncDB
//go:generate mockgen -source=../../internal/core/registry/registry.go -destination=entity_handler_mock.go -package=mocks EntityHandler
