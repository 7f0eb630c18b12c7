// Package models defines domain entities and persistence interfaces for the trackseek resolution service.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight value types flowing through the engine
//   - [TrackDescriptor] : Canonical track metadata from the authoritative catalog
//   - [AlbumDescriptor] / [PlaylistDescriptor] : Catalog containers with ordered track lists
//   - [Candidate] : One unverified free-text search result
//   - [MatchResult] : Score breakdown and verdict for one candidate
//   - [Resolution] : Final engine outcome (locator, winning strategy, explanation)
//
// 2. Persistent Entities: Database-backed records with full lifecycle management
//   - [PersistedResolution] : Audit record of a successful resolution
//   - [ResolutionJob] : One batch run over an album or playlist
//
// Persistent entities implement the Model interface providing ID generation, timestamps, validation, and soft delete support.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
